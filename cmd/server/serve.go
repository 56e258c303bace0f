package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"xhs-resolver/internal/adapters/cache"
	"xhs-resolver/internal/adapters/web"
	"xhs-resolver/internal/config"
	"xhs-resolver/internal/usecases"
	"xhs-resolver/pkg/log"
	"xhs-resolver/pkg/log/transporters"
	"xhs-resolver/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(configPath *string, fetchers fetcherFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, fetchers)
		},
	}
}

// newLogger builds the application logger from config.
func newLogger(cfg config.Log) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	ts := []log.Transporter{transporters.NewStdoutWithWriter(os.Stdout, transporters.Format(cfg.Format))}
	if cfg.FilePath != "" {
		ts = append(ts, transporters.NewFile(transporters.FileOptions{
			Path:       cfg.FilePath,
			MaxSizeMB:  cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAgeDays: cfg.MaxAgeDays,
			Compress:   true,
		}))
	}
	return log.New(level, ts...), nil
}

func serve(ctx context.Context, cfg *config.Config, fetchers fetcherFactory) error {
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	log.SetDefault(logger)
	defer logger.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)
	metrics.RegisterLogDrops(reg, logger.Dropped)

	messages, err := web.LoadMessages(cfg.Messages.Path, cfg.Messages.ReloadInterval)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	defer messages.Close()

	imageFetcher, closeFetcher, err := fetchers(cfg.Fetcher)
	if err != nil {
		return err
	}
	defer closeFetcher()

	sessions := cache.NewMemorySessions(cfg.Session.TTL)
	defer sessions.Close()
	metrics.RegisterSessions(reg, sessions.Len)

	limiter := web.NewRateLimiter(cfg.RateLimit.Downloads, cfg.RateLimit.Window)
	defer limiter.Close()

	resolver := usecases.NewResolveURLUseCase(m, nil)
	handlers := web.NewHandlers(web.Deps{
		Sessions:  usecases.NewSessionUseCase(sessions, resolver, cfg.Session.HistorySize),
		Resolver:  resolver,
		Downloads: usecases.NewDownloadImageUseCase(imageFetcher, m),
		Messages:  messages,
		Limiter:   limiter,
	}, web.Options{
		AppName:        cfg.Server.AppName,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	app := fiber.New(fiber.Config{
		AppName:               "xhs-resolver",
		ReadTimeout:           cfg.Server.RequestTimeout,
		WriteTimeout:          cfg.Server.RequestTimeout,
		DisableStartupMessage: true,
	})

	// Middleware order matters: requestid -> context bridge -> logger
	app.Use(recover.New())
	app.Use(requestid.New(web.RequestIDConfig()))
	app.Use(web.RequestIDToContextMiddleware())
	app.Use(web.RequestLoggerMiddleware())

	web.SetupRoutes(app, handlers, web.RouteOptions{
		StaticDir:     cfg.Server.StaticDir,
		MetricsPath:   cfg.Server.MetricsPath,
		SessionCookie: cfg.Session.CookieName,
		SessionTTL:    cfg.Session.TTL,
		Gatherer:      reg,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Server.Addr)
	}()
	log.GlobalInfo("server started", "addr", cfg.Server.Addr, "fetcher", imageFetcher.Name())

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.GlobalInfo("server shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
