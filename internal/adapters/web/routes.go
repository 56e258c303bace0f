package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteOptions configures SetupRoutes.
type RouteOptions struct {
	StaticDir     string
	MetricsPath   string
	SessionCookie string
	SessionTTL    time.Duration
	// Gatherer backs the metrics route. Nil disables it.
	Gatherer prometheus.Gatherer
}

// SetupRoutes configures the application routes.
func SetupRoutes(app *fiber.App, h *Handlers, opts RouteOptions) {
	if opts.StaticDir != "" {
		app.Static("/static", opts.StaticDir)
	}

	app.Get("/healthz", h.Healthz)
	if opts.Gatherer != nil && opts.MetricsPath != "" {
		app.Get(opts.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// Stateless JSON resolve
	app.Get("/api/resolve", h.APIResolve)

	// Session-backed page and its events
	session := SessionMiddleware(opts.SessionCookie, opts.SessionTTL)
	app.Get("/", session, h.Home)
	app.Post("/input", session, h.Input)
	app.Post("/resolve", session, h.Resolve)
	app.Post("/settings/auto-download", session, h.ToggleAutoDownload)
	app.Post("/history/clear", session, h.ClearHistory)
	app.Post("/history/:traceID", session, h.SelectHistory)
	app.Post("/clear", session, h.Clear)
	app.Post("/example", session, h.Example)

	app.Get("/download/:traceID", h.Download)
}
