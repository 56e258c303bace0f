package main

import (
	"fmt"

	"xhs-resolver/internal/adapters/fetcher"
	"xhs-resolver/internal/config"
	"xhs-resolver/internal/usecases"
)

// fetcherFactory builds the configured ImageFetcher and a func releasing it.
type fetcherFactory func(cfg config.Fetcher) (usecases.ImageFetcher, func(), error)

func newFetcher(cfg config.Fetcher) (usecases.ImageFetcher, func(), error) {
	switch cfg.Mode {
	case "browser":
		pool, err := fetcher.NewBrowserPool(fetcher.BrowserOptions{
			ExecPath:  cfg.ChromePath,
			RemoteURL: cfg.ChromeURL,
			MaxTabs:   cfg.MaxTabs,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("start browser: %w", err)
		}
		return fetcher.NewBrowserFetcher(pool, cfg.Timeout, cfg.MaxBytes), pool.Close, nil
	default:
		f := fetcher.NewHTTPFetcher(nil, fetcher.HTTPOptions{
			Timeout:   cfg.Timeout,
			MaxBytes:  cfg.MaxBytes,
			UserAgent: cfg.UserAgent,
			Referer:   cfg.Referer,
		})
		return f, func() {}, nil
	}
}
