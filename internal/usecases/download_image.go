package usecases

import (
	"context"
	"errors"
	"time"

	"xhs-resolver/internal/domain"
	"xhs-resolver/pkg/log"
	"xhs-resolver/pkg/metrics"

	"golang.org/x/sync/singleflight"
)

// ImageFetcher retrieves raw image bytes from a URL.
type ImageFetcher interface {
	Name() string
	Fetch(ctx context.Context, url string) (domain.Image, error)
}

// DownloadImageUseCase fetches the HD image for a trace ID so it can be
// served as a file. Failures are reported as *domain.DownloadFailure,
// whose FallbackURL the caller should send the user to instead.
type DownloadImageUseCase struct {
	fetcher ImageFetcher
	metrics *metrics.Metrics
	group   singleflight.Group
}

// NewDownloadImageUseCase creates a new DownloadImageUseCase.
func NewDownloadImageUseCase(fetcher ImageFetcher, m *metrics.Metrics) *DownloadImageUseCase {
	return &DownloadImageUseCase{fetcher: fetcher, metrics: m}
}

// Execute downloads the image for traceID. Concurrent calls for the same
// trace ID share a single upstream fetch.
func (uc *DownloadImageUseCase) Execute(ctx context.Context, traceID string) (*domain.Download, error) {
	if id, ok := domain.ExtractTraceID(traceID); !ok || id != traceID {
		return nil, domain.ErrNoMatch
	}

	url := domain.HDURL(traceID)
	ctx = log.WithFields(ctx, "trace_id", traceID)

	// The shared fetch must outlive any single caller's cancellation;
	// the fetcher applies its own timeout.
	ch := uc.group.DoChan(traceID, func() (any, error) {
		return uc.fetch(context.WithoutCancel(ctx), url)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, uc.Fallback(ctx, traceID, ctx.Err())
	}

	if res.Err != nil {
		return nil, uc.Fallback(ctx, traceID, res.Err)
	}

	img := res.Val.(domain.Image)
	uc.metrics.Downloads.WithLabelValues(metrics.TierDirect).Inc()
	log.GlobalInfoCtx(ctx, "image downloaded", "bytes", len(img.Data), "shared", res.Shared)

	return &domain.Download{
		TraceID:  traceID,
		Filename: domain.Filename(traceID),
		Image:    img,
	}, nil
}

// Fallback records that traceID is served by redirect and returns the
// failure describing where to send the user.
func (uc *DownloadImageUseCase) Fallback(ctx context.Context, traceID string, cause error) *domain.DownloadFailure {
	uc.metrics.Downloads.WithLabelValues(metrics.TierFallback).Inc()
	log.GlobalWarnCtx(ctx, "direct download failed, falling back to redirect", "trace_id", traceID, "error", cause)

	return &domain.DownloadFailure{
		TraceID:     traceID,
		FallbackURL: domain.HDURL(traceID),
		Err:         cause,
	}
}

func (uc *DownloadImageUseCase) fetch(ctx context.Context, url string) (domain.Image, error) {
	start := time.Now()
	img, err := uc.fetcher.Fetch(ctx, url)

	result := "ok"
	if err != nil {
		result = "error"
	} else if len(img.Data) == 0 {
		result = "error"
		err = errors.New("empty response body")
	}
	uc.metrics.FetchDuration.WithLabelValues(uc.fetcher.Name(), result).Observe(time.Since(start).Seconds())

	return img, err
}
