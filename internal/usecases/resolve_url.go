package usecases

import (
	"context"
	"errors"
	"time"

	"xhs-resolver/internal/domain"
	"xhs-resolver/pkg/log"
	"xhs-resolver/pkg/metrics"
)

// ResolveURLUseCase turns pasted text into a ResolutionResult.
type ResolveURLUseCase struct {
	now     func() time.Time
	metrics *metrics.Metrics
}

// NewResolveURLUseCase creates a new ResolveURLUseCase.
func NewResolveURLUseCase(m *metrics.Metrics, now func() time.Time) *ResolveURLUseCase {
	if now == nil {
		now = time.Now
	}
	return &ResolveURLUseCase{now: now, metrics: m}
}

// Execute resolves input. EmptyInput and NoMatch are ordinary outcomes and
// are returned as domain errors without being logged as failures.
func (uc *ResolveURLUseCase) Execute(ctx context.Context, input string) (domain.ResolutionResult, error) {
	r, err := domain.NewResolutionResult(input, uc.now())
	uc.observe(err)
	if err != nil {
		return domain.ResolutionResult{}, err
	}

	log.GlobalDebugCtx(ctx, "resolved", "trace_id", r.TraceID)
	return r, nil
}

func (uc *ResolveURLUseCase) observe(err error) {
	outcome := metrics.OutcomeResolved
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		outcome = metrics.OutcomeEmpty
	case errors.Is(err, domain.ErrNoMatch):
		outcome = metrics.OutcomeNoMatch
	}
	uc.metrics.Resolutions.WithLabelValues(outcome).Inc()
}
