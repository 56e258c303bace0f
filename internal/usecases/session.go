package usecases

import (
	"context"

	"xhs-resolver/internal/domain"
	"xhs-resolver/pkg/log"
)

// SessionStore keeps one State per session ID.
type SessionStore interface {
	Get(id string) (domain.State, bool)
	// Update runs fn under the session's lock and stores its result.
	// found is false when the session is new or expired.
	Update(id string, fn func(s domain.State, found bool) domain.State) domain.State
}

// SessionUseCase drives the resolver page state machine for a session.
type SessionUseCase struct {
	store        SessionStore
	resolver     *ResolveURLUseCase
	historyLimit int
}

// NewSessionUseCase creates a new SessionUseCase.
func NewSessionUseCase(store SessionStore, resolver *ResolveURLUseCase, historyLimit int) *SessionUseCase {
	return &SessionUseCase{store: store, resolver: resolver, historyLimit: historyLimit}
}

// Load returns the session state, starting a fresh one from settings when
// the session is unknown.
func (uc *SessionUseCase) Load(id string, settings domain.Settings) domain.State {
	if s, ok := uc.store.Get(id); ok {
		return s
	}
	return uc.store.Update(id, func(s domain.State, found bool) domain.State {
		if found {
			return s
		}
		return domain.NewState(settings, uc.historyLimit)
	})
}

// Dispatch applies events to the session and returns the new state.
// settings seed the state only when the session does not exist yet.
func (uc *SessionUseCase) Dispatch(ctx context.Context, id string, settings domain.Settings, events ...domain.Event) domain.State {
	return uc.store.Update(id, func(s domain.State, found bool) domain.State {
		if !found {
			s = domain.NewState(settings, uc.historyLimit)
		}
		for _, e := range events {
			s = uc.apply(ctx, s, e)
		}
		return s
	})
}

// apply observes ResolveClicked the same way ResolveURLUseCase does, so
// pages, the API and the CLI share one resolutions metric.
func (uc *SessionUseCase) apply(ctx context.Context, s domain.State, e domain.Event) domain.State {
	rc, ok := e.(domain.ResolveClicked)
	if !ok {
		return e.Apply(s)
	}

	if rc.Now.IsZero() {
		rc.Now = uc.resolver.now()
	}
	next := rc.Apply(s)
	uc.resolver.observe(next.Err)
	if next.Err == nil {
		log.GlobalInfoCtx(ctx, "session resolved", "trace_id", next.Result.TraceID, "history", len(next.History))
	}
	return next
}
