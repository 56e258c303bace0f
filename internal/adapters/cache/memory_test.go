package cache

import (
	"sync"
	"testing"
	"time"

	"xhs-resolver/internal/domain"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore(ttl time.Duration) (*MemorySessions, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return newMemorySessions(ttl, clock.Now), clock
}

func setInput(text string) func(domain.State, bool) domain.State {
	return func(s domain.State, _ bool) domain.State {
		s.Input = text
		return s
	}
}

func TestMemorySessions_UpdateAndGet_ReturnsState(t *testing.T) {
	// Arrange
	s, _ := newTestStore(time.Hour)
	defer s.Close()

	// Act
	s.Update("s1", setInput("hello"))
	state, found := s.Get("s1")

	// Assert
	if !found {
		t.Fatal("expected session to be found")
	}
	if state.Input != "hello" {
		t.Errorf("Input: got %q", state.Input)
	}
}

func TestMemorySessions_GetUnknown_ReturnsNotFound(t *testing.T) {
	// Arrange
	s, _ := newTestStore(time.Hour)
	defer s.Close()

	// Act
	_, found := s.Get("missing")

	// Assert
	if found {
		t.Error("expected session to not be found")
	}
}

func TestMemorySessions_Update_ReportsFound(t *testing.T) {
	// Arrange
	s, _ := newTestStore(time.Hour)
	defer s.Close()
	var seen []bool
	record := func(st domain.State, found bool) domain.State {
		seen = append(seen, found)
		return st
	}

	// Act
	s.Update("s1", record)
	s.Update("s1", record)

	// Assert
	if len(seen) != 2 || seen[0] || !seen[1] {
		t.Errorf("found flags: got %v, want [false true]", seen)
	}
}

func TestMemorySessions_Expired_StartsFresh(t *testing.T) {
	// Arrange
	s, clock := newTestStore(10 * time.Minute)
	defer s.Close()
	s.Update("s1", setInput("old"))

	// Act
	clock.Advance(11 * time.Minute)
	_, found := s.Get("s1")
	var wasFound bool
	state := s.Update("s1", func(st domain.State, f bool) domain.State {
		wasFound = f
		return st
	})

	// Assert
	if found {
		t.Error("expired session should not be returned")
	}
	if wasFound || state.Input != "" {
		t.Errorf("expired session should restart empty, got found=%v input=%q", wasFound, state.Input)
	}
}

func TestMemorySessions_Update_SlidesExpiry(t *testing.T) {
	// Arrange
	s, clock := newTestStore(10 * time.Minute)
	defer s.Close()
	s.Update("s1", setInput("a"))

	// Act
	clock.Advance(8 * time.Minute)
	s.Update("s1", setInput("b"))
	clock.Advance(8 * time.Minute)
	state, found := s.Get("s1")

	// Assert
	if !found || state.Input != "b" {
		t.Errorf("session should still be live, got found=%v input=%q", found, state.Input)
	}
}

func TestMemorySessions_Sweep_RemovesExpiredAndUpdatesLen(t *testing.T) {
	// Arrange
	s, clock := newTestStore(10 * time.Minute)
	defer s.Close()
	s.Update("old", setInput("x"))
	clock.Advance(6 * time.Minute)
	s.Update("new", setInput("y"))

	// Act
	clock.Advance(5 * time.Minute)
	s.Sweep()

	// Assert
	if s.Len() != 1 {
		t.Errorf("Len: got %d, want 1", s.Len())
	}
	if _, found := s.Get("new"); !found {
		t.Error("live session should survive sweep")
	}
}

func TestMemorySessions_ConcurrentUpdates_AreSerialized(t *testing.T) {
	// Arrange
	s, _ := newTestStore(time.Hour)
	defer s.Close()
	var wg sync.WaitGroup

	// Act
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update("s1", func(st domain.State, _ bool) domain.State {
				st.HistoryLimit++
				return st
			})
		}()
	}
	wg.Wait()

	// Assert
	state, _ := s.Get("s1")
	if state.HistoryLimit != 50 {
		t.Errorf("lost updates: got %d, want 50", state.HistoryLimit)
	}
	if s.Len() != 1 {
		t.Errorf("Len: got %d, want 1", s.Len())
	}
}
