package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"xhs-resolver/internal/domain"
)

// MemorySessions keeps resolver state per session in memory with a
// sliding TTL. Expired sessions behave as if they never existed.
type MemorySessions struct {
	sessions sync.Map // id -> *sessionEntry
	count    atomic.Int64
	ttl      time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// sessionEntry holds one session's state with expiration metadata.
type sessionEntry struct {
	mu        sync.Mutex
	state     domain.State
	live      bool
	removed   bool
	expiresAt time.Time
}

// NewMemorySessions creates a store whose sessions expire after ttl of inactivity.
func NewMemorySessions(ttl time.Duration) *MemorySessions {
	return newMemorySessions(ttl, time.Now)
}

func newMemorySessions(ttl time.Duration, now func() time.Time) *MemorySessions {
	s := &MemorySessions{ttl: ttl, now: now, stop: make(chan struct{})}
	go s.cleanup(time.Minute)
	return s
}

// Get returns the state for id when the session is live.
func (s *MemorySessions) Get(id string) (domain.State, bool) {
	value, ok := s.sessions.Load(id)
	if !ok {
		return domain.State{}, false
	}

	entry := value.(*sessionEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if !entry.live || entry.removed || s.now().After(entry.expiresAt) {
		return domain.State{}, false
	}
	return entry.state, true
}

// Update runs fn with the session locked and stores the result,
// extending the session's lifetime.
func (s *MemorySessions) Update(id string, fn func(domain.State, bool) domain.State) domain.State {
	for {
		value, _ := s.sessions.LoadOrStore(id, &sessionEntry{})
		entry := value.(*sessionEntry)

		entry.mu.Lock()
		if entry.removed {
			// lost a race with cleanup; retry with a fresh entry
			entry.mu.Unlock()
			continue
		}

		now := s.now()
		found := entry.live && !now.After(entry.expiresAt)
		current := entry.state
		if !found {
			current = domain.State{}
		}

		next := fn(current, found)
		if !entry.live {
			s.count.Add(1)
		}
		entry.state = next
		entry.live = true
		entry.expiresAt = now.Add(s.ttl)
		entry.mu.Unlock()

		return next
	}
}

// Len is the number of sessions currently held, including expired ones
// not yet swept.
func (s *MemorySessions) Len() int {
	return int(s.count.Load())
}

// Close stops the background sweeper.
func (s *MemorySessions) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Sweep removes expired sessions.
func (s *MemorySessions) Sweep() {
	now := s.now()
	s.sessions.Range(func(key, value any) bool {
		entry := value.(*sessionEntry)
		entry.mu.Lock()
		if entry.live && now.After(entry.expiresAt) {
			entry.removed = true
			s.sessions.Delete(key)
			s.count.Add(-1)
		}
		entry.mu.Unlock()
		return true
	})
}

// cleanup periodically sweeps expired sessions.
func (s *MemorySessions) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}
