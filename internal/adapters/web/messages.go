package web

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"xhs-resolver/internal/domain"
	"xhs-resolver/pkg/log"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when the client asks for nothing we have.
const DefaultLocale = "en"

// Messages is the UI copy catalog, keyed by locale then message key.
// The backing file is re-read when its mod time changes.
type Messages struct {
	mu          sync.RWMutex
	locales     map[string]map[string]string
	lastModTime time.Time
	filePath    string

	stop     chan struct{}
	stopOnce sync.Once
}

// LoadMessages reads the catalog at filePath. A positive reloadEvery
// starts a background watcher that picks up edits.
func LoadMessages(filePath string, reloadEvery time.Duration) (*Messages, error) {
	m := &Messages{filePath: filePath, stop: make(chan struct{})}
	if err := m.reload(); err != nil {
		return nil, err
	}

	if reloadEvery > 0 {
		go m.watch(reloadEvery)
	}
	return m, nil
}

// NewMessages builds a static catalog, mostly for tests.
func NewMessages(locales map[string]map[string]string) *Messages {
	return &Messages{locales: locales, stop: make(chan struct{})}
}

// reload reads the catalog from the file.
func (m *Messages) reload() error {
	info, err := os.Stat(m.filePath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(m.filePath)
	if err != nil {
		return err
	}

	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", m.filePath, err)
	}
	if _, ok := raw[DefaultLocale]; !ok {
		return fmt.Errorf("parse %s: missing %q locale", m.filePath, DefaultLocale)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.locales = raw
	m.lastModTime = info.ModTime()
	return nil
}

// checkReload re-reads the file when it changed since the last load.
// A broken edit keeps the previous catalog.
func (m *Messages) checkReload() {
	info, err := os.Stat(m.filePath)
	if err != nil {
		return
	}

	m.mu.RLock()
	changed := info.ModTime().After(m.lastModTime)
	m.mu.RUnlock()
	if !changed {
		return
	}

	if err := m.reload(); err != nil {
		log.GlobalWarn("message catalog reload failed", "path", m.filePath, "error", err)
		return
	}
	log.GlobalInfo("message catalog reloaded", "path", m.filePath)
}

// watch monitors the catalog file for changes.
func (m *Messages) watch(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.checkReload()
		case <-m.stop:
			return
		}
	}
}

// Close stops the watcher.
func (m *Messages) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Get returns the message for key in locale, falling back to the
// default locale and finally to the key itself.
func (m *Messages) Get(locale, key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if msg, ok := m.locales[locale][key]; ok {
		return msg
	}
	if msg, ok := m.locales[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Translator returns a lookup bound to locale.
func (m *Messages) Translator(locale string) func(key string) string {
	return func(key string) string { return m.Get(locale, key) }
}

// Locale picks the first language in an Accept-Language header that the
// catalog has, matching on the primary subtag.
func (m *Messages) Locale(acceptLanguage string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		primary, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(tag)), "-")
		if _, ok := m.locales[primary]; ok {
			return primary
		}
	}
	return DefaultLocale
}

// errorKey maps a domain error to its message key.
func errorKey(err error) string {
	var failure *domain.DownloadFailure
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return "error_empty_input"
	case errors.Is(err, domain.ErrNoMatch):
		return "error_no_match"
	case errors.Is(err, domain.ErrRateLimited):
		return "error_rate_limited"
	case errors.Is(err, domain.ErrHistoryEntryNotFound):
		return "error_history_missing"
	case errors.As(err, &failure):
		return "error_download_failed"
	default:
		return "error_generic"
	}
}
