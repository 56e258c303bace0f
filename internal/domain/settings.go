package domain

import (
	"strconv"
	"time"
)

const (
	// AutoDownloadCookie stores the auto-download preference.
	AutoDownloadCookie = "xhs_auto_download"

	// PreferenceTTL is how long preference cookies live.
	PreferenceTTL = 365 * 24 * time.Hour
)

// Settings are the user preferences carried by a session.
type Settings struct {
	AutoDownload bool
}

// DefaultSettings is used when no preference has been stored yet.
func DefaultSettings() Settings {
	return Settings{AutoDownload: true}
}

// ParseBool reads a stored boolean preference. Anything other than
// "true" is false; an empty value yields def.
func ParseBool(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	return raw == "true"
}

// FormatBool is the storage representation of a boolean preference.
func FormatBool(v bool) string {
	return strconv.FormatBool(v)
}
