package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the input is blank or whitespace only.
	ErrEmptyInput = errors.New("input is empty")

	// ErrNoMatch is returned when the input contains no trace ID.
	ErrNoMatch = errors.New("no trace ID found in input")

	// ErrDownloadFailed is the sentinel wrapped by every DownloadFailure.
	ErrDownloadFailed = errors.New("image download failed")

	// ErrHistoryEntryNotFound is returned when a selected trace ID is not in history.
	ErrHistoryEntryNotFound = errors.New("history entry not found")

	// ErrRateLimited is returned when too many downloads were requested.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// DownloadFailure reports a failed direct download.
// FallbackURL is where the user should be sent instead.
type DownloadFailure struct {
	TraceID     string
	FallbackURL string
	Err         error
}

func (e *DownloadFailure) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("download %s failed", e.TraceID)
	}
	return fmt.Sprintf("download %s failed: %v", e.TraceID, e.Err)
}

// Unwrap exposes both the cause and ErrDownloadFailed to errors.Is.
func (e *DownloadFailure) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDownloadFailed}
	}
	return []error{ErrDownloadFailed, e.Err}
}
