// Package domain contains the core business entities and rules.
package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	// HDBaseURL is the CDN host serving original-quality images.
	HDBaseURL = "https://sns-img-hw.xhscdn.com/"

	// HDQuerySuffix asks the CDN for a full-width PNG rendition.
	HDQuerySuffix = "?imageView2/2/w/format/png"

	// TracePrefix is the literal every trace ID starts with.
	TracePrefix = "1040g"

	// FilenamePrefix and FileExtension shape download names: xhs_<id>.png
	FilenamePrefix = "xhs"
	FileExtension  = "png"
)

// traceIDRegex matches the trace prefix followed by everything up to the
// first '!' (or end of input). The CDN appends "!<style>" to thumbnails.
var traceIDRegex = regexp.MustCompile(TracePrefix + `[^!]+`)

// Resolution is the bare outcome of resolving a piece of text.
type Resolution struct {
	TraceID string
	URL     string
}

// ResolutionResult is a resolution captured at a point in time.
// It is never mutated after creation.
type ResolutionResult struct {
	OriginalInput string
	TraceID       string
	HDURL         string
	CreatedAt     time.Time
}

// ExtractTraceID returns the first trace ID found in text.
func ExtractTraceID(text string) (string, bool) {
	id := traceIDRegex.FindString(text)
	if id == "" {
		return "", false
	}
	return id, true
}

// HDURL builds the high-resolution URL for a trace ID.
func HDURL(traceID string) string {
	return HDBaseURL + traceID + HDQuerySuffix
}

// Resolve extracts the trace ID from text and derives its HD URL.
func Resolve(text string) (Resolution, bool) {
	id, ok := ExtractTraceID(text)
	if !ok {
		return Resolution{}, false
	}
	return Resolution{TraceID: id, URL: HDURL(id)}, true
}

// Filename returns the download filename for a trace ID.
func Filename(traceID string) string {
	return FilenamePrefix + "_" + traceID + "." + FileExtension
}

// LocalFilename is Filename with characters that are unsafe in a file
// name replaced by '_'. The result never contains a path separator.
func LocalFilename(traceID string) string {
	return Filename(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || unicode.IsSpace(r) || strings.ContainsRune(`/\?*:"<>|%`, r) {
			return '_'
		}
		return r
	}, traceID))
}

// NewResolutionResult validates input and resolves it.
// Returns ErrEmptyInput for blank input and ErrNoMatch when no trace ID is found.
func NewResolutionResult(input string, now time.Time) (ResolutionResult, error) {
	if strings.TrimSpace(input) == "" {
		return ResolutionResult{}, ErrEmptyInput
	}

	res, ok := Resolve(input)
	if !ok {
		return ResolutionResult{}, ErrNoMatch
	}

	return ResolutionResult{
		OriginalInput: input,
		TraceID:       res.TraceID,
		HDURL:         res.URL,
		CreatedAt:     now,
	}, nil
}
