package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"xhs-resolver/internal/domain"
)

// HTTPOptions configures an HTTPFetcher.
type HTTPOptions struct {
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	Referer   string
}

// HTTPFetcher downloads images with a plain HTTP client.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions
}

// NewHTTPFetcher creates an HTTPFetcher. A nil client gets one with
// opts.Timeout applied.
func NewHTTPFetcher(client *http.Client, opts HTTPOptions) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTPFetcher{client: client, opts: opts}
}

func (f *HTTPFetcher) Name() string { return "http" }

// Fetch GETs url and returns the body when it is an image no larger
// than MaxBytes.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (domain.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Image{}, fmt.Errorf("build request: %w", err)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	if f.opts.Referer != "" {
		req.Header.Set("Referer", f.opts.Referer)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Image{}, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Image{}, fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isImage(contentType) {
		return domain.Image{}, fmt.Errorf("fetch image: unexpected content type %q", contentType)
	}

	body := io.Reader(resp.Body)
	if f.opts.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.opts.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return domain.Image{}, fmt.Errorf("read image: %w", err)
	}
	if f.opts.MaxBytes > 0 && int64(len(data)) > f.opts.MaxBytes {
		return domain.Image{}, fmt.Errorf("image exceeds %d bytes", f.opts.MaxBytes)
	}

	return domain.Image{Data: data, ContentType: contentType}, nil
}

// isImage accepts image/* and a missing content type, which some CDN
// edges omit.
func isImage(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
