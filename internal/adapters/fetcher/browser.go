package fetcher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"xhs-resolver/internal/domain"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// fetchScript fetches a URL from inside the page and resolves to the
// body as base64 along with status and type.
const fetchScript = `(async (url) => {
  const resp = await fetch(url, { credentials: "omit" });
  if (!resp.ok) {
    return { status: resp.status, type: "", data: "" };
  }
  const blob = await resp.blob();
  const data = await new Promise((resolve, reject) => {
    const reader = new FileReader();
    reader.onload = () => resolve(String(reader.result).split(",")[1] || "");
    reader.onerror = () => reject(reader.error);
    reader.readAsDataURL(blob);
  });
  return { status: resp.status, type: blob.type, data: data };
})(%s)`

// tabRunner is the part of BrowserPool the fetcher needs.
type tabRunner interface {
	WithTab(ctx context.Context, fn func(tabCtx context.Context) error) error
}

// BrowserFetcher downloads images through a headless Chrome tab, for
// CDN edges that reject non-browser clients.
type BrowserFetcher struct {
	pool     tabRunner
	timeout  time.Duration
	maxBytes int64
}

// NewBrowserFetcher creates a BrowserFetcher backed by pool. Each fetch,
// including the wait for a tab, is bounded by timeout when positive.
func NewBrowserFetcher(pool *BrowserPool, timeout time.Duration, maxBytes int64) *BrowserFetcher {
	return &BrowserFetcher{pool: pool, timeout: timeout, maxBytes: maxBytes}
}

func (f *BrowserFetcher) Name() string { return "browser" }

type fetchResult struct {
	Status int    `json:"status"`
	Type   string `json:"type"`
	Data   string `json:"data"`
}

// Fetch opens url in a tab and reads it back with the page's fetch API
// so the request carries the browser's own headers.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (domain.Image, error) {
	script, err := buildFetchScript(url)
	if err != nil {
		return domain.Image{}, err
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var res fetchResult
	err = f.pool.WithTab(ctx, func(tabCtx context.Context) error {
		return chromedp.Run(tabCtx,
			chromedp.Navigate(url),
			chromedp.Evaluate(script, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			}),
		)
	})
	if err != nil {
		return domain.Image{}, fmt.Errorf("browser fetch: %w", err)
	}

	return decodeFetchResult(res, f.maxBytes)
}

func buildFetchScript(url string) (string, error) {
	quoted, err := json.Marshal(url)
	if err != nil {
		return "", fmt.Errorf("encode url: %w", err)
	}
	return fmt.Sprintf(fetchScript, quoted), nil
}

func decodeFetchResult(res fetchResult, maxBytes int64) (domain.Image, error) {
	if res.Status < 200 || res.Status > 299 {
		return domain.Image{}, fmt.Errorf("browser fetch: unexpected status %d", res.Status)
	}
	if res.Data == "" {
		return domain.Image{}, errors.New("browser fetch: empty body")
	}
	if !isImage(res.Type) {
		return domain.Image{}, fmt.Errorf("browser fetch: unexpected content type %q", res.Type)
	}
	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(res.Data))) > maxBytes+2 {
		return domain.Image{}, fmt.Errorf("image exceeds %d bytes", maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(res.Data)
	if err != nil {
		return domain.Image{}, fmt.Errorf("decode body: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return domain.Image{}, fmt.Errorf("image exceeds %d bytes", maxBytes)
	}

	return domain.Image{Data: data, ContentType: res.Type}, nil
}
