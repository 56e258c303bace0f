//go:build integration

package fetcher

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"xhs-resolver/test/fixtures"

	"github.com/chromedp/chromedp"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// chromeContainer is a headless-shell container with CDP exposed.
type chromeContainer struct {
	testcontainers.Container
	wsURL string
}

func setupChromeContainer(ctx context.Context) (*chromeContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "chromedp/headless-shell:latest",
		ExposedPorts: []string{"9222/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("DevTools listening").WithStartupTimeout(60*time.Second),
			wait.ForHTTP("/json/version").WithPort("9222/tcp").WithStartupTimeout(60*time.Second),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host: %w", err)
	}
	port, err := container.MappedPort(ctx, "9222")
	if err != nil {
		return nil, fmt.Errorf("failed to get port: %w", err)
	}

	endpoint := net.JoinHostPort(host, port.Port())
	wsURL, err := debuggerURL("http://" + endpoint + "/json/version")
	if err != nil {
		return nil, fmt.Errorf("failed to get WebSocket URL: %w", err)
	}

	// Chrome reports its in-container address; point at the mapped one.
	parsed, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse WebSocket URL: %w", err)
	}
	parsed.Host = endpoint

	return &chromeContainer{Container: container, wsURL: parsed.String()}, nil
}

func debuggerURL(versionURL string) (string, error) {
	resp, err := http.Get(versionURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.WebSocketDebuggerURL, nil
}

func newRemotePool(t *testing.T, maxTabs int) *BrowserPool {
	t.Helper()
	ctx := context.Background()

	chrome, err := setupChromeContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to setup Chrome container: %v", err)
	}
	t.Cleanup(func() { _ = chrome.Terminate(ctx) })

	pool, err := NewBrowserPool(BrowserOptions{RemoteURL: chrome.wsURL, MaxTabs: maxTabs})
	if err != nil {
		t.Fatalf("Failed to create browser pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(fixtures.PNGBytes())
}

func TestIntegration_BrowserFetcher_FetchesDataURL(t *testing.T) {
	// Arrange
	pool := newRemotePool(t, 1)
	f := NewBrowserFetcher(pool, 20*time.Second, 1<<20)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Act
	img, err := f.Fetch(ctx, pngDataURL())

	// Assert
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !bytes.Equal(img.Data, fixtures.PNGBytes()) {
		t.Errorf("body mismatch: got %d bytes", len(img.Data))
	}
	if img.ContentType != "image/png" {
		t.Errorf("ContentType: got %q", img.ContentType)
	}
}

func TestIntegration_BrowserPool_Backpressure_OnlyOneTabAtATime(t *testing.T) {
	// Arrange
	pool := newRemotePool(t, 1)
	var concurrent, maxConcurrent int32
	var wg sync.WaitGroup

	// Act
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_ = pool.WithTab(context.Background(), func(tabCtx context.Context) error {
				current := atomic.AddInt32(&concurrent, 1)
				for {
					seen := atomic.LoadInt32(&maxConcurrent)
					if current <= seen || atomic.CompareAndSwapInt32(&maxConcurrent, seen, current) {
						break
					}
				}

				var title string
				err := chromedp.Run(tabCtx,
					chromedp.Navigate("about:blank"),
					chromedp.Title(&title),
				)
				t.Logf("Tab %d: concurrent=%d", idx, current)

				atomic.AddInt32(&concurrent, -1)
				return err
			})
		}(i)
	}
	wg.Wait()

	// Assert
	if maxConcurrent != 1 {
		t.Errorf("maxConcurrent: got %d, want 1", maxConcurrent)
	}
}

func TestIntegration_BrowserPool_SlotReleased_OnError(t *testing.T) {
	// Arrange
	pool := newRemotePool(t, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Act
	err := pool.WithTab(ctx, func(tabCtx context.Context) error {
		return chromedp.Run(tabCtx,
			chromedp.Navigate("http://invalid.url.that.does.not.exist.local"),
			chromedp.WaitVisible("#never-there", chromedp.ByQuery),
		)
	})
	t.Logf("First request error (expected): %v", err)

	done := make(chan error, 1)
	go func() {
		done <- pool.WithTab(context.Background(), func(tabCtx context.Context) error {
			return chromedp.Run(tabCtx, chromedp.Navigate("about:blank"))
		})
	}()

	// Assert
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("second request failed: %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Error("Second request blocked - slot was NOT released after error")
	}
}

func TestIntegration_BrowserPool_ContextCancelsTab(t *testing.T) {
	// Arrange
	pool := newRemotePool(t, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// Act
	start := time.Now()
	err := pool.WithTab(ctx, func(tabCtx context.Context) error {
		return chromedp.Run(tabCtx,
			chromedp.Navigate("about:blank"),
			chromedp.WaitVisible("#never-there", chromedp.ByQuery),
		)
	})

	// Assert
	if err == nil {
		t.Error("expected error after context deadline")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("tab outlived its context: %v", elapsed)
	}
}
