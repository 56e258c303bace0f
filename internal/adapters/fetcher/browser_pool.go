package fetcher

import (
	"context"
	"sync"

	"xhs-resolver/pkg/log"

	"github.com/chromedp/chromedp"
)

// BrowserOptions configures the Chrome process behind a BrowserPool.
type BrowserOptions struct {
	// ExecPath points at a Chrome/Chromium binary. Empty uses the default lookup.
	ExecPath string
	// RemoteURL connects to an already running Chrome over CDP instead of
	// starting one. Takes precedence over ExecPath.
	RemoteURL string
	// MaxTabs bounds concurrent tabs. Zero means one.
	MaxTabs int
}

// BrowserPool manages a single Chrome process and bounds how many tabs
// are open at once.
type BrowserPool struct {
	opts    BrowserOptions
	allocFn func(context.Context) (context.Context, context.CancelFunc)

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc

	slots tabSlots
}

// NewBrowserPool starts Chrome (or attaches to a remote one) and returns
// a pool ready to hand out tabs.
func NewBrowserPool(opts BrowserOptions) (*BrowserPool, error) {
	bp := &BrowserPool{
		opts:  opts,
		slots: newTabSlots(opts.MaxTabs),
	}

	if opts.RemoteURL != "" {
		bp.allocFn = func(parent context.Context) (context.Context, context.CancelFunc) {
			return chromedp.NewRemoteAllocator(parent, opts.RemoteURL)
		}
	} else {
		execOpts := execAllocatorOptions(opts.ExecPath)
		bp.allocFn = func(parent context.Context) (context.Context, context.CancelFunc) {
			return chromedp.NewExecAllocator(parent, execOpts...)
		}
	}

	if err := bp.start(); err != nil {
		return nil, err
	}
	return bp, nil
}

func execAllocatorOptions(execPath string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),

		// Memory / CPU reduction
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("disable-features", "Translate,BackForwardCache"),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),
	)

	if execPath != "" {
		log.GlobalInfo("browser pool using custom chrome path", "path", execPath)
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	return opts
}

// start initializes or restarts the browser connection.
func (bp *BrowserPool) start() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.cancel != nil {
		bp.cancel()
	}

	allocCtx, allocCancel := bp.allocFn(context.Background())
	ctx, ctxCancel := chromedp.NewContext(allocCtx)

	// Force Chrome startup
	if err := chromedp.Run(ctx); err != nil {
		ctxCancel()
		allocCancel()
		return err
	}

	bp.ctx = ctx
	bp.cancel = func() {
		ctxCancel()
		allocCancel()
	}

	log.GlobalInfo("browser pool chrome started", "remote", bp.opts.RemoteURL != "")
	return nil
}

// WithTab runs fn with a fresh tab. It waits for a free slot while ctx
// allows, and the tab is closed when ctx ends or fn returns.
func (bp *BrowserPool) WithTab(ctx context.Context, fn func(tabCtx context.Context) error) error {
	if err := bp.slots.acquire(ctx); err != nil {
		return err
	}
	defer bp.slots.release()

	tabCtx, tabCancel, err := bp.acquireTab()
	if err != nil {
		return err
	}
	defer tabCancel()

	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	return fn(tabCtx)
}

// acquireTab opens a tab and health-checks it, restarting Chrome once
// if the tab cannot be used.
func (bp *BrowserPool) acquireTab() (context.Context, context.CancelFunc, error) {
	bp.mu.Lock()
	tabCtx, tabCancel := chromedp.NewContext(bp.ctx)
	bp.mu.Unlock()

	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()

		log.GlobalWarn("browser pool tab failed, restarting chrome", "error", err)

		if restartErr := bp.start(); restartErr != nil {
			return nil, nil, restartErr
		}

		bp.mu.Lock()
		tabCtx, tabCancel = chromedp.NewContext(bp.ctx)
		bp.mu.Unlock()
	}

	return tabCtx, tabCancel, nil
}

// Close shuts down the browser completely.
func (bp *BrowserPool) Close() {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if bp.cancel != nil {
		bp.cancel()
		bp.cancel = nil
		log.GlobalInfo("browser pool chrome stopped")
	}
}

// tabSlots is a counting semaphore over open tabs.
type tabSlots chan struct{}

func newTabSlots(n int) tabSlots {
	if n <= 0 {
		n = 1
	}
	return make(tabSlots, n)
}

func (s tabSlots) acquire(ctx context.Context) error {
	select {
	case s <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s tabSlots) release() { <-s }
