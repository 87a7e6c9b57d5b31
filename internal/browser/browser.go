// internal/browser/browser.go

// Package browser renders JavaScript-heavy pages with headless Chrome. Some
// catalog sources serve their statistics through client-side dashboards; for
// those a plain HTTP fetch returns an empty shell.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/valpere/StatHarvester/internal/config"
)

// Renderer drives one headless Chrome instance. A Renderer is safe for use by
// one goroutine at a time; the engine serializes browser-method sources
// through it.
type Renderer struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
	waitDelay   time.Duration
}

// NewRenderer launches the Chrome allocator. The returned Renderer must be
// closed to release the browser.
func NewRenderer(cfg *config.BrowserConfig) (*Renderer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("browser rendering is not enabled")
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.DisableImages {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Renderer{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		timeout:     cfg.RenderTimeout(),
		waitDelay:   cfg.RenderWaitDelay(),
	}, nil
}

// Render navigates to the URL, waits for the page to settle and returns the
// rendered document HTML. Each call uses a fresh tab so one stuck page cannot
// poison later renders.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx)
	defer tabCancel()

	runCtx, cancel := context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	// honor the caller's cancellation as well
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.waitDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}
	return html, nil
}

// Close shuts the browser down.
func (r *Renderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}
