package pdf

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"resume-maker/internal/shared/telemetry"
)

// ChromeOptions configures ChromeConverter.
type ChromeOptions struct {
	// ExecPath overrides the Chrome binary lookup.
	ExecPath string
	// Timeout bounds a single conversion. Zero means 60s.
	Timeout time.Duration
}

// ChromeConverter prints HTML to PDF with a shared headless Chrome. The
// browser starts on first use and restarts if it dies.
type ChromeConverter struct {
	allocOpts []chromedp.ExecAllocatorOption
	timeout   time.Duration

	mu      sync.Mutex
	browser context.Context
	cancel  context.CancelFunc
}

func NewChromeConverter(opts ChromeOptions) *ChromeConverter {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &ChromeConverter{allocOpts: allocOpts, timeout: opts.Timeout}
}

// Convert loads html into a fresh tab and prints it as A4.
func (c *ChromeConverter) Convert(ctx context.Context, html []byte) ([]byte, error) {
	browser, err := c.browserContext()
	if err != nil {
		return nil, err
	}
	tabCtx, cancelTab := chromedp.NewContext(browser)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	start := time.Now()
	var out []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 8.27 x 11.69 inches
			out, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print: %w", err)
	}
	if err := Verify(out); err != nil {
		return nil, fmt.Errorf("chrome print: %w", err)
	}
	telemetry.Info("pdf.converted", map[string]any{
		"bytes":       len(out),
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	})
	return out, nil
}

// Close shuts the browser down.
func (c *ChromeConverter) Close() {
	c.reset()
}

func (c *ChromeConverter) browserContext() (context.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.browser != nil && c.browser.Err() == nil {
		return c.browser, nil
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), c.allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	c.browser = browserCtx
	c.cancel = func() {
		cancelBrowser()
		cancelAlloc()
	}
	return browserCtx, nil
}

func (c *ChromeConverter) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	c.browser = nil
	c.cancel = nil
}
