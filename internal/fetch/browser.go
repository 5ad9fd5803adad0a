// Package fetch - browser.go provides headless browser rendering for JS-rendered problem pages.
package fetch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultRenderWait is how long the page gets to run scripts after the body is ready.
const DefaultRenderWait = 2 * time.Second

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration) (string, error) {
	slog.Debug("Starting headless browser", slog.String("url", url))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(strings.TrimSpace(url)),
		chromedp.WaitReady("body"),
		chromedp.Sleep(DefaultRenderWait),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Kind: kindOf(err), Cause: err}
	}

	slog.Debug("Rendered page", slog.String("url", url), slog.Int("bytes", len(html)))

	return html, nil
}
