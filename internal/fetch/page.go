package fetch

import (
	"context"
)

// PageFetcher retrieves problem pages, either with a plain GET or by
// rendering them in headless Chrome.
type PageFetcher struct {
	options    *Options
	useBrowser bool
}

// PageFetcherConfig holds configuration for the page fetcher.
type PageFetcherConfig struct {
	UseBrowser bool
	Options    *Options
}

// NewPageFetcher creates a page fetcher. A nil config uses DefaultOptions.
func NewPageFetcher(config *PageFetcherConfig) *PageFetcher {
	if config == nil {
		config = &PageFetcherConfig{}
	}
	options := config.Options
	if options == nil {
		options = DefaultOptions()
	}
	return &PageFetcher{options: options, useBrowser: config.UseBrowser}
}

// Fetch retrieves the page at urlStr.
func (f *PageFetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	if !f.useBrowser {
		return URL(ctx, urlStr, f.options)
	}
	html, err := WithBrowser(ctx, urlStr, f.options.Timeout)
	if err != nil {
		return nil, err
	}
	return &Result{URL: urlStr, HTML: html, StatusCode: 200}, nil
}
