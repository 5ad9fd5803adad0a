// Package fetch provides HTTP fetching of problem pages.
// This package centralizes transport concerns used by enrichment.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; CompanyReport/1.0)"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// ErrorKind classifies why a fetch failed.
type ErrorKind string

const (
	// KindInvalidURL means the link could not be parsed as an absolute URL
	KindInvalidURL ErrorKind = "invalid_url"
	// KindTimeout means the request or context deadline expired
	KindTimeout ErrorKind = "timeout"
	// KindNetwork covers connection and transport failures
	KindNetwork ErrorKind = "network"
	// KindHTTPStatus means the server answered with a non-200 status
	KindHTTPStatus ErrorKind = "http_status"
	// KindCanceled means the caller canceled the context
	KindCanceled ErrorKind = "canceled"
	// KindUnknown is anything not recognized above
	KindUnknown ErrorKind = "unknown"
)

// Error represents an error during URL fetching.
type Error struct {
	URL        string
	Message    string
	Kind       ErrorKind
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	// Client overrides the HTTP client. Timeout still applies per request.
	Client *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// URL retrieves HTML content from a URL with a single GET.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Links are kept as written in the input; surrounding spaces are not part of the URL
	parsedURL, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Kind: KindInvalidURL, Cause: err}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Kind: KindInvalidURL, Cause: err}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Kind: kindOf(err), Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Kind: kindOf(err), Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			Kind:       KindHTTPStatus,
			StatusCode: resp.StatusCode,
		}
	}

	return result, nil
}

// Classify returns the failure class of an error produced by this package.
// Errors from elsewhere are classified by their cause.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var fetchErr *Error
	if errors.As(err, &fetchErr) && fetchErr.Kind != "" {
		return fetchErr.Kind
	}
	return kindOf(err)
}

func kindOf(err error) ErrorKind {
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindNetwork
	}
	return KindUnknown
}
