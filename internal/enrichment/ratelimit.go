package enrichment

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/jonathan/leetcode-company-report/internal/types"
)

// RateLimitedFetcher throttles calls to the wrapped fetcher.
type RateLimitedFetcher struct {
	next    MetadataFetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher allows rps requests per second with the given burst.
// A non-positive rps returns next unchanged.
func NewRateLimitedFetcher(next MetadataFetcher, rps float64, burst int) MetadataFetcher {
	if rps <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedFetcher{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchMetadata waits for a token, then delegates. A canceled wait yields unknown metadata.
func (r *RateLimitedFetcher) FetchMetadata(ctx context.Context, link string) types.Metadata {
	if err := r.limiter.Wait(ctx); err != nil {
		return types.UnknownMetadata()
	}
	return r.next.FetchMetadata(ctx, link)
}
