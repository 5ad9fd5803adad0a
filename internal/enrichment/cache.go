package enrichment

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/leetcode-company-report/internal/types"
)

// CacheStats reports how many lookups were answered without a fetch.
type CacheStats struct {
	Lookups int64
	Fetches int64
}

// Hits is the number of lookups served from memory.
func (s CacheStats) Hits() int64 {
	return s.Lookups - s.Fetches
}

// CachedFetcher memoizes metadata by link for the lifetime of a run.
// Concurrent lookups for the same link share one underlying fetch.
type CachedFetcher struct {
	next    MetadataFetcher
	mu      sync.RWMutex
	entries map[string]types.Metadata
	group   singleflight.Group
	lookups atomic.Int64
	fetches atomic.Int64
}

// NewCachedFetcher wraps next with a per-link cache.
func NewCachedFetcher(next MetadataFetcher) *CachedFetcher {
	return &CachedFetcher{
		next:    next,
		entries: make(map[string]types.Metadata),
	}
}

// FetchMetadata returns the cached metadata for link, fetching it once.
// Unknown results are cached too so a broken link is not retried within a run.
func (c *CachedFetcher) FetchMetadata(ctx context.Context, link string) types.Metadata {
	c.lookups.Add(1)

	if meta, ok := c.get(link); ok {
		return meta
	}

	v, _, _ := c.group.Do(link, func() (interface{}, error) {
		if meta, ok := c.get(link); ok {
			return meta, nil
		}
		c.fetches.Add(1)
		meta := c.next.FetchMetadata(ctx, link)
		// A canceled run must not poison the cache with its fallback value
		if ctx.Err() == nil {
			c.mu.Lock()
			c.entries[link] = meta
			c.mu.Unlock()
		}
		return meta, nil
	})

	return v.(types.Metadata)
}

// Stats returns lookup counters.
func (c *CachedFetcher) Stats() CacheStats {
	return CacheStats{Lookups: c.lookups.Load(), Fetches: c.fetches.Load()}
}

func (c *CachedFetcher) get(link string) (types.Metadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.entries[link]
	return meta, ok
}
