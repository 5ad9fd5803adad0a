// Package enrichment looks up difficulty and topic metadata for problem links.
//
// Every implementation degrades to types.UnknownMetadata on failure; no error
// ever crosses the MetadataFetcher boundary.
package enrichment

import (
	"context"

	"github.com/jonathan/leetcode-company-report/internal/types"
)

// MetadataFetcher returns the difficulty and topic for a problem link.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, link string) types.Metadata
}

// FetcherFunc adapts a plain function to MetadataFetcher.
type FetcherFunc func(ctx context.Context, link string) types.Metadata

// FetchMetadata calls f.
func (f FetcherFunc) FetchMetadata(ctx context.Context, link string) types.Metadata {
	return f(ctx, link)
}

// StaticFetcher returns the same metadata for every link. Used for offline runs.
type StaticFetcher struct {
	Metadata types.Metadata
}

// NewOfflineFetcher returns a StaticFetcher that reports everything as unknown.
func NewOfflineFetcher() *StaticFetcher {
	return &StaticFetcher{Metadata: types.UnknownMetadata()}
}

// FetchMetadata returns the configured metadata.
func (s *StaticFetcher) FetchMetadata(_ context.Context, _ string) types.Metadata {
	return s.Metadata
}
