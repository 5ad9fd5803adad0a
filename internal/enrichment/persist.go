package enrichment

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonathan/leetcode-company-report/internal/db"
	"github.com/jonathan/leetcode-company-report/internal/types"
)

// MetadataStore persists lookups between runs. *db.DB satisfies it.
type MetadataStore interface {
	GetFreshMetadata(ctx context.Context, key db.MetadataKey, maxAge time.Duration) (*types.Metadata, error)
	PutMetadata(ctx context.Context, key db.MetadataKey, meta types.Metadata) error
}

// PersistentFetcher answers lookups from a MetadataStore and records new
// results. Entries are keyed by link and selectors, so changing either
// selector forces a fresh lookup.
type PersistentFetcher struct {
	next      MetadataFetcher
	store     MetadataStore
	selectors Selectors
	maxAge    time.Duration
	logger    *slog.Logger
}

// NewPersistentFetcher wraps next with store. A zero maxAge uses
// db.DefaultMetadataTTL and a nil logger uses slog.Default().
func NewPersistentFetcher(next MetadataFetcher, store MetadataStore, selectors Selectors, maxAge time.Duration, logger *slog.Logger) *PersistentFetcher {
	if maxAge <= 0 {
		maxAge = db.DefaultMetadataTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistentFetcher{
		next:      next,
		store:     store,
		selectors: selectors.withDefaults(),
		maxAge:    maxAge,
		logger:    logger,
	}
}

func (p *PersistentFetcher) key(link string) db.MetadataKey {
	return db.MetadataKey{
		Link:               link,
		DifficultySelector: p.selectors.Difficulty,
		TopicSelector:      p.selectors.Topic,
	}
}

// FetchMetadata returns stored metadata when fresh, otherwise delegates.
// Only results carrying some metadata are stored; unknowns are retried next run.
func (p *PersistentFetcher) FetchMetadata(ctx context.Context, link string) types.Metadata {
	key := p.key(link)

	stored, err := p.store.GetFreshMetadata(ctx, key, p.maxAge)
	if err != nil {
		p.logger.Warn("Metadata store lookup failed",
			slog.String("link", link),
			slog.String("error", err.Error()))
	} else if stored != nil {
		return *stored
	}

	meta := p.next.FetchMetadata(ctx, link)
	if meta.IsUnknown() || ctx.Err() != nil {
		return meta
	}

	if err := p.store.PutMetadata(ctx, key, meta); err != nil {
		p.logger.Warn("Failed to store metadata",
			slog.String("link", link),
			slog.String("error", err.Error()))
	}
	return meta
}
