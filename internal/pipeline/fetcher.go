package pipeline

import (
	"context"
	"log/slog"

	"github.com/jonathan/leetcode-company-report/internal/config"
	"github.com/jonathan/leetcode-company-report/internal/db"
	"github.com/jonathan/leetcode-company-report/internal/enrichment"
	"github.com/jonathan/leetcode-company-report/internal/fetch"
)

// FetcherChain is the enrichment fetcher for one run plus the resources it holds.
type FetcherChain struct {
	Fetcher enrichment.MetadataFetcher
	// Cache is the in-memory link cache at the head of the chain; nil offline.
	Cache *enrichment.CachedFetcher
	// Database is the persistent metadata store; nil when not configured or unreachable.
	Database *db.DB
}

// Close releases the database connection, if any.
func (c *FetcherChain) Close() {
	if c.Database != nil {
		c.Database.Close()
	}
}

// BuildFetcher assembles Cache(Persistent(RateLimit(Scraper))). The persistent
// layer is present only when a database is configured and reachable.
// Offline runs get a StaticFetcher that never touches the network.
func BuildFetcher(ctx context.Context, cfg *config.Config, logger *slog.Logger) *FetcherChain {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Offline {
		logger.Info("Offline mode, metadata will be Unknown")
		return &FetcherChain{Fetcher: enrichment.NewOfflineFetcher()}
	}

	chain := &FetcherChain{}
	if cfg.DatabaseURL != "" && !cfg.NoCache {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("Failed to connect to database, continuing without metadata cache",
				slog.String("error", err.Error()))
		} else if err := database.EnsureSchema(ctx); err != nil {
			logger.Warn("Failed to prepare metadata cache schema, continuing without metadata cache",
				slog.String("error", err.Error()))
			database.Close()
		} else {
			logger.Debug("Connected to metadata cache database")
			chain.Database = database
		}
	}

	selectors := enrichment.Selectors{
		Difficulty: cfg.DifficultySelector,
		Topic:      cfg.TopicSelector,
	}
	source := fetch.NewPageFetcher(&fetch.PageFetcherConfig{
		UseBrowser: cfg.UseBrowser,
		Options: &fetch.Options{
			Timeout:   cfg.FetchTimeout.Std(),
			UserAgent: cfg.UserAgent,
		},
	})

	var fetcher enrichment.MetadataFetcher = enrichment.NewRateLimitedFetcher(
		enrichment.NewScraper(source, selectors, logger), cfg.RateLimit, cfg.Burst)
	if chain.Database != nil {
		fetcher = enrichment.NewPersistentFetcher(fetcher, chain.Database, selectors, cfg.CacheTTL.Std(), logger)
	}

	chain.Cache = enrichment.NewCachedFetcher(fetcher)
	chain.Fetcher = chain.Cache
	return chain
}
