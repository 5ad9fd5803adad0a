package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/leetcode-company-report/internal/types"
)

// DefaultMetadataTTL is how long stored metadata is trusted (7 days)
const DefaultMetadataTTL = 7 * 24 * time.Hour

// MetadataKey identifies one stored lookup: a link read with a selector pair.
type MetadataKey struct {
	Link               string
	DifficultySelector string
	TopicSelector      string
}

// StoredMetadata is a metadata row read back from the cache.
type StoredMetadata struct {
	MetadataKey
	Metadata  types.Metadata
	FetchedAt time.Time
}

// IsFresh returns true if the metadata was stored within maxAge
func (m *StoredMetadata) IsFresh(maxAge time.Duration) bool {
	return time.Since(m.FetchedAt) < maxAge
}

// GetMetadata retrieves stored metadata for key. Returns nil when absent.
func (db *DB) GetMetadata(ctx context.Context, key MetadataKey) (*StoredMetadata, error) {
	m := StoredMetadata{MetadataKey: key}
	var difficulty string
	err := db.pool.QueryRow(ctx,
		`SELECT difficulty, topic, fetched_at
		 FROM problem_metadata
		 WHERE link = $1 AND difficulty_selector = $2 AND topic_selector = $3`,
		key.Link, key.DifficultySelector, key.TopicSelector,
	).Scan(&difficulty, &m.Metadata.Topic, &m.FetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}
	m.Metadata.Difficulty = types.ParseDifficulty(difficulty)
	return &m, nil
}

// GetFreshMetadata retrieves stored metadata only if it is younger than maxAge.
func (db *DB) GetFreshMetadata(ctx context.Context, key MetadataKey, maxAge time.Duration) (*types.Metadata, error) {
	stored, err := db.GetMetadata(ctx, key)
	if err != nil {
		return nil, err
	}
	if stored == nil || !stored.IsFresh(maxAge) {
		return nil, nil
	}
	return &stored.Metadata, nil
}

// PutMetadata inserts or refreshes the metadata stored for key.
func (db *DB) PutMetadata(ctx context.Context, key MetadataKey, meta types.Metadata) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO problem_metadata (link, difficulty_selector, topic_selector, difficulty, topic, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 ON CONFLICT (link, difficulty_selector, topic_selector) DO UPDATE SET
		     difficulty = $4,
		     topic = $5,
		     fetched_at = NOW()`,
		key.Link, key.DifficultySelector, key.TopicSelector, string(meta.Difficulty), meta.Topic,
	)
	if err != nil {
		return fmt.Errorf("failed to store metadata: %w", err)
	}
	return nil
}
