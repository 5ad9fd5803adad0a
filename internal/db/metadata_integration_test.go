package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/leetcode-company-report/internal/types"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	database, err := Connect(ctx, databaseURL)
	require.NoError(t, err)
	t.Cleanup(database.Close)

	require.NoError(t, database.EnsureSchema(ctx))
	return database
}

func testKey() MetadataKey {
	return MetadataKey{
		Link:               "https://leetcode.com/problems/" + uuid.NewString() + "/",
		DifficultySelector: "span.css-10d7fc9",
		TopicSelector:      "a.topic-tag",
	}
}

func TestMetadata_Integration(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	key := testKey()

	missing, err := database.GetFreshMetadata(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, database.PutMetadata(ctx, key, types.Metadata{Difficulty: types.DifficultyEasy, Topic: "Array"}))

	fresh, err := database.GetFreshMetadata(ctx, key, time.Hour)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Equal(t, types.Metadata{Difficulty: types.DifficultyEasy, Topic: "Array"}, *fresh)

	require.NoError(t, database.PutMetadata(ctx, key, types.Metadata{Difficulty: types.DifficultyHard, Topic: "Graph"}))

	updated, err := database.GetMetadata(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, types.DifficultyHard, updated.Metadata.Difficulty)
	assert.Equal(t, "Graph", updated.Metadata.Topic)
}

func TestMetadata_SelectorChangeMisses(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	key := testKey()

	require.NoError(t, database.PutMetadata(ctx, key, types.Metadata{Difficulty: types.DifficultyMedium, Topic: "Tree"}))

	changed := key
	changed.DifficultySelector = "div[data-difficulty]"
	got, err := database.GetFreshMetadata(ctx, changed, time.Hour)
	require.NoError(t, err)
	assert.Nil(t, got)

	changed = key
	changed.TopicSelector = "a.tag"
	got, err = database.GetFreshMetadata(ctx, changed, time.Hour)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMetadata_StaleEntryMisses(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	key := testKey()

	require.NoError(t, database.PutMetadata(ctx, key, types.Metadata{Difficulty: types.DifficultyEasy, Topic: "Array"}))

	got, err := database.GetFreshMetadata(ctx, key, time.Nanosecond)
	require.NoError(t, err)
	assert.Nil(t, got)
}
