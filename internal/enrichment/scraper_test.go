package enrichment

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/leetcode-company-report/internal/fetch"
	"github.com/jonathan/leetcode-company-report/internal/types"
)

const problemPage = `
<html>
	<body>
		<div class="title">1. Two Sum</div>
		<span class="css-10d7fc9">Premium</span>
		<span class="css-10d7fc9">Easy</span>
		<div class="tags">
			<a class="topic-tag" href="/tag/array/">Array</a>
			<a class="topic-tag" href="/tag/hash-table/">Hash Table</a>
		</div>
	</body>
</html>`

func TestParseMetadata(t *testing.T) {
	meta, err := ParseMetadata(problemPage, DefaultSelectors())
	require.NoError(t, err)
	assert.Equal(t, types.DifficultyEasy, meta.Difficulty)
	assert.Equal(t, "Array", meta.Topic)
}

func TestParseMetadata_LastDifficultyWins(t *testing.T) {
	html := `<span class="css-10d7fc9">Medium</span><span class="css-10d7fc9">Hard</span>`
	meta, err := ParseMetadata(html, DefaultSelectors())
	require.NoError(t, err)
	assert.Equal(t, types.DifficultyHard, meta.Difficulty)
	assert.Equal(t, types.TopicUnknown, meta.Topic)
}

func TestParseMetadata_IgnoresWrongElements(t *testing.T) {
	html := `
	<div class="css-10d7fc9">Easy</div>
	<span class="other">Hard</span>
	<span class="topic-tag">Array</span>`
	meta, err := ParseMetadata(html, DefaultSelectors())
	require.NoError(t, err)
	assert.True(t, meta.IsUnknown())
}

func TestParseMetadata_SkipsEmptyTopicTags(t *testing.T) {
	html := `<a class="topic-tag"> </a><a class="topic-tag">Graph</a>`
	meta, err := ParseMetadata(html, DefaultSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Graph", meta.Topic)
}

func TestParseMetadata_CustomSelectors(t *testing.T) {
	html := `<div data-difficulty>Medium</div><a class="tag">Tree</a>`
	meta, err := ParseMetadata(html, Selectors{Difficulty: "div[data-difficulty]", Topic: "a.tag"})
	require.NoError(t, err)
	assert.Equal(t, types.DifficultyMedium, meta.Difficulty)
	assert.Equal(t, "Tree", meta.Topic)
}

func TestParseMetadata_EmptySelectorsUseDefaults(t *testing.T) {
	meta, err := ParseMetadata(problemPage, Selectors{})
	require.NoError(t, err)
	assert.Equal(t, types.DifficultyEasy, meta.Difficulty)
}

func TestScraper_FetchMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(problemPage))
	}))
	defer server.Close()

	scraper := NewScraper(fetch.NewPageFetcher(nil), DefaultSelectors(), nil)
	meta := scraper.FetchMetadata(context.Background(), server.URL)
	assert.Equal(t, types.Metadata{Difficulty: types.DifficultyEasy, Topic: "Array"}, meta)
}

func TestScraper_FailuresDegradeToUnknown(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	tests := []struct {
		name  string
		link  string
		class string
	}{
		{"http status", notFound.URL, "http_status"},
		{"invalid url", "not a link", "invalid_url"},
		{"empty link", "", "invalid_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			scraper := NewScraper(fetch.NewPageFetcher(nil), DefaultSelectors(), logger)
			meta := scraper.FetchMetadata(context.Background(), tt.link)

			assert.Equal(t, types.UnknownMetadata(), meta)
			assert.Contains(t, buf.String(), "class="+tt.class)
		})
	}
}

func TestStaticFetcher(t *testing.T) {
	fixed := types.Metadata{Difficulty: types.DifficultyEasy, Topic: "Array"}
	f := &StaticFetcher{Metadata: fixed}
	assert.Equal(t, fixed, f.FetchMetadata(context.Background(), "http://x/1"))
	assert.Equal(t, types.UnknownMetadata(), NewOfflineFetcher().FetchMetadata(context.Background(), "http://x/1"))
}
