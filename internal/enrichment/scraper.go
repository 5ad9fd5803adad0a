package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/leetcode-company-report/internal/fetch"
	"github.com/jonathan/leetcode-company-report/internal/types"
)

// Default selectors for the problem page markup. These track the site's
// current class names and are expected to need updating when it changes.
const (
	DefaultDifficultySelector = "span.css-10d7fc9"
	DefaultTopicSelector      = "a.topic-tag"
)

// FailureParse is the failure class logged when a page cannot be parsed.
const FailureParse = "parse"

// Selectors locates the metadata elements in a problem page.
type Selectors struct {
	Difficulty string
	Topic      string
}

// DefaultSelectors returns the selectors for the current problem page markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Difficulty: DefaultDifficultySelector,
		Topic:      DefaultTopicSelector,
	}
}

// withDefaults fills empty selectors from DefaultSelectors.
func (s Selectors) withDefaults() Selectors {
	def := DefaultSelectors()
	if s.Difficulty == "" {
		s.Difficulty = def.Difficulty
	}
	if s.Topic == "" {
		s.Topic = def.Topic
	}
	return s
}

// ParseMetadata extracts difficulty and topic from a problem page.
// The last difficulty element carrying a known label wins; the first
// non-empty topic tag is used.
func ParseMetadata(html string, sel Selectors) (types.Metadata, error) {
	sel = sel.withDefaults()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return types.UnknownMetadata(), fmt.Errorf("failed to parse HTML: %w", err)
	}

	meta := types.UnknownMetadata()

	doc.Find(sel.Difficulty).Each(func(_ int, s *goquery.Selection) {
		if d := types.ParseDifficulty(strings.TrimSpace(s.Text())); d != types.DifficultyUnknown {
			meta.Difficulty = d
		}
	})

	doc.Find(sel.Topic).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if topic := strings.TrimSpace(s.Text()); topic != "" {
			meta.Topic = topic
			return false
		}
		return true
	})

	return meta, nil
}

// PageSource returns page HTML for a link. *fetch.PageFetcher satisfies it.
type PageSource interface {
	Fetch(ctx context.Context, urlStr string) (*fetch.Result, error)
}

// Scraper fetches a problem page and reads its metadata.
type Scraper struct {
	source    PageSource
	selectors Selectors
	logger    *slog.Logger
}

// NewScraper creates a Scraper. A nil logger uses slog.Default().
func NewScraper(source PageSource, selectors Selectors, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{source: source, selectors: selectors, logger: logger}
}

// FetchMetadata performs one fetch and parse. Any failure is logged with its
// class and reported as unknown metadata.
func (s *Scraper) FetchMetadata(ctx context.Context, link string) types.Metadata {
	result, err := s.source.Fetch(ctx, link)
	if err != nil {
		s.logger.Warn("Metadata lookup failed",
			slog.String("link", link),
			slog.String("class", string(fetch.Classify(err))),
			slog.String("error", err.Error()))
		return types.UnknownMetadata()
	}

	meta, err := ParseMetadata(result.HTML, s.selectors)
	if err != nil {
		s.logger.Warn("Metadata lookup failed",
			slog.String("link", link),
			slog.String("class", FailureParse),
			slog.String("error", err.Error()))
		return types.UnknownMetadata()
	}

	if meta.IsUnknown() {
		s.logger.Debug("No metadata found in page",
			slog.String("link", link),
			slog.Int("status", result.StatusCode))
	}

	return meta
}
