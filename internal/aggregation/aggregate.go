// Package aggregation expands problem rows into per-company records, sorts
// them and derives topic statistics.
package aggregation

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/leetcode-company-report/internal/enrichment"
	"github.com/jonathan/leetcode-company-report/internal/parsing"
	"github.com/jonathan/leetcode-company-report/internal/types"
)

// ProgressFunc is called after each association is enriched.
type ProgressFunc func(done, total int, record types.EnrichedRecord)

// Options configures Aggregate.
type Options struct {
	// Workers bounds concurrent lookups. Values below 1 mean sequential.
	Workers    int
	OnProgress ProgressFunc
}

type association struct {
	row     types.ProblemRow
	company string
}

func associations(rows []types.ProblemRow) []association {
	var out []association
	for _, row := range rows {
		for _, company := range parsing.SplitCompanies(row.Companies) {
			out = append(out, association{row: row, company: company})
		}
	}
	return out
}

// Aggregate emits one record per (row, company) association, enriched by
// fetcher, and returns them sorted with SortRecords. The only error is a
// canceled context.
func Aggregate(ctx context.Context, rows []types.ProblemRow, fetcher enrichment.MetadataFetcher, opts *Options) ([]types.EnrichedRecord, error) {
	if opts == nil {
		opts = &Options{}
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	pairs := associations(rows)
	records := make([]types.EnrichedRecord, len(pairs))

	var (
		mu   sync.Mutex
		done int
	)

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		i, pair := i, pair
		g.Go(func() error {
			meta := fetcher.FetchMetadata(ctx, pair.row.Link)
			records[i] = types.EnrichedRecord{
				Company:     pair.company,
				ProblemName: pair.row.Name,
				Link:        pair.row.Link,
				Difficulty:  types.ParseDifficulty(string(meta.Difficulty)),
				Topic:       topicOrUnknown(meta.Topic),
			}

			if opts.OnProgress != nil {
				mu.Lock()
				done++
				opts.OnProgress(done, len(pairs), records[i])
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	SortRecords(records)
	return records, nil
}

func topicOrUnknown(topic string) string {
	if topic == "" {
		return types.TopicUnknown
	}
	return topic
}

// SortRecords orders records by company, then difficulty severity
// (Easy < Medium < Hard < Unknown). Ties keep their input order.
func SortRecords(records []types.EnrichedRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Company != records[j].Company {
			return records[i].Company < records[j].Company
		}
		return records[i].Difficulty.Severity() < records[j].Difficulty.Severity()
	})
}
