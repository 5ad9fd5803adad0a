// Package pipeline provides the high-level orchestration for building the company report.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jonathan/leetcode-company-report/internal/aggregation"
	"github.com/jonathan/leetcode-company-report/internal/config"
	"github.com/jonathan/leetcode-company-report/internal/enrichment"
	"github.com/jonathan/leetcode-company-report/internal/ingestion"
	"github.com/jonathan/leetcode-company-report/internal/observability"
	"github.com/jonathan/leetcode-company-report/internal/parsing"
	"github.com/jonathan/leetcode-company-report/internal/pipeline/steps"
	"github.com/jonathan/leetcode-company-report/internal/rendering"
	"github.com/jonathan/leetcode-company-report/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Done     int    `json:"done,omitempty"`
	Total    int    `json:"total,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Loader reads problem rows from the input workbook.
type Loader func(path string, opts *ingestion.LoadOptions) ([]types.ProblemRow, error)

// Extractor derives the sorted company list from problem rows.
type Extractor func(rows []types.ProblemRow) []string

// Aggregator expands rows into enriched, sorted records.
type Aggregator func(ctx context.Context, rows []types.ProblemRow, fetcher enrichment.MetadataFetcher, opts *aggregation.Options) ([]types.EnrichedRecord, error)

// Writer saves the finished report.
type Writer func(path string, report types.Report) error

// Stages holds the replaceable pipeline stages. Zero fields use the defaults.
type Stages struct {
	Load      Loader
	Extract   Extractor
	Aggregate Aggregator
	Write     Writer
	// Fetcher overrides the fetcher built from the configuration.
	Fetcher enrichment.MetadataFetcher
}

// DefaultStages returns the production stages.
func DefaultStages() Stages {
	return Stages{
		Load:      ingestion.LoadProblems,
		Extract:   parsing.ExtractCompanies,
		Aggregate: aggregation.Aggregate,
		Write:     rendering.WriteReport,
	}
}

func (s Stages) withDefaults() Stages {
	d := DefaultStages()
	if s.Load == nil {
		s.Load = d.Load
	}
	if s.Extract == nil {
		s.Extract = d.Extract
	}
	if s.Aggregate == nil {
		s.Aggregate = d.Aggregate
	}
	if s.Write == nil {
		s.Write = d.Write
	}
	return s
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	Config     config.Config
	RunID      string
	Stages     Stages
	Logger     *slog.Logger
	Out        io.Writer // Step lines and verbose output; defaults to os.Stdout
	OnProgress ProgressCallback
	// OnRecord is called after each company association is enriched.
	OnRecord aggregation.ProgressFunc
}

// Result is the outcome of a successful run.
type Result struct {
	Report  types.Report
	Summary observability.Summary
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, done, total int) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: steps.StepRegistry[step].Category,
			Message:  message,
			RunID:    opts.RunID,
			Done:     done,
			Total:    total,
		})
	}
}

// Run loads the input workbook, enriches every company association, and
// writes the report. Enrichment failures never abort the run; load, render
// and cancellation errors do.
//
//nolint:errcheck // step lines go to stdout; errors are not recoverable
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	start := time.Now()
	cfg := opts.Config
	stages := opts.Stages.withDefaults()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	tracker := steps.NewTracker()

	begin := func(step string) error {
		label, err := tracker.Begin(step)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s...\n", label)
		emitProgress(&opts, step, label, 0, 0)
		return nil
	}

	// Step 1: Load problems
	if err := begin(steps.StepLoad); err != nil {
		return nil, err
	}
	rows, err := stages.Load(cfg.Input, &ingestion.LoadOptions{Sheet: cfg.Sheet})
	if err != nil {
		return nil, fmt.Errorf("loading problems failed: %w", err)
	}
	logger.Info("Loaded problems", slog.String("input", cfg.Input), slog.Int("rows", len(rows)))
	tracker.Complete(steps.StepLoad)

	// Step 2: Extract companies
	if err := begin(steps.StepExtract); err != nil {
		return nil, err
	}
	companies := stages.Extract(rows)
	associations := parsing.CountAssociations(rows)
	logger.Info("Extracted companies",
		slog.Int("companies", len(companies)),
		slog.Int("associations", associations))
	tracker.Complete(steps.StepExtract)

	// Step 3: Enrich
	if err := begin(steps.StepEnrich); err != nil {
		return nil, err
	}
	fetcher := stages.Fetcher
	var chain *FetcherChain
	if fetcher == nil {
		chain = BuildFetcher(ctx, &cfg, logger)
		defer chain.Close()
		fetcher = chain.Fetcher
	}

	records, err := stages.Aggregate(ctx, rows, fetcher, &aggregation.Options{
		Workers: cfg.Workers,
		OnProgress: func(done, total int, record types.EnrichedRecord) {
			if opts.OnRecord != nil {
				opts.OnRecord(done, total, record)
			}
			emitProgress(&opts, steps.StepEnrich, record.Link, done, total)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("enrichment interrupted: %w", err)
	}
	tracker.Complete(steps.StepEnrich)

	// Step 4: Aggregate
	if err := begin(steps.StepAggregate); err != nil {
		return nil, err
	}
	report := aggregation.BuildReport(records, companies)
	tracker.Complete(steps.StepAggregate)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 5: Write
	if err := begin(steps.StepWrite); err != nil {
		return nil, err
	}
	if err := stages.Write(cfg.Output, report); err != nil {
		return nil, fmt.Errorf("writing report failed: %w", err)
	}
	tracker.Complete(steps.StepWrite)

	summary := observability.Summary{
		RunID:     opts.RunID,
		Input:     cfg.Input,
		Output:    cfg.Output,
		Rows:      len(rows),
		Companies: len(companies),
		Records:   len(report.Records),
		TopicRows: len(report.TopicStats),
		Unknown:   countUnknown(report.Records),
		Elapsed:   time.Since(start),
	}
	if chain != nil {
		summary.Persisted = chain.Database != nil
		if chain.Cache != nil {
			stats := chain.Cache.Stats()
			summary.Lookups = stats.Lookups
			summary.Fetches = stats.Fetches
		}
	}

	if cfg.Verbose {
		printer := observability.NewPrinter(out)
		printer.PrintSummary(&summary)
		printer.PrintDifficultyBreakdown(report.Records)
		printer.PrintTopTopics(report.TopicStats)
		printer.PrintUnknownLinks(report.Records)
	}

	logger.Info("Run complete",
		slog.Int("records", summary.Records),
		slog.Int("unknown", summary.Unknown),
		slog.Duration("elapsed", summary.Elapsed))

	return &Result{Report: report, Summary: summary}, nil
}

func countUnknown(records []types.EnrichedRecord) int {
	n := 0
	for _, rec := range records {
		if rec.Difficulty == types.DifficultyUnknown {
			n++
		}
	}
	return n
}
