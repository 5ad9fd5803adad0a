package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/jonathan/leetcode-company-report/internal/config"
	"github.com/jonathan/leetcode-company-report/internal/logging"
	"github.com/jonathan/leetcode-company-report/internal/pipeline"
	"github.com/jonathan/leetcode-company-report/internal/types"
)

// successMessage is printed once the workbook has been written.
const successMessage = "Excel file with dropdown, color coding & topic frequency exported!"

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Build the company report workbook end-to-end",
	Long: `Loads the problem spreadsheet, expands each problem into one record per company,
looks up difficulty and topic for every problem link, and writes the report workbook.

Configuration precedence: defaults < --config file < REPORT_* environment < flags.`,
	RunE: runReportCmd,
}

var (
	runConfigPath  string
	runInput       string
	runOutput      string
	runSheet       string
	runWorkers     int
	runTimeout     time.Duration
	runRate        float64
	runBurst       int
	runUseBrowser  bool
	runDatabaseURL string
	runNoCache     bool
	runOffline     bool
	runVerbose     bool
	runLogLevel    string
	runLogFormat   string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runInput, "input", "i", config.DefaultInput, "Path to the problem spreadsheet")
	runCommand.Flags().StringVarP(&runOutput, "output", "o", config.DefaultOutput, "Path of the report workbook to write")
	runCommand.Flags().StringVar(&runSheet, "sheet", "", "Input sheet name (defaults to the first sheet)")
	runCommand.Flags().IntVar(&runWorkers, "workers", config.DefaultWorkers, "Concurrent metadata lookups (1 = sequential)")
	runCommand.Flags().DurationVar(&runTimeout, "timeout", config.DefaultFetchTimeout, "Timeout for each page fetch")
	runCommand.Flags().Float64Var(&runRate, "rate", 0, "Maximum page fetches per second (0 = unlimited)")
	runCommand.Flags().IntVar(&runBurst, "burst", config.DefaultBurst, "Burst size for the fetch rate limit")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Render problem pages with headless Chrome")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL URL for the persistent metadata cache (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().BoolVar(&runNoCache, "no-cache", false, "Ignore the persistent metadata cache")
	runCommand.Flags().BoolVar(&runOffline, "offline", false, "Skip all lookups and report every problem as Unknown")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print debug logs and a run summary")
	runCommand.Flags().StringVar(&runLogLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	runCommand.Flags().StringVar(&runLogFormat, "log-format", config.DefaultLogFormat, "Log format: text or json")

	rootCmd.AddCommand(runCommand)
}

// resolveRunConfig merges the config file, environment and explicitly set flags.
func resolveRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = runInput
	}
	if flags.Changed("output") {
		cfg.Output = runOutput
	}
	if flags.Changed("sheet") {
		cfg.Sheet = runSheet
	}
	if flags.Changed("workers") {
		cfg.Workers = runWorkers
	}
	if flags.Changed("timeout") {
		cfg.FetchTimeout = config.Duration(runTimeout)
	}
	if flags.Changed("rate") {
		cfg.RateLimit = runRate
	}
	if flags.Changed("burst") {
		cfg.Burst = runBurst
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if flags.Changed("no-cache") {
		cfg.NoCache = runNoCache
	}
	if flags.Changed("offline") {
		cfg.Offline = runOffline
	}
	if flags.Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = runLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = runLogFormat
	}
	if cfg.Verbose && !flags.Changed("log-level") {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveRunConfig(cmd)
	if err != nil {
		return err
	}

	runID := logging.NewRunID()
	logger := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
		RunID:  runID,
	})

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := pipeline.RunOptions{
		Config: *cfg,
		RunID:  runID,
		Logger: logger,
		Out:    cmd.OutOrStdout(),
	}

	if !cfg.Verbose {
		s := newSpinner(cmd.ErrOrStderr())
		opts.OnRecord = func(done, total int, _ types.EnrichedRecord) {
			s.Lock()
			s.Suffix = fmt.Sprintf(" enriching %d/%d", done, total)
			s.Unlock()
		}
		s.Start()
		defer s.Stop()
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, successMessage)
	_, _ = fmt.Fprintf(out, "  Output:    %s\n", cfg.Output)
	_, _ = fmt.Fprintf(out, "  Records:   %d (%d unknown)\n", result.Summary.Records, result.Summary.Unknown)
	_, _ = fmt.Fprintf(out, "  Companies: %d\n", result.Summary.Companies)
	_, _ = fmt.Fprintf(out, "  Topics:    %d rows\n", result.Summary.TopicRows)
	return nil
}

// newSpinner returns a progress spinner that only animates when w is a terminal.
func newSpinner(w io.Writer) *spinner.Spinner {
	option := spinner.WithWriter(w)
	if f, ok := w.(*os.File); ok {
		option = spinner.WithWriterFile(f)
	}
	return spinner.New(spinner.CharSets[14], 100*time.Millisecond, option)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
