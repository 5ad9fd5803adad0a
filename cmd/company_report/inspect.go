package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/leetcode-company-report/internal/config"
	"github.com/jonathan/leetcode-company-report/internal/enrichment"
	"github.com/jonathan/leetcode-company-report/internal/fetch"
)

var inspectCommand = &cobra.Command{
	Use:   "inspect <url>",
	Short: "Fetch one problem page and print the difficulty and topic read from it",
	Long: `Fetches a single problem link and shows what the metadata selectors find.
Use it to check selectors after the problem page markup changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspectCmd,
}

var (
	inspectUseBrowser         bool
	inspectTimeout            time.Duration
	inspectDifficultySelector string
	inspectTopicSelector      string
)

func init() {
	inspectCommand.Flags().BoolVar(&inspectUseBrowser, "use-browser", false, "Render the page with headless Chrome")
	inspectCommand.Flags().DurationVar(&inspectTimeout, "timeout", config.DefaultFetchTimeout, "Fetch timeout")
	inspectCommand.Flags().StringVar(&inspectDifficultySelector, "difficulty-selector", "", "CSS selector for the difficulty label")
	inspectCommand.Flags().StringVar(&inspectTopicSelector, "topic-selector", "", "CSS selector for topic tags")

	rootCmd.AddCommand(inspectCommand)
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	link := args[0]

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = inspectUseBrowser
	}
	if cmd.Flags().Changed("timeout") {
		cfg.FetchTimeout = config.Duration(inspectTimeout)
	}
	if inspectDifficultySelector != "" {
		cfg.DifficultySelector = inspectDifficultySelector
	}
	if inspectTopicSelector != "" {
		cfg.TopicSelector = inspectTopicSelector
	}

	source := fetch.NewPageFetcher(&fetch.PageFetcherConfig{
		UseBrowser: cfg.UseBrowser,
		Options: &fetch.Options{
			Timeout:   cfg.FetchTimeout.Std(),
			UserAgent: cfg.UserAgent,
		},
	})

	result, err := source.Fetch(cmdContext(cmd), link)
	if err != nil {
		return fmt.Errorf("fetch failed (%s): %w", fetch.Classify(err), err)
	}

	selectors := enrichment.Selectors{Difficulty: cfg.DifficultySelector, Topic: cfg.TopicSelector}
	meta, err := enrichment.ParseMetadata(result.HTML, selectors)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "URL:        %s\n", link)
	_, _ = fmt.Fprintf(out, "Status:     %d\n", result.StatusCode)
	_, _ = fmt.Fprintf(out, "Difficulty: %s (%s)\n", meta.Difficulty, selectors.Difficulty)
	_, _ = fmt.Fprintf(out, "Topic:      %s (%s)\n", meta.Topic, selectors.Topic)
	return nil
}
