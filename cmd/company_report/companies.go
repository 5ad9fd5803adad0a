package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/leetcode-company-report/internal/config"
	"github.com/jonathan/leetcode-company-report/internal/ingestion"
	"github.com/jonathan/leetcode-company-report/internal/parsing"
)

var companiesCommand = &cobra.Command{
	Use:   "companies",
	Short: "Print the sorted company list found in the problem spreadsheet",
	RunE:  runCompaniesCmd,
}

var (
	companiesConfigPath string
	companiesInput      string
	companiesSheet      string
	companiesCount      bool
)

func init() {
	companiesCommand.Flags().StringVar(&companiesConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	companiesCommand.Flags().StringVarP(&companiesInput, "input", "i", config.DefaultInput, "Path to the problem spreadsheet")
	companiesCommand.Flags().StringVar(&companiesSheet, "sheet", "", "Input sheet name (defaults to the first sheet)")
	companiesCommand.Flags().BoolVar(&companiesCount, "count", false, "Print only the number of companies")

	rootCmd.AddCommand(companiesCommand)
}

// resolveCompaniesConfig applies the same precedence as run: defaults,
// config file, REPORT_* environment, then explicitly set flags.
func resolveCompaniesConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(companiesConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = companiesInput
	}
	if flags.Changed("sheet") {
		cfg.Sheet = companiesSheet
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCompaniesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveCompaniesConfig(cmd)
	if err != nil {
		return err
	}

	rows, err := ingestion.LoadProblems(cfg.Input, &ingestion.LoadOptions{Sheet: cfg.Sheet})
	if err != nil {
		return err
	}

	companies := parsing.ExtractCompanies(rows)
	out := cmd.OutOrStdout()

	if companiesCount {
		_, _ = fmt.Fprintln(out, len(companies))
		return nil
	}

	for _, company := range companies {
		_, _ = fmt.Fprintln(out, company)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d companies across %d problems (%d associations)\n",
		len(companies), len(rows), parsing.CountAssociations(rows))
	return nil
}
