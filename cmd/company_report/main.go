// Package main provides the entry point for the company report CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "company_report",
	Short: "Company-oriented LeetCode problem report generator",
	Long: `company_report reads a spreadsheet of coding problems tagged with the companies that ask them,
looks up each problem's difficulty and topic, and writes an Excel workbook with a company
dropdown, difficulty color coding and per-company topic frequencies.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
