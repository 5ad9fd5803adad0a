// Package types provides type definitions for structured data used throughout the company report pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ProblemRow is one row of the input spreadsheet.
type ProblemRow struct {
	Name      string `json:"problem_name"`
	Link      string `json:"problem_link"`
	Companies string `json:"companies"` // Comma-separated, may be empty
	Row       int    `json:"row"`       // 1-based spreadsheet row, for diagnostics
}

// Report is everything the report writer needs to render a workbook.
type Report struct {
	Records    []EnrichedRecord `json:"records"`
	Companies  []string         `json:"companies"`
	TopicStats []TopicFrequency `json:"topic_stats"`
}
