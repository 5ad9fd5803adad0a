// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/leetcode-company-report/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Summary describes one finished report run.
type Summary struct {
	RunID     string
	Input     string
	Output    string
	Rows      int
	Companies int
	Records   int
	TopicRows int
	Unknown   int // Records whose difficulty could not be determined
	Lookups   int64
	Fetches   int64
	Persisted bool // Persistent metadata cache was available
	Elapsed   time.Duration
}

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", fitLine(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %s │\n", fitLine(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// fitLine pads or truncates line to exactly width runes.
func fitLine(line string, width int) string {
	n := utf8.RuneCountInString(line)
	if n > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-n)
}

// PrintSummary outputs the counts of a finished run.
func (p *Printer) PrintSummary(s *Summary) {
	if s == nil {
		return
	}

	var sb strings.Builder
	if s.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run:        %s\n", s.RunID))
	}
	sb.WriteString(fmt.Sprintf("Input:      %s\n", s.Input))
	sb.WriteString(fmt.Sprintf("Output:     %s\n", s.Output))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Problems:   %d\n", s.Rows))
	sb.WriteString(fmt.Sprintf("Companies:  %d\n", s.Companies))
	sb.WriteString(fmt.Sprintf("Records:    %d (%d unknown)\n", s.Records, s.Unknown))
	sb.WriteString(fmt.Sprintf("Topic rows: %d\n", s.TopicRows))

	if s.Lookups > 0 {
		sb.WriteString(fmt.Sprintf("Lookups:    %d (%d fetched, %d cached)\n", s.Lookups, s.Fetches, s.Lookups-s.Fetches))
	}
	if s.Persisted {
		sb.WriteString("Store:      enabled\n")
	}
	if s.Elapsed > 0 {
		sb.WriteString(fmt.Sprintf("Elapsed:    %s\n", s.Elapsed.Round(time.Millisecond)))
	}

	p.printBox("RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDifficultyBreakdown outputs how many records fall into each difficulty.
func (p *Printer) PrintDifficultyBreakdown(records []types.EnrichedRecord) {
	if len(records) == 0 {
		return
	}

	counts := make(map[types.Difficulty]int)
	for _, rec := range records {
		counts[rec.Difficulty]++
	}

	var sb strings.Builder
	for _, d := range []types.Difficulty{types.DifficultyEasy, types.DifficultyMedium, types.DifficultyHard, types.DifficultyUnknown} {
		sb.WriteString(fmt.Sprintf("%-8s %5d\n", d, counts[d]))
	}

	p.printBox("DIFFICULTY BREAKDOWN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTopTopics outputs the most frequent topics per company, up to
// maxItemsToShow companies.
func (p *Printer) PrintTopTopics(stats []types.TopicFrequency) {
	if len(stats) == 0 {
		return
	}

	var sb strings.Builder
	shown := 0
	seen := make(map[string]bool)
	for _, stat := range stats {
		if seen[stat.Company] {
			continue
		}
		seen[stat.Company] = true
		if shown == maxItemsToShow {
			continue
		}
		sb.WriteString(fmt.Sprintf("• %s: %s (%d)\n", stat.Company, stat.Topic, stat.Frequency))
		shown++
	}

	if len(seen) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more companies\n", len(seen)-maxItemsToShow))
	}

	p.printBox("TOP TOPIC PER COMPANY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUnknownLinks outputs links whose metadata could not be determined.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintUnknownLinks(records []types.EnrichedRecord) {
	var links []string
	seen := make(map[string]bool)
	for _, rec := range records {
		if rec.Difficulty != types.DifficultyUnknown || seen[rec.Link] {
			continue
		}
		seen[rec.Link] = true
		links = append(links, rec.Link)
	}

	if len(links) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ ALL LINKS ENRICHED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d links without metadata:\n\n", len(links)))

	count := min(len(links), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", links[i]))
	}
	if len(links) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(links)-maxItemsToShow))
	}

	p.printBox("UNKNOWN METADATA", strings.TrimSuffix(sb.String(), "\n"))
}
