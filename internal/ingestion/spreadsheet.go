package ingestion

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/leetcode-company-report/internal/types"
)

// Required input column headers.
const (
	ColumnProblemName = "problem_name"
	ColumnProblemLink = "Problem_Link"
	ColumnCompanies   = "Companies"
)

// RequiredColumns lists the headers the loader refuses to run without.
var RequiredColumns = []string{ColumnProblemName, ColumnProblemLink, ColumnCompanies}

// LoadOptions configures how the input workbook is read.
type LoadOptions struct {
	// Sheet selects a sheet by name. Empty means the first sheet.
	Sheet string
}

// LoadProblems reads every data row of the input workbook, preserving order.
// Missing files, unreadable workbooks and missing required columns are
// returned as *LoadError.
func LoadProblems(path string, opts *LoadOptions) ([]types.ProblemRow, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to open workbook", Cause: err}
	}
	defer func() { _ = f.Close() }()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, &LoadError{Path: path, Message: "workbook has no sheets"}
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("failed to read sheet %q", sheet), Cause: err}
	}
	if len(rows) == 0 {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("sheet %q is empty", sheet)}
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		return nil, &LoadError{Path: path, Message: "invalid header row", Cause: err}
	}

	slog.Debug("Loaded input sheet",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)-1))

	problems := make([]types.ProblemRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		problem := types.ProblemRow{
			Name:      cellAt(row, columns[ColumnProblemName]),
			Link:      cellAt(row, columns[ColumnProblemLink]),
			Companies: strings.TrimSpace(cellAt(row, columns[ColumnCompanies])),
			Row:       i + 1,
		}

		// Link cells are sometimes display text over a hyperlink
		if !looksLikeURL(strings.TrimSpace(problem.Link)) {
			if target := hyperlinkTarget(f, sheet, columns[ColumnProblemLink], i+1); target != "" {
				problem.Link = target
			}
		}

		problems = append(problems, problem)
	}

	return problems, nil
}

// mapColumns locates the required headers. Exact matches win; a
// case-insensitive match is accepted when no exact header exists.
func mapColumns(header []string) (map[string]int, error) {
	exact := make(map[string]int, len(header))
	folded := make(map[string]int, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		if _, ok := exact[name]; !ok {
			exact[name] = i
		}
		lower := strings.ToLower(name)
		if _, ok := folded[lower]; !ok {
			folded[lower] = i
		}
	}

	columns := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		if idx, ok := exact[col]; ok {
			columns[col] = idx
			continue
		}
		if idx, ok := folded[strings.ToLower(col)]; ok {
			columns[col] = idx
			continue
		}
		missing = append(missing, col)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

// cellAt returns the cell value as written, tolerating rows that excelize
// shortened because their trailing cells are empty. Names and links are
// reported exactly as read; only the header and company list are trimmed.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func looksLikeURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func hyperlinkTarget(f *excelize.File, sheet string, col, row int) string {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return ""
	}
	ok, target, err := f.GetCellHyperLink(sheet, cell)
	if err != nil || !ok {
		return ""
	}
	return strings.TrimSpace(target)
}
