package rendering

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/leetcode-company-report/internal/types"
)

// Sheet names in the generated workbook.
const (
	SheetCompanyFilter = "Company Filter"
	SheetTopicStats    = "Topic Stats"
	SheetLists         = "Lists"

	defaultSheet = "Sheet1"
)

// Header rows for each sheet.
var (
	CompanyFilterHeader = []string{"Company", "Problem Name", "LeetCode Link", "Difficulty", "Topic"}
	TopicStatsHeader    = []string{"Company", "Topic", "Frequency"}
)

// DifficultyColors maps difficulty to the hex fill color of its cell.
var DifficultyColors = map[types.Difficulty]string{
	types.DifficultyEasy:    "00FF00",
	types.DifficultyMedium:  "FFA500",
	types.DifficultyHard:    "FF0000",
	types.DifficultyUnknown: "CCCCCC",
}

// difficultyColumn is the 1-based column of the Difficulty cell.
const difficultyColumn = 4

var companyFilterWidths = map[string]float64{"A": 22, "B": 40, "C": 55, "D": 12, "E": 24}
var topicStatsWidths = map[string]float64{"A": 22, "B": 28, "C": 12}

// ColorFor returns the fill color for d, falling back to the unknown color.
func ColorFor(d types.Difficulty) string {
	if color, ok := DifficultyColors[d]; ok {
		return color
	}
	return DifficultyColors[types.DifficultyUnknown]
}

// WriteReport renders report and saves it to path.
func WriteReport(path string, report types.Report) error {
	f, err := BuildWorkbook(report)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &RenderError{Message: fmt.Sprintf("failed to create output directory %s", dir), Cause: err}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to save %s", path), Cause: err}
	}

	slog.Info("Report written",
		slog.String("path", path),
		slog.Int("records", len(report.Records)),
		slog.Int("topic_rows", len(report.TopicStats)))
	return nil
}

// BuildWorkbook renders report into a new in-memory workbook.
// The caller owns the returned file and must Close it.
func BuildWorkbook(report types.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := buildWorkbook(f, report); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func buildWorkbook(f *excelize.File, report types.Report) error {
	if err := f.SetSheetName(defaultSheet, SheetCompanyFilter); err != nil {
		return &RenderError{Message: "failed to name company sheet", Cause: err}
	}
	if _, err := f.NewSheet(SheetTopicStats); err != nil {
		return &RenderError{Message: "failed to create topic sheet", Cause: err}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return &RenderError{Message: "failed to create header style", Cause: err}
	}

	if err := writeCompanyFilter(f, report.Records, headerStyle); err != nil {
		return err
	}
	if err := addCompanyDropdown(f, report.Companies, len(report.Records)); err != nil {
		return err
	}
	if err := writeTopicStats(f, report.TopicStats, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return nil
}

func writeCompanyFilter(f *excelize.File, records []types.EnrichedRecord, headerStyle int) error {
	if err := writeHeader(f, SheetCompanyFilter, CompanyFilterHeader, headerStyle); err != nil {
		return err
	}

	styles, err := difficultyStyles(f)
	if err != nil {
		return err
	}

	for i, rec := range records {
		rowNum := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		row := []interface{}{rec.Company, rec.ProblemName, rec.Link, string(rec.Difficulty), rec.Topic}
		if err := f.SetSheetRow(SheetCompanyFilter, cell, &row); err != nil {
			return &RenderError{Message: fmt.Sprintf("failed to write row %d", rowNum), Cause: err}
		}

		diffCell, _ := excelize.CoordinatesToCellName(difficultyColumn, rowNum)
		if err := f.SetCellStyle(SheetCompanyFilter, diffCell, diffCell, styles[ColorFor(rec.Difficulty)]); err != nil {
			return &RenderError{Message: fmt.Sprintf("failed to style %s", diffCell), Cause: err}
		}
	}

	return setWidths(f, SheetCompanyFilter, companyFilterWidths)
}

// difficultyStyles creates one solid fill style per color.
func difficultyStyles(f *excelize.File) (map[string]int, error) {
	styles := make(map[string]int, len(DifficultyColors))
	for _, color := range DifficultyColors {
		if _, ok := styles[color]; ok {
			continue
		}
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, &RenderError{Message: fmt.Sprintf("failed to create fill %s", color), Cause: err}
		}
		styles[color] = id
	}
	return styles, nil
}

// addCompanyDropdown attaches a list validation to every Company cell.
// Lists too long for an inline formula, or that Excel would take for a
// formula, are written to a hidden sheet.
func addCompanyDropdown(f *excelize.File, companies []string, recordCount int) error {
	if recordCount == 0 || len(companies) == 0 {
		return nil
	}

	dv := excelize.NewDataValidation(true)
	dv.Sqref = fmt.Sprintf("A2:A%d", recordCount+1)

	// An inline list starting with "=" would be read back as a formula
	inline := !strings.HasPrefix(companies[0], "=")
	if inline {
		err := dv.SetDropList(companies)
		if errors.Is(err, excelize.ErrDataValidationFormulaLength) {
			inline = false
		} else if err != nil {
			return &RenderError{Message: "failed to build company dropdown", Cause: err}
		}
	}
	if !inline {
		ref, err := writeListSheet(f, companies)
		if err != nil {
			return err
		}
		dv.SetSqrefDropList(ref)
	}

	if err := f.AddDataValidation(SheetCompanyFilter, dv); err != nil {
		return &RenderError{Message: "failed to add company dropdown", Cause: err}
	}
	return nil
}

// writeListSheet stores companies in column A of a hidden sheet and returns
// an absolute reference to them.
func writeListSheet(f *excelize.File, companies []string) (string, error) {
	if _, err := f.NewSheet(SheetLists); err != nil {
		return "", &RenderError{Message: "failed to create list sheet", Cause: err}
	}
	for i, company := range companies {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellStr(SheetLists, cell, company); err != nil {
			return "", &RenderError{Message: "failed to write company list", Cause: err}
		}
	}
	if err := f.SetSheetVisible(SheetLists, false); err != nil {
		return "", &RenderError{Message: "failed to hide list sheet", Cause: err}
	}
	return fmt.Sprintf("%s!$A$1:$A$%d", SheetLists, len(companies)), nil
}

func writeTopicStats(f *excelize.File, stats []types.TopicFrequency, headerStyle int) error {
	if err := writeHeader(f, SheetTopicStats, TopicStatsHeader, headerStyle); err != nil {
		return err
	}

	for i, stat := range stats {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{stat.Company, stat.Topic, stat.Frequency}
		if err := f.SetSheetRow(SheetTopicStats, cell, &row); err != nil {
			return &RenderError{Message: fmt.Sprintf("failed to write topic row %d", i+2), Cause: err}
		}
	}

	return setWidths(f, SheetTopicStats, topicStatsWidths)
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to write %s header", sheet), Cause: err}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return &RenderError{Message: fmt.Sprintf("failed to style %s header", sheet), Cause: err}
	}
	return nil
}

func setWidths(f *excelize.File, sheet string, widths map[string]float64) error {
	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return &RenderError{Message: fmt.Sprintf("failed to size column %s", col), Cause: err}
		}
	}
	return nil
}
