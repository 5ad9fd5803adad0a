package rendering

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/leetcode-company-report/internal/types"
)

func sampleReport() types.Report {
	return types.Report{
		Records: []types.EnrichedRecord{
			{Company: "Amazon", ProblemName: "Two Sum", Link: "http://x/1", Difficulty: types.DifficultyEasy, Topic: "Array"},
			{Company: "Google", ProblemName: "LRU Cache", Link: "http://x/2", Difficulty: types.DifficultyMedium, Topic: "Design"},
			{Company: "Google", ProblemName: "Median of Two Sorted Arrays", Link: "http://x/3", Difficulty: types.DifficultyHard, Topic: "Array"},
			{Company: "Google", ProblemName: "Mystery", Link: "http://x/4", Difficulty: types.DifficultyUnknown, Topic: types.TopicUnknown},
		},
		Companies: []string{"Amazon", "Google"},
		TopicStats: []types.TopicFrequency{
			{Company: "Amazon", Topic: "Array", Frequency: 1},
			{Company: "Google", Topic: "Array", Frequency: 1},
			{Company: "Google", Topic: "Design", Frequency: 1},
			{Company: "Google", Topic: types.TopicUnknown, Frequency: 1},
		},
	}
}

func writeAndOpen(t *testing.T, report types.Report) *excelize.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteReport(path, report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func fillColor(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()

	idx, err := f.GetCellStyle(sheet, cell)
	require.NoError(t, err)
	style, err := f.GetStyle(idx)
	require.NoError(t, err)
	require.NotEmpty(t, style.Fill.Color, "cell %s has no fill", cell)
	return strings.ToUpper(style.Fill.Color[0])
}

func TestWriteReport_SheetsAndHeaders(t *testing.T) {
	f := writeAndOpen(t, sampleReport())

	assert.Equal(t, []string{SheetCompanyFilter, SheetTopicStats}, f.GetSheetList())

	rows, err := f.GetRows(SheetCompanyFilter)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, CompanyFilterHeader, rows[0])
	assert.Equal(t, []string{"Amazon", "Two Sum", "http://x/1", "Easy", "Array"}, rows[1])
	assert.Equal(t, []string{"Google", "Mystery", "http://x/4", "Unknown", "Unknown"}, rows[4])

	stats, err := f.GetRows(SheetTopicStats)
	require.NoError(t, err)
	require.Len(t, stats, 5)
	assert.Equal(t, TopicStatsHeader, stats[0])
	assert.Equal(t, []string{"Google", "Design", "1"}, stats[3])
}

func TestWriteReport_HeaderIsBold(t *testing.T) {
	f := writeAndOpen(t, sampleReport())

	idx, err := f.GetCellStyle(SheetTopicStats, "C1")
	require.NoError(t, err)
	style, err := f.GetStyle(idx)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestWriteReport_DifficultyFill(t *testing.T) {
	f := writeAndOpen(t, sampleReport())

	assert.Equal(t, "00FF00", fillColor(t, f, SheetCompanyFilter, "D2"))
	assert.Equal(t, "FFA500", fillColor(t, f, SheetCompanyFilter, "D3"))
	assert.Equal(t, "FF0000", fillColor(t, f, SheetCompanyFilter, "D4"))
	assert.Equal(t, "CCCCCC", fillColor(t, f, SheetCompanyFilter, "D5"))
}

func TestWriteReport_CompanyDropdown(t *testing.T) {
	f := writeAndOpen(t, sampleReport())

	dvs, err := f.GetDataValidations(SheetCompanyFilter)
	require.NoError(t, err)
	require.Len(t, dvs, 1)
	assert.Equal(t, "A2:A5", dvs[0].Sqref)
	assert.Equal(t, "list", dvs[0].Type)
	assert.Contains(t, dvs[0].Formula1, "Amazon,Google")
}

func TestWriteReport_DropdownListsEveryCompany(t *testing.T) {
	report := sampleReport()
	report.Companies = []string{"Amazon", "Google", "Zeta"}

	f := writeAndOpen(t, report)

	dvs, err := f.GetDataValidations(SheetCompanyFilter)
	require.NoError(t, err)
	require.Len(t, dvs, 1)
	assert.Equal(t, "\"Amazon,Google,Zeta\"", dvs[0].Formula1)
	assert.True(t, dvs[0].AllowBlank)
}

func TestWriteReport_FormulaLikeCompanyUsesHiddenSheet(t *testing.T) {
	report := types.Report{
		Records: []types.EnrichedRecord{
			{Company: "=Cmd", ProblemName: "Two Sum", Link: "http://x/1", Difficulty: types.DifficultyEasy, Topic: "Array"},
			{Company: "Acme", ProblemName: "Two Sum", Link: "http://x/1", Difficulty: types.DifficultyEasy, Topic: "Array"},
		},
		Companies: []string{"=Cmd", "Acme"},
	}

	f := writeAndOpen(t, report)

	dvs, err := f.GetDataValidations(SheetCompanyFilter)
	require.NoError(t, err)
	require.Len(t, dvs, 1)
	assert.Contains(t, dvs[0].Formula1, "Lists!$A$1:$A$2")
	assert.NotContains(t, dvs[0].Formula1, "=Cmd")

	first, err := f.GetCellValue(SheetLists, "A1")
	require.NoError(t, err)
	assert.Equal(t, "=Cmd", first)
}

func TestWriteReport_LongDropdownUsesHiddenSheet(t *testing.T) {
	report := types.Report{}
	for i := 0; i < 40; i++ {
		company := fmt.Sprintf("Company Number %02d", i)
		report.Companies = append(report.Companies, company)
		report.Records = append(report.Records, types.EnrichedRecord{
			Company: company, ProblemName: "Two Sum", Link: "http://x/1",
			Difficulty: types.DifficultyEasy, Topic: "Array",
		})
	}

	f := writeAndOpen(t, report)

	dvs, err := f.GetDataValidations(SheetCompanyFilter)
	require.NoError(t, err)
	require.Len(t, dvs, 1)
	assert.Equal(t, "A2:A41", dvs[0].Sqref)
	assert.Contains(t, dvs[0].Formula1, "Lists!$A$1:$A$40")

	visible, err := f.GetSheetVisible(SheetLists)
	require.NoError(t, err)
	assert.False(t, visible)

	first, err := f.GetCellValue(SheetLists, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Company Number 00", first)
}

func TestWriteReport_EmptyReport(t *testing.T) {
	f := writeAndOpen(t, types.Report{})

	rows, err := f.GetRows(SheetCompanyFilter)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, CompanyFilterHeader, rows[0])

	dvs, err := f.GetDataValidations(SheetCompanyFilter)
	require.NoError(t, err)
	assert.Empty(t, dvs)
}

func TestWriteReport_TopicFrequencyOrder(t *testing.T) {
	report := types.Report{
		Records: []types.EnrichedRecord{
			{Company: "Acme", ProblemName: "P1", Link: "http://x/1", Difficulty: types.DifficultyEasy, Topic: "Array"},
			{Company: "Acme", ProblemName: "P2", Link: "http://x/2", Difficulty: types.DifficultyEasy, Topic: "Array"},
			{Company: "Acme", ProblemName: "P3", Link: "http://x/3", Difficulty: types.DifficultyEasy, Topic: "Hash Table"},
		},
		Companies: []string{"Acme"},
		TopicStats: []types.TopicFrequency{
			{Company: "Acme", Topic: "Array", Frequency: 2},
			{Company: "Acme", Topic: "Hash Table", Frequency: 1},
		},
	}

	f := writeAndOpen(t, report)

	rows, err := f.GetRows(SheetTopicStats)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		TopicStatsHeader,
		{"Acme", "Array", "2"},
		{"Acme", "Hash Table", "1"},
	}, rows)
}

func TestWriteReport_CreatesOutputDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "report.xlsx")

	require.NoError(t, WriteReport(path, sampleReport()))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteReport_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteReport(filepath.Join(blocker, "report.xlsx"), sampleReport())
	require.Error(t, err)

	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, "00FF00", ColorFor(types.DifficultyEasy))
	assert.Equal(t, "CCCCCC", ColorFor(types.Difficulty("Impossible")))
}
