package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"branchscope/internal/analysis"
)

// maxColWidth caps auto-sized workbook columns.
const maxColWidth = 50

// ExcelWriter writes a multi-sheet workbook per analysis run.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates an Excel writer.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// WriteWorkbook writes every bundle of a result to path: a Summary sheet
// covering all areas plus Trends, Market Share, Growth, and Impact sheets
// per table, with the combined view included when present.
func (w *ExcelWriter) WriteWorkbook(result *analysis.Result, path string) error {
	if result == nil || len(result.Bundles) == 0 {
		return fmt.Errorf("write workbook: empty analysis result")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	bundles := make([]*analysis.AnalysisBundle, 0, len(result.Bundles)+1)
	bundles = append(bundles, result.Bundles...)
	if result.Combined != nil {
		bundles = append(bundles, result.Combined)
	}

	if err := w.writeSummarySheet(f, bundles); err != nil {
		return err
	}

	sheets := []struct {
		name    string
		headers []string
		rows    func(*analysis.AnalysisBundle) [][]string
	}{
		{"Trends", trendHeaders, func(b *analysis.AnalysisBundle) [][]string { return trendRows(b.Trends) }},
		{"Market Share", shareHeaders, func(b *analysis.AnalysisBundle) [][]string { return shareRows(b.Shares) }},
		{"Growth", growthHeaders, func(b *analysis.AnalysisBundle) [][]string { return growthRows(b.Growth) }},
		{"Impact", impactHeaders, func(b *analysis.AnalysisBundle) [][]string { return impactRows(b.Impact) }},
	}

	for _, sheet := range sheets {
		headers := append([]string{"area_id"}, sheet.headers...)
		if sheet.name == "Trends" {
			headers = sheet.headers // trend rows already carry area_id
		}
		var rows [][]string
		for _, b := range bundles {
			for _, r := range sheet.rows(b) {
				if sheet.name != "Trends" {
					r = append([]string{b.AreaID}, r...)
				}
				rows = append(rows, r)
			}
		}
		if err := writeSheet(f, sheet.name, headers, rows); err != nil {
			return err
		}
	}

	// Drop the default sheet and make Summary active.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex("Summary")
	if err != nil {
		return fmt.Errorf("locate summary sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	w.logger.Info("workbook written",
		slog.String("path", path),
		slog.Int("bundles", len(bundles)),
	)
	return nil
}

// writeSummarySheet writes one row per bundle with headline figures.
func (w *ExcelWriter) writeSummarySheet(f *excelize.File, bundles []*analysis.AnalysisBundle) error {
	headers := []string{"area_id", "target_year", "total_branches", "institutions", "hhi", "classification", "majority_cohort_size", "cohort_share_pct", "avg_lmi_pct", "avg_minority_pct"}

	rows := make([][]string, 0, len(bundles))
	for _, b := range bundles {
		var branches int64
		var institutions int
		if n := len(b.Trends); n > 0 {
			branches = b.Trends[n-1].TotalBranches
			institutions = b.Trends[n-1].Institutions
		}
		rows = append(rows, []string{
			b.AreaID,
			fmt.Sprintf("%d", b.TargetYear),
			fmt.Sprintf("%d", branches),
			fmt.Sprintf("%d", institutions),
			fmt.Sprintf("%.0f", b.Concentration.Value),
			b.Concentration.Classification.String(),
			fmt.Sprintf("%d", len(b.Cohort.Members)),
			formatFloat(b.Cohort.CumulativeSharePct),
			formatFloat(b.Averages.LMIPct),
			formatFloat(b.Averages.MinorityPct),
		})
	}
	return writeSheet(f, "Summary", headers, rows)
}

func writeSheet(f *excelize.File, name string, headers []string, rows [][]string) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	widths := make([]int, len(headers))
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		widths[col] = len(h)
	}

	for rowIdx, row := range rows {
		for col, v := range row {
			if col >= len(widths) {
				break
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("sheet %s: %w", name, err)
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return fmt.Errorf("sheet %s: %w", name, err)
			}
			if len(v) > widths[col] {
				widths[col] = len(v)
			}
		}
	}

	for col := range headers {
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		width := widths[col] + 2
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := f.SetColWidth(name, colName, colName, float64(width)); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	return nil
}
