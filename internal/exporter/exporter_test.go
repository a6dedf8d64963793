package exporter

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"branchscope/internal/analysis"
)

func sampleBundle() *analysis.AnalysisBundle {
	return &analysis.AnalysisBundle{
		AreaID:     "cook-il",
		Years:      []int{2020, 2021},
		TargetYear: 2021,
		Trends: []analysis.YearlyTrend{
			{AreaID: "cook-il", Year: 2020, TotalBranches: 100, LMIBranches: 20, MinorityBranches: 20, Deposits: 1000, Institutions: 2, LMIPct: 20, MinorityPct: 20},
			{AreaID: "cook-il", Year: 2021, TotalBranches: 95, LMIBranches: 19, MinorityBranches: 17, Deposits: 1070, Institutions: 2, LMIPct: 20, MinorityPct: 17.9, HasYoY: true, YoYChangeAbs: -5, YoYChangePct: -5, CumulativeChangePct: -5},
		},
		Shares: []analysis.InstitutionShare{
			{Institution: "First National", Branches: 50, Deposits: 650, MarketSharePct: 60.7, BranchSharePct: 52.6, LMIPct: 20, MinorityPct: 10},
			{Institution: "Community Trust", Branches: 45, Deposits: 420, MarketSharePct: 39.3, BranchSharePct: 47.4, LMIPct: 20, MinorityPct: 26.7},
		},
		Concentration: analysis.ConcentrationIndex{Value: 5228, Classification: analysis.HighlyConcentrated},
		Cohort: analysis.MajorityCohort{
			Threshold:          50,
			CumulativeSharePct: 60.7,
			Members:            []analysis.InstitutionShare{{Institution: "First National", MarketSharePct: 60.7}},
		},
		Growth: []analysis.GrowthRecord{
			{Institution: "First National", FirstYear: 2020, LastYear: 2021, FirstYearBranches: 60, LastYearBranches: 50, AbsoluteChange: -10, PercentChange: -16.7},
		},
		Impact: []analysis.ImpactComparison{
			{Institution: "First National", LMIPct: 20, MinorityPct: 10, LMIVsAverage: analysis.Equal, MinorityVsAverage: analysis.Below},
		},
		Averages: analysis.AreaAverages{LMIPct: 20, MinorityPct: 17.9},
	}
}

func TestCSVWriterWriteBundle(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, w.WriteBundle(sampleBundle()))

	for _, name := range []string{"cook-il_trends.csv", "cook-il_shares.csv", "cook-il_growth.csv", "cook-il_impact.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "cook-il_trends.csv"))
	require.NoError(t, err)
	content := strings.TrimPrefix(string(raw), "\xef\xbb\xbf")

	rows, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, trendHeaders, rows[0])
	// First-year YoY columns stay empty, not zero.
	assert.Equal(t, "", rows[1][9])
	assert.Equal(t, "-5", rows[2][9])
	assert.Equal(t, "-5.00", rows[2][10])
}

func TestExcelWriterWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "report.xlsx")

	result := &analysis.Result{Bundles: []*analysis.AnalysisBundle{sampleBundle()}}
	w := NewExcelWriter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, w.WriteWorkbook(result, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Trends", "Market Share", "Growth", "Impact"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "cook-il", rows[1][0])
	assert.Equal(t, "5228", rows[1][4])
	assert.Equal(t, "Highly Concentrated", rows[1][5])

	shareRows, err := f.GetRows("Market Share")
	require.NoError(t, err)
	require.Len(t, shareRows, 3)
	assert.Equal(t, "cook-il", shareRows[1][0])
	assert.Equal(t, "First National", shareRows[1][1])
}

func TestExcelWriterEmptyResult(t *testing.T) {
	w := NewExcelWriter(nil)
	err := w.WriteWorkbook(&analysis.Result{}, filepath.Join(t.TempDir(), "x.xlsx"))
	require.Error(t, err)
}
