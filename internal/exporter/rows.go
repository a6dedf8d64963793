package exporter

import (
	"fmt"
	"strconv"

	"branchscope/internal/analysis"
)

// Raw-valued rows for spreadsheet export. Display formatting (thousands
// separators, signed deltas) belongs to the report assembler; exports keep
// machine-readable values.

var (
	trendHeaders  = []string{"area_id", "year", "total_branches", "lmi_branches", "minority_branches", "deposits", "institutions", "lmi_pct", "minority_pct", "yoy_change_abs", "yoy_change_pct", "cumulative_change_pct"}
	shareHeaders  = []string{"institution", "branches", "deposits", "market_share_pct", "branch_share_pct", "lmi_pct", "minority_pct"}
	growthHeaders = []string{"institution", "first_year", "last_year", "first_year_branches", "last_year_branches", "absolute_change", "percent_change"}
	impactHeaders = []string{"institution", "lmi_pct", "minority_pct", "lmi_vs_average", "minority_vs_average"}
)

func trendRows(trends []analysis.YearlyTrend) [][]string {
	rows := make([][]string, 0, len(trends))
	for _, t := range trends {
		yoyAbs, yoyPct := "", ""
		if t.HasYoY {
			yoyAbs = strconv.FormatInt(t.YoYChangeAbs, 10)
			yoyPct = formatFloat(t.YoYChangePct)
		}
		rows = append(rows, []string{
			t.AreaID,
			strconv.Itoa(t.Year),
			strconv.FormatInt(t.TotalBranches, 10),
			strconv.FormatInt(t.LMIBranches, 10),
			strconv.FormatInt(t.MinorityBranches, 10),
			formatFloat(t.Deposits),
			strconv.Itoa(t.Institutions),
			formatFloat(t.LMIPct),
			formatFloat(t.MinorityPct),
			yoyAbs,
			yoyPct,
			formatFloat(t.CumulativeChangePct),
		})
	}
	return rows
}

func shareRows(shares []analysis.InstitutionShare) [][]string {
	rows := make([][]string, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, []string{
			s.Institution,
			strconv.FormatInt(s.Branches, 10),
			formatFloat(s.Deposits),
			formatFloat(s.MarketSharePct),
			formatFloat(s.BranchSharePct),
			formatFloat(s.LMIPct),
			formatFloat(s.MinorityPct),
		})
	}
	return rows
}

func growthRows(growth []analysis.GrowthRecord) [][]string {
	rows := make([][]string, 0, len(growth))
	for _, g := range growth {
		rows = append(rows, []string{
			g.Institution,
			strconv.Itoa(g.FirstYear),
			strconv.Itoa(g.LastYear),
			strconv.FormatInt(g.FirstYearBranches, 10),
			strconv.FormatInt(g.LastYearBranches, 10),
			strconv.FormatInt(g.AbsoluteChange, 10),
			formatFloat(g.PercentChange),
		})
	}
	return rows
}

func impactRows(impact []analysis.ImpactComparison) [][]string {
	rows := make([][]string, 0, len(impact))
	for _, ic := range impact {
		rows = append(rows, []string{
			ic.Institution,
			formatFloat(ic.LMIPct),
			formatFloat(ic.MinorityPct),
			string(ic.LMIVsAverage),
			string(ic.MinorityVsAverage),
		})
	}
	return rows
}

// formatFloat formats a float64 value for export with exactly 2 decimal
// places, so values like 13.4 appear as 13.40 consistently.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
