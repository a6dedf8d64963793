package report

import (
	"fmt"

	"branchscope/internal/analysis"
)

// bothUpperBoundCaption labels every "Both %" column: the metric is a
// theoretical upper bound, not measured overlap.
const bothUpperBoundCaption = "Both % (max) is min(LMI %, MMCT %): a theoretical upper bound on overlap, not measured intersection data."

// TrendTable renders a yearly trend list as a Table block.
func TrendTable(trends []analysis.YearlyTrend, anchor string) Block {
	rows := make([][]string, 0, len(trends))
	for _, t := range trends {
		yoyAbs, yoyPct := NotAvailable, NotAvailable
		if t.HasYoY {
			yoyAbs = FormatSignedInt(t.YoYChangeAbs)
			yoyPct = FormatSignedPctCell(t.YoYChangePct)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.Year),
			FormatInt(t.TotalBranches),
			yoyAbs,
			yoyPct,
			FormatSignedPctCell(t.CumulativeChangePct),
			FormatPctCell(t.LMIPct),
			FormatPctCell(t.MinorityPct),
			FormatPctCell(t.BothPctUpperBound),
		})
	}
	return Block{
		Kind:    BlockTable,
		Anchor:  anchor,
		Title:   "Branch Trends by Year",
		Columns: []string{"Year", "Total", "YoY Chg", "YoY %", "Cumul %", "LMI %", "MMCT %", "Both % (max)"},
		Rows:    rows,
		Caption: bothUpperBoundCaption,
	}
}

// ConcentrationTable renders every institution's deposit share and its HHI
// contribution, with a closing total row carrying the index itself.
func ConcentrationTable(shares []analysis.InstitutionShare, index analysis.ConcentrationIndex, anchor string) Block {
	rows := make([][]string, 0, len(shares)+1)
	for _, s := range shares {
		rows = append(rows, []string{
			TableName(s.Institution),
			FormatInt(int64(s.Deposits)),
			FormatPctCell(s.MarketSharePct),
			fmt.Sprintf("%.0f", s.MarketSharePct*s.MarketSharePct),
		})
	}
	rows = append(rows, []string{
		"TOTAL (HHI)", "", "", fmt.Sprintf("%.0f", index.Value),
	})

	caption := fmt.Sprintf("Herfindahl-Hirschman Index: %.0f (%s).", index.Value, index.Classification.String())
	if index.NoData {
		caption = "No deposit data reported for this area and year; the index is not meaningful."
	}
	return Block{
		Kind:    BlockTable,
		Anchor:  anchor,
		Title:   "Deposit Concentration Breakdown",
		Columns: []string{"Institution", "Deposits ($000)", "Mkt Share %", "HHI Contribution"},
		Rows:    rows,
		Caption: caption,
	}
}

// ShareTable renders the majority cohort's market positions.
func ShareTable(cohort analysis.MajorityCohort, anchor string) Block {
	rows := make([][]string, 0, len(cohort.Members))
	for _, s := range cohort.Members {
		rows = append(rows, []string{
			TableName(s.Institution),
			FormatInt(s.Branches),
			FormatPctCell(s.MarketSharePct),
			FormatPctCell(s.BranchSharePct),
			FormatPctCell(s.LMIPct),
			FormatPctCell(s.MinorityPct),
			FormatPctCell(s.BothPctUpperBound),
		})
	}
	return Block{
		Kind:    BlockTable,
		Anchor:  anchor,
		Title:   "Leading Institutions by Market Share",
		Columns: []string{"Institution", "Branches", "Deposit Share %", "Branch Share %", "LMI %", "MMCT %", "Both % (max)"},
		Rows:    rows,
		Caption: bothUpperBoundCaption,
	}
}

// GrowthTable renders first-vs-last-year branch changes for the cohort.
func GrowthTable(growth []analysis.GrowthRecord, anchor string) Block {
	columns := []string{"Institution", "Branches (first)", "Branches (last)", "Change", "Change %"}
	if len(growth) > 0 {
		columns[1] = fmt.Sprintf("Branches (%d)", growth[0].FirstYear)
		columns[2] = fmt.Sprintf("Branches (%d)", growth[0].LastYear)
	}

	rows := make([][]string, 0, len(growth))
	for _, g := range growth {
		rows = append(rows, []string{
			TableName(g.Institution),
			FormatInt(g.FirstYearBranches),
			FormatInt(g.LastYearBranches),
			FormatSignedInt(g.AbsoluteChange),
			FormatSignedPctCell(g.PercentChange),
		})
	}
	return Block{
		Kind:    BlockTable,
		Anchor:  anchor,
		Title:   "Branch Growth of Leading Institutions",
		Columns: columns,
		Rows:    rows,
	}
}

// ImpactTable renders community-service comparisons with a closing
// area-average row.
func ImpactTable(impact []analysis.ImpactComparison, avg analysis.AreaAverages, anchor string) Block {
	rows := make([][]string, 0, len(impact)+1)
	for _, ic := range impact {
		rows = append(rows, []string{
			TableName(ic.Institution),
			FormatPctCell(ic.LMIPct),
			FormatPctCell(ic.MinorityPct),
			comparisonLabel(ic.LMIVsAverage),
			comparisonLabel(ic.MinorityVsAverage),
		})
	}
	rows = append(rows, []string{
		"AREA AVERAGE",
		FormatPctCell(avg.LMIPct),
		FormatPctCell(avg.MinorityPct),
		"-", "-",
	})
	return Block{
		Kind:    BlockTable,
		Anchor:  anchor,
		Title:   "Community Impact Comparison",
		Columns: []string{"Institution", "LMI %", "MMCT %", "LMI vs Avg", "MMCT vs Avg"},
		Rows:    rows,
	}
}

func comparisonLabel(c analysis.Comparison) string {
	switch c {
	case analysis.Above:
		return "Above"
	case analysis.Below:
		return "Below"
	default:
		return "Equal"
	}
}
