package analysis

import (
	"sort"
)

// Aggregator builds per-area yearly trend tables from raw branch records.
// The zero value is ready to use.
type Aggregator struct{}

// NewAggregator creates a trend aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Trends aggregates records (already filtered to a single logical area and
// the requested years) into one YearlyTrend row per year present, ordered by
// year ascending. Grouping is order-insensitive: two permutations of the same
// records yield identical output.
//
// Year-over-year and cumulative deltas are computed against the
// chronologically first year present for the area, which is not necessarily
// the first year requested. A requested year with no records produces no row;
// that gap is the expected partial-input case, not an error.
func (a *Aggregator) Trends(records []BranchRecord, areaID string) []YearlyTrend {
	type rollup struct {
		branches     int64
		lmi          int64
		minority     int64
		deposits     float64
		institutions map[string]struct{}
	}

	byYear := make(map[int]*rollup)
	for _, r := range records {
		ru, ok := byYear[r.Year]
		if !ok {
			ru = &rollup{institutions: make(map[string]struct{})}
			byYear[r.Year] = ru
		}
		ru.branches += r.Branches
		ru.lmi += r.LMIBranches
		ru.minority += r.MinorityBranches
		ru.deposits += r.Deposits
		ru.institutions[r.Institution] = struct{}{}
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	trends := make([]YearlyTrend, 0, len(years))
	var firstBranches int64
	var prev *YearlyTrend

	for i, y := range years {
		ru := byYear[y]
		t := YearlyTrend{
			AreaID:           areaID,
			Year:             y,
			TotalBranches:    ru.branches,
			LMIBranches:      ru.lmi,
			MinorityBranches: ru.minority,
			Deposits:         ru.deposits,
			Institutions:     len(ru.institutions),
			LMIPct:           pct(float64(ru.lmi), float64(ru.branches)),
			MinorityPct:      pct(float64(ru.minority), float64(ru.branches)),
		}
		t.BothPctUpperBound = min(t.LMIPct, t.MinorityPct)

		if i == 0 {
			firstBranches = ru.branches
		} else {
			t.HasYoY = true
			t.YoYChangeAbs = ru.branches - prev.TotalBranches
			t.YoYChangePct = pct(float64(t.YoYChangeAbs), float64(prev.TotalBranches))
		}
		t.CumulativeChangePct = pct(float64(ru.branches-firstBranches), float64(firstBranches))

		trends = append(trends, t)
		prev = &trends[len(trends)-1]
	}

	return trends
}
