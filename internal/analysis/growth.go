package analysis

// Comparator computes cohort growth and community-impact comparisons. The
// zero value is ready to use.
type Comparator struct{}

// NewComparator creates a growth and impact comparator.
func NewComparator() *Comparator {
	return &Comparator{}
}

// Growth locates each cohort institution's branch count in the first and
// last requested year and computes the absolute and percentage change.
// An institution absent from a year counts as zero branches: entering or
// exiting the market is a valid case, not an error. PercentChange is 0 when
// the first-year count is 0.
//
// Records must already be filtered to the cohort's logical area; years other
// than firstYear and lastYear are ignored.
func (c *Comparator) Growth(cohort MajorityCohort, records []BranchRecord, firstYear, lastYear int) []GrowthRecord {
	// Separate checks, not a switch: on a single-year run firstYear and
	// lastYear coincide and the record must count toward both endpoints.
	first := make(map[string]int64)
	last := make(map[string]int64)
	for _, r := range records {
		if r.Year == firstYear {
			first[r.Institution] += r.Branches
		}
		if r.Year == lastYear {
			last[r.Institution] += r.Branches
		}
	}

	growth := make([]GrowthRecord, 0, len(cohort.Members))
	for _, m := range cohort.Members {
		g := GrowthRecord{
			Institution:       m.Institution,
			FirstYear:         firstYear,
			LastYear:          lastYear,
			FirstYearBranches: first[m.Institution],
			LastYearBranches:  last[m.Institution],
		}
		g.AbsoluteChange = g.LastYearBranches - g.FirstYearBranches
		g.PercentChange = pct(float64(g.AbsoluteChange), float64(g.FirstYearBranches))
		growth = append(growth, g)
	}
	return growth
}

// Averages computes the area-wide community-service ratios across all
// institutions (not just the cohort) from records already filtered to the
// target year.
func (c *Comparator) Averages(records []BranchRecord, targetYear int) AreaAverages {
	var branches, lmi, minority int64
	for _, r := range records {
		if r.Year != targetYear {
			continue
		}
		branches += r.Branches
		lmi += r.LMIBranches
		minority += r.MinorityBranches
	}
	return AreaAverages{
		LMIPct:      pct(float64(lmi), float64(branches)),
		MinorityPct: pct(float64(minority), float64(branches)),
	}
}

// Impact classifies each cohort institution's community-service ratios
// against the area averages using strict inequality: Equal only on exact
// match.
func (c *Comparator) Impact(cohort MajorityCohort, avg AreaAverages) []ImpactComparison {
	impact := make([]ImpactComparison, 0, len(cohort.Members))
	for _, m := range cohort.Members {
		impact = append(impact, ImpactComparison{
			Institution:       m.Institution,
			LMIPct:            m.LMIPct,
			MinorityPct:       m.MinorityPct,
			LMIVsAverage:      Compare(m.LMIPct, avg.LMIPct),
			MinorityVsAverage: Compare(m.MinorityPct, avg.MinorityPct),
		})
	}
	return impact
}
