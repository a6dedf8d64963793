package analysis

import (
	"sort"
)

// DefaultMajorityThreshold is the cumulative market-share percentage the
// majority cohort must reach.
const DefaultMajorityThreshold = 50.0

// Analyzer computes deposit-based market concentration for a single area and
// target year. The zero value is ready to use.
type Analyzer struct{}

// NewAnalyzer creates a concentration analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Shares groups records (already filtered to one logical area and the target
// year) by institution and computes each institution's position. Market share
// is deposit-based: deposits are the regulatory standard for concentration
// analysis. Branch-count share is computed alongside for display tables only.
//
// The result is sorted by market share descending, ties broken by institution
// name ascending for determinism. A zero-deposit area yields all-zero market
// shares.
func (a *Analyzer) Shares(records []BranchRecord) []InstitutionShare {
	type rollup struct {
		branches int64
		lmi      int64
		minority int64
		deposits float64
	}

	byInst := make(map[string]*rollup)
	var totalDeposits float64
	var totalBranches int64
	for _, r := range records {
		ru, ok := byInst[r.Institution]
		if !ok {
			ru = &rollup{}
			byInst[r.Institution] = ru
		}
		ru.branches += r.Branches
		ru.lmi += r.LMIBranches
		ru.minority += r.MinorityBranches
		ru.deposits += r.Deposits
		totalDeposits += r.Deposits
		totalBranches += r.Branches
	}

	shares := make([]InstitutionShare, 0, len(byInst))
	for name, ru := range byInst {
		s := InstitutionShare{
			Institution:    name,
			Branches:       ru.branches,
			Deposits:       ru.deposits,
			MarketSharePct: pct(ru.deposits, totalDeposits),
			BranchSharePct: pct(float64(ru.branches), float64(totalBranches)),
			LMIPct:         pct(float64(ru.lmi), float64(ru.branches)),
			MinorityPct:    pct(float64(ru.minority), float64(ru.branches)),
		}
		s.BothPctUpperBound = min(s.LMIPct, s.MinorityPct)
		shares = append(shares, s)
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].MarketSharePct != shares[j].MarketSharePct {
			return shares[i].MarketSharePct > shares[j].MarketSharePct
		}
		return shares[i].Institution < shares[j].Institution
	})

	return shares
}

// HHI computes the Herfindahl-Hirschman Index by squaring and summing every
// institution's market share, regardless of cohort membership. When no
// deposits exist the index is 0 and NoData is set, so callers can report
// "no data" instead of a false healthy-competition claim.
func (a *Analyzer) HHI(shares []InstitutionShare) ConcentrationIndex {
	var value float64
	var deposits float64
	for _, s := range shares {
		value += s.MarketSharePct * s.MarketSharePct
		deposits += s.Deposits
	}

	idx := ConcentrationIndex{
		Value:          value,
		Classification: Classify(value),
	}
	if deposits == 0 {
		idx.NoData = true
	}
	return idx
}

// Cohort selects the minimal prefix of the (descending) share table whose
// cumulative market share meets or exceeds threshold. Removing the last
// member drops the cumulative share below the threshold; if the list is
// exhausted first the cohort is all institutions and All is set.
func (a *Analyzer) Cohort(shares []InstitutionShare, threshold float64) MajorityCohort {
	if threshold <= 0 {
		threshold = DefaultMajorityThreshold
	}

	cohort := MajorityCohort{Threshold: threshold}
	for _, s := range shares {
		cohort.Members = append(cohort.Members, s)
		cohort.CumulativeSharePct += s.MarketSharePct
		if cohort.CumulativeSharePct >= threshold {
			return cohort
		}
	}
	cohort.All = true
	return cohort
}
