package analysis

// BranchRecord is a single institution/area/year observation from the FDIC
// Summary of Deposits. Records are owned by the caller and never mutated by
// the engine.
type BranchRecord struct {
	Institution      string  `json:"institution"`
	Year             int     `json:"year"`
	AreaID           string  `json:"area_id"`
	Branches         int64   `json:"branches"`
	LMIBranches      int64   `json:"lmi_branches"`
	MinorityBranches int64   `json:"minority_branches"`
	Deposits         float64 `json:"deposits"`
}

// YearlyTrend is one (area, year) rollup row. Percentage fields are 0 when
// the denominator is 0, never NaN. Year-over-year fields are meaningful only
// when HasYoY is true (false for the chronologically first year present for
// the area).
type YearlyTrend struct {
	AreaID           string  `json:"area_id"`
	Year             int     `json:"year"`
	TotalBranches    int64   `json:"total_branches"`
	LMIBranches      int64   `json:"lmi_branches"`
	MinorityBranches int64   `json:"minority_branches"`
	Deposits         float64 `json:"deposits"`
	Institutions     int     `json:"institutions"`

	LMIPct      float64 `json:"lmi_pct"`
	MinorityPct float64 `json:"minority_pct"`
	// BothPctUpperBound is min(LMIPct, MinorityPct): a theoretical upper
	// bound on the LMI/minority overlap, not measured intersection data.
	BothPctUpperBound float64 `json:"both_pct_upper_bound"`

	YoYChangeAbs        int64   `json:"yoy_change_abs"`
	YoYChangePct        float64 `json:"yoy_change_pct"`
	HasYoY              bool    `json:"has_yoy"`
	CumulativeChangePct float64 `json:"cumulative_change_pct"`
}

// InstitutionShare is one institution's position in an area for the target
// year. MarketSharePct is deposit-based (the regulatory standard);
// BranchSharePct is carried for display tables only.
type InstitutionShare struct {
	Institution    string  `json:"institution"`
	Branches       int64   `json:"branches"`
	Deposits       float64 `json:"deposits"`
	MarketSharePct float64 `json:"market_share_pct"`
	BranchSharePct float64 `json:"branch_share_pct"`
	LMIPct         float64 `json:"lmi_pct"`
	MinorityPct    float64 `json:"minority_pct"`
	// BothPctUpperBound is min(LMIPct, MinorityPct), an upper-bound
	// approximation of the overlap.
	BothPctUpperBound float64 `json:"both_pct_upper_bound"`
}

// Classification is the regulatory concentration band of an HHI value.
type Classification string

const (
	Unconcentrated         Classification = "unconcentrated"
	ModeratelyConcentrated Classification = "moderately_concentrated"
	HighlyConcentrated     Classification = "highly_concentrated"
)

// String returns a human-readable label for the classification.
func (c Classification) String() string {
	switch c {
	case Unconcentrated:
		return "Unconcentrated"
	case ModeratelyConcentrated:
		return "Moderately Concentrated"
	case HighlyConcentrated:
		return "Highly Concentrated"
	default:
		return "Unknown"
	}
}

// Classify maps an HHI value onto its regulatory band.
func Classify(hhi float64) Classification {
	switch {
	case hhi < 1000:
		return Unconcentrated
	case hhi <= 1800:
		return ModeratelyConcentrated
	default:
		return HighlyConcentrated
	}
}

// ConcentrationIndex is the Herfindahl-Hirschman Index for an area in the
// target year. NoData distinguishes a genuinely empty market (total deposits
// of 0) from a healthy unconcentrated one.
type ConcentrationIndex struct {
	Value          float64        `json:"value"`
	Classification Classification `json:"classification"`
	NoData         bool           `json:"no_data"`
}

// MajorityCohort is the minimal ordered prefix of the share table whose
// cumulative market share meets or exceeds Threshold. All is true when the
// institution list was exhausted before the threshold was reached.
type MajorityCohort struct {
	Threshold          float64            `json:"threshold"`
	CumulativeSharePct float64            `json:"cumulative_share_pct"`
	Members            []InstitutionShare `json:"members"`
	All                bool               `json:"all"`
}

// GrowthRecord captures one cohort institution's branch change between the
// first and last requested year. An institution absent from a year counts as
// zero branches; PercentChange is 0 when FirstYearBranches is 0.
type GrowthRecord struct {
	Institution       string  `json:"institution"`
	FirstYear         int     `json:"first_year"`
	LastYear          int     `json:"last_year"`
	FirstYearBranches int64   `json:"first_year_branches"`
	LastYearBranches  int64   `json:"last_year_branches"`
	AbsoluteChange    int64   `json:"absolute_change"`
	PercentChange     float64 `json:"percent_change"`
}

// Comparison is a strict three-way classification against the area average.
type Comparison string

const (
	Above Comparison = "above"
	Below Comparison = "below"
	Equal Comparison = "equal"
)

// Compare classifies v against avg using strict inequality; Equal only on
// exact match.
func Compare(v, avg float64) Comparison {
	switch {
	case v > avg:
		return Above
	case v < avg:
		return Below
	default:
		return Equal
	}
}

// AreaAverages are the community-service ratios across all institutions in
// the area for the target year.
type AreaAverages struct {
	LMIPct      float64 `json:"lmi_pct"`
	MinorityPct float64 `json:"minority_pct"`
}

// ImpactComparison relates one cohort institution's community-service ratios
// to the area averages.
type ImpactComparison struct {
	Institution       string     `json:"institution"`
	LMIPct            float64    `json:"lmi_pct"`
	MinorityPct       float64    `json:"minority_pct"`
	LMIVsAverage      Comparison `json:"lmi_vs_average"`
	MinorityVsAverage Comparison `json:"minority_vs_average"`
}

// AnalysisBundle is the full computed output for one area (or the combined
// synthetic area). It is consumable independently of document rendering.
type AnalysisBundle struct {
	AreaID        string             `json:"area_id"`
	Combined      bool               `json:"combined"`
	Years         []int              `json:"years"`
	TargetYear    int                `json:"target_year"`
	Trends        []YearlyTrend      `json:"trends"`
	Shares        []InstitutionShare `json:"shares"`
	Concentration ConcentrationIndex `json:"concentration"`
	Cohort        MajorityCohort     `json:"cohort"`
	Growth        []GrowthRecord     `json:"growth"`
	Impact        []ImpactComparison `json:"impact"`
	Averages      AreaAverages       `json:"averages"`
}

// pct guards the zero-denominator case: 0 when total is 0, never NaN.
func pct(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
