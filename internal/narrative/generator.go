package narrative

import (
	"context"

	"branchscope/internal/analysis"
)

// Section names the six narrative sections of a report.
type Section string

const (
	SectionExecutiveSummary Section = "executive_summary"
	SectionKeyFindings      Section = "key_findings"
	SectionOverallTrends    Section = "overall_trends"
	SectionBankStrategies   Section = "bank_strategies"
	SectionCommunityImpact  Section = "community_impact"
	SectionConclusion       Section = "conclusion"
)

// Sections lists every narrative section in report order.
func Sections() []Section {
	return []Section{
		SectionExecutiveSummary,
		SectionKeyFindings,
		SectionOverallTrends,
		SectionBankStrategies,
		SectionCommunityImpact,
		SectionConclusion,
	}
}

// Title returns the section's display heading.
func (s Section) Title() string {
	switch s {
	case SectionExecutiveSummary:
		return "Executive Summary"
	case SectionKeyFindings:
		return "Key Findings"
	case SectionOverallTrends:
		return "Overall Branch Trends"
	case SectionBankStrategies:
		return "Market Concentration: Largest Institutions"
	case SectionCommunityImpact:
		return "Community Impact"
	case SectionConclusion:
		return "Conclusion and Strategic Implications"
	default:
		return string(s)
	}
}

// Generator produces narrative text for one section from a computed bundle.
// An empty result with a nil error means no narrative is available and must
// not be treated as a failure by callers.
type Generator interface {
	Generate(ctx context.Context, section Section, bundle *analysis.AnalysisBundle) (string, error)
}

// Usage accumulates token counts across generator calls, for cost telemetry.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	Calls            int64 `json:"calls"`
}
