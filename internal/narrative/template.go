package narrative

import (
	"context"
	"fmt"
	"strings"

	"branchscope/internal/analysis"
)

// TemplateGenerator is the deterministic fallback provider: it derives a
// short factual narrative for each section straight from the bundle, with no
// external calls. It is selected when no AI provider is configured and also
// backs the assembler's missing-narrative fallback.
type TemplateGenerator struct{}

// NewTemplateGenerator creates the fallback generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Generate implements Generator. It never fails.
func (g *TemplateGenerator) Generate(_ context.Context, section Section, bundle *analysis.AnalysisBundle) (string, error) {
	return FallbackText(section, bundle), nil
}

// FallbackText renders the deterministic templated narrative for a section.
// The same input always produces the same text.
func FallbackText(section Section, b *analysis.AnalysisBundle) string {
	if b == nil || len(b.Trends) == 0 {
		return fmt.Sprintf("No narrative is available for the %s section of this report.",
			strings.ReplaceAll(string(section), "_", " "))
	}

	area := areaLabel(b)
	first := b.Trends[0]
	last := b.Trends[len(b.Trends)-1]
	change := last.TotalBranches - first.TotalBranches

	switch section {
	case SectionExecutiveSummary:
		return fmt.Sprintf(
			"This report examines bank branch trends in %s from %d to %d. "+
				"Total branches %s from %d to %d over the period. "+
				"As of %d, the deposit market is classified as %s.",
			area, first.Year, last.Year, direction(change),
			first.TotalBranches, last.TotalBranches,
			b.TargetYear, strings.ToLower(b.Concentration.Classification.String()))

	case SectionKeyFindings:
		lines := []string{
			fmt.Sprintf("1. Total branches %s by %d between %d and %d.",
				direction(change), abs64(change), first.Year, last.Year),
			fmt.Sprintf("2. %d institution(s) control a majority of area deposits.",
				len(b.Cohort.Members)),
			fmt.Sprintf("3. The Herfindahl-Hirschman Index is %.0f (%s).",
				b.Concentration.Value, b.Concentration.Classification.String()),
		}
		return strings.Join(lines, "\n")

	case SectionOverallTrends:
		return fmt.Sprintf(
			"Between %d and %d, total branches in %s moved from %d to %d. "+
				"In %d, %.1f%% of branches were located in low-to-moderate income tracts "+
				"and %.1f%% in majority-minority tracts.",
			first.Year, last.Year, area, first.TotalBranches, last.TotalBranches,
			last.Year, last.LMIPct, last.MinorityPct)

	case SectionBankStrategies:
		if b.Concentration.NoData {
			return fmt.Sprintf("No deposit data is available for %s in %d, so market "+
				"concentration cannot be assessed for this period.", area, b.TargetYear)
		}
		return fmt.Sprintf(
			"As of %d, %d institution(s) hold %.1f%% of deposits in %s. "+
				"The market's Herfindahl-Hirschman Index of %.0f classifies it as %s.",
			b.TargetYear, len(b.Cohort.Members), b.Cohort.CumulativeSharePct, area,
			b.Concentration.Value, strings.ToLower(b.Concentration.Classification.String()))

	case SectionCommunityImpact:
		return fmt.Sprintf(
			"Across all institutions in %s, %.1f%% of branches serve low-to-moderate "+
				"income tracts and %.1f%% serve majority-minority tracts in %d. The tables "+
				"below compare each leading institution to these area averages.",
			area, b.Averages.LMIPct, b.Averages.MinorityPct, b.TargetYear)

	case SectionConclusion:
		return fmt.Sprintf(
			"In summary, %s experienced a %s in bank branches from %d to %d, changing "+
				"from %d to %d branches. These trends reflect a branch network that is "+
				"increasingly concentrated among major institutions while maintaining "+
				"varying levels of commitment to underserved communities.",
			area, noun(change), first.Year, last.Year,
			first.TotalBranches, last.TotalBranches)

	default:
		return fmt.Sprintf("No narrative is available for the %s section of this report.",
			strings.ReplaceAll(string(section), "_", " "))
	}
}

func areaLabel(b *analysis.AnalysisBundle) string {
	if b.Combined {
		return "the combined study area"
	}
	return b.AreaID
}

func direction(change int64) string {
	switch {
	case change < 0:
		return "declined"
	case change > 0:
		return "increased"
	default:
		return "remained stable"
	}
}

func noun(change int64) string {
	switch {
	case change < 0:
		return "decline"
	case change > 0:
		return "increase"
	default:
		return "stable count"
	}
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
