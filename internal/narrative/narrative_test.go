package narrative

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branchscope/internal/analysis"
)

func sampleBundle() *analysis.AnalysisBundle {
	return &analysis.AnalysisBundle{
		AreaID:     "cook-il",
		Years:      []int{2022, 2023},
		TargetYear: 2023,
		Trends: []analysis.YearlyTrend{
			{AreaID: "cook-il", Year: 2022, TotalBranches: 21, LMIPct: 33.3, MinorityPct: 28.6},
			{AreaID: "cook-il", Year: 2023, TotalBranches: 17, LMIPct: 35.3, MinorityPct: 29.4},
		},
		Concentration: analysis.ConcentrationIndex{
			Value:          5555.6,
			Classification: analysis.HighlyConcentrated,
		},
		Cohort: analysis.MajorityCohort{
			Threshold:          50,
			CumulativeSharePct: 75.4,
			Members: []analysis.InstitutionShare{
				{Institution: "First National Bank", MarketSharePct: 75.4, Branches: 12},
			},
		},
		Growth: []analysis.GrowthRecord{
			{Institution: "First National Bank", FirstYearBranches: 15, LastYearBranches: 12, AbsoluteChange: -3},
		},
		Averages: analysis.AreaAverages{LMIPct: 35.3, MinorityPct: 29.4},
	}
}

func TestSectionsOrderAndTitles(t *testing.T) {
	sections := Sections()
	require.Len(t, sections, 6)

	assert.Equal(t, SectionExecutiveSummary, sections[0])
	assert.Equal(t, SectionConclusion, sections[5])
	assert.Equal(t, "Executive Summary", SectionExecutiveSummary.Title())
	assert.Equal(t, "Community Impact", SectionCommunityImpact.Title())
}

func TestFallbackTextCoversEverySection(t *testing.T) {
	b := sampleBundle()
	for _, section := range Sections() {
		text := FallbackText(section, b)
		assert.NotEmpty(t, text, string(section))
		assert.NotContains(t, text, "%!", "formatting verb leak in %s", section)
	}
}

func TestFallbackTextUsesBundleFigures(t *testing.T) {
	b := sampleBundle()

	summary := FallbackText(SectionExecutiveSummary, b)
	assert.Contains(t, summary, "cook-il")
	assert.Contains(t, summary, "declined from 21 to 17")
	assert.Contains(t, summary, "highly concentrated")

	findings := FallbackText(SectionKeyFindings, b)
	assert.Contains(t, findings, "declined by 4")
	assert.Contains(t, findings, "5556")

	strategies := FallbackText(SectionBankStrategies, b)
	assert.Contains(t, strategies, "75.4%")
}

func TestFallbackTextIsDeterministic(t *testing.T) {
	b := sampleBundle()
	for _, section := range Sections() {
		assert.Equal(t, FallbackText(section, b), FallbackText(section, b))
	}
}

func TestFallbackTextNoDeposits(t *testing.T) {
	b := sampleBundle()
	b.Concentration = analysis.ConcentrationIndex{NoData: true, Classification: analysis.Unconcentrated}

	text := FallbackText(SectionBankStrategies, b)
	assert.Contains(t, text, "cannot be assessed")
}

func TestFallbackTextCombinedArea(t *testing.T) {
	b := sampleBundle()
	b.Combined = true

	assert.Contains(t, FallbackText(SectionOverallTrends, b), "the combined study area")
}

func TestFallbackTextEmptyBundle(t *testing.T) {
	assert.Contains(t, FallbackText(SectionConclusion, nil), "No narrative is available")
	assert.Contains(t, FallbackText(SectionConclusion, &analysis.AnalysisBundle{}), "conclusion section")
}

func TestTemplateGeneratorNeverFails(t *testing.T) {
	g := NewTemplateGenerator()
	for _, section := range Sections() {
		text, err := g.Generate(context.Background(), section, sampleBundle())
		require.NoError(t, err)
		assert.NotEmpty(t, text)
	}
}

func TestGeminiRequiresAPIKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := NewGeminiGenerator(context.Background(), "", "", logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(SectionBankStrategies, sampleBundle())

	assert.Contains(t, prompt, "bank strategies section")
	assert.Contains(t, prompt, "narrative prose only")
	assert.Contains(t, prompt, "Area: cook-il")
	assert.Contains(t, prompt, "Trend 2023: 17 branches")
	assert.Contains(t, prompt, "First National Bank: 75.4% deposit share")
	assert.Contains(t, prompt, "Growth First National Bank: 15 -> 12 branches (-3)")
}

func TestBuildPromptNilBundle(t *testing.T) {
	prompt := buildPrompt(SectionConclusion, nil)
	assert.Contains(t, prompt, "conclusion section")
	assert.NotContains(t, prompt, "Area:")
}
