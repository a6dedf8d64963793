package narrative

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"google.golang.org/genai"

	"branchscope/internal/analysis"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// GeminiGenerator is the live narrative provider backed by the Gemini API.
// It keeps a running token-usage tally for cost telemetry.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *slog.Logger

	mu    sync.Mutex
	usage Usage
}

// NewGeminiGenerator creates a live generator. The API key is required;
// model falls back to DefaultModel when empty.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model, logger: logger}, nil
}

// Generate implements Generator. Errors are returned to the caller, which is
// expected to degrade to fallback text rather than fail the report run.
func (g *GeminiGenerator) Generate(ctx context.Context, section Section, bundle *analysis.AnalysisBundle) (string, error) {
	prompt := buildPrompt(section, bundle)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.4),
	})
	if err != nil {
		return "", fmt.Errorf("generate %s narrative: %w", section, err)
	}

	if resp.UsageMetadata != nil {
		g.mu.Lock()
		g.usage.PromptTokens += int64(resp.UsageMetadata.PromptTokenCount)
		g.usage.CompletionTokens += int64(resp.UsageMetadata.CandidatesTokenCount)
		g.usage.Calls++
		g.mu.Unlock()
	}

	text := strings.TrimSpace(resp.Text())
	g.logger.DebugContext(ctx, "narrative generated",
		slog.String("section", string(section)),
		slog.Int("chars", len(text)),
	)
	return text, nil
}

// Usage returns the accumulated token usage.
func (g *GeminiGenerator) Usage() Usage {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.usage
}

// buildPrompt summarizes the bundle for the model. Prompts ask for narrative
// prose only; tables and formatting belong to the assembler.
func buildPrompt(section Section, b *analysis.AnalysisBundle) string {
	var sb strings.Builder
	sb.WriteString("You are a banking-market analyst. Write the ")
	sb.WriteString(strings.ReplaceAll(string(section), "_", " "))
	sb.WriteString(" section of a bank branch trends report. ")
	sb.WriteString("Respond with narrative prose only: no tables, no markdown headings, no report title.\n\n")

	if b == nil {
		return sb.String()
	}

	fmt.Fprintf(&sb, "Area: %s\n", b.AreaID)
	fmt.Fprintf(&sb, "Years analyzed: %v (concentration year %d)\n", b.Years, b.TargetYear)
	for _, t := range b.Trends {
		fmt.Fprintf(&sb, "Trend %d: %d branches, %.1f%% LMI, %.1f%% majority-minority\n",
			t.Year, t.TotalBranches, t.LMIPct, t.MinorityPct)
	}
	fmt.Fprintf(&sb, "HHI: %.0f (%s)\n", b.Concentration.Value, b.Concentration.Classification.String())
	fmt.Fprintf(&sb, "Majority cohort (%.0f%% threshold, cumulative %.1f%%):\n",
		b.Cohort.Threshold, b.Cohort.CumulativeSharePct)
	for _, m := range b.Cohort.Members {
		fmt.Fprintf(&sb, "  %s: %.1f%% deposit share, %d branches\n",
			m.Institution, m.MarketSharePct, m.Branches)
	}
	for _, g := range b.Growth {
		fmt.Fprintf(&sb, "Growth %s: %d -> %d branches (%+d)\n",
			g.Institution, g.FirstYearBranches, g.LastYearBranches, g.AbsoluteChange)
	}
	fmt.Fprintf(&sb, "Area averages: %.1f%% LMI, %.1f%% majority-minority\n",
		b.Averages.LMIPct, b.Averages.MinorityPct)

	return sb.String()
}
