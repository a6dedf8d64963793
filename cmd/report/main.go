package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"branchscope/internal/narrative"
	"branchscope/internal/operations"
	"branchscope/internal/querier"
	"branchscope/internal/report"
	"branchscope/internal/services"
)

func main() {
	input := flag.String("input", "", "branch records CSV file (required)")
	areasFlag := flag.String("areas", "", "comma-separated area ids (defaults to every area in the file)")
	yearsFlag := flag.String("years", "", "comma-separated years (required)")
	targetYear := flag.Int("target-year", 0, "target year for concentration analysis (defaults to latest)")
	threshold := flag.Float64("threshold", 0, "majority cohort threshold in percent (defaults to 50)")
	outDir := flag.String("out", "out", "output directory for the report and spreadsheets")
	apiKey := flag.String("api-key", os.Getenv("BRANCHSCOPE_NARRATIVE_API_KEY"), "Gemini API key (omit for template narratives)")
	model := flag.String("model", "", "Gemini model name")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *input == "" || *yearsFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	years, err := parseYears(*yearsFlag)
	if err != nil {
		logger.Error("invalid years flag", "error", err)
		os.Exit(1)
	}

	q, err := querier.NewCSVQuerier(*input)
	if err != nil {
		logger.Error("failed to load records file", "error", err)
		os.Exit(1)
	}

	areas := splitList(*areasFlag)
	if len(areas) == 0 {
		areas = q.Areas()
		logger.Info("no areas given, using every area in the file", "areas", areas)
	}

	ctx := context.Background()
	gen := buildGenerator(ctx, *apiKey, *model, logger)

	svc := services.NewReportService(q, gen, operations.NewMemoryJobStore(), *outDir, logger)
	out, err := svc.Run(ctx, &operations.ReportRequest{
		Areas:             areas,
		Years:             years,
		TargetYear:        *targetYear,
		MajorityThreshold: *threshold,
		Export:            true,
	})
	if err != nil {
		logger.Error("report generation failed", "error", err)
		os.Exit(1)
	}

	if err := writeDocument(out.Document, *outDir); err != nil {
		logger.Error("failed to write document", "error", err)
		os.Exit(1)
	}

	logger.Info("report complete",
		"title", out.Document.Title,
		"blocks", len(out.Document.Blocks),
		"artifacts", len(out.Artifacts)+2,
		"out", *outDir,
	)
}

func buildGenerator(ctx context.Context, apiKey, model string, logger *slog.Logger) narrative.Generator {
	if apiKey == "" {
		return narrative.NewTemplateGenerator()
	}
	gen, err := narrative.NewGeminiGenerator(ctx, apiKey, model, logger)
	if err != nil {
		logger.Warn("narrative generator unavailable, using template text", "error", err)
		return narrative.NewTemplateGenerator()
	}
	return gen
}

func parseYears(s string) ([]int, error) {
	var years []int
	for _, part := range splitList(s) {
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, y)
	}
	return years, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// writeDocument saves the document as JSON plus a plain text rendering.
func writeDocument(doc *report.Document, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "report.json"), data, 0o644); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(outDir, "report.txt"), []byte(renderText(doc)), 0o644)
}

// renderText maps the document to a readable plain text form.
func renderText(doc *report.Document) string {
	var b strings.Builder

	b.WriteString(doc.Title + "\n")
	b.WriteString(doc.Subtitle + "\n\n")

	b.WriteString("Contents\n")
	for _, entry := range doc.TOC {
		b.WriteString(fmt.Sprintf("%s%s (p.%d)\n", strings.Repeat("  ", entry.Level-2), entry.Title, entry.Page))
	}
	b.WriteString("\n")

	for _, block := range doc.Blocks {
		switch block.Kind {
		case report.BlockHeading:
			b.WriteString("\n" + strings.Repeat("#", block.Level) + " " + block.Text + "\n\n")
		case report.BlockParagraph:
			b.WriteString(block.PlainText() + "\n\n")
		case report.BlockBulletList:
			for _, item := range block.Items {
				b.WriteString("  - " + item + "\n")
			}
			b.WriteString("\n")
		case report.BlockNumberedList:
			for i, item := range block.Items {
				b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, item))
			}
			b.WriteString("\n")
		case report.BlockTable:
			b.WriteString(block.Title + "\n")
			b.WriteString(strings.Join(block.Columns, " | ") + "\n")
			for _, row := range block.Rows {
				b.WriteString(strings.Join(row, " | ") + "\n")
			}
			if block.Caption != "" {
				b.WriteString(block.Caption + "\n")
			}
			b.WriteString("\n")
		case report.BlockSpacer:
			b.WriteString("\n")
		}
	}

	return b.String()
}
