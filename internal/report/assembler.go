package report

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"branchscope/internal/analysis"
	"branchscope/internal/narrative"
)

// linesPerPage is the height budget behind TOC page estimates.
const linesPerPage = 44

// Narratives maps each narrative section to its generated text for one area
// view. Missing or empty entries degrade to deterministic fallback text.
type Narratives map[narrative.Section]string

// Meta carries run-level document metadata.
type Meta struct {
	Areas       []string
	Years       []int
	GeneratedAt time.Time
}

// Assembler merges analysis output and narrative text into a Document.
type Assembler struct {
	logger *slog.Logger
}

// NewAssembler creates a document assembler.
func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Assemble builds the report document for a pipeline result. Multi-area runs
// are presented through the combined synthetic area, whose aggregates were
// recomputed against combined totals; texts is keyed by area id (the
// combined id for multi-area runs).
//
// Section order is a contract the renderer depends on: Executive Summary,
// Key Findings, Methodology/Definitions, Overall Trends, Market
// Concentration, Conclusion, Technical Notes.
func (a *Assembler) Assemble(result *analysis.Result, texts map[string]Narratives, meta Meta) (*Document, error) {
	if result == nil || len(result.Bundles) == 0 {
		return nil, fmt.Errorf("assemble: empty analysis result")
	}

	view := result.Bundles[0]
	if result.Combined != nil {
		view = result.Combined
	}
	sections := texts[view.AreaID]

	generatedAt := meta.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	b := &docBuilder{doc: &Document{
		Title:       fmt.Sprintf("%s Bank Branch Trends (%s)", strings.Join(meta.Areas, " and "), yearRange(meta.Years)),
		Subtitle:    "Banking Market Analysis",
		GeneratedAt: generatedAt,
	}}

	a.addNarrativeSection(b, view, sections, narrative.SectionExecutiveSummary)
	a.addNarrativeSection(b, view, sections, narrative.SectionKeyFindings)
	a.addMethodology(b, view, meta)
	a.addTrends(b, view, sections)
	a.addConcentration(b, view, sections)
	a.addNarrativeSection(b, view, sections, narrative.SectionConclusion)
	a.addTechnicalNotes(b, view, meta, generatedAt)

	if err := b.doc.Validate(); err != nil {
		return nil, err
	}

	a.logger.Info("document assembled",
		slog.String("area", view.AreaID),
		slog.Int("blocks", len(b.doc.Blocks)),
		slog.Int("toc_entries", len(b.doc.TOC)),
	)
	return b.doc, nil
}

// addNarrativeSection emits a heading plus the section's narrative blocks,
// substituting the deterministic fallback when text is missing or empty so a
// section is never silently dropped.
func (a *Assembler) addNarrativeSection(b *docBuilder, view *analysis.AnalysisBundle, sections Narratives, s narrative.Section) {
	b.addHeading(s.Title(), 2, Anchor(view.AreaID, string(s)))
	a.addNarrativeBlocks(b, view, sections, s)
	b.add(Block{Kind: BlockSpacer})
}

// addNarrativeBlocks appends the section's classified narrative blocks.
// Heading blocks promoted by the classifier carry no anchor of their own, so
// each gets a deterministic area-section-ordinal anchor and a TOC entry here.
func (a *Assembler) addNarrativeBlocks(b *docBuilder, view *analysis.AnalysisBundle, sections Narratives, s narrative.Section) {
	ordinal := 0
	for _, block := range a.narrativeBlocks(view, sections, s) {
		if block.Kind == BlockHeading {
			ordinal++
			b.addHeading(block.Text, block.Level, Anchor(view.AreaID, string(s), fmt.Sprintf("h%d", ordinal)))
			continue
		}
		b.add(block)
	}
}

func (a *Assembler) narrativeBlocks(view *analysis.AnalysisBundle, sections Narratives, s narrative.Section) []Block {
	text := strings.TrimSpace(sections[s])
	if text == "" {
		text = narrative.FallbackText(s, view)
	}
	blocks := NormalizeNarrative(text)
	if len(blocks) == 0 {
		blocks = NormalizeNarrative(narrative.FallbackText(s, view))
	}
	return blocks
}

func (a *Assembler) addMethodology(b *docBuilder, view *analysis.AnalysisBundle, meta Meta) {
	b.addHeading("Methodology and Definitions", 2, Anchor(view.AreaID, "methodology"))
	b.add(paragraph(fmt.Sprintf(
		"This analysis examines bank branch trends in %s from %s using FDIC Summary of Deposits data. "+
			"Three key metrics are tracked for every institution and year:",
		strings.Join(meta.Areas, " and "), yearRange(meta.Years))))
	b.add(Block{Kind: BlockBulletList, Items: []string{
		"LMI tract: a geographic unit with median family income below 80% of the area median; LMI % is the share of an institution's branches in such tracts.",
		"Majority-minority tract (MMCT): a geographic unit where minority population exceeds 50% of the total; MMCT % is the share of branches in such tracts.",
		"Market share: an institution's proportion of total area deposits, the regulatory standard for concentration analysis. Branch-count share is shown for reference only.",
		"HHI: the Herfindahl-Hirschman Index, the sum of squared deposit market shares; below 1,000 is unconcentrated, 1,000 to 1,800 moderately concentrated, above 1,800 highly concentrated.",
		"Both % (max): the minimum of LMI % and MMCT %, an upper bound on the possible overlap; true intersection data is not available.",
	}})
	b.add(Block{Kind: BlockSpacer})
}

func (a *Assembler) addTrends(b *docBuilder, view *analysis.AnalysisBundle, sections Narratives) {
	s := narrative.SectionOverallTrends
	b.addHeading(s.Title(), 2, Anchor(view.AreaID, string(s)))
	a.addNarrativeBlocks(b, view, sections, s)
	b.addTable(TrendTable(view.Trends, Anchor(view.AreaID, "trend-table")))
	b.add(Block{Kind: BlockSpacer})
}

func (a *Assembler) addConcentration(b *docBuilder, view *analysis.AnalysisBundle, sections Narratives) {
	s := narrative.SectionBankStrategies
	b.addHeading(s.Title(), 2, Anchor(view.AreaID, string(s)))
	a.addNarrativeBlocks(b, view, sections, s)

	b.add(a.hhiParagraph(view))
	b.addTable(ConcentrationTable(view.Shares, view.Concentration, Anchor(view.AreaID, "hhi-table")))

	b.add(a.cohortParagraph(view))
	b.addTable(ShareTable(view.Cohort, Anchor(view.AreaID, "share-table")))
	b.addTable(GrowthTable(view.Growth, Anchor(view.AreaID, "growth-table")))

	impact := narrative.SectionCommunityImpact
	b.addHeading(impact.Title(), 3, Anchor(view.AreaID, string(impact)))
	a.addNarrativeBlocks(b, view, sections, impact)
	b.addTable(ImpactTable(view.Impact, view.Averages, Anchor(view.AreaID, "impact-table")))
	b.add(Block{Kind: BlockSpacer})
}

// hhiParagraph explains the index, or reports the explicit no-data condition
// instead of a false healthy-competition claim.
func (a *Assembler) hhiParagraph(view *analysis.AnalysisBundle) Block {
	if view.Concentration.NoData {
		return paragraph(fmt.Sprintf(
			"No deposit data was reported for this area in %d. Market shares and the "+
				"Herfindahl-Hirschman Index are therefore shown as zero and do not indicate "+
				"healthy competition.", view.TargetYear))
	}
	return paragraph(fmt.Sprintf(
		"The deposit-based Herfindahl-Hirschman Index for %d is **%.0f**, which classifies "+
			"this market as **%s**.",
		view.TargetYear, view.Concentration.Value,
		strings.ToLower(view.Concentration.Classification.String())))
}

func (a *Assembler) cohortParagraph(view *analysis.AnalysisBundle) Block {
	names := make([]string, 0, len(view.Cohort.Members))
	for _, m := range view.Cohort.Members {
		names = append(names, NarrativeName(m.Institution))
	}
	return paragraph(fmt.Sprintf(
		"As of %d, %d institution(s) (%s) hold %s of area deposits, the smallest group "+
			"whose cumulative share meets the %s majority threshold.",
		view.TargetYear, len(view.Cohort.Members), strings.Join(names, ", "),
		FormatPct(view.Cohort.CumulativeSharePct), FormatPct(view.Cohort.Threshold)))
}

func (a *Assembler) addTechnicalNotes(b *docBuilder, view *analysis.AnalysisBundle, meta Meta, generatedAt time.Time) {
	b.addHeading("Technical Notes", 2, Anchor(view.AreaID, "technical-notes"))
	b.add(paragraph(fmt.Sprintf(
		"Analysis period: %s. Geographic scope: %s. Data source: FDIC Summary of Deposits. "+
			"Report generated: %s. Market shares and the concentration index are computed "+
			"from deposits; an area-year combination absent from the source data is treated "+
			"as zero values.",
		yearRange(meta.Years), strings.Join(meta.Areas, " and "),
		generatedAt.Format("January 2, 2006"))))
}

func yearRange(years []int) string {
	if len(years) == 0 {
		return ""
	}
	if len(years) == 1 {
		return fmt.Sprintf("%d", years[0])
	}
	return fmt.Sprintf("%d-%d", years[0], years[len(years)-1])
}

// docBuilder appends blocks while keeping the TOC and the page estimate
// current.
type docBuilder struct {
	doc   *Document
	lines int
}

func (b *docBuilder) page() int {
	return b.lines/linesPerPage + 1
}

func (b *docBuilder) add(block Block) {
	b.doc.Blocks = append(b.doc.Blocks, block)
	b.lines += block.estimatedLines()
}

func (b *docBuilder) addHeading(text string, level int, anchor string) {
	b.doc.TOC = append(b.doc.TOC, TOCEntry{Title: text, Level: level, Anchor: anchor, Page: b.page()})
	b.add(Block{Kind: BlockHeading, Text: text, Level: level, Anchor: anchor})
}

func (b *docBuilder) addTable(table Block) {
	b.doc.TOC = append(b.doc.TOC, TOCEntry{Title: table.Title, Level: 4, Anchor: table.Anchor, Page: b.page()})
	b.add(table)
}
