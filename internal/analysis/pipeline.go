package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// CombinedAreaID identifies the synthetic area computed over the union of
// all requested areas in a multi-area run.
const CombinedAreaID = "combined"

// Options configures a pipeline run.
type Options struct {
	// TargetYear is the concentration analysis year; 0 selects the maximum
	// year present in the filtered records.
	TargetYear int
	// MajorityThreshold is the cumulative share the cohort must reach;
	// 0 selects DefaultMajorityThreshold.
	MajorityThreshold float64
	// MaxConcurrency bounds the per-area workers; 0 selects a default.
	MaxConcurrency int
}

// Result holds one bundle per requested area, in request order, plus a
// combined view when more than one area was requested.
type Result struct {
	Bundles  []*AnalysisBundle `json:"bundles"`
	Combined *AnalysisBundle   `json:"combined,omitempty"`
}

// Bundle returns the bundle for areaID, or nil.
func (r *Result) Bundle(areaID string) *AnalysisBundle {
	for _, b := range r.Bundles {
		if b.AreaID == areaID {
			return b
		}
	}
	return nil
}

// Pipeline runs the three computation stages for every requested area and,
// for multi-area runs, for the combined synthetic area. It is safe for
// concurrent use; each Run owns its own intermediate state.
type Pipeline struct {
	aggregator *Aggregator
	analyzer   *Analyzer
	comparator *Comparator
	logger     *slog.Logger

	maxConcurrency int
}

// NewPipeline creates an analysis pipeline.
func NewPipeline(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		aggregator:     NewAggregator(),
		analyzer:       NewAnalyzer(),
		comparator:     NewComparator(),
		logger:         logger,
		maxConcurrency: 4,
	}
}

// Run validates the inputs, filters records to the requested areas and
// years, and computes an AnalysisBundle per area. Areas are independent until
// the combined view, so they are computed in parallel.
//
// It returns a ValidationError for structurally invalid input and a
// NoDataError when filtering leaves zero records. An (area, year) pair with
// no records is not an error; it simply contributes zero values downstream.
func (p *Pipeline) Run(ctx context.Context, records []BranchRecord, areas []string, years []int, opts Options) (*Result, error) {
	start := time.Now()

	if err := validateInput(records, areas, years); err != nil {
		return nil, err
	}

	years = sortedYears(years)
	filtered := filterRecords(records, areas, years)
	if len(filtered) == 0 {
		return nil, &NoDataError{Areas: areas, Years: years}
	}

	targetYear := opts.TargetYear
	if targetYear == 0 {
		targetYear = maxYear(filtered)
	}
	threshold := opts.MajorityThreshold
	if threshold == 0 {
		threshold = DefaultMajorityThreshold
	}

	p.logger.InfoContext(ctx, "starting analysis run",
		slog.Int("records", len(filtered)),
		slog.Int("areas", len(areas)),
		slog.Int("target_year", targetYear),
		slog.Float64("majority_threshold", threshold),
	)

	byArea := make(map[string][]BranchRecord, len(areas))
	for _, r := range filtered {
		byArea[r.AreaID] = append(byArea[r.AreaID], r)
	}

	concurrency := opts.MaxConcurrency
	if concurrency <= 0 {
		concurrency = p.maxConcurrency
	}

	bundles := make([]*AnalysisBundle, len(areas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, area := range areas {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("area %s: %w", area, err)
			}
			bundles[i] = p.computeBundle(area, false, byArea[area], years, targetYear, threshold)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Bundles: bundles}
	if len(areas) > 1 {
		// Recompute over the union so percentages and shares are taken
		// against combined totals, not averaged per-area figures.
		result.Combined = p.computeBundle(CombinedAreaID, true, filtered, years, targetYear, threshold)
	}

	p.logger.InfoContext(ctx, "analysis run complete",
		slog.Int("bundles", len(result.Bundles)),
		slog.Bool("combined", result.Combined != nil),
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// computeBundle runs the three stages over records belonging to one logical
// area (a single county, or the multi-area union).
func (p *Pipeline) computeBundle(areaID string, combined bool, records []BranchRecord, years []int, targetYear int, threshold float64) *AnalysisBundle {
	trends := p.aggregator.Trends(records, areaID)

	var targetRecords []BranchRecord
	for _, r := range records {
		if r.Year == targetYear {
			targetRecords = append(targetRecords, r)
		}
	}
	shares := p.analyzer.Shares(targetRecords)
	index := p.analyzer.HHI(shares)
	cohort := p.analyzer.Cohort(shares, threshold)

	firstYear, lastYear := years[0], years[len(years)-1]
	growth := p.comparator.Growth(cohort, records, firstYear, lastYear)
	averages := p.comparator.Averages(records, targetYear)
	impact := p.comparator.Impact(cohort, averages)

	return &AnalysisBundle{
		AreaID:        areaID,
		Combined:      combined,
		Years:         years,
		TargetYear:    targetYear,
		Trends:        trends,
		Shares:        shares,
		Concentration: index,
		Cohort:        cohort,
		Growth:        growth,
		Impact:        impact,
		Averages:      averages,
	}
}

func validateInput(records []BranchRecord, areas []string, years []int) error {
	if len(areas) == 0 {
		return &ValidationError{Field: "areas", Message: "at least one area is required"}
	}
	if len(years) == 0 {
		return &ValidationError{Field: "years", Message: "at least one year is required"}
	}
	if len(records) == 0 {
		return &ValidationError{Field: "records", Message: "at least one branch record is required"}
	}
	for i, r := range records {
		switch {
		case r.Institution == "":
			return &ValidationError{Field: "records", Message: fmt.Sprintf("record %d: missing institution name", i)}
		case r.AreaID == "":
			return &ValidationError{Field: "records", Message: fmt.Sprintf("record %d: missing area id", i)}
		case r.Year <= 0:
			return &ValidationError{Field: "records", Message: fmt.Sprintf("record %d: missing year", i)}
		case r.Branches < 0 || r.LMIBranches < 0 || r.MinorityBranches < 0 || r.Deposits < 0:
			return &ValidationError{Field: "records", Message: fmt.Sprintf("record %d: negative count or deposit amount", i)}
		}
	}
	return nil
}

func filterRecords(records []BranchRecord, areas []string, years []int) []BranchRecord {
	areaSet := make(map[string]struct{}, len(areas))
	for _, a := range areas {
		areaSet[a] = struct{}{}
	}
	yearSet := make(map[int]struct{}, len(years))
	for _, y := range years {
		yearSet[y] = struct{}{}
	}

	var out []BranchRecord
	for _, r := range records {
		if _, ok := areaSet[r.AreaID]; !ok {
			continue
		}
		if _, ok := yearSet[r.Year]; !ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

func sortedYears(years []int) []int {
	out := make([]int, len(years))
	copy(out, years)
	sort.Ints(out)
	return out
}

func maxYear(records []BranchRecord) int {
	maxY := 0
	for _, r := range records {
		if r.Year > maxY {
			maxY = r.Year
		}
	}
	return maxY
}
