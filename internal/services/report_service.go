package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"branchscope/internal/analysis"
	"branchscope/internal/exporter"
	"branchscope/internal/narrative"
	"branchscope/internal/operations"
	"branchscope/internal/querier"
	"branchscope/internal/report"
)

// fetchConcurrency caps parallel querier calls per run.
const fetchConcurrency = 4

// ReportOutput is the result of one report run.
type ReportOutput struct {
	Document  *report.Document `json:"document"`
	Result    *analysis.Result `json:"-"`
	Artifacts []string         `json:"artifacts,omitempty"`
}

// ReportService orchestrates report generation end to end.
type ReportService struct {
	querier   querier.Querier
	pipeline  *analysis.Pipeline
	generator narrative.Generator
	assembler *report.Assembler
	csv       *exporter.CSVWriter
	excel     *exporter.ExcelWriter
	store     operations.JobStore
	outDir    string
	logger    *slog.Logger
}

// NewReportService creates a report service. generator may be nil, in which
// case every section uses the deterministic template text.
func NewReportService(q querier.Querier, gen narrative.Generator, store operations.JobStore, outDir string, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if gen == nil {
		gen = narrative.NewTemplateGenerator()
	}
	return &ReportService{
		querier:   q,
		pipeline:  analysis.NewPipeline(logger),
		generator: gen,
		assembler: report.NewAssembler(logger),
		csv:       exporter.NewCSVWriter(outDir, logger),
		excel:     exporter.NewExcelWriter(logger),
		store:     store,
		outDir:    outDir,
		logger:    logger,
	}
}

// Submit creates a job for the request and runs it in the background. The
// run detaches from the request context so an early client disconnect does
// not abort the report.
func (s *ReportService) Submit(ctx context.Context, req *operations.ReportRequest) (*operations.Job, error) {
	job := operations.NewJob(req)
	if err := s.store.CreateJob(job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.InfoContext(ctx, "report job submitted",
		slog.String("job_id", job.ID),
		slog.Any("areas", req.Areas),
		slog.Any("years", req.Years),
	)

	go s.execute(context.WithoutCancel(ctx), job.ID, req)

	jobCopy := *job
	return &jobCopy, nil
}

// Job returns the current state of a job.
func (s *ReportService) Job(id string) (*operations.Job, error) {
	return s.store.GetJob(id)
}

// Document returns the assembled document of a completed job.
func (s *ReportService) Document(id string) (*report.Document, error) {
	job, err := s.store.GetJob(id)
	if err != nil {
		return nil, err
	}
	if job.Status != operations.JobStatusCompleted || job.Document == nil {
		return nil, fmt.Errorf("job %s has no document (status %s)", id, job.Status)
	}
	return job.Document, nil
}

// execute runs a submitted job and records its outcome in the store.
func (s *ReportService) execute(ctx context.Context, jobID string, req *operations.ReportRequest) {
	job, err := s.store.GetJob(jobID)
	if err != nil {
		s.logger.ErrorContext(ctx, "job vanished before execution", slog.String("job_id", jobID))
		return
	}

	now := time.Now().UTC()
	job.Status = operations.JobStatusRunning
	job.StartedAt = &now
	s.saveJob(ctx, job)

	steps := 3
	if req.Export {
		steps = 4
	}
	tracker := operations.NewProgressTracker(steps)
	progress := func(message string) {
		tracker.Increment(message)
		job.Progress = tracker.Percentage()
		job.Message = message
		s.saveJob(ctx, job)
	}

	out, err := s.run(ctx, req, progress)
	done := time.Now().UTC()
	job.CompletedAt = &done
	if err != nil {
		job.Status = operations.JobStatusFailed
		job.Error = err.Error()
		s.logger.ErrorContext(ctx, "report job failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	} else {
		job.Status = operations.JobStatusCompleted
		job.Progress = 100
		job.Message = "report complete"
		job.Document = out.Document
		job.Artifacts = out.Artifacts
		s.logger.InfoContext(ctx, "report job completed",
			slog.String("job_id", jobID),
			slog.Duration("elapsed", done.Sub(now)),
		)
	}
	s.saveJob(ctx, job)
}

// Run generates a report synchronously. The CLI entry point uses this
// directly; HTTP requests go through Submit.
func (s *ReportService) Run(ctx context.Context, req *operations.ReportRequest) (*ReportOutput, error) {
	return s.run(ctx, req, func(string) {})
}

func (s *ReportService) run(ctx context.Context, req *operations.ReportRequest, progress func(string)) (*ReportOutput, error) {
	records, err := s.fetchRecords(ctx, req.Areas, req.Years)
	if err != nil {
		return nil, err
	}
	progress("branch records fetched")

	result, err := s.pipeline.Run(ctx, records, req.Areas, req.Years, analysis.Options{
		TargetYear:        req.TargetYear,
		MajorityThreshold: req.MajorityThreshold,
	})
	if err != nil {
		return nil, err
	}
	progress("analysis complete")

	doc, err := s.assembleDocument(ctx, result, req)
	if err != nil {
		return nil, err
	}
	progress("document assembled")

	out := &ReportOutput{Document: doc, Result: result}
	if req.Export {
		artifacts, err := s.export(ctx, result)
		if err != nil {
			return nil, err
		}
		out.Artifacts = artifacts
		progress("spreadsheets exported")
	}
	return out, nil
}

// fetchRecords fans out one querier call per (area, year) pair. A failed
// pair is logged and omitted so one bad year does not sink the run; only a
// fully empty union is fatal.
func (s *ReportService) fetchRecords(ctx context.Context, areas []string, years []int) ([]analysis.BranchRecord, error) {
	var (
		mu      sync.Mutex
		records []analysis.BranchRecord
		failed  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for _, area := range areas {
		for _, year := range years {
			g.Go(func() error {
				recs, err := s.querier.Fetch(gctx, area, year)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed++
					s.logger.WarnContext(gctx, "branch record fetch failed, omitting pair",
						slog.String("area", area),
						slog.Int("year", year),
						slog.String("error", err.Error()),
					)
					return nil
				}
				records = append(records, recs...)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, &analysis.NoDataError{Areas: areas, Years: years}
	}

	if failed > 0 {
		s.logger.InfoContext(ctx, "continuing with partial input",
			slog.Int("failed_pairs", failed),
			slog.Int("records", len(records)),
		)
	}
	return records, nil
}

// assembleDocument generates narrative text per section for the presented
// view, falling back to template text when generation fails, then assembles
// and validates the document.
func (s *ReportService) assembleDocument(ctx context.Context, result *analysis.Result, req *operations.ReportRequest) (*report.Document, error) {
	view := result.Bundles[0]
	if result.Combined != nil {
		view = result.Combined
	}

	sections := make(report.Narratives, len(narrative.Sections()))
	for _, section := range narrative.Sections() {
		text, err := s.generator.Generate(ctx, section, view)
		if err != nil || text == "" {
			if err != nil {
				s.logger.WarnContext(ctx, "narrative generation failed, using fallback",
					slog.String("section", string(section)),
					slog.String("error", err.Error()),
				)
			}
			text = narrative.FallbackText(section, view)
		}
		sections[section] = text
	}

	return s.assembler.Assemble(result, map[string]report.Narratives{view.AreaID: sections}, report.Meta{
		Areas: req.Areas,
		Years: req.Years,
	})
}

func (s *ReportService) export(ctx context.Context, result *analysis.Result) ([]string, error) {
	var artifacts []string

	bundles := result.Bundles
	if result.Combined != nil {
		bundles = append(bundles[:len(bundles):len(bundles)], result.Combined)
	}
	for _, bundle := range bundles {
		if err := s.csv.WriteBundle(bundle); err != nil {
			return nil, fmt.Errorf("export csv for %s: %w", bundle.AreaID, err)
		}
		for _, suffix := range []string{"trends", "shares", "growth", "impact"} {
			artifacts = append(artifacts, filepath.Join(s.outDir, fmt.Sprintf("%s_%s.csv", bundle.AreaID, suffix)))
		}
	}

	workbook := filepath.Join(s.outDir, "analysis.xlsx")
	if err := s.excel.WriteWorkbook(result, workbook); err != nil {
		return nil, fmt.Errorf("export workbook: %w", err)
	}
	artifacts = append(artifacts, workbook)

	s.logger.InfoContext(ctx, "spreadsheets exported", slog.Int("artifacts", len(artifacts)))
	return artifacts, nil
}

func (s *ReportService) saveJob(ctx context.Context, job *operations.Job) {
	if err := s.store.UpdateJob(job); err != nil {
		s.logger.ErrorContext(ctx, "job update failed",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
	}
}
