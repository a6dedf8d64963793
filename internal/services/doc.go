// Package services implements the business logic layer between the HTTP
// handlers and the analysis engine.
//
// ReportService owns the full report run: fetch branch records per
// (area, year) pair, run the analysis pipeline, generate narrative text with
// deterministic fallback, assemble the document, and optionally export
// spreadsheets. HealthService reports process and job store health.
//
// Services take their dependencies through constructors and log with slog;
// they return domain errors for the handlers to transform.
package services
