// Package operations tracks asynchronous report jobs.
//
// A Job records the lifecycle of one report request: pending, running with
// incremental progress, then completed with a document or failed with an
// error message. The in-memory JobStore is safe for concurrent use and is
// injected into the report service; the analysis engine never sees it.
package operations
