// Package querier fetches branch records for an (area, year) pair.
//
// Two implementations exist: an HTTP client for the FDIC Summary of Deposits
// API and a CSV file reader for offline runs and tests. The orchestrator
// calls Fetch once per (area, year) pair and unions the successful results;
// a failed pair is omitted, since partial input is valid for the analysis
// engine.
package querier
