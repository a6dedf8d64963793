// Package analysis implements the banking-market analysis engine for FDIC
// Summary of Deposits branch records.
//
// The engine runs four stages in strict dependency order:
//
//  1. Trend aggregation: per-area, per-year rollups of branch counts and
//     community-service ratios with year-over-year and cumulative deltas.
//  2. Market concentration: deposit-based market shares, the
//     Herfindahl-Hirschman Index with its regulatory classification, and the
//     minimal majority-share cohort.
//  3. Growth and community impact: first-year-vs-last-year branch change for
//     the cohort and each institution's service ratios against the area
//     average.
//  4. (in package report) document assembly of the computed tables with
//     narrative text.
//
// All stages are pure functions of their inputs. A Pipeline owns validation,
// per-area fan-out, and the combined multi-area view; concurrent runs are
// safe as long as each run owns its own record snapshot.
//
// # Architecture
//
//   - types.go: core data structures (BranchRecord through AnalysisBundle)
//   - errors.go: the engine error taxonomy
//   - trends.go: yearly trend aggregation
//   - concentration.go: market shares, HHI, majority cohort
//   - growth.go: cohort growth and community-impact comparison
//   - pipeline.go: validation, fan-out, combined-area computation
package analysis
