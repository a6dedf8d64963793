// Package exporter writes computed analysis bundles to spreadsheet files.
//
// The Excel writer produces one workbook per run with a sheet per report
// table (summary, trends, market share, growth, community impact); the CSV
// writer emits single tables for downstream tooling. Both operate on the
// AnalysisBundle contract and know nothing about document assembly.
package exporter
