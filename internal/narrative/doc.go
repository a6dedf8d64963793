// Package narrative produces the prose sections of a market analysis
// report.
//
// Two Generator implementations exist: a live provider backed by the Gemini
// API and a deterministic template fallback. The orchestrator selects one at
// construction time, so the document assembler only ever sees the single
// Generator interface. An empty string is a valid "no narrative available"
// response; the assembler substitutes its own fallback paragraphs and a
// generation failure never fails a report run.
package narrative
