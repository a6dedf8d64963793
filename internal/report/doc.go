// Package report assembles computed analysis bundles and externally
// generated narrative text into an ordered, navigable document.
//
// The document model is a flat sequence of typed content blocks (paragraphs,
// lists, headings, tables, spacers), each carrying a stable anchor id, plus a
// table of contents whose entries resolve to exactly one block. Rendering the
// document to a concrete file format (PDF, HTML) is a collaborator concern;
// the assembler only guarantees structure: fixed section order, deterministic
// anchors, fallback paragraphs for missing narrative, and estimated page
// numbers for the table of contents.
package report
