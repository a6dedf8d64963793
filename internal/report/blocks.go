package report

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// BlockKind discriminates the content block variants.
type BlockKind string

const (
	BlockParagraph    BlockKind = "paragraph"
	BlockBulletList   BlockKind = "bullet_list"
	BlockNumberedList BlockKind = "numbered_list"
	BlockHeading      BlockKind = "heading"
	BlockTable        BlockKind = "table"
	BlockSpacer       BlockKind = "spacer"
)

// Span is a run of paragraph text with optional bold emphasis.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Block is one tagged content block. Exactly the fields relevant to Kind are
// populated; Anchor is set on headings and tables and empty elsewhere.
type Block struct {
	Kind   BlockKind `json:"kind"`
	Anchor string    `json:"anchor,omitempty"`

	// Paragraph
	Spans []Span `json:"spans,omitempty"`

	// BulletList / NumberedList
	Items []string `json:"items,omitempty"`

	// Heading
	Text  string `json:"text,omitempty"`
	Level int    `json:"level,omitempty"`

	// Table
	Title   string     `json:"title,omitempty"`
	Columns []string   `json:"columns,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	Caption string     `json:"caption,omitempty"`
}

// PlainText flattens a paragraph's spans.
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// TOCEntry points at an anchored block.
type TOCEntry struct {
	Title  string `json:"title"`
	Level  int    `json:"level"`
	Anchor string `json:"anchor"`
	Page   int    `json:"page"`
}

// Document is an ordered block sequence with a separately addressable table
// of contents. It is built incrementally by the Assembler and owned by it
// until handed to a rendering collaborator.
type Document struct {
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
	Blocks      []Block    `json:"blocks"`
	TOC         []TOCEntry `json:"toc"`
}

// RenderInconsistencyError reports an anchor collision or an orphaned TOC
// entry. It is an internal invariant violation, never silently recovered.
type RenderInconsistencyError struct {
	Anchor string
	Reason string
}

// Error implements the error interface.
func (e *RenderInconsistencyError) Error() string {
	return fmt.Sprintf("render inconsistency: anchor %q: %s", e.Anchor, e.Reason)
}

// Resolve returns the index of the block the entry's anchor points at.
func (d *Document) Resolve(entry TOCEntry) (int, error) {
	for i, b := range d.Blocks {
		if b.Anchor != "" && b.Anchor == entry.Anchor {
			return i, nil
		}
	}
	return 0, &RenderInconsistencyError{Anchor: entry.Anchor, Reason: "orphaned TOC entry"}
}

// Validate checks the document's internal consistency: every non-empty block
// anchor is unique and every TOC entry resolves to exactly one block.
func (d *Document) Validate() error {
	seen := make(map[string]struct{}, len(d.Blocks))
	for _, b := range d.Blocks {
		if b.Anchor == "" {
			continue
		}
		if _, dup := seen[b.Anchor]; dup {
			return &RenderInconsistencyError{Anchor: b.Anchor, Reason: "anchor collision"}
		}
		seen[b.Anchor] = struct{}{}
	}
	for _, e := range d.TOC {
		if _, ok := seen[e.Anchor]; !ok {
			return &RenderInconsistencyError{Anchor: e.Anchor, Reason: "orphaned TOC entry"}
		}
	}
	return nil
}

// Anchor derives a stable, deterministic anchor id from its parts (area name,
// section name, optional table discriminator).
func Anchor(parts ...string) string {
	slugs := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := slugify(p); s != "" {
			slugs = append(slugs, s)
		}
	}
	return strings.Join(slugs, "-")
}

// slugify lower-cases and collapses anything non-alphanumeric to single
// hyphens.
func slugify(s string) string {
	var sb strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			sb.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(sb.String(), "-")
}

// estimatedLines is a coarse per-block height heuristic used for TOC page
// estimates. Tuned for a letter page at body size; exactness is not a goal.
func (b Block) estimatedLines() int {
	switch b.Kind {
	case BlockParagraph:
		chars := len(b.PlainText())
		lines := chars/90 + 1
		return lines + 1
	case BlockBulletList, BlockNumberedList:
		return len(b.Items) + 1
	case BlockHeading:
		return 3
	case BlockTable:
		return len(b.Rows) + 4
	case BlockSpacer:
		return 1
	default:
		return 1
	}
}
