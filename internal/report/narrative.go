package report

import (
	"regexp"
	"strings"
)

// Narrative text arrives as free-form prose from the generator. The
// classifier below performs a best-effort structural pass: numbered and
// bulleted lists, short heading-like lines, and inline emphasis are promoted
// to their block variants, and everything ambiguous degrades to a plain
// paragraph rather than failing assembly.

var (
	numberedItemRe = regexp.MustCompile(`^\d+\.\s*`)
	bulletItemRe   = regexp.MustCompile(`^[•\-\*]\s+`)
	headingRe      = regexp.MustCompile(`^[A-Z][A-Za-z0-9 ,/&'\-]{0,70}:$`)
	boldRe         = regexp.MustCompile(`\*\*([^*]+)\*\*`)
)

// NormalizeNarrative classifies free-form narrative text into content
// blocks. It never returns an error; empty input yields no blocks.
func NormalizeNarrative(text string) []Block {
	var blocks []Block
	for _, chunk := range splitChunks(text) {
		blocks = append(blocks, classifyChunk(chunk)...)
	}
	return blocks
}

// splitChunks splits on blank lines, trimming each chunk.
func splitChunks(text string) []string {
	var chunks []string
	for _, c := range regexp.MustCompile(`\n\s*\n`).Split(strings.TrimSpace(text), -1) {
		if c = strings.TrimSpace(c); c != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks
}

func classifyChunk(chunk string) []Block {
	lines := splitLines(chunk)

	switch {
	case allMatch(lines, numberedItemRe):
		items := make([]string, 0, len(lines))
		for _, l := range lines {
			items = append(items, numberedItemRe.ReplaceAllString(l, ""))
		}
		return []Block{{Kind: BlockNumberedList, Items: items}}

	case allMatch(lines, bulletItemRe):
		items := make([]string, 0, len(lines))
		for _, l := range lines {
			items = append(items, bulletItemRe.ReplaceAllString(l, ""))
		}
		return []Block{{Kind: BlockBulletList, Items: items}}

	case len(lines) == 1 && headingRe.MatchString(lines[0]):
		return []Block{{
			Kind:  BlockHeading,
			Text:  strings.TrimSuffix(lines[0], ":"),
			Level: 3,
		}}

	default:
		// Mixed chunks fall through here: each line is classified alone so a
		// paragraph followed by its bullet points keeps its structure.
		if len(lines) > 1 && (anyMatch(lines, bulletItemRe) || anyMatch(lines, numberedItemRe)) {
			var blocks []Block
			for _, l := range lines {
				blocks = append(blocks, classifyChunk(l)...)
			}
			return mergeAdjacentLists(blocks)
		}
		return []Block{paragraph(strings.Join(lines, " "))}
	}
}

// paragraph builds a Paragraph block, promoting **text** (and single-asterisk
// *text*) markers to bold spans. A chunk wrapped entirely in ** is treated
// as plain text.
func paragraph(text string) Block {
	if strings.HasPrefix(text, "**") && strings.HasSuffix(text, "**") && strings.Count(text, "**") == 2 {
		text = strings.TrimSpace(strings.Trim(text, "*"))
	}
	// Normalize single-asterisk emphasis to the double form first.
	text = regexp.MustCompile(`(^|[^*])\*([^*]+)\*($|[^*])`).ReplaceAllString(text, "$1**$2**$3")

	var spans []Span
	rest := text
	for {
		loc := boldRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		if loc[0] > 0 {
			spans = append(spans, Span{Text: rest[:loc[0]]})
		}
		spans = append(spans, Span{Text: rest[loc[2]:loc[3]], Bold: true})
		rest = rest[loc[1]:]
	}
	if rest != "" || len(spans) == 0 {
		spans = append(spans, Span{Text: rest})
	}
	return Block{Kind: BlockParagraph, Spans: spans}
}

func splitLines(chunk string) []string {
	var lines []string
	for _, l := range strings.Split(chunk, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func allMatch(lines []string, re *regexp.Regexp) bool {
	if len(lines) == 0 {
		return false
	}
	for _, l := range lines {
		if !re.MatchString(l) {
			return false
		}
	}
	return true
}

func anyMatch(lines []string, re *regexp.Regexp) bool {
	for _, l := range lines {
		if re.MatchString(l) {
			return true
		}
	}
	return false
}

// mergeAdjacentLists coalesces consecutive single-item lists produced by
// line-at-a-time classification.
func mergeAdjacentLists(blocks []Block) []Block {
	var out []Block
	for _, b := range blocks {
		if n := len(out); n > 0 && out[n-1].Kind == b.Kind &&
			(b.Kind == BlockBulletList || b.Kind == BlockNumberedList) {
			out[n-1].Items = append(out[n-1].Items, b.Items...)
			continue
		}
		out = append(out, b)
	}
	return out
}
