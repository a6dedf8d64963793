package report

import (
	"fmt"
	"strings"
)

// NotAvailable marks table cells whose value is undefined, such as the
// year-over-year change for the first year in range.
const NotAvailable = "N/A"

// FormatInt renders an integer with thousands separators.
func FormatInt(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	if len(s) > 3 {
		var sb strings.Builder
		rem := len(s) % 3
		if rem > 0 {
			sb.WriteString(s[:rem])
		}
		for i := rem; i < len(s); i += 3 {
			if sb.Len() > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(s[i : i+3])
		}
		s = sb.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatPct renders a percentage to one decimal place with the % suffix, for
// narrative text.
func FormatPct(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatPctCell renders a percentage to one decimal place without the %
// suffix, for table cells whose header already carries it.
func FormatPctCell(p float64) string {
	return fmt.Sprintf("%.1f", p)
}

// FormatSignedInt renders a signed delta, prefixing positive values with "+".
func FormatSignedInt(n int64) string {
	if n > 0 {
		return "+" + FormatInt(n)
	}
	return FormatInt(n)
}

// FormatSignedPctCell renders a signed percentage delta for table cells.
func FormatSignedPctCell(p float64) string {
	if p > 0 {
		return "+" + FormatPctCell(p)
	}
	return FormatPctCell(p)
}

// TableName renders an institution name for table cells: upper-cased.
func TableName(name string) string {
	return strings.ToUpper(name)
}

// NarrativeName renders an institution name for narrative text: title-cased,
// leaving short all-caps tokens (bank abbreviations) alone.
func NarrativeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if len(w) <= 4 && w == strings.ToUpper(w) && !strings.ContainsAny(w, "AEIOU") {
			continue
		}
		runes := []rune(strings.ToLower(w))
		for j, r := range runes {
			if j == 0 && r >= 'a' && r <= 'z' {
				runes[j] = r - 'a' + 'A'
			}
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
