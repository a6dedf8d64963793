package querier

import (
	"sort"
	"strings"
)

// CountyIndex resolves loosely specified county names against a known
// reference list. Entries are expected in "Name County, ST" form, the
// same labels the CSV querier discovers via Areas.
type CountyIndex struct {
	entries []string
}

// NewCountyIndex builds an index over the given reference entries. The
// input is copied and sorted so lookups return stable orderings.
func NewCountyIndex(entries []string) *CountyIndex {
	out := make([]string, len(entries))
	copy(out, entries)
	sort.Strings(out)
	return &CountyIndex{entries: out}
}

// Matches returns up to limit entries containing the search term,
// case-insensitively. A limit of zero or less means no cap.
func (ci *CountyIndex) Matches(term string, limit int) []string {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}
	var matches []string
	for _, entry := range ci.entries {
		if strings.Contains(strings.ToLower(entry), needle) {
			matches = append(matches, entry)
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
	}
	return matches
}

// ByState returns every entry whose state suffix matches the given
// two-letter abbreviation.
func (ci *CountyIndex) ByState(state string) []string {
	suffix := ", " + strings.ToLower(strings.TrimSpace(state))
	var out []string
	for _, entry := range ci.entries {
		if strings.HasSuffix(strings.ToLower(entry), suffix) {
			out = append(out, entry)
		}
	}
	return out
}

// Resolve finds the canonical entry for a county name. When a state is
// given, entries in that state are preferred. The boolean reports
// whether a match was found.
func (ci *CountyIndex) Resolve(name, state string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}
	if state != "" {
		suffix := ", " + strings.ToLower(strings.TrimSpace(state))
		for _, entry := range ci.entries {
			lower := strings.ToLower(entry)
			if strings.Contains(lower, needle) && strings.HasSuffix(lower, suffix) {
				return entry, true
			}
		}
	}
	for _, entry := range ci.entries {
		if strings.Contains(strings.ToLower(entry), needle) {
			return entry, true
		}
	}
	return "", false
}
