package querier

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"branchscope/internal/analysis"
)

// CSVQuerier serves Fetch calls from a branch-record CSV file loaded once at
// construction. Expected columns: institution, year, area_id, branches,
// lmi_branches, minority_branches, deposits (header row required, any
// order).
type CSVQuerier struct {
	records map[string][]analysis.BranchRecord // keyed by areaID/year
}

// NewCSVQuerier loads path into memory.
func NewCSVQuerier(path string) (*CSVQuerier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("records file %s is empty", path)
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.TrimSpace(strings.ToLower(strings.TrimPrefix(h, "\xef\xbb\xbf")))] = i
	}
	for _, required := range []string{"institution", "year", "area_id", "branches"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("records file %s: missing column %q", path, required)
		}
	}

	q := &CSVQuerier{records: make(map[string][]analysis.BranchRecord)}
	for i, row := range rows[1:] {
		rec, err := parseRow(row, col)
		if err != nil {
			return nil, fmt.Errorf("records file %s row %d: %w", path, i+2, err)
		}
		key := pairKey(rec.AreaID, rec.Year)
		q.records[key] = append(q.records[key], rec)
	}
	return q, nil
}

// Fetch implements Querier from the loaded file. A pair with no rows returns
// an empty slice, not an error: the file simply has no data for it.
func (q *CSVQuerier) Fetch(_ context.Context, areaID string, year int) ([]analysis.BranchRecord, error) {
	out := q.records[pairKey(areaID, year)]
	cp := make([]analysis.BranchRecord, len(out))
	copy(cp, out)
	return cp, nil
}

// Areas lists every area id present in the file, for CLI discovery.
func (q *CSVQuerier) Areas() []string {
	seen := make(map[string]struct{})
	var areas []string
	for _, recs := range q.records {
		for _, r := range recs {
			if _, ok := seen[r.AreaID]; !ok {
				seen[r.AreaID] = struct{}{}
				areas = append(areas, r.AreaID)
			}
		}
	}
	return areas
}

func pairKey(areaID string, year int) string {
	return fmt.Sprintf("%s/%d", areaID, year)
}

func parseRow(row []string, col map[string]int) (analysis.BranchRecord, error) {
	get := func(name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	year, err := strconv.Atoi(get("year"))
	if err != nil {
		return analysis.BranchRecord{}, fmt.Errorf("invalid year %q", get("year"))
	}

	parseCount := func(name string) (int64, error) {
		s := get(name)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q", name, s)
		}
		return n, nil
	}

	branches, err := parseCount("branches")
	if err != nil {
		return analysis.BranchRecord{}, err
	}
	lmi, err := parseCount("lmi_branches")
	if err != nil {
		return analysis.BranchRecord{}, err
	}
	minority, err := parseCount("minority_branches")
	if err != nil {
		return analysis.BranchRecord{}, err
	}

	var deposits float64
	if s := get("deposits"); s != "" {
		deposits, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return analysis.BranchRecord{}, fmt.Errorf("invalid deposits %q", s)
		}
	}

	return analysis.BranchRecord{
		Institution:      get("institution"),
		Year:             year,
		AreaID:           get("area_id"),
		Branches:         branches,
		LMIBranches:      lmi,
		MinorityBranches: minority,
		Deposits:         deposits,
	}, nil
}
