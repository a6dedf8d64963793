package querier

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecordsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVQuerierFetch(t *testing.T) {
	path := writeRecordsFile(t, `institution,year,area_id,branches,lmi_branches,minority_branches,deposits
First National Bank,2022,cook-il,15,5,4,1100000
First National Bank,2023,cook-il,12,4,3,950000
Community Savings,2023,cook-il,5,2,2,310000
Harbor Trust,2023,queens-ny,8,3,1,640000
`)

	q, err := NewCSVQuerier(path)
	require.NoError(t, err)

	records, err := q.Fetch(context.Background(), "cook-il", 2023)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "First National Bank", records[0].Institution)
	assert.Equal(t, int64(12), records[0].Branches)
	assert.Equal(t, float64(950000), records[0].Deposits)

	records, err = q.Fetch(context.Background(), "queens-ny", 2023)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Harbor Trust", records[0].Institution)
}

func TestCSVQuerierMissingPairIsEmpty(t *testing.T) {
	path := writeRecordsFile(t, `institution,year,area_id,branches
First National Bank,2023,cook-il,12
`)

	q, err := NewCSVQuerier(path)
	require.NoError(t, err)

	records, err := q.Fetch(context.Background(), "cook-il", 1999)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCSVQuerierOptionalColumnsDefaultZero(t *testing.T) {
	path := writeRecordsFile(t, `institution,year,area_id,branches
First National Bank,2023,cook-il,12
`)

	q, err := NewCSVQuerier(path)
	require.NoError(t, err)

	records, err := q.Fetch(context.Background(), "cook-il", 2023)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Zero(t, records[0].LMIBranches)
	assert.Zero(t, records[0].MinorityBranches)
	assert.Zero(t, records[0].Deposits)
}

func TestCSVQuerierBOMHeader(t *testing.T) {
	path := writeRecordsFile(t, "\xef\xbb\xbfinstitution,year,area_id,branches\nFirst National Bank,2023,cook-il,12\n")

	q, err := NewCSVQuerier(path)
	require.NoError(t, err)

	records, err := q.Fetch(context.Background(), "cook-il", 2023)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestCSVQuerierAreas(t *testing.T) {
	path := writeRecordsFile(t, `institution,year,area_id,branches
First National Bank,2023,cook-il,12
Harbor Trust,2023,queens-ny,8
Community Savings,2022,cook-il,5
`)

	q, err := NewCSVQuerier(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cook-il", "queens-ny"}, q.Areas())
}

func TestCSVQuerierFetchReturnsCopy(t *testing.T) {
	path := writeRecordsFile(t, `institution,year,area_id,branches
First National Bank,2023,cook-il,12
`)

	q, err := NewCSVQuerier(path)
	require.NoError(t, err)

	first, err := q.Fetch(context.Background(), "cook-il", 2023)
	require.NoError(t, err)
	first[0].Branches = 999

	second, err := q.Fetch(context.Background(), "cook-il", 2023)
	require.NoError(t, err)
	assert.Equal(t, int64(12), second[0].Branches)
}

func TestCSVQuerierLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing required column",
			content: "institution,year,branches\nFirst National Bank,2023,12\n",
			wantErr: "missing column",
		},
		{
			name:    "bad year",
			content: "institution,year,area_id,branches\nFirst National Bank,soon,cook-il,12\n",
			wantErr: "invalid year",
		},
		{
			name:    "bad branch count",
			content: "institution,year,area_id,branches\nFirst National Bank,2023,cook-il,many\n",
			wantErr: "invalid branches",
		},
		{
			name:    "bad deposits",
			content: "institution,year,area_id,branches,deposits\nFirst National Bank,2023,cook-il,12,lots\n",
			wantErr: "invalid deposits",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRecordsFile(t, tt.content)
			_, err := NewCSVQuerier(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCSVQuerierMissingFile(t *testing.T) {
	_, err := NewCSVQuerier(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
