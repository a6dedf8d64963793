package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		hhi  float64
		want Classification
	}{
		{"zero", 0, Unconcentrated},
		{"just under moderate", 999.9, Unconcentrated},
		{"moderate lower bound", 1000, ModeratelyConcentrated},
		{"moderate upper bound", 1800, ModeratelyConcentrated},
		{"just over moderate", 1800.1, HighlyConcentrated},
		{"monopoly", 10000, HighlyConcentrated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.hhi))
		})
	}
}

func TestAnalyzerShares(t *testing.T) {
	an := NewAnalyzer()

	t.Run("deposit based share with branch share for display", func(t *testing.T) {
		records := []BranchRecord{
			{Institution: "First National", Year: 2021, AreaID: "cook-il", Branches: 40, LMIBranches: 10, MinorityBranches: 4, Deposits: 80},
			{Institution: "Community Trust", Year: 2021, AreaID: "cook-il", Branches: 40, LMIBranches: 5, MinorityBranches: 20, Deposits: 40},
		}

		shares := an.Shares(records)
		require.Len(t, shares, 2)

		// Deposit share ranks First National ahead despite equal branches.
		assert.Equal(t, "First National", shares[0].Institution)
		assert.InDelta(t, 100.0*80/120, shares[0].MarketSharePct, 1e-9)
		assert.InDelta(t, 50.0, shares[0].BranchSharePct, 1e-9)
		assert.InDelta(t, 100.0*40/120, shares[1].MarketSharePct, 1e-9)
	})

	t.Run("ties broken by institution name", func(t *testing.T) {
		records := []BranchRecord{
			{Institution: "Zenith Bank", Year: 2021, AreaID: "cook-il", Branches: 10, Deposits: 50},
			{Institution: "Aurora Bank", Year: 2021, AreaID: "cook-il", Branches: 10, Deposits: 50},
		}

		shares := an.Shares(records)
		require.Len(t, shares, 2)
		assert.Equal(t, "Aurora Bank", shares[0].Institution)
		assert.Equal(t, "Zenith Bank", shares[1].Institution)
	})

	t.Run("zero deposits give zero shares", func(t *testing.T) {
		records := []BranchRecord{
			{Institution: "First National", Year: 2021, AreaID: "cook-il", Branches: 10, Deposits: 0},
			{Institution: "Community Trust", Year: 2021, AreaID: "cook-il", Branches: 5, Deposits: 0},
		}

		shares := an.Shares(records)
		require.Len(t, shares, 2)
		for _, s := range shares {
			assert.Zero(t, s.MarketSharePct)
		}
	})
}

func TestAnalyzerHHI(t *testing.T) {
	an := NewAnalyzer()

	t.Run("single institution at 100 percent is exactly 10000", func(t *testing.T) {
		shares := an.Shares([]BranchRecord{
			{Institution: "Monopoly Bank", Year: 2021, AreaID: "cook-il", Branches: 10, Deposits: 500},
		})

		idx := an.HHI(shares)
		assert.Equal(t, 10000.0, idx.Value)
		assert.Equal(t, HighlyConcentrated, idx.Classification)
		assert.False(t, idx.NoData)
	})

	t.Run("two institutions at 50 percent each is 5000", func(t *testing.T) {
		shares := an.Shares([]BranchRecord{
			{Institution: "First National", Year: 2021, AreaID: "cook-il", Branches: 10, Deposits: 250},
			{Institution: "Community Trust", Year: 2021, AreaID: "cook-il", Branches: 10, Deposits: 250},
		})

		idx := an.HHI(shares)
		assert.InDelta(t, 5000.0, idx.Value, 1e-9)
		assert.Equal(t, HighlyConcentrated, idx.Classification)
	})

	t.Run("zero deposit area reports no data, not healthy competition", func(t *testing.T) {
		shares := an.Shares([]BranchRecord{
			{Institution: "First National", Year: 2021, AreaID: "kent-de", Branches: 3, Deposits: 0},
		})

		idx := an.HHI(shares)
		assert.Zero(t, idx.Value)
		assert.Equal(t, Unconcentrated, idx.Classification)
		assert.True(t, idx.NoData)
	})
}

func TestAnalyzerCohort(t *testing.T) {
	an := NewAnalyzer()

	mkShares := func(deposits ...float64) []InstitutionShare {
		records := make([]BranchRecord, len(deposits))
		for i, d := range deposits {
			records[i] = BranchRecord{
				Institution: string(rune('A' + i)),
				Year:        2021,
				AreaID:      "cook-il",
				Branches:    1,
				Deposits:    d,
			}
		}
		return an.Shares(records)
	}

	t.Run("minimal prefix", func(t *testing.T) {
		// Shares: 40%, 30%, 20%, 10%. Cohort must be the first two.
		cohort := an.Cohort(mkShares(40, 30, 20, 10), 50)
		require.Len(t, cohort.Members, 2)
		assert.False(t, cohort.All)
		assert.InDelta(t, 70.0, cohort.CumulativeSharePct, 1e-9)

		// Minimality: dropping the last member falls below threshold.
		withoutLast := cohort.CumulativeSharePct - cohort.Members[len(cohort.Members)-1].MarketSharePct
		assert.Less(t, withoutLast, cohort.Threshold)
	})

	t.Run("single dominant institution", func(t *testing.T) {
		cohort := an.Cohort(mkShares(80, 40), 50)
		require.Len(t, cohort.Members, 1)
		assert.InDelta(t, 100.0*80/120, cohort.CumulativeSharePct, 1e-9)
	})

	t.Run("list exhausted before threshold", func(t *testing.T) {
		// Zero deposits: every share is 0, the threshold is unreachable.
		cohort := an.Cohort(mkShares(0, 0, 0), 50)
		assert.True(t, cohort.All)
		assert.Len(t, cohort.Members, 3)
	})

	t.Run("default threshold applied", func(t *testing.T) {
		cohort := an.Cohort(mkShares(60, 40), 0)
		assert.Equal(t, DefaultMajorityThreshold, cohort.Threshold)
		assert.Len(t, cohort.Members, 1)
	})
}
