package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coins(n int64) *big.Int {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(n), unit)
}

func testTiers() SupplyTierTable {
	return SupplyTierTable{
		{Threshold: coins(0), ExpansionPercent: 450},
		{Threshold: coins(10_000), ExpansionPercent: 400},
		{Threshold: coins(20_000), ExpansionPercent: 350},
		{Threshold: coins(30_000), ExpansionPercent: 300},
	}
}

func TestExpansionPercent(t *testing.T) {
	tiers := testTiers()

	tests := []struct {
		name   string
		supply *big.Int
		want   uint64
	}{
		{"below all nonzero thresholds", coins(1), 450},
		{"zero supply hits the base tier", big.NewInt(0), 450},
		{"between first and second", coins(15_000), 400},
		{"exactly on a threshold", coins(20_000), 350},
		{"above the top threshold", coins(1_000_000), 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tiers.ExpansionPercent(tt.supply))
		})
	}
}

func TestExpansionPercentDefaultTable(t *testing.T) {
	tiers := DefaultSupplyTiers()

	// The base tier must be selected for any supply below the first nonzero
	// threshold, including zero.
	assert.Equal(t, uint64(450), tiers.ExpansionPercent(big.NewInt(0)))
	assert.Equal(t, uint64(450), tiers.ExpansionPercent(coins(499_999)))
	assert.Equal(t, uint64(100), tiers.ExpansionPercent(coins(90_000_000)))
}

func TestSetEntry(t *testing.T) {
	t.Run("valid replacement", func(t *testing.T) {
		tiers := testTiers()
		require.NoError(t, tiers.SetEntry(1, coins(12_000), 380))
		assert.Equal(t, uint64(380), tiers.ExpansionPercent(coins(12_000)))
		assert.Equal(t, uint64(450), tiers.ExpansionPercent(coins(11_999)))
	})

	t.Run("index out of range", func(t *testing.T) {
		tiers := testTiers()
		assert.ErrorIs(t, tiers.SetEntry(4, coins(40_000), 250), ErrorTierIndexOutOfRange)
		assert.ErrorIs(t, tiers.SetEntry(-1, coins(40_000), 250), ErrorTierIndexOutOfRange)
	})

	t.Run("percent out of range", func(t *testing.T) {
		tiers := testTiers()
		assert.ErrorIs(t, tiers.SetEntry(1, coins(12_000), 9), ErrorTierPercentOutOfRange)
		assert.ErrorIs(t, tiers.SetEntry(1, coins(12_000), 1001), ErrorTierPercentOutOfRange)
	})

	t.Run("ordering against the lower neighbor", func(t *testing.T) {
		tiers := testTiers()
		assert.ErrorIs(t, tiers.SetEntry(2, coins(10_000), 350), ErrorTierOrderingViolation)
	})

	t.Run("ordering against the upper neighbor", func(t *testing.T) {
		tiers := testTiers()
		assert.ErrorIs(t, tiers.SetEntry(2, coins(30_000), 350), ErrorTierOrderingViolation)
	})

	t.Run("base tier keeps threshold zero", func(t *testing.T) {
		tiers := testTiers()
		assert.ErrorIs(t, tiers.SetEntry(0, coins(1), 450), ErrorTierOrderingViolation)
	})

	t.Run("failed write leaves the table untouched", func(t *testing.T) {
		tiers := testTiers()
		require.Error(t, tiers.SetEntry(2, coins(10_000), 350))
		assert.Equal(t, uint64(350), tiers.ExpansionPercent(coins(20_000)))
	})
}
