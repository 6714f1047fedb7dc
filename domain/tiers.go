package domain

import (
	"fmt"
	"math/big"
)

var (
	ErrorTierIndexOutOfRange   = fmt.Errorf("tier index out of range")
	ErrorTierOrderingViolation = fmt.Errorf("tier threshold must keep the table strictly increasing")
	ErrorTierPercentOutOfRange = fmt.Errorf("tier expansion percent out of range")
)

// Expansion percents are expressed in basis points over PercentDenominator.
const (
	PercentDenominator = 10000

	MinTierExpansionPercent = 10   // 0.1%
	MaxTierExpansionPercent = 1000 // 10%
)

type SupplyTier struct {
	Threshold        *big.Int `json:"threshold"`
	ExpansionPercent uint64   `json:"expansion_percent"`
}

// SupplyTierTable maps circulating supply to the maximum expansion percent for
// an epoch. Thresholds are strictly increasing and the base threshold is zero,
// so a lookup always matches.
type SupplyTierTable []SupplyTier

// ExpansionPercent returns the percent of the highest tier whose threshold
// does not exceed supply. The scan counts down on a signed index so the base
// tier terminates the loop naturally instead of wrapping an unsigned counter.
func (t SupplyTierTable) ExpansionPercent(supply *big.Int) uint64 {
	for i := len(t) - 1; i >= 0; i-- {
		if supply.Cmp(t[i].Threshold) >= 0 {
			return t[i].ExpansionPercent
		}
	}
	return 0
}

// SetEntry replaces one tier, re-validating the percent range and the
// strict ordering against both neighbors.
func (t SupplyTierTable) SetEntry(index int, threshold *big.Int, percent uint64) error {
	if index < 0 || index >= len(t) {
		return ErrorTierIndexOutOfRange
	}
	if percent < MinTierExpansionPercent || percent > MaxTierExpansionPercent {
		return ErrorTierPercentOutOfRange
	}
	if index == 0 && threshold.Sign() != 0 {
		// The base tier keeps threshold zero so every supply matches a tier.
		return ErrorTierOrderingViolation
	}
	if index > 0 && threshold.Cmp(t[index-1].Threshold) <= 0 {
		return ErrorTierOrderingViolation
	}
	if index < len(t)-1 && threshold.Cmp(t[index+1].Threshold) >= 0 {
		return ErrorTierOrderingViolation
	}

	t[index] = SupplyTier{Threshold: new(big.Int).Set(threshold), ExpansionPercent: percent}
	return nil
}

func (t SupplyTierTable) clone() SupplyTierTable {
	c := make(SupplyTierTable, len(t))
	for i, tier := range t {
		c[i] = SupplyTier{Threshold: cloneAmount(tier.Threshold), ExpansionPercent: tier.ExpansionPercent}
	}
	return c
}

// DefaultSupplyTiers is the launch table: thresholds in whole peg units
// (1e18 scale), percents in basis points.
func DefaultSupplyTiers() SupplyTierTable {
	thresholds := []int64{0, 500_000, 1_000_000, 1_500_000, 2_000_000, 5_000_000, 10_000_000, 20_000_000, 50_000_000}
	percents := []uint64{450, 400, 350, 300, 250, 200, 150, 125, 100}

	table := make(SupplyTierTable, len(thresholds))
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	for i := range thresholds {
		table[i] = SupplyTier{
			Threshold:        new(big.Int).Mul(big.NewInt(thresholds[i]), unit),
			ExpansionPercent: percents[i],
		}
	}
	return table
}
