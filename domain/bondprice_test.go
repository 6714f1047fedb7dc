package domain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

// priceOne from a production deployment, 2.5e13; the curves must not assume a
// 1e18 peg target.
func smallPriceOne() *big.Int {
	return big.NewInt(25_000_000_000_000)
}

func fraction(base *big.Int, num, den int64) *big.Int {
	v := new(big.Int).Mul(base, big.NewInt(num))
	return v.Div(v, big.NewInt(den))
}

func TestDiscountRate(t *testing.T) {
	one := coins(1)

	t.Run("undefined above par", func(t *testing.T) {
		params := BondPricingParams{DiscountPercent: 10000}
		assert.Zero(t, params.DiscountRate(fraction(one, 101, 100), one).Sign())
	})

	t.Run("par when no discount configured", func(t *testing.T) {
		params := BondPricingParams{DiscountPercent: 0}
		rate := params.DiscountRate(fraction(one, 90, 100), one)
		assert.Equal(t, one, rate)
	})

	t.Run("discount grows as price falls", func(t *testing.T) {
		params := BondPricingParams{DiscountPercent: 10000}
		at90 := params.DiscountRate(fraction(one, 90, 100), one)
		at80 := params.DiscountRate(fraction(one, 80, 100), one)
		assert.Equal(t, 1, at90.Cmp(one))
		assert.Equal(t, 1, at80.Cmp(at90))
	})

	t.Run("full discount retires one peg unit", func(t *testing.T) {
		// At price 0.8 and 100% discount the rate is one/0.8 = 1.25.
		params := BondPricingParams{DiscountPercent: 10000}
		rate := params.DiscountRate(fraction(one, 80, 100), one)
		assert.Equal(t, fraction(one, 125, 100), rate)
	})

	t.Run("partial discount keeps its share of the excess", func(t *testing.T) {
		// Excess is 0.25, half of it kept: rate 1.125.
		params := BondPricingParams{DiscountPercent: 5000}
		rate := params.DiscountRate(fraction(one, 80, 100), one)
		assert.Equal(t, fraction(one, 1125, 1000), rate)
	})

	t.Run("clamped to the max discount rate", func(t *testing.T) {
		params := BondPricingParams{DiscountPercent: 10000, MaxDiscountRate: fraction(one, 110, 100)}
		rate := params.DiscountRate(fraction(one, 80, 100), one)
		assert.Equal(t, fraction(one, 110, 100), rate)
	})

	t.Run("small peg target", func(t *testing.T) {
		one := smallPriceOne()
		params := BondPricingParams{DiscountPercent: 0}
		rate := params.DiscountRate(fraction(one, 90, 100), one)
		assert.Equal(t, one, rate)
	})
}

func TestPremiumRate(t *testing.T) {
	one := coins(1)
	ceiling := fraction(one, 101, 100)

	t.Run("undefined at or below the ceiling", func(t *testing.T) {
		params := BondPricingParams{PremiumThreshold: 110, PremiumPercent: 7000}
		assert.Zero(t, params.PremiumRate(ceiling, one, ceiling).Sign())
		assert.Zero(t, params.PremiumRate(fraction(one, 95, 100), one, ceiling).Sign())
	})

	t.Run("par below the premium threshold", func(t *testing.T) {
		params := BondPricingParams{PremiumThreshold: 110, PremiumPercent: 7000}
		rate := params.PremiumRate(fraction(one, 105, 100), one, ceiling)
		assert.Equal(t, one, rate)
	})

	t.Run("premium above the threshold", func(t *testing.T) {
		// Excess 0.15 at 70%: rate 1.105.
		params := BondPricingParams{PremiumThreshold: 110, PremiumPercent: 7000}
		rate := params.PremiumRate(fraction(one, 115, 100), one, ceiling)
		assert.Equal(t, fraction(one, 1105, 1000), rate)
		assert.Equal(t, 1, rate.Cmp(one))
	})

	t.Run("clamped to the max premium rate", func(t *testing.T) {
		params := BondPricingParams{
			PremiumThreshold: 110,
			PremiumPercent:   7000,
			MaxPremiumRate:   fraction(one, 102, 100),
		}
		rate := params.PremiumRate(fraction(one, 115, 100), one, ceiling)
		assert.Equal(t, fraction(one, 102, 100), rate)
	})

	t.Run("small peg target", func(t *testing.T) {
		one := smallPriceOne()
		ceiling := fraction(one, 101, 100)
		params := BondPricingParams{PremiumThreshold: 110, PremiumPercent: 7000}
		rate := params.PremiumRate(fraction(one, 115, 100), one, ceiling)
		assert.Equal(t, fraction(one, 1105, 1000), rate)
	})
}
