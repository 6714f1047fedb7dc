package domain

import "math/big"

// BondPricingParams hold the governance-tuned curve of the bond market.
// Percents are basis points; PremiumThreshold is denominated over 100.
// Max rates of nil mean "no clamp configured".
type BondPricingParams struct {
	DiscountPercent  uint64   `json:"discount_percent"`
	MaxDiscountRate  *big.Int `json:"max_discount_rate"`
	PremiumThreshold uint64   `json:"premium_threshold"`
	PremiumPercent   uint64   `json:"premium_percent"`
	MaxPremiumRate   *big.Int `json:"max_premium_rate"`
}

// DiscountRate prices bonds sold below the peg. It is defined only for
// price <= priceOne and returns zero otherwise; a zero result means the bond
// market is closed, not a free bond.
//
// With a discount configured, the rate starts from the bond amount needed to
// retire one unit of peg asset at the current price and keeps DiscountPercent
// of that excess over par.
func (p BondPricingParams) DiscountRate(price, priceOne *big.Int) *big.Int {
	rate := new(big.Int)
	if price.Sign() <= 0 || price.Cmp(priceOne) > 0 {
		return rate
	}
	if p.DiscountPercent == 0 {
		return rate.Set(priceOne)
	}

	bondAmount := new(big.Int).Mul(priceOne, priceOne)
	bondAmount.Div(bondAmount, price)

	discount := bondAmount.Sub(bondAmount, priceOne)
	discount.Mul(discount, big.NewInt(int64(p.DiscountPercent)))
	discount.Div(discount, big.NewInt(PercentDenominator))

	rate.Add(priceOne, discount)
	if p.MaxDiscountRate != nil && p.MaxDiscountRate.Sign() > 0 && rate.Cmp(p.MaxDiscountRate) > 0 {
		rate.Set(p.MaxDiscountRate)
	}
	return rate
}

// PremiumRate prices bond redemption above the ceiling. It is defined only for
// price > priceCeiling and returns zero otherwise. Below the premium threshold
// redemption happens at par; above it the rate keeps PremiumPercent of the
// price excess over par.
func (p BondPricingParams) PremiumRate(price, priceOne, priceCeiling *big.Int) *big.Int {
	rate := new(big.Int)
	if price.Cmp(priceCeiling) <= 0 {
		return rate
	}

	threshold := new(big.Int).Mul(priceOne, big.NewInt(int64(p.PremiumThreshold)))
	threshold.Div(threshold, big.NewInt(100))
	if price.Cmp(threshold) < 0 {
		return rate.Set(priceOne)
	}

	premium := new(big.Int).Sub(price, priceOne)
	premium.Mul(premium, big.NewInt(int64(p.PremiumPercent)))
	premium.Div(premium, big.NewInt(PercentDenominator))

	rate.Add(priceOne, premium)
	if p.MaxPremiumRate != nil && p.MaxPremiumRate.Sign() > 0 && rate.Cmp(p.MaxPremiumRate) > 0 {
		rate.Set(p.MaxPremiumRate)
	}
	return rate
}

func (p BondPricingParams) clone() BondPricingParams {
	c := p
	c.MaxDiscountRate = cloneAmount(p.MaxDiscountRate)
	c.MaxPremiumRate = cloneAmount(p.MaxPremiumRate)
	return c
}
