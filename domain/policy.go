package domain

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/tonkeeper/tongo"
)

var (
	ErrorCeilingOutOfRange          = fmt.Errorf("price ceiling must stay within [priceOne, priceOne*1.2]")
	ErrorExpansionOutOfRange        = fmt.Errorf("supply expansion percent must be within [0.1%%, 10%%]")
	ErrorContractionOutOfRange      = fmt.Errorf("max supply contraction percent must be within [0.1%%, 15%%]")
	ErrorDebtRatioOutOfRange        = fmt.Errorf("max debt ratio percent must be within [10%%, 100%%]")
	ErrorDepletionFloorOutOfRange   = fmt.Errorf("bond depletion floor percent must be within [5%%, 100%%]")
	ErrorBootstrapOutOfRange        = fmt.Errorf("bootstrap must be at most 120 epochs with expansion within [1%%, 10%%]")
	ErrorFundPercentOutOfRange      = fmt.Errorf("dao fund percent is capped at 25%% and dev fund percent at 5%%")
	ErrorBondCurveOutOfRange        = fmt.Errorf("discount and premium percents are capped at 200%%")
	ErrorPremiumThresholdOutOfRange = fmt.Errorf("premium threshold must cover the ceiling and stay at most 150")
	ErrorMintingFactorOutOfRange    = fmt.Errorf("debt-paying minting factor must be within [100%%, 200%%]")
)

// FundSplit configures the fee cut taken from every disbursement before the
// boardroom share is forwarded.
type FundSplit struct {
	DaoFund        tongo.AccountID
	DaoFundPercent uint64
	DevFund        tongo.AccountID
	DevFundPercent uint64
}

type fundSplitJson struct {
	DaoFund        string `json:"dao_fund"`
	DaoFundPercent uint64 `json:"dao_fund_percent"`
	DevFund        string `json:"dev_fund"`
	DevFundPercent uint64 `json:"dev_fund_percent"`
}

func (f FundSplit) MarshalJSON() ([]byte, error) {
	return json.Marshal(fundSplitJson{
		DaoFund:        f.DaoFund.ToRaw(),
		DaoFundPercent: f.DaoFundPercent,
		DevFund:        f.DevFund.ToRaw(),
		DevFundPercent: f.DevFundPercent,
	})
}

func (f *FundSplit) UnmarshalJSON(data []byte) error {
	var raw fundSplitJson
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	dao, err := tongo.ParseAccountID(raw.DaoFund)
	if err != nil {
		return err
	}
	dev, err := tongo.ParseAccountID(raw.DevFund)
	if err != nil {
		return err
	}

	f.DaoFund = dao
	f.DaoFundPercent = raw.DaoFundPercent
	f.DevFund = dev
	f.DevFundPercent = raw.DevFundPercent
	return nil
}

// PolicyState is the whole mutable policy aggregate. The pure curve functions
// (tier lookup, bond rates) read from it; the treasury engine mutates it only
// through staged clones so a failed action leaves no trace.
type PolicyState struct {
	Epoch EpochState `json:"epoch"`

	PriceOne           *big.Int `json:"price_one"`
	PriceCeiling       *big.Int `json:"price_ceiling"`
	PreviousEpochPrice *big.Int `json:"previous_epoch_price"`

	Tiers SupplyTierTable   `json:"tiers"`
	Bonds BondPricingParams `json:"bonds"`

	SeigniorageSaved *big.Int  `json:"seigniorage_saved"`
	Funds            FundSplit `json:"funds"`

	MaxSupplyExpansionPercent        uint64 `json:"max_supply_expansion_percent"`
	MaxSupplyContractionPercent      uint64 `json:"max_supply_contraction_percent"`
	MaxDebtRatioPercent              uint64 `json:"max_debt_ratio_percent"`
	BondDepletionFloorPercent        uint64 `json:"bond_depletion_floor_percent"`
	SeigniorageExpansionFloorPercent uint64 `json:"seigniorage_expansion_floor_percent"`
	MintingFactorForPayingDebt       uint64 `json:"minting_factor_for_paying_debt"`

	BootstrapEpochs                 uint32 `json:"bootstrap_epochs"`
	BootstrapSupplyExpansionPercent uint64 `json:"bootstrap_supply_expansion_percent"`
}

// Clone deep-copies the aggregate so an action can stage mutations and throw
// them away on failure.
func (s *PolicyState) Clone() *PolicyState {
	c := *s
	c.Epoch = s.Epoch.clone()
	c.PriceOne = cloneAmount(s.PriceOne)
	c.PriceCeiling = cloneAmount(s.PriceCeiling)
	c.PreviousEpochPrice = cloneAmount(s.PreviousEpochPrice)
	c.Tiers = s.Tiers.clone()
	c.Bonds = s.Bonds.clone()
	c.SeigniorageSaved = cloneAmount(s.SeigniorageSaved)
	return &c
}

func (s *PolicyState) ToJson() string {
	jstr, err := json.Marshal(s)
	if err != nil {
		return err.Error()
	}
	return string(jstr)
}

func (s *PolicyState) FromJson(jstr string) error {
	return json.Unmarshal([]byte(jstr), s)
}

// SetPriceCeiling keeps the ceiling within [priceOne, priceOne*1.2].
func (s *PolicyState) SetPriceCeiling(ceiling *big.Int) error {
	upper := new(big.Int).Mul(s.PriceOne, big.NewInt(120))
	upper.Div(upper, big.NewInt(100))
	if ceiling.Cmp(s.PriceOne) < 0 || ceiling.Cmp(upper) > 0 {
		return ErrorCeilingOutOfRange
	}
	s.PriceCeiling = new(big.Int).Set(ceiling)
	return nil
}

func (s *PolicyState) SetMaxSupplyContractionPercent(percent uint64) error {
	if percent < 10 || percent > 1500 {
		return ErrorContractionOutOfRange
	}
	s.MaxSupplyContractionPercent = percent
	return nil
}

func (s *PolicyState) SetMaxDebtRatioPercent(percent uint64) error {
	if percent < 1000 || percent > PercentDenominator {
		return ErrorDebtRatioOutOfRange
	}
	s.MaxDebtRatioPercent = percent
	return nil
}

func (s *PolicyState) SetBondDepletionFloorPercent(percent uint64) error {
	if percent < 500 || percent > PercentDenominator {
		return ErrorDepletionFloorOutOfRange
	}
	s.BondDepletionFloorPercent = percent
	return nil
}

func (s *PolicyState) SetBootstrap(epochs uint32, expansionPercent uint64) error {
	if epochs > 120 || expansionPercent < 100 || expansionPercent > 1000 {
		return ErrorBootstrapOutOfRange
	}
	s.BootstrapEpochs = epochs
	s.BootstrapSupplyExpansionPercent = expansionPercent
	return nil
}

func (s *PolicyState) SetExtraFunds(daoFund tongo.AccountID, daoPercent uint64, devFund tongo.AccountID, devPercent uint64) error {
	if daoPercent > 2500 || devPercent > 500 {
		return ErrorFundPercentOutOfRange
	}
	s.Funds = FundSplit{
		DaoFund:        daoFund,
		DaoFundPercent: daoPercent,
		DevFund:        devFund,
		DevFundPercent: devPercent,
	}
	return nil
}

func (s *PolicyState) SetDiscountPercent(percent uint64) error {
	if percent > 20000 {
		return ErrorBondCurveOutOfRange
	}
	s.Bonds.DiscountPercent = percent
	return nil
}

func (s *PolicyState) SetPremiumPercent(percent uint64) error {
	if percent > 20000 {
		return ErrorBondCurveOutOfRange
	}
	s.Bonds.PremiumPercent = percent
	return nil
}

// SetPremiumThreshold requires the threshold to sit at or above the ceiling
// (expressed over 100) and at most 150.
func (s *PolicyState) SetPremiumThreshold(threshold uint64) error {
	floor := new(big.Int).Mul(s.PriceCeiling, big.NewInt(100))
	floor.Div(floor, s.PriceOne)
	if big.NewInt(int64(threshold)).Cmp(floor) < 0 || threshold > 150 {
		return ErrorPremiumThresholdOutOfRange
	}
	s.Bonds.PremiumThreshold = threshold
	return nil
}

func (s *PolicyState) SetMaxDiscountRate(rate *big.Int) {
	s.Bonds.MaxDiscountRate = cloneAmount(rate)
}

func (s *PolicyState) SetMaxPremiumRate(rate *big.Int) {
	s.Bonds.MaxPremiumRate = cloneAmount(rate)
}

func (s *PolicyState) SetMintingFactorForPayingDebt(factor uint64) error {
	if factor < PercentDenominator || factor > 2*PercentDenominator {
		return ErrorMintingFactorOutOfRange
	}
	s.MintingFactorForPayingDebt = factor
	return nil
}

// SetMaxSupplyExpansionPercent overrides the cached expansion percent; the
// allocator refreshes it from the tier table on every expansion epoch.
func (s *PolicyState) SetMaxSupplyExpansionPercent(percent uint64) error {
	if percent < MinTierExpansionPercent || percent > MaxTierExpansionPercent {
		return ErrorExpansionOutOfRange
	}
	s.MaxSupplyExpansionPercent = percent
	return nil
}

func cloneAmount(a *big.Int) *big.Int {
	if a == nil {
		return nil
	}
	return new(big.Int).Set(a)
}
