package usecase

import (
	"math/big"

	"treasury/domain"
)

// EpochScheduler gates policy actions to one execution per elapsed period and
// owns the epoch-close bookkeeping.
type EpochScheduler struct {
	clock domain.Clock
}

func NewEpochScheduler(clock domain.Clock) *EpochScheduler {
	return &EpochScheduler{clock: clock}
}

// EnsureOpen fails until the current epoch window has opened.
func (scheduler *EpochScheduler) EnsureOpen(st *domain.PolicyState) error {
	if scheduler.clock.Now().Before(st.Epoch.NextEpochPoint()) {
		return domain.ErrorEpochNotOpen
	}
	return nil
}

// CloseEpoch increments the epoch index exactly once and recomputes the
// contraction budget for the next window: zero while the peg trades above the
// ceiling, otherwise a MaxSupplyContractionPercent cut of circulating supply.
// The budget is never touched again until the next close.
func (scheduler *EpochScheduler) CloseEpoch(st *domain.PolicyState, price, circulating *big.Int) error {
	if err := scheduler.EnsureOpen(st); err != nil {
		return err
	}

	st.Epoch.Index++

	if price.Cmp(st.PriceCeiling) > 0 {
		st.Epoch.ContractionBudgetLeft = new(big.Int)
	} else {
		budget := new(big.Int).Mul(circulating, big.NewInt(int64(st.MaxSupplyContractionPercent)))
		budget.Div(budget, big.NewInt(domain.PercentDenominator))
		st.Epoch.ContractionBudgetLeft = budget
	}

	return nil
}
