package usecase

import (
	"math/big"

	"treasury/domain"

	"github.com/tonkeeper/tongo"
)

// Governance surface: every setter is gated on the treasury operator and
// validates its range before mutating anything, so a rejected write leaves
// the parameter untouched.

func (interactor *TreasuryInteractor) onlyOperator(caller tongo.AccountID) error {
	if !interactor.initialized {
		return domain.ErrorNotInitialized
	}
	if caller != interactor.operator {
		return domain.ErrorNotOperator
	}
	return nil
}

func (interactor *TreasuryInteractor) govern(caller tongo.AccountID, fn func(st *domain.PolicyState) error) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if err := interactor.onlyOperator(caller); err != nil {
		return err
	}
	if err := fn(interactor.state); err != nil {
		return err
	}
	interactor.persistState()
	return nil
}

func (interactor *TreasuryInteractor) SetPriceCeiling(caller tongo.AccountID, ceiling *big.Int) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.SetPriceCeiling(ceiling)
	})
}

func (interactor *TreasuryInteractor) SetSupplyTierEntry(caller tongo.AccountID, index int, threshold *big.Int, percent uint64) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.Tiers.SetEntry(index, threshold, percent)
	})
}

func (interactor *TreasuryInteractor) SetMaxSupplyExpansionPercent(caller tongo.AccountID, percent uint64) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.SetMaxSupplyExpansionPercent(percent)
	})
}

func (interactor *TreasuryInteractor) SetMaxSupplyContractionPercent(caller tongo.AccountID, percent uint64) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.SetMaxSupplyContractionPercent(percent)
	})
}

func (interactor *TreasuryInteractor) SetMaxDebtRatioPercent(caller tongo.AccountID, percent uint64) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.SetMaxDebtRatioPercent(percent)
	})
}

func (interactor *TreasuryInteractor) SetBondDepletionFloorPercent(caller tongo.AccountID, percent uint64) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.SetBondDepletionFloorPercent(percent)
	})
}

func (interactor *TreasuryInteractor) SetBootstrap(caller tongo.AccountID, epochs uint32, expansionPercent uint64) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.SetBootstrap(epochs, expansionPercent)
	})
}

func (interactor *TreasuryInteractor) SetExtraFunds(caller, daoFund tongo.AccountID, daoPercent uint64, devFund tongo.AccountID, devPercent uint64) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.SetExtraFunds(daoFund, daoPercent, devFund, devPercent)
	})
}

func (interactor *TreasuryInteractor) SetDiscountPercent(caller tongo.AccountID, percent uint64) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.SetDiscountPercent(percent)
	})
}

func (interactor *TreasuryInteractor) SetPremiumPercent(caller tongo.AccountID, percent uint64) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.SetPremiumPercent(percent)
	})
}

func (interactor *TreasuryInteractor) SetPremiumThreshold(caller tongo.AccountID, threshold uint64) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.SetPremiumThreshold(threshold)
	})
}

func (interactor *TreasuryInteractor) SetMaxDiscountRate(caller tongo.AccountID, rate *big.Int) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		st.SetMaxDiscountRate(rate)
		return nil
	})
}

func (interactor *TreasuryInteractor) SetMaxPremiumRate(caller tongo.AccountID, rate *big.Int) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		st.SetMaxPremiumRate(rate)
		return nil
	})
}

func (interactor *TreasuryInteractor) SetMintingFactorForPayingDebt(caller tongo.AccountID, factor uint64) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return st.SetMintingFactorForPayingDebt(factor)
	})
}

// ExcludeFromSupply removes an account's balance from circulating supply.
func (interactor *TreasuryInteractor) ExcludeFromSupply(caller, addr tongo.AccountID) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		for _, existing := range interactor.excluded {
			if existing == addr {
				return nil
			}
		}
		interactor.excluded = append(interactor.excluded, addr)
		return nil
	})
}

// SetBoardroom swaps the seigniorage sink.
func (interactor *TreasuryInteractor) SetBoardroom(caller tongo.AccountID, boardroom domain.BoardroomSink) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		interactor.boardroom = boardroom
		return nil
	})
}

// SetOracle swaps the price oracle.
func (interactor *TreasuryInteractor) SetOracle(caller tongo.AccountID, oracle domain.PriceOracle) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		interactor.oracleInteractor.SetOracle(oracle)
		return nil
	})
}

//-------------------------------------------------------------------
// Boardroom administration passthroughs

func (interactor *TreasuryInteractor) BoardroomSetOperator(caller, operator tongo.AccountID) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return interactor.boardroom.SetOperator(interactor.self, operator)
	})
}

func (interactor *TreasuryInteractor) BoardroomSetLockUp(caller tongo.AccountID, withdrawEpochs, rewardEpochs uint32) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return interactor.boardroom.SetLockUp(interactor.self, withdrawEpochs, rewardEpochs)
	})
}

func (interactor *TreasuryInteractor) BoardroomRecoverUnsupported(caller tongo.AccountID, token domain.TokenLedger, amount *big.Int, to tongo.AccountID) error {
	return interactor.govern(caller, func(st *domain.PolicyState) error {
		return interactor.boardroom.GovernanceRecoverUnsupported(interactor.self, token, amount, to)
	})
}
