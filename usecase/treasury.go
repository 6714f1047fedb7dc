package usecase

import (
	"log"
	"math/big"
	"sync"
	"time"

	"treasury/domain"
	"treasury/domain/util"
	"treasury/interface/exporter"
	"treasury/interface/repository"

	"github.com/tonkeeper/tongo"
)

// TreasuryInteractor is the policy engine façade. Every public operation is
// atomic: it works on a staged clone of the policy state with all three
// ledgers inside a transaction, and commits only when every precondition and
// sub-step has succeeded. A single mutex serializes all policy mutation.
type TreasuryInteractor struct {
	mu sync.Mutex

	self     tongo.AccountID
	operator tongo.AccountID

	peg   domain.TokenLedger
	bond  domain.TokenLedger
	share domain.TokenLedger

	boardroom        domain.BoardroomSink
	oracleInteractor *OracleInteractor
	guard            *BlockGuard
	scheduler        *EpochScheduler
	clock            domain.Clock

	state       *domain.PolicyState
	excluded    []tongo.AccountID
	initialized bool

	stateRepository *repository.StateRepository
	epochRepository *repository.EpochRepository
	bondRepository  *repository.BondEventRepository
}

func NewTreasuryInteractor(self, operator tongo.AccountID,
	peg, bond, share domain.TokenLedger,
	boardroom domain.BoardroomSink,
	oracleInteractor *OracleInteractor,
	guard *BlockGuard,
	scheduler *EpochScheduler,
	clock domain.Clock) *TreasuryInteractor {
	interactor := &TreasuryInteractor{
		self:             self,
		operator:         operator,
		peg:              peg,
		bond:             bond,
		share:            share,
		boardroom:        boardroom,
		oracleInteractor: oracleInteractor,
		guard:            guard,
		scheduler:        scheduler,
		clock:            clock,
	}
	return interactor
}

// InitializeRepositories attaches the optional persistence layer. Rows are
// written after commit and never participate in the policy transaction.
func (interactor *TreasuryInteractor) InitializeRepositories(
	stateRepository *repository.StateRepository,
	epochRepository *repository.EpochRepository,
	bondRepository *repository.BondEventRepository) {
	interactor.stateRepository = stateRepository
	interactor.epochRepository = epochRepository
	interactor.bondRepository = bondRepository
}

// Restore adopts a previously persisted policy state instead of initializing
// a fresh one. It follows the same once-only rule as Initialize.
func (interactor *TreasuryInteractor) Restore(state *domain.PolicyState) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if interactor.initialized {
		return domain.ErrorAlreadyInitialized
	}
	interactor.state = state.Clone()
	interactor.initialized = true
	log.Printf("🔵 treasury state restored [epoch: %v]\n", state.Epoch.Index)
	return nil
}

// Initialize creates the policy state with the launch parameters. It runs
// once: a second call fails without touching anything.
func (interactor *TreasuryInteractor) Initialize(caller tongo.AccountID, priceOne *big.Int, startTime time.Time, period time.Duration) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if interactor.initialized {
		return domain.ErrorAlreadyInitialized
	}
	if caller != interactor.operator {
		return domain.ErrorNotOperator
	}

	ceiling := new(big.Int).Mul(priceOne, big.NewInt(101))
	ceiling.Div(ceiling, big.NewInt(100))

	interactor.state = &domain.PolicyState{
		Epoch: domain.EpochState{
			Index:                 0,
			StartTime:             startTime,
			Period:                period,
			ContractionBudgetLeft: new(big.Int),
		},
		PriceOne:           new(big.Int).Set(priceOne),
		PriceCeiling:       ceiling,
		PreviousEpochPrice: new(big.Int).Set(priceOne),
		Tiers:              domain.DefaultSupplyTiers(),
		Bonds: domain.BondPricingParams{
			DiscountPercent:  0,
			PremiumThreshold: 110,
			PremiumPercent:   7000,
		},
		// Any peg balance already sitting in the treasury counts as reserve.
		SeigniorageSaved:                 interactor.peg.BalanceOf(interactor.self),
		MaxSupplyExpansionPercent:        400,
		MaxSupplyContractionPercent:      300,
		MaxDebtRatioPercent:              3500,
		BondDepletionFloorPercent:        10000,
		SeigniorageExpansionFloorPercent: 3500,
		MintingFactorForPayingDebt:       10000,
		BootstrapEpochs:                  21,
		BootstrapSupplyExpansionPercent:  450,
	}
	interactor.initialized = true

	log.Printf("🔵 treasury initialized [priceOne: %v, period: %v]\n", util.CoinString(priceOne, "peg"), period)
	interactor.persistState()
	return nil
}

//-------------------------------------------------------------------
// Atomic execution

// runGuarded is the transactional boundary for state-mutating policy actions:
// concurrency guard, staged state clone, ledger transactions, all-or-nothing
// commit, guard marking only after success.
func (interactor *TreasuryInteractor) runGuarded(caller tongo.AccountID, fn func(st *domain.PolicyState) error) error {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	if !interactor.initialized {
		return domain.ErrorNotInitialized
	}
	if err := interactor.guard.Check(caller); err != nil {
		return err
	}
	if err := interactor.checkOperatorRights(); err != nil {
		return err
	}

	staged := interactor.state.Clone()

	interactor.peg.Begin()
	interactor.bond.Begin()
	interactor.share.Begin()

	if err := fn(staged); err != nil {
		interactor.share.Rollback()
		interactor.bond.Rollback()
		interactor.peg.Rollback()
		return err
	}

	interactor.peg.Commit()
	interactor.bond.Commit()
	interactor.share.Commit()

	interactor.state = staged
	interactor.guard.Mark(caller)
	interactor.persistState()
	return nil
}

// checkOperatorRights verifies the engine still holds the operator role over
// all three ledgers and the boardroom. Without it no mutating call can work.
func (interactor *TreasuryInteractor) checkOperatorRights() error {
	if interactor.peg.Operator() != interactor.self ||
		interactor.bond.Operator() != interactor.self ||
		interactor.share.Operator() != interactor.self ||
		interactor.boardroom.Operator() != interactor.self {
		return domain.ErrorOperatorRightsMissing
	}
	return nil
}

//-------------------------------------------------------------------
// Supply

// CirculatingSupply is the peg total supply minus the balances of the
// governance-excluded accounts.
func (interactor *TreasuryInteractor) CirculatingSupply() *big.Int {
	supply := interactor.peg.TotalSupply()
	for _, addr := range interactor.excluded {
		supply.Sub(supply, interactor.peg.BalanceOf(addr))
	}
	return supply
}

// adjustedSupply excludes the debt reserve from the expansion base.
func (interactor *TreasuryInteractor) adjustedSupply(st *domain.PolicyState) *big.Int {
	adjusted := interactor.CirculatingSupply()
	adjusted.Sub(adjusted, st.SeigniorageSaved)
	if adjusted.Sign() < 0 {
		adjusted.SetInt64(0)
	}
	return adjusted
}

//-------------------------------------------------------------------
// Bond market

// BuyBonds burns peg asset from the caller below the peg and mints discounted
// bonds in exchange, bounded by the epoch contraction budget and the debt
// ratio ceiling.
func (interactor *TreasuryInteractor) BuyBonds(caller tongo.AccountID, amount, quotedPrice *big.Int) error {
	return interactor.runGuarded(caller, func(st *domain.PolicyState) error {
		if amount == nil || amount.Sign() <= 0 {
			return domain.ErrorZeroAmount
		}

		price, err := interactor.oracleInteractor.ConsultPrice()
		if err != nil {
			return err
		}
		if price.Cmp(quotedPrice) != 0 {
			return domain.ErrorPriceMoved
		}
		if price.Cmp(st.PriceOne) >= 0 {
			return domain.ErrorPriceAbovePeg
		}
		if amount.Cmp(st.Epoch.ContractionBudgetLeft) > 0 {
			return domain.ErrorOverContractionBudget
		}

		rate := st.Bonds.DiscountRate(price, st.PriceOne)
		if rate.Sign() == 0 {
			return domain.ErrorInvalidBondRate
		}

		bondAmount := new(big.Int).Mul(amount, rate)
		bondAmount.Div(bondAmount, st.PriceOne)

		newBondSupply := new(big.Int).Add(interactor.bond.TotalSupply(), bondAmount)
		if newBondSupply.Cmp(percentOf(interactor.CirculatingSupply(), st.MaxDebtRatioPercent)) > 0 {
			return domain.ErrorOverDebtCeiling
		}

		if err := interactor.peg.BurnFrom(interactor.self, caller, amount); err != nil {
			return err
		}
		if err := interactor.bond.Mint(interactor.self, caller, bondAmount); err != nil {
			return err
		}
		st.Epoch.ContractionBudgetLeft.Sub(st.Epoch.ContractionBudgetLeft, amount)

		interactor.oracleInteractor.RefreshPrice()

		log.Printf("🔵 bonds bought [caller: %v, burned: %v, bonds: %v]\n",
			caller.ToRaw(), util.CoinString(amount, "peg"), util.CoinString(bondAmount, "bond"))
		exporter.IncBondPurchase()
		interactor.recordBondEvent(domain.BondEventBuy, caller, amount, rate, bondAmount)
		return nil
	})
}

// RedeemBonds burns the caller's bonds above the ceiling and pays out peg
// asset at the premium rate, bounded by the treasury balance. The payout is
// taken out of the seigniorage reserve first.
func (interactor *TreasuryInteractor) RedeemBonds(caller tongo.AccountID, amount, quotedPrice *big.Int) error {
	return interactor.runGuarded(caller, func(st *domain.PolicyState) error {
		if amount == nil || amount.Sign() <= 0 {
			return domain.ErrorZeroAmount
		}

		price, err := interactor.oracleInteractor.ConsultPrice()
		if err != nil {
			return err
		}
		if price.Cmp(quotedPrice) != 0 {
			return domain.ErrorPriceMoved
		}
		if price.Cmp(st.PriceCeiling) <= 0 {
			return domain.ErrorPriceBelowCeiling
		}

		rate := st.Bonds.PremiumRate(price, st.PriceOne, st.PriceCeiling)
		if rate.Sign() == 0 {
			return domain.ErrorInvalidBondRate
		}

		payout := new(big.Int).Mul(amount, rate)
		payout.Div(payout, st.PriceOne)
		if interactor.peg.BalanceOf(interactor.self).Cmp(payout) < 0 {
			return domain.ErrorInsufficientTreasury
		}

		st.SeigniorageSaved.Sub(st.SeigniorageSaved, minAmount(st.SeigniorageSaved, payout))

		if err := interactor.bond.BurnFrom(interactor.self, caller, amount); err != nil {
			return err
		}
		if err := interactor.peg.Transfer(interactor.self, caller, payout); err != nil {
			return err
		}

		interactor.oracleInteractor.RefreshPrice()

		log.Printf("🔵 bonds redeemed [caller: %v, bonds: %v, payout: %v]\n",
			caller.ToRaw(), util.CoinString(amount, "bond"), util.CoinString(payout, "peg"))
		exporter.IncBondRedemption()
		interactor.recordBondEvent(domain.BondEventRedeem, caller, amount, rate, payout)
		return nil
	})
}

//-------------------------------------------------------------------
// Seigniorage

// AllocateSeigniorage runs the epoch policy: refresh the oracle, consult the
// price, expand supply through the boardroom and the debt reserve according
// to the tier table and the debt floor, then close the epoch. During the
// bootstrap window the expansion is flat and ignores price and tiers.
func (interactor *TreasuryInteractor) AllocateSeigniorage(caller tongo.AccountID) error {
	record := domain.EpochRecord{
		Expanded:      new(big.Int),
		SavedForBonds: new(big.Int),
		ToBoardroom:   new(big.Int),
	}

	err := interactor.runGuarded(caller, func(st *domain.PolicyState) error {
		if err := interactor.scheduler.EnsureOpen(st); err != nil {
			return err
		}

		interactor.oracleInteractor.RefreshPrice()

		price, err := interactor.oracleInteractor.ConsultPrice()
		if err != nil {
			return err
		}
		st.PreviousEpochPrice = price

		adjusted := interactor.adjustedSupply(st)

		if st.Epoch.Index < st.BootstrapEpochs {
			// Flat expansion while bootstrapping, whatever the price says.
			expansion := percentOf(adjusted, st.BootstrapSupplyExpansionPercent)
			sent, err := interactor.sendToBoardroom(st, expansion)
			if err != nil {
				return err
			}
			record.Expanded.Set(expansion)
			record.ToBoardroom.Set(sent)
		} else if st.PreviousEpochPrice.Cmp(st.PriceCeiling) > 0 {
			bondSupply := interactor.bond.TotalSupply()

			st.MaxSupplyExpansionPercent = st.Tiers.ExpansionPercent(adjusted)

			deviation := new(big.Int).Sub(st.PreviousEpochPrice, st.PriceOne)
			cap := percentOf(st.PriceOne, st.MaxSupplyExpansionPercent)
			if deviation.Cmp(cap) > 0 {
				deviation = cap
			}

			seigniorage := new(big.Int).Mul(adjusted, deviation)
			seigniorage.Div(seigniorage, st.PriceOne)
			record.Expanded.Set(seigniorage)

			if st.SeigniorageSaved.Cmp(percentOf(bondSupply, st.BondDepletionFloorPercent)) >= 0 {
				// Reserve is adequately funded: everything expands.
				sent, err := interactor.sendToBoardroom(st, seigniorage)
				if err != nil {
					return err
				}
				record.ToBoardroom.Set(sent)
			} else {
				// In debt: guarantee the expansion floor, over-mint the rest
				// into the reserve for bond payoff.
				forBoardroom := percentOf(seigniorage, st.SeigniorageExpansionFloorPercent)
				forBonds := new(big.Int).Sub(seigniorage, forBoardroom)
				if st.MintingFactorForPayingDebt > 0 {
					forBonds = percentOf(forBonds, st.MintingFactorForPayingDebt)
				}

				if forBoardroom.Sign() > 0 {
					sent, err := interactor.sendToBoardroom(st, forBoardroom)
					if err != nil {
						return err
					}
					record.ToBoardroom.Set(sent)
				}
				if forBonds.Sign() > 0 {
					if err := interactor.peg.Mint(interactor.self, interactor.self, forBonds); err != nil {
						return err
					}
					st.SeigniorageSaved.Add(st.SeigniorageSaved, forBonds)
					record.SavedForBonds.Set(forBonds)
					log.Printf("🔵 treasury funded for bond payoff [amount: %v]\n", util.CoinString(forBonds, "peg"))
				}
			}
		}

		if err := interactor.scheduler.CloseEpoch(st, price, interactor.CirculatingSupply()); err != nil {
			return err
		}

		record.Index = st.Epoch.Index
		record.Price = price
		record.ClosedAt = interactor.clock.Now()
		return nil
	})
	if err != nil {
		return err
	}

	exporter.IncEpochClosed()
	exporter.SetEpochIndex(interactor.state.Epoch.Index)
	exporter.SetPegPrice(interactor.state.PreviousEpochPrice, interactor.state.PriceOne)
	exporter.SetReserve(interactor.state.SeigniorageSaved)
	exporter.SetContractionBudget(interactor.state.Epoch.ContractionBudgetLeft)
	interactor.recordEpoch(record)
	return nil
}

// sendToBoardroom mints the expansion, takes the dao and dev fund cuts, and
// forwards the residual to the boardroom through an allowance that is reset
// to zero before being granted, so a stale approval can never be reused.
func (interactor *TreasuryInteractor) sendToBoardroom(st *domain.PolicyState, amount *big.Int) (*big.Int, error) {
	if amount.Sign() <= 0 {
		return new(big.Int), nil
	}

	if err := interactor.peg.Mint(interactor.self, interactor.self, amount); err != nil {
		return nil, err
	}

	residual := new(big.Int).Set(amount)

	if st.Funds.DaoFundPercent > 0 {
		cut := percentOf(amount, st.Funds.DaoFundPercent)
		if err := interactor.peg.Transfer(interactor.self, st.Funds.DaoFund, cut); err != nil {
			return nil, err
		}
		residual.Sub(residual, cut)
	}
	if st.Funds.DevFundPercent > 0 {
		cut := percentOf(amount, st.Funds.DevFundPercent)
		if err := interactor.peg.Transfer(interactor.self, st.Funds.DevFund, cut); err != nil {
			return nil, err
		}
		residual.Sub(residual, cut)
	}

	sink := interactor.boardroom.Address()
	if err := interactor.peg.Approve(interactor.self, sink, new(big.Int)); err != nil {
		return nil, err
	}
	if err := interactor.peg.Approve(interactor.self, sink, residual); err != nil {
		return nil, err
	}
	if err := interactor.boardroom.AllocateSeigniorage(interactor.self, residual); err != nil {
		return nil, err
	}

	log.Printf("🔵 seigniorage allocated [boardroom: %v of %v]\n",
		util.CoinString(residual, "peg"), util.CoinString(amount, "peg"))
	return residual, nil
}

//-------------------------------------------------------------------
// Views

func (interactor *TreasuryInteractor) Epoch() uint32 {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.state.Epoch.Index
}

func (interactor *TreasuryInteractor) NextEpochPoint() time.Time {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return interactor.state.Epoch.NextEpochPoint()
}

func (interactor *TreasuryInteractor) Reserve() *big.Int {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return new(big.Int).Set(interactor.state.SeigniorageSaved)
}

func (interactor *TreasuryInteractor) PreviousEpochPrice() *big.Int {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return new(big.Int).Set(interactor.state.PreviousEpochPrice)
}

func (interactor *TreasuryInteractor) ContractionBudgetLeft() *big.Int {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()
	return new(big.Int).Set(interactor.state.Epoch.ContractionBudgetLeft)
}

// BurnablePegLeft is how much peg asset can still be burned for bonds at the
// current price: the epoch budget capped by the debt ceiling headroom.
func (interactor *TreasuryInteractor) BurnablePegLeft() (*big.Int, error) {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	burnable := new(big.Int)
	price, err := interactor.oracleInteractor.ConsultPrice()
	if err != nil {
		return nil, err
	}
	if price.Cmp(interactor.state.PriceOne) > 0 {
		return burnable, nil
	}

	maxBondSupply := percentOf(interactor.CirculatingSupply(), interactor.state.MaxDebtRatioPercent)
	bondSupply := interactor.bond.TotalSupply()
	if maxBondSupply.Cmp(bondSupply) <= 0 {
		return burnable, nil
	}

	mintable := maxBondSupply.Sub(maxBondSupply, bondSupply)
	maxBurnable := mintable.Mul(mintable, price)
	maxBurnable.Div(maxBurnable, interactor.state.PriceOne)
	return minAmount(interactor.state.Epoch.ContractionBudgetLeft, maxBurnable), nil
}

// RedeemableBonds is how many bonds the current treasury balance can pay out
// at the premium rate.
func (interactor *TreasuryInteractor) RedeemableBonds() (*big.Int, error) {
	interactor.mu.Lock()
	defer interactor.mu.Unlock()

	price, err := interactor.oracleInteractor.ConsultPrice()
	if err != nil {
		return nil, err
	}

	redeemable := new(big.Int)
	if price.Cmp(interactor.state.PriceCeiling) <= 0 {
		return redeemable, nil
	}
	rate := interactor.state.Bonds.PremiumRate(price, interactor.state.PriceOne, interactor.state.PriceCeiling)
	if rate.Sign() == 0 {
		return redeemable, nil
	}

	redeemable.Mul(interactor.peg.BalanceOf(interactor.self), interactor.state.PriceOne)
	redeemable.Div(redeemable, rate)
	return redeemable, nil
}

// PegPriceUpdated is the smoothed price the next refresh would settle on.
func (interactor *TreasuryInteractor) PegPriceUpdated() (*big.Int, error) {
	return interactor.oracleInteractor.TwapPrice()
}

//-------------------------------------------------------------------
// Persistence, best-effort after commit

func (interactor *TreasuryInteractor) persistState() {
	if interactor.stateRepository == nil {
		return
	}
	if _, err := interactor.stateRepository.Upsert(repository.PolicyStateKey, interactor.state); err != nil {
		exporter.IncErrorCount()
		log.Printf("🔴 persisting policy state - %v\n", err.Error())
	}
}

func (interactor *TreasuryInteractor) recordEpoch(record domain.EpochRecord) {
	if interactor.epochRepository == nil {
		return
	}
	if err := interactor.epochRepository.Insert(record); err != nil {
		exporter.IncErrorCount()
		log.Printf("🔴 recording epoch history - %v\n", err.Error())
	}
}

func (interactor *TreasuryInteractor) recordBondEvent(kind string, caller tongo.AccountID, amount, rate, out *big.Int) {
	if interactor.bondRepository == nil {
		return
	}
	event := domain.BondEvent{
		Kind:      kind,
		Caller:    caller.ToRaw(),
		Amount:    amount,
		Rate:      rate,
		Out:       out,
		CreatedAt: interactor.clock.Now(),
	}
	if err := interactor.bondRepository.Insert(event); err != nil {
		exporter.IncErrorCount()
		log.Printf("🔴 recording bond event - %v\n", err.Error())
	}
}

//-------------------------------------------------------------------
// Helpers

func percentOf(amount *big.Int, percent uint64) *big.Int {
	value := new(big.Int).Mul(amount, new(big.Int).SetUint64(percent))
	return value.Div(value, big.NewInt(domain.PercentDenominator))
}

func minAmount(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}
