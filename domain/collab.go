package domain

import (
	"math/big"
	"time"

	"github.com/tonkeeper/tongo"
)

// Transactional is the staging contract every ledger must honor: Rollback
// restores the state captured at Begin, discarding every effect since, while
// Commit makes them final. One open transaction at a time.
type Transactional interface {
	Begin()
	Commit()
	Rollback()
}

// TokenLedger is the narrow fungible-token boundary used by the policy engine.
// Every mutating call is gated by the ledger's operator: it succeeds only when
// invoked by the account returned from Operator().
type TokenLedger interface {
	Transactional

	Mint(caller, to tongo.AccountID, amount *big.Int) error
	BurnFrom(caller, from tongo.AccountID, amount *big.Int) error
	Transfer(from, to tongo.AccountID, amount *big.Int) error
	Approve(owner, spender tongo.AccountID, amount *big.Int) error
	Allowance(owner, spender tongo.AccountID) *big.Int
	TransferFrom(caller, from, to tongo.AccountID, amount *big.Int) error

	BalanceOf(addr tongo.AccountID) *big.Int
	TotalSupply() *big.Int
	Operator() tongo.AccountID
	SetOperator(caller, operator tongo.AccountID) error
}

// PriceOracle supplies prices for the peg asset. Consult and Twap abort the
// calling action on failure; Update is a best-effort refresh whose failure the
// caller swallows.
type PriceOracle interface {
	Consult(asset tongo.AccountID, amountIn *big.Int) (*big.Int, error)
	Twap(asset tongo.AccountID, amountIn *big.Int) (*big.Int, error)
	Update() error
}

// BoardroomSink receives the expansion share of each epoch and distributes it
// to share-token stakers on its own schedule.
type BoardroomSink interface {
	Address() tongo.AccountID
	AllocateSeigniorage(caller tongo.AccountID, amount *big.Int) error
	SetOperator(caller, operator tongo.AccountID) error
	SetLockUp(caller tongo.AccountID, withdrawEpochs, rewardEpochs uint32) error
	GovernanceRecoverUnsupported(caller tongo.AccountID, token TokenLedger, amount *big.Int, to tongo.AccountID) error
	Operator() tongo.AccountID
}

// Clock abstracts wall time so epoch windows and settlement units are
// reproducible under test.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
