package boardroom

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"treasury/domain"

	"github.com/tonkeeper/tongo"
)

var (
	ErrorNotOperator = fmt.Errorf("caller is not the boardroom operator")
)

type Allocation struct {
	Amount *big.Int
	At     time.Time
}

// Boardroom is the seigniorage sink: it pulls each allocation out of the
// treasury's approved allowance and accounts for it until share stakers claim.
type Boardroom struct {
	mu       sync.Mutex
	address  tongo.AccountID
	operator tongo.AccountID
	peg      domain.TokenLedger
	clock    domain.Clock

	totalAllocated *big.Int
	history        []Allocation

	withdrawLockupEpochs uint32
	rewardLockupEpochs   uint32
}

func NewBoardroom(address, operator tongo.AccountID, peg domain.TokenLedger, clock domain.Clock) *Boardroom {
	return &Boardroom{
		address:              address,
		operator:             operator,
		peg:                  peg,
		clock:                clock,
		totalAllocated:       new(big.Int),
		withdrawLockupEpochs: 6,
		rewardLockupEpochs:   3,
	}
}

func (b *Boardroom) Address() tongo.AccountID {
	return b.address
}

func (b *Boardroom) Operator() tongo.AccountID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.operator
}

// AllocateSeigniorage pulls amount from the caller's allowance. The caller
// must be the operator: only the policy engine may feed the boardroom.
func (b *Boardroom) AllocateSeigniorage(caller tongo.AccountID, amount *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if caller != b.operator {
		return ErrorNotOperator
	}
	if amount.Sign() <= 0 {
		return nil
	}
	if err := b.peg.TransferFrom(b.address, caller, b.address, amount); err != nil {
		return err
	}

	b.totalAllocated.Add(b.totalAllocated, amount)
	b.history = append(b.history, Allocation{Amount: new(big.Int).Set(amount), At: b.clock.Now()})
	return nil
}

func (b *Boardroom) SetOperator(caller, operator tongo.AccountID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if caller != b.operator {
		return ErrorNotOperator
	}
	b.operator = operator
	return nil
}

func (b *Boardroom) SetLockUp(caller tongo.AccountID, withdrawEpochs, rewardEpochs uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if caller != b.operator {
		return ErrorNotOperator
	}
	b.withdrawLockupEpochs = withdrawEpochs
	b.rewardLockupEpochs = rewardEpochs
	return nil
}

// GovernanceRecoverUnsupported moves tokens that do not belong in the
// boardroom out to a rescue address.
func (b *Boardroom) GovernanceRecoverUnsupported(caller tongo.AccountID, token domain.TokenLedger, amount *big.Int, to tongo.AccountID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if caller != b.operator {
		return ErrorNotOperator
	}
	return token.Transfer(b.address, to, amount)
}

func (b *Boardroom) TotalAllocated() *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return new(big.Int).Set(b.totalAllocated)
}

func (b *Boardroom) LockUp() (withdrawEpochs, rewardEpochs uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.withdrawLockupEpochs, b.rewardLockupEpochs
}

var _ domain.BoardroomSink = (*Boardroom)(nil)
