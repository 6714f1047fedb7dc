package usecase

import (
	"time"

	"treasury/domain"

	"github.com/tonkeeper/tongo"
)

// BlockGuard restricts each caller to one state-mutating policy action per
// settlement unit, defeating repeated-quote arbitrage within one unit. Units
// are derived from the clock: unit = now / blockTime.
type BlockGuard struct {
	clock    domain.Clock
	unitSize time.Duration
	lastUnit map[tongo.AccountID]int64
}

func NewBlockGuard(clock domain.Clock, unitSize time.Duration) *BlockGuard {
	return &BlockGuard{
		clock:    clock,
		unitSize: unitSize,
		lastUnit: make(map[tongo.AccountID]int64),
	}
}

func (guard *BlockGuard) currentUnit() int64 {
	return guard.clock.Now().UnixNano() / int64(guard.unitSize)
}

// Check fails when the caller has already mutated state within the current
// settlement unit. It does not record anything: a failed action must leave the
// guard untouched.
func (guard *BlockGuard) Check(caller tongo.AccountID) error {
	if unit, seen := guard.lastUnit[caller]; seen && unit == guard.currentUnit() {
		return domain.ErrorConcurrencyViolation
	}
	return nil
}

// Mark records a successful action for the caller in the current unit.
func (guard *BlockGuard) Mark(caller tongo.AccountID) {
	guard.lastUnit[caller] = guard.currentUnit()
}
