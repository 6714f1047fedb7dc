package boardroom

import (
	"math/big"
	"testing"
	"time"

	"treasury/infrastructure/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo"
)

func account(fill byte) tongo.AccountID {
	var id tongo.AccountID
	for i := range id.Address {
		id.Address[i] = fill
	}
	return id
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func TestAllocateSeigniorage(t *testing.T) {
	address := account(0x04)
	treasury := account(0x01)
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	setup := func(t *testing.T) (*Boardroom, *ledger.MemoryLedger) {
		peg := ledger.NewMemoryLedger("peg", treasury)
		b := NewBoardroom(address, treasury, peg, clock)
		require.NoError(t, peg.Mint(treasury, treasury, big.NewInt(1000)))
		return b, peg
	}

	t.Run("pulls the approved allowance", func(t *testing.T) {
		b, peg := setup(t)
		require.NoError(t, peg.Approve(treasury, address, big.NewInt(400)))

		require.NoError(t, b.AllocateSeigniorage(treasury, big.NewInt(400)))
		assert.Equal(t, big.NewInt(400), peg.BalanceOf(address))
		assert.Equal(t, big.NewInt(600), peg.BalanceOf(treasury))
		assert.Equal(t, big.NewInt(400), b.TotalAllocated())
	})

	t.Run("only the operator may feed it", func(t *testing.T) {
		b, _ := setup(t)
		err := b.AllocateSeigniorage(account(0x09), big.NewInt(1))
		assert.ErrorIs(t, err, ErrorNotOperator)
	})

	t.Run("fails without an allowance", func(t *testing.T) {
		b, _ := setup(t)
		err := b.AllocateSeigniorage(treasury, big.NewInt(1))
		assert.ErrorIs(t, err, ledger.ErrorInsufficientAllowance)
		assert.Zero(t, b.TotalAllocated().Sign())
	})

	t.Run("zero allocations are ignored", func(t *testing.T) {
		b, _ := setup(t)
		require.NoError(t, b.AllocateSeigniorage(treasury, new(big.Int)))
		assert.Zero(t, b.TotalAllocated().Sign())
	})
}

func TestAdministration(t *testing.T) {
	address := account(0x04)
	treasury := account(0x01)
	next := account(0x02)
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	t.Run("operator rotation", func(t *testing.T) {
		peg := ledger.NewMemoryLedger("peg", treasury)
		b := NewBoardroom(address, treasury, peg, clock)

		assert.ErrorIs(t, b.SetOperator(next, next), ErrorNotOperator)
		require.NoError(t, b.SetOperator(treasury, next))
		assert.Equal(t, next, b.Operator())
	})

	t.Run("lockup windows", func(t *testing.T) {
		peg := ledger.NewMemoryLedger("peg", treasury)
		b := NewBoardroom(address, treasury, peg, clock)

		withdraw, reward := b.LockUp()
		assert.Equal(t, uint32(6), withdraw)
		assert.Equal(t, uint32(3), reward)

		assert.ErrorIs(t, b.SetLockUp(next, 8, 4), ErrorNotOperator)
		require.NoError(t, b.SetLockUp(treasury, 8, 4))
		withdraw, reward = b.LockUp()
		assert.Equal(t, uint32(8), withdraw)
		assert.Equal(t, uint32(4), reward)
	})

	t.Run("recovering stray tokens", func(t *testing.T) {
		peg := ledger.NewMemoryLedger("peg", treasury)
		stray := ledger.NewMemoryLedger("other", treasury)
		b := NewBoardroom(address, treasury, peg, clock)
		require.NoError(t, stray.Mint(treasury, address, big.NewInt(50)))

		rescue := account(0x0a)
		assert.ErrorIs(t, b.GovernanceRecoverUnsupported(next, stray, big.NewInt(50), rescue), ErrorNotOperator)
		require.NoError(t, b.GovernanceRecoverUnsupported(treasury, stray, big.NewInt(50), rescue))
		assert.Equal(t, big.NewInt(50), stray.BalanceOf(rescue))
	})
}
