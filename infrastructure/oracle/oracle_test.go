package oracle

import (
	"math/big"
	"testing"
	"time"

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

func price(num, den int64) *big.Int {
	v := new(big.Int).Mul(unit, big.NewInt(num))
	return v.Div(v, big.NewInt(den))
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func TestConsult(t *testing.T) {
	asset := account(0x03)

	t.Run("never updated", func(t *testing.T) {
		o := NewPostedOracle(newFakeClock(), asset, time.Hour)
		_, err := o.Consult(asset, unit)
		assert.ErrorIs(t, err, ErrorNotUpdated)
	})

	t.Run("unknown asset", func(t *testing.T) {
		o := NewPostedOracle(newFakeClock(), asset, time.Hour)
		_, err := o.Consult(account(0x04), unit)
		assert.ErrorIs(t, err, ErrorUnknownAsset)
	})

	t.Run("serves the settled price until the next update", func(t *testing.T) {
		clock := newFakeClock()
		o := NewPostedOracle(clock, asset, time.Hour)

		o.Post(price(1, 1))
		clock.advance(time.Minute)
		require.NoError(t, o.Update())

		settled, err := o.Consult(asset, unit)
		require.NoError(t, err)
		assert.Equal(t, price(1, 1), settled)

		// A newer observation does not move Consult before Update runs.
		o.Post(price(2, 1))
		clock.advance(time.Minute)
		settled, err = o.Consult(asset, unit)
		require.NoError(t, err)
		assert.Equal(t, price(1, 1), settled)

		require.NoError(t, o.Update())
		settled, err = o.Consult(asset, unit)
		require.NoError(t, err)
		assert.Equal(t, 1, settled.Cmp(price(1, 1)))
	})

	t.Run("scales by the amount in", func(t *testing.T) {
		clock := newFakeClock()
		o := NewPostedOracle(clock, asset, time.Hour)
		o.Post(price(9, 10))
		clock.advance(time.Minute)
		require.NoError(t, o.Update())

		out, err := o.Consult(asset, new(big.Int).Mul(unit, big.NewInt(100)))
		require.NoError(t, err)
		assert.Equal(t, new(big.Int).Mul(price(9, 10), big.NewInt(100)), out)
	})
}

func TestUpdate(t *testing.T) {
	asset := account(0x03)

	t.Run("fails without observations", func(t *testing.T) {
		o := NewPostedOracle(newFakeClock(), asset, time.Hour)
		assert.ErrorIs(t, o.Update(), ErrorNoObservations)
	})

	t.Run("weighs observations by their lifetime", func(t *testing.T) {
		clock := newFakeClock()
		o := NewPostedOracle(clock, asset, time.Hour)

		// 1.0 current for 30 minutes, then 2.0 current for 10 minutes:
		// average (1.0*1800 + 2.0*600) / 2400 = 1.25.
		o.Post(price(1, 1))
		clock.advance(30 * time.Minute)
		o.Post(price(2, 1))
		clock.advance(10 * time.Minute)
		require.NoError(t, o.Update())

		settled, err := o.Consult(asset, unit)
		require.NoError(t, err)
		assert.Equal(t, price(5, 4), settled)
	})
}

func TestTwap(t *testing.T) {
	asset := account(0x03)
	clock := newFakeClock()
	o := NewPostedOracle(clock, asset, time.Hour)

	o.Post(price(1, 1))
	clock.advance(30 * time.Minute)
	o.Post(price(2, 1))
	clock.advance(10 * time.Minute)

	// Twap recomputes live without settling anything.
	live, err := o.Twap(asset, unit)
	require.NoError(t, err)
	assert.Equal(t, price(5, 4), live)

	_, err = o.Consult(asset, unit)
	assert.ErrorIs(t, err, ErrorNotUpdated)

	_, err = o.Twap(account(0x04), unit)
	assert.ErrorIs(t, err, ErrorUnknownAsset)
}

func TestPrune(t *testing.T) {
	asset := account(0x03)
	clock := newFakeClock()
	o := NewPostedOracle(clock, asset, time.Hour)

	// An observation far outside the window still survives as the last
	// known price.
	o.Post(price(3, 2))
	clock.advance(5 * time.Hour)
	require.NoError(t, o.Update())

	settled, err := o.Consult(asset, unit)
	require.NoError(t, err)
	assert.Equal(t, price(3, 2), settled)

	// Once fresh observations arrive, the stale one is dropped.
	o.Post(price(1, 1))
	clock.advance(time.Minute)
	require.NoError(t, o.Update())

	settled, err = o.Consult(asset, unit)
	require.NoError(t, err)
	assert.Equal(t, price(1, 1), settled)
}
