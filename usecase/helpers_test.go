package usecase

import (
	"math/big"
	"time"

	"treasury/domain"
	"treasury/infrastructure/boardroom"
	"treasury/infrastructure/ledger"

	"github.com/tonkeeper/tongo"
)

func coins(n int64) *big.Int {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(n), unit)
}

func fraction(base *big.Int, num, den int64) *big.Int {
	v := new(big.Int).Mul(base, big.NewInt(num))
	return v.Div(v, big.NewInt(den))
}

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

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// stubOracle serves a fixed 1e18-scaled price and lets tests inject failures
// on either side of the oracle contract.
type stubOracle struct {
	price      *big.Int
	consultErr error
	updateErr  error
	updates    int
}

func (o *stubOracle) Consult(asset tongo.AccountID, amountIn *big.Int) (*big.Int, error) {
	if o.consultErr != nil {
		return nil, o.consultErr
	}
	out := new(big.Int).Mul(o.price, amountIn)
	return out.Div(out, coins(1)), nil
}

func (o *stubOracle) Twap(asset tongo.AccountID, amountIn *big.Int) (*big.Int, error) {
	return o.Consult(asset, amountIn)
}

func (o *stubOracle) Update() error {
	o.updates++
	return o.updateErr
}

// failingBoardroom passes the operator rights check but rejects every
// allocation, to exercise mid-action rollback.
type failingBoardroom struct {
	domain.BoardroomSink
	err error
}

func (b failingBoardroom) AllocateSeigniorage(caller tongo.AccountID, amount *big.Int) error {
	return b.err
}

const (
	testEpochPeriod = 6 * time.Hour
	testBlockTime   = 3 * time.Second
)

type fixture struct {
	treasuryId  tongo.AccountID
	operatorId  tongo.AccountID
	pegAssetId  tongo.AccountID
	boardroomId tongo.AccountID
	holderId    tongo.AccountID

	peg   *ledger.MemoryLedger
	bond  *ledger.MemoryLedger
	share *ledger.MemoryLedger

	oracle *stubOracle
	board  *boardroom.Boardroom
	clock  *fakeClock

	interactor *TreasuryInteractor
}

// newFixture wires a full in-memory policy engine, initialized at the clock's
// current time with a 1e18 peg target and the launch parameters.
func newFixture() *fixture {
	f := &fixture{
		treasuryId:  account(0x01),
		operatorId:  account(0x02),
		pegAssetId:  account(0x03),
		boardroomId: account(0x04),
		holderId:    account(0x05),
		clock:       newFakeClock(),
		oracle:      &stubOracle{price: coins(1)},
	}

	f.peg = ledger.NewMemoryLedger("peg", f.treasuryId)
	f.bond = ledger.NewMemoryLedger("bond", f.treasuryId)
	f.share = ledger.NewMemoryLedger("share", f.treasuryId)
	f.board = boardroom.NewBoardroom(f.boardroomId, f.treasuryId, f.peg, f.clock)

	oracleInteractor := NewOracleInteractor(f.oracle, f.pegAssetId, coins(1))
	guard := NewBlockGuard(f.clock, testBlockTime)
	scheduler := NewEpochScheduler(f.clock)

	f.interactor = NewTreasuryInteractor(f.treasuryId, f.operatorId,
		f.peg, f.bond, f.share, f.board, oracleInteractor, guard, scheduler, f.clock)
	return f
}

func (f *fixture) initialize() error {
	return f.interactor.Initialize(f.operatorId, coins(1), f.clock.Now(), testEpochPeriod)
}

func (f *fixture) mintPeg(to tongo.AccountID, amount *big.Int) {
	if err := f.peg.Mint(f.treasuryId, to, amount); err != nil {
		panic(err)
	}
}

func (f *fixture) mintBonds(to tongo.AccountID, amount *big.Int) {
	if err := f.bond.Mint(f.treasuryId, to, amount); err != nil {
		panic(err)
	}
}

// nextUnit steps past the settlement unit so the guard accepts another action
// from the same caller.
func (f *fixture) nextUnit() {
	f.clock.advance(testBlockTime)
}
