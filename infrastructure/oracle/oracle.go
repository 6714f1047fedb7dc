package oracle

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"treasury/domain"

	"github.com/tonkeeper/tongo"
)

var (
	ErrorUnknownAsset   = fmt.Errorf("oracle does not track this asset")
	ErrorNoObservations = fmt.Errorf("no price observations within the window")
	ErrorNotUpdated     = fmt.Errorf("oracle has never been updated")
)

var unit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

type observation struct {
	price *big.Int
	at    time.Time
}

// PostedOracle is a price oracle fed by posted observations. Update settles
// the consultable price to the time-weighted average of the observations in
// the window; Consult serves the settled price until the next Update.
type PostedOracle struct {
	mu     sync.Mutex
	clock  domain.Clock
	asset  tongo.AccountID
	window time.Duration

	observations []observation
	settled      *big.Int
}

func NewPostedOracle(clock domain.Clock, asset tongo.AccountID, window time.Duration) *PostedOracle {
	return &PostedOracle{
		clock:  clock,
		asset:  asset,
		window: window,
	}
}

// Post records a spot observation, 1e18-scaled price per peg unit.
func (o *PostedOracle) Post(price *big.Int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observations = append(o.observations, observation{
		price: new(big.Int).Set(price),
		at:    o.clock.Now(),
	})
	o.prune()
}

func (o *PostedOracle) Update() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	twap, err := o.weightedAverage()
	if err != nil {
		return err
	}
	o.settled = twap
	return nil
}

func (o *PostedOracle) Consult(asset tongo.AccountID, amountIn *big.Int) (*big.Int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if asset != o.asset {
		return nil, ErrorUnknownAsset
	}
	if o.settled == nil {
		return nil, ErrorNotUpdated
	}
	return scale(o.settled, amountIn), nil
}

// Twap recomputes the live window average without settling it.
func (o *PostedOracle) Twap(asset tongo.AccountID, amountIn *big.Int) (*big.Int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if asset != o.asset {
		return nil, ErrorUnknownAsset
	}
	twap, err := o.weightedAverage()
	if err != nil {
		return nil, err
	}
	return scale(twap, amountIn), nil
}

// weightedAverage weighs each observation by the time it stayed current, the
// latest one up to now.
func (o *PostedOracle) weightedAverage() (*big.Int, error) {
	o.prune()
	if len(o.observations) == 0 {
		return nil, ErrorNoObservations
	}

	now := o.clock.Now()
	weighted := new(big.Int)
	var total int64
	for i, obs := range o.observations {
		end := now
		if i+1 < len(o.observations) {
			end = o.observations[i+1].at
		}
		seconds := int64(end.Sub(obs.at) / time.Second)
		if seconds <= 0 {
			seconds = 1
		}
		weighted.Add(weighted, new(big.Int).Mul(obs.price, big.NewInt(seconds)))
		total += seconds
	}

	return weighted.Div(weighted, big.NewInt(total)), nil
}

// prune drops observations older than the window, keeping at least the most
// recent one so a quiet market still has a price.
func (o *PostedOracle) prune() {
	cutoff := o.clock.Now().Add(-o.window)
	kept := o.observations[:0]
	for i, obs := range o.observations {
		if obs.at.After(cutoff) || i == len(o.observations)-1 {
			kept = append(kept, obs)
		}
	}
	o.observations = kept
}

func scale(price, amountIn *big.Int) *big.Int {
	out := new(big.Int).Mul(price, amountIn)
	return out.Div(out, unit)
}

var _ domain.PriceOracle = (*PostedOracle)(nil)
