package domain

import (
	"math/big"
	"time"
)

const (
	BondEventBuy    = "buy"
	BondEventRedeem = "redeem"
)

// EpochRecord is the audit row written after every successful epoch close.
type EpochRecord struct {
	Index         uint32    `json:"index"`
	Price         *big.Int  `json:"price"`
	Expanded      *big.Int  `json:"expanded"`
	SavedForBonds *big.Int  `json:"saved_for_bonds"`
	ToBoardroom   *big.Int  `json:"to_boardroom"`
	ClosedAt      time.Time `json:"closed_at"`
}

// BondEvent is the audit row written after a bond purchase or redemption.
type BondEvent struct {
	Kind      string    `json:"kind"`
	Caller    string    `json:"caller"`
	Amount    *big.Int  `json:"amount"`
	Rate      *big.Int  `json:"rate"`
	Out       *big.Int  `json:"out"`
	CreatedAt time.Time `json:"created_at"`
}
