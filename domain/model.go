package domain

import "math/big"

// StatisticResult summarizes the persisted epoch and bond history.
type StatisticResult struct {
	EpochsCovered      int
	LastPrice          *big.Int
	TotalExpanded      *big.Int
	TotalSavedForBonds *big.Int
	TotalToBoardroom   *big.Int

	BondPurchases     int
	BondRedemptions   int
	PegBurnedForBonds *big.Int
	PegPaidForBonds   *big.Int
}

func NewStatisticResult() *StatisticResult {
	return &StatisticResult{
		LastPrice:          new(big.Int),
		TotalExpanded:      new(big.Int),
		TotalSavedForBonds: new(big.Int),
		TotalToBoardroom:   new(big.Int),
		PegBurnedForBonds:  new(big.Int),
		PegPaidForBonds:    new(big.Int),
	}
}
