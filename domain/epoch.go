package domain

import (
	"fmt"
	"math/big"
	"time"
)

var (
	ErrorEpochNotOpen = fmt.Errorf("epoch window has not opened yet")
)

// EpochState tracks the policy window. Index is incremented exactly once per
// successful epoch close; ContractionBudgetLeft is recomputed only at close,
// never mid-epoch.
type EpochState struct {
	Index                 uint32        `json:"index"`
	StartTime             time.Time     `json:"start_time"`
	Period                time.Duration `json:"period"`
	ContractionBudgetLeft *big.Int      `json:"contraction_budget_left"`
}

// NextEpochPoint is the instant the current epoch may be closed:
// StartTime + Index*Period.
func (e EpochState) NextEpochPoint() time.Time {
	return e.StartTime.Add(time.Duration(e.Index) * e.Period)
}

func (e EpochState) clone() EpochState {
	c := e
	c.ContractionBudgetLeft = cloneAmount(e.ContractionBudgetLeft)
	return c
}
