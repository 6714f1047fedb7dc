package domain

import "fmt"

var (
	ErrorAlreadyInitialized = fmt.Errorf("treasury is already initialized")
	ErrorNotInitialized     = fmt.Errorf("treasury is not initialized")

	ErrorNotOperator           = fmt.Errorf("caller is not the treasury operator")
	ErrorOperatorRightsMissing = fmt.Errorf("treasury does not hold operator rights over its collaborators")

	ErrorConcurrencyViolation = fmt.Errorf("one policy action per settlement unit per caller")

	ErrorZeroAmount            = fmt.Errorf("amount must be greater than zero")
	ErrorPriceMoved            = fmt.Errorf("live price differs from the quoted price")
	ErrorPriceAbovePeg         = fmt.Errorf("peg price is not eligible for bond purchase")
	ErrorPriceBelowCeiling     = fmt.Errorf("peg price is not eligible for bond redemption")
	ErrorInvalidBondRate       = fmt.Errorf("bond market is currently unavailable")
	ErrorOverContractionBudget = fmt.Errorf("amount exceeds the epoch contraction budget")
	ErrorOverDebtCeiling       = fmt.Errorf("resulting bond supply exceeds the max debt ratio")
	ErrorInsufficientTreasury  = fmt.Errorf("treasury balance cannot cover the payout")

	ErrorOracleConsultation = fmt.Errorf("failed to consult the oracle price")
)
