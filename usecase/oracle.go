package usecase

import (
	"fmt"
	"log"
	"math/big"

	"treasury/domain"
	"treasury/interface/exporter"

	"github.com/tonkeeper/tongo"
)

// OracleInteractor wraps the price oracle behind the two failure-propagation
// contracts the policy engine needs: consultation is fatal for the enclosing
// action, refresh is best-effort and never propagates.
type OracleInteractor struct {
	oracle   domain.PriceOracle
	pegAsset tongo.AccountID
	unit     *big.Int
}

func NewOracleInteractor(oracle domain.PriceOracle, pegAsset tongo.AccountID, unit *big.Int) *OracleInteractor {
	interactor := &OracleInteractor{
		oracle:   oracle,
		pegAsset: pegAsset,
		unit:     new(big.Int).Set(unit),
	}
	return interactor
}

// ConsultPrice returns the oracle price for one peg unit. A failing oracle
// aborts the caller: policy decisions never run on unknown prices.
func (interactor *OracleInteractor) ConsultPrice() (*big.Int, error) {
	price, err := interactor.oracle.Consult(interactor.pegAsset, interactor.unit)
	if err != nil {
		return nil, fmt.Errorf("%w - %v", domain.ErrorOracleConsultation, err)
	}
	return price, nil
}

// TwapPrice returns the time-weighted price for one peg unit, with the same
// fatality contract as ConsultPrice.
func (interactor *OracleInteractor) TwapPrice() (*big.Int, error) {
	price, err := interactor.oracle.Twap(interactor.pegAsset, interactor.unit)
	if err != nil {
		return nil, fmt.Errorf("%w - %v", domain.ErrorOracleConsultation, err)
	}
	return price, nil
}

// RefreshPrice asks the oracle to refresh itself. Failure is swallowed: the
// action proceeds on the previously known price.
func (interactor *OracleInteractor) RefreshPrice() {
	if err := interactor.oracle.Update(); err != nil {
		exporter.IncErrorCount()
		log.Printf("🟡 oracle refresh failed, keeping last price - %v\n", err.Error())
	}
}

// SetOracle swaps the oracle reference. Permission is checked by the caller.
func (interactor *OracleInteractor) SetOracle(oracle domain.PriceOracle) {
	interactor.oracle = oracle
}
