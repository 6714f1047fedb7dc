package usecase

import (
	"fmt"
	"testing"

	"treasury/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracleInteractor(t *testing.T) {
	pegAsset := account(0x03)

	t.Run("consult returns the unit price", func(t *testing.T) {
		stub := &stubOracle{price: fraction(coins(1), 98, 100)}
		interactor := NewOracleInteractor(stub, pegAsset, coins(1))

		price, err := interactor.ConsultPrice()
		require.NoError(t, err)
		assert.Equal(t, fraction(coins(1), 98, 100), price)
	})

	t.Run("consult failure is fatal and typed", func(t *testing.T) {
		stub := &stubOracle{price: coins(1), consultErr: fmt.Errorf("feed is stale")}
		interactor := NewOracleInteractor(stub, pegAsset, coins(1))

		_, err := interactor.ConsultPrice()
		assert.ErrorIs(t, err, domain.ErrorOracleConsultation)

		_, err = interactor.TwapPrice()
		assert.ErrorIs(t, err, domain.ErrorOracleConsultation)
	})

	t.Run("refresh failure is swallowed", func(t *testing.T) {
		stub := &stubOracle{price: coins(1), updateErr: fmt.Errorf("no observations")}
		interactor := NewOracleInteractor(stub, pegAsset, coins(1))

		interactor.RefreshPrice()
		assert.Equal(t, 1, stub.updates)
	})
}
