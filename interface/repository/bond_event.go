package repository

import (
	"math/big"
	"time"

	"treasury/domain"

	"github.com/behrang/sqlbatch"
)

const (
	sqlBondEventInsert = `
	insert into bond_events (
			kind, caller, amount, rate, amount_out, created_at
		)
		values (
			$1, $2, $3, $4, $5, $6
		)
`

	sqlBondEventFindRecent = `
	select
		kind, caller, amount, rate, amount_out, created_at
	from bond_events
	order by created_at desc
	limit $1
`
)

// BondEventRepository is the audit log of bond purchases and redemptions.
type BondEventRepository struct {
	batchHandler BatchHandler
}

func NewBondEventRepository(db BatchHandler) *BondEventRepository {
	return &BondEventRepository{batchHandler: db}
}

func readAllBondEvents(all interface{}, scan func(...interface{}) error) (interface{}, error) {
	r := domain.BondEvent{}
	var amount, rate, out string
	var createdAt time.Time
	err := scan(
		&r.Kind, &r.Caller, &amount, &rate, &out, &createdAt,
	)
	if err == nil {
		r.Amount, _ = new(big.Int).SetString(amount, 10)
		r.Rate, _ = new(big.Int).SetString(rate, 10)
		r.Out, _ = new(big.Int).SetString(out, 10)
		r.CreatedAt = createdAt
	}

	list := all.([]domain.BondEvent)
	list = append(list, r)
	return list, err
}

func (repo *BondEventRepository) Insert(event domain.BondEvent) error {
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlBondEventInsert,
			Args: []interface{}{
				event.Kind,
				event.Caller,
				event.Amount.String(),
				event.Rate.String(),
				event.Out.String(),
				event.CreatedAt,
			},
			Affect: 1,
		},
	})
	return err
}

func (repo *BondEventRepository) FindRecent(limit int) ([]domain.BondEvent, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlBondEventFindRecent,
			Args:    []interface{}{limit},
			Init:    make([]domain.BondEvent, 0),
			ReadAll: readAllBondEvents,
		},
	})
	result, _ := results[0].([]domain.BondEvent)
	return result, err
}
