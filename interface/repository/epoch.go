package repository

import (
	"math/big"
	"time"

	"treasury/domain"

	"github.com/behrang/sqlbatch"
)

const (
	sqlEpochInsert = `
	insert into epochs as c (
			epoch_index, price, expanded, saved_for_bonds, to_boardroom, closed_at
		)
		values (
			$1, $2, $3, $4, $5, $6
		)
	on conflict (epoch_index) do
		update set
			price = $2, expanded = $3, saved_for_bonds = $4, to_boardroom = $5, closed_at = $6
`

	sqlEpochFindRecent = `
	select
		epoch_index, price, expanded, saved_for_bonds, to_boardroom, closed_at
	from epochs
	order by epoch_index desc
	limit $1
`
)

// EpochRepository keeps the append-only history of closed epochs. Amounts are
// stored as decimal text: they do not fit in any SQL integer.
type EpochRepository struct {
	batchHandler BatchHandler
}

func NewEpochRepository(db BatchHandler) *EpochRepository {
	return &EpochRepository{batchHandler: db}
}

func readAllEpochs(all interface{}, scan func(...interface{}) error) (interface{}, error) {
	r := domain.EpochRecord{}
	var price, expanded, saved, boardroom string
	var closedAt time.Time
	err := scan(
		&r.Index, &price, &expanded, &saved, &boardroom, &closedAt,
	)
	if err == nil {
		r.Price, _ = new(big.Int).SetString(price, 10)
		r.Expanded, _ = new(big.Int).SetString(expanded, 10)
		r.SavedForBonds, _ = new(big.Int).SetString(saved, 10)
		r.ToBoardroom, _ = new(big.Int).SetString(boardroom, 10)
		r.ClosedAt = closedAt
	}

	list := all.([]domain.EpochRecord)
	list = append(list, r)
	return list, err
}

func (repo *EpochRepository) Insert(record domain.EpochRecord) error {
	_, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlEpochInsert,
			Args: []interface{}{
				record.Index,
				record.Price.String(),
				record.Expanded.String(),
				record.SavedForBonds.String(),
				record.ToBoardroom.String(),
				record.ClosedAt,
			},
			Affect: 1,
		},
	})
	return err
}

func (repo *EpochRepository) FindRecent(limit int) ([]domain.EpochRecord, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlEpochFindRecent,
			Args:    []interface{}{limit},
			Init:    make([]domain.EpochRecord, 0),
			ReadAll: readAllEpochs,
		},
	})
	result, _ := results[0].([]domain.EpochRecord)
	return result, err
}
