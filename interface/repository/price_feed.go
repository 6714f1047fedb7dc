package repository

import (
	"math/big"
	"time"

	"github.com/behrang/sqlbatch"
)

const (
	sqlPriceFeedFindSince = `
	select
		id, price, posted_at
	from price_feeds
	where id > $1
	order by id asc
`
)

// PriceObservation is a spot price posted by an external feeder process.
type PriceObservation struct {
	Id       int64
	Price    *big.Int
	PostedAt time.Time
}

// PriceFeedRepository reads the observations the feeder processes insert into
// the shared database; the driver forwards them to the oracle.
type PriceFeedRepository struct {
	batchHandler BatchHandler
}

func NewPriceFeedRepository(db BatchHandler) *PriceFeedRepository {
	return &PriceFeedRepository{batchHandler: db}
}

func readAllObservations(all interface{}, scan func(...interface{}) error) (interface{}, error) {
	r := PriceObservation{}
	var price string
	err := scan(
		&r.Id, &price, &r.PostedAt,
	)
	if err == nil {
		r.Price, _ = new(big.Int).SetString(price, 10)
	}

	list := all.([]PriceObservation)
	list = append(list, r)
	return list, err
}

// FindSince returns the observations newer than the given row id, oldest
// first, so the caller can replay them in posting order.
func (repo *PriceFeedRepository) FindSince(lastId int64) ([]PriceObservation, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlPriceFeedFindSince,
			Args:    []interface{}{lastId},
			Init:    make([]PriceObservation, 0),
			ReadAll: readAllObservations,
		},
	})
	result, _ := results[0].([]PriceObservation)
	return result, err
}
