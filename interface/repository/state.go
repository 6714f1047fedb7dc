package repository

import (
	"treasury/domain"

	"github.com/behrang/sqlbatch"
)

const (
	PolicyStateKey = "policy_state"

	sqlStateUpsert = `
	insert into policy_states as c (
			key, state
		)
		values (
			$1, $2::jsonb
		)
	on conflict (key) do
		update set
			state = $2::jsonb
`

	sqlStateFind = `
	select
		key, state
	from policy_states
	where key = $1
`
)

// StateRepository persists the policy aggregate as a JSON memo, one row per
// key. The engine writes it after every committed action and reads it back on
// startup.
type StateRepository struct {
	batchHandler BatchHandler
}

func NewStateRepository(db BatchHandler) *StateRepository {
	return &StateRepository{batchHandler: db}
}

func readState(scan func(...interface{}) error) (interface{}, error) {
	r := domain.Memo{}
	var jstr []byte
	err := scan(
		&r.Key, &jstr,
	)
	if err != nil {
		return &r, err
	}
	r.Memo = string(jstr)
	return &r, nil
}

func (repo *StateRepository) Upsert(key string, state domain.Memorable) (*domain.Memo, error) {

	jstr := state.ToJson()
	results, err := repo.batchHandler.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlStateUpsert,
			Args: []interface{}{
				key, jstr,
			},
			Affect: 1,
		},
		{
			Query:   sqlStateFind,
			Args:    []interface{}{key},
			ReadOne: readState,
		},
	})

	result, _ := results[1].(*domain.Memo)
	return result, err
}

func (repo *StateRepository) Find(key string) (*domain.Memo, error) {
	results, err := repo.batchHandler.Batch(&BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlStateFind,
			Args:    []interface{}{key},
			ReadOne: readState,
		},
	})
	result, _ := results[0].(*domain.Memo)
	return result, err
}

// Load reads the stored aggregate into state; found is false when no snapshot
// has been written yet.
func (repo *StateRepository) Load(key string, state domain.Memorable) (bool, error) {
	memo, err := repo.Find(key)
	if err != nil || memo == nil {
		return false, err
	}
	return true, state.FromJson(memo.Memo)
}
