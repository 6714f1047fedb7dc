package usecase

import (
	"treasury/domain"
	"treasury/interface/repository"
)

const (
	FeedCursorMemoKey = "feed_cursor"
)

// MemoInteractor persists small progress markers next to the policy state, so
// a restarted process resumes where the previous one stopped.
type MemoInteractor struct {
	stateRepository *repository.StateRepository
}

func NewMemoInteractor(stateRepository *repository.StateRepository) *MemoInteractor {
	interactor := &MemoInteractor{
		stateRepository: stateRepository,
	}
	return interactor
}

func (interactor *MemoInteractor) GetLatestFeedId() (int64, error) {
	memo := &domain.FeedCursorMemo{}
	found, err := interactor.stateRepository.Load(FeedCursorMemoKey, memo)
	if err != nil || !found {
		return 0, err
	}
	return memo.LatestFeedId, nil
}

func (interactor *MemoInteractor) SetLatestFeedId(id int64) error {
	memo := &domain.FeedCursorMemo{LatestFeedId: id}
	_, err := interactor.stateRepository.Upsert(FeedCursorMemoKey, memo)
	return err
}
