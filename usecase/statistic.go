package usecase

import (
	"treasury/domain"
	"treasury/interface/repository"
)

type StatisticInteractor struct {
	epochRepository *repository.EpochRepository
	bondRepository  *repository.BondEventRepository
}

func NewStatisticInteractor(epochRepository *repository.EpochRepository,
	bondRepository *repository.BondEventRepository) *StatisticInteractor {
	interactor := &StatisticInteractor{
		epochRepository: epochRepository,
		bondRepository:  bondRepository,
	}
	return interactor
}

// Statistic aggregates the newest epoch records and bond events into one
// summary. The epoch history arrives newest first, so the first record carries
// the latest price.
func (interactor *StatisticInteractor) Statistic(epochs, bondEvents int) (*domain.StatisticResult, error) {
	result := domain.NewStatisticResult()

	records, err := interactor.epochRepository.FindRecent(epochs)
	if err != nil {
		return nil, err
	}
	result.EpochsCovered = len(records)
	for i, record := range records {
		if i == 0 && record.Price != nil {
			result.LastPrice.Set(record.Price)
		}
		if record.Expanded != nil {
			result.TotalExpanded.Add(result.TotalExpanded, record.Expanded)
		}
		if record.SavedForBonds != nil {
			result.TotalSavedForBonds.Add(result.TotalSavedForBonds, record.SavedForBonds)
		}
		if record.ToBoardroom != nil {
			result.TotalToBoardroom.Add(result.TotalToBoardroom, record.ToBoardroom)
		}
	}

	events, err := interactor.bondRepository.FindRecent(bondEvents)
	if err != nil {
		return nil, err
	}
	for _, event := range events {
		if event.Amount == nil {
			continue
		}
		switch event.Kind {
		case domain.BondEventBuy:
			result.BondPurchases++
			result.PegBurnedForBonds.Add(result.PegBurnedForBonds, event.Amount)
		case domain.BondEventRedeem:
			result.BondRedemptions++
			if event.Out != nil {
				result.PegPaidForBonds.Add(result.PegPaidForBonds, event.Out)
			}
		}
	}

	return result, nil
}
