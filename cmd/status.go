package cmd

import (
	"fmt"
	"log"
	"time"

	"treasury/domain"
	"treasury/domain/util"
	"treasury/interface/repository"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints the current policy state",
	Long:  `Prints the persisted policy state and the recent epoch history.`,
	Run: func(cmd *cobra.Command, args []string) {
		defaultDependencyInject()

		state := &domain.PolicyState{}
		found, err := stateRepository.Load(repository.PolicyStateKey, state)
		if err != nil {
			log.Fatalf("Failed to load policy state - %v\n", err.Error())
		}
		if !found {
			fmt.Println("No policy state has been persisted yet.")
			return
		}

		printState(state)

		records, err := epochRepository.FindRecent(5)
		if err != nil {
			log.Printf("🔴 loading epoch history - %v\n", err.Error())
			return
		}
		printEpochs(records)

		statistic, err := statisticInteractor.Statistic(30, 100)
		if err != nil {
			log.Printf("🔴 aggregating history - %v\n", err.Error())
			return
		}
		printStatistic(statistic)
	},
}

func printState(state *domain.PolicyState) {
	fmt.Printf("------------- TREASURY STATE -----------------\n")
	fmt.Printf("epoch             : %v\n", state.Epoch.Index)
	fmt.Printf("next epoch point  : %v\n", state.Epoch.NextEpochPoint().Format(time.RFC3339))
	fmt.Printf("previous price    : %v\n", util.CoinString(state.PreviousEpochPrice, "unit"))
	fmt.Printf("price ceiling     : %v\n", util.CoinString(state.PriceCeiling, "unit"))
	fmt.Printf("reserve           : %v\n", util.CoinString(state.SeigniorageSaved, "peg"))
	fmt.Printf("contraction left  : %v\n", util.CoinString(state.Epoch.ContractionBudgetLeft, "peg"))
	fmt.Printf("expansion percent : %v\n", util.PercentString(state.MaxSupplyExpansionPercent))
}

func printEpochs(records []domain.EpochRecord) {
	fmt.Printf("------------- RECENT EPOCHS ------------------\n")
	for _, record := range records {
		fmt.Printf("#%04d  price %v  expanded %v  reserved %v  boardroom %v\n",
			record.Index,
			util.CoinString(record.Price, "unit"),
			util.CoinString(record.Expanded, "peg"),
			util.CoinString(record.SavedForBonds, "peg"),
			util.CoinString(record.ToBoardroom, "peg"))
	}
}

func printStatistic(statistic *domain.StatisticResult) {
	fmt.Printf("------------- LAST %d EPOCHS -----------------\n", statistic.EpochsCovered)
	fmt.Printf("expanded          : %v\n", util.CoinString(statistic.TotalExpanded, "peg"))
	fmt.Printf("saved for bonds   : %v\n", util.CoinString(statistic.TotalSavedForBonds, "peg"))
	fmt.Printf("to boardroom      : %v\n", util.CoinString(statistic.TotalToBoardroom, "peg"))
	fmt.Printf("bond purchases    : %v (burned %v)\n",
		statistic.BondPurchases, util.CoinString(statistic.PegBurnedForBonds, "peg"))
	fmt.Printf("bond redemptions  : %v (paid %v)\n",
		statistic.BondRedemptions, util.CoinString(statistic.PegPaidForBonds, "peg"))
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
