package cmd

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"treasury/domain"
	"treasury/domain/config"
	"treasury/interface/exporter"
	"treasury/interface/repository"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the policy engine",
	Long:  `Starts the policy engine's tasks. To stop it, run 'stop' command.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("start called.")

		defaultDependencyInject()
		restoreOrInitialize()
		restoreFeedCursor()

		go serveMetrics()

		feedTicker := schedule(feed, config.GetAllocateInterval()/4, quit)
		allocateTicker := schedule(allocate, config.GetAllocateInterval(), quit)

		signal.Ignore()
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		s := <-stop
		log.Printf("Got signal '%v', stopping", s)

		feedTicker.Stop()
		allocateTicker.Stop()
	},
}

func schedule(task func(), interval time.Duration, done chan bool) *time.Ticker {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {

			case <-ticker.C:
				ticker.Stop()
				task()
				ticker.Reset(interval)

			case <-done:
				return
			}
		}
	}()
	return ticker
}

// restoreOrInitialize adopts the persisted policy state when one exists,
// otherwise starts a fresh treasury at the configured peg target.
func restoreOrInitialize() {
	operator := config.GetOperatorAccountId()

	persisted := &domain.PolicyState{}
	found, err := stateRepository.Load(repository.PolicyStateKey, persisted)
	if err != nil {
		log.Printf("🟡 loading persisted state - %v\n", err.Error())
	}

	if found && err == nil {
		if err := treasuryInteractor.Restore(persisted); err != nil {
			log.Fatalf("Failed to restore treasury state - %v\n", err.Error())
		}
		return
	}

	err = treasuryInteractor.Initialize(operator, config.GetPriceOne(), time.Now(), config.GetEpochPeriod())
	if err != nil {
		log.Fatalf("Failed to initialize treasury - %v\n", err.Error())
	}

	err = treasuryInteractor.SetExtraFunds(operator,
		config.GetDaoFundAccountId(), config.GetDaoFundPercent(),
		config.GetDevFundAccountId(), config.GetDevFundPercent())
	if err != nil {
		log.Fatalf("Failed to configure fee funds - %v\n", err.Error())
	}
}

// lastFeedId is the newest price_feeds row already posted to the oracle.
var lastFeedId int64

func restoreFeedCursor() {
	id, err := memoInteractor.GetLatestFeedId()
	if err != nil {
		log.Printf("🟡 loading feed cursor, starting from the top - %v\n", err.Error())
		return
	}
	lastFeedId = id
}

func feed() {
	observations, err := priceFeedRepository.FindSince(lastFeedId)
	if err != nil {
		exporter.IncErrorCount()
		log.Printf("🔴 reading price feed - %v\n", err.Error())
		return
	}
	if len(observations) == 0 {
		return
	}

	for _, observation := range observations {
		if observation.Price != nil {
			pegOracle.Post(observation.Price)
		}
		lastFeedId = observation.Id
	}

	if err := memoInteractor.SetLatestFeedId(lastFeedId); err != nil {
		exporter.IncErrorCount()
		log.Printf("🔴 persisting feed cursor - %v\n", err.Error())
	}
}

func allocate() {
	err := treasuryInteractor.AllocateSeigniorage(config.GetOperatorAccountId())
	switch {
	case err == nil:
		log.Printf("🔵 epoch closed [index: %v]\n", treasuryInteractor.Epoch())
	case errors.Is(err, domain.ErrorEpochNotOpen):
		// Not due yet, try again on the next tick.
	default:
		exporter.IncErrorCount()
		log.Printf("🔴 allocating seigniorage - %v\n", err.Error())
	}
}

func serveMetrics() {
	http.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(config.GetMetricsAddress(), nil); err != nil {
		log.Printf("🔴 metrics server - %v\n", err.Error())
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
}
