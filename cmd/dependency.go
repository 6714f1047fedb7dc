package cmd

import (
	"database/sql"
	"log"
	"math/big"
	"time"

	"treasury/domain"
	"treasury/domain/config"
	"treasury/infrastructure/boardroom"
	"treasury/infrastructure/dbhandler"
	"treasury/infrastructure/ledger"
	"treasury/infrastructure/oracle"
	"treasury/interface/repository"
	"treasury/usecase"
)

func defaultDependencyInject() {
	var err error
	dbURI := config.GetDbUri()
	dbPool, err = sql.Open("postgres", dbURI)
	if err != nil {
		log.Fatal(err)
	}
	dbPool.SetMaxOpenConns(20)
	dbPool.SetMaxIdleConns(5)
	dbPool.SetConnMaxIdleTime(1 * time.Minute)
	dbPool.SetConnMaxLifetime(4 * time.Hour)

	dbHandler := dbhandler.DBHandler{DB: dbPool}

	stateRepository = repository.NewStateRepository(dbHandler)
	epochRepository = repository.NewEpochRepository(dbHandler)
	bondEventRepository = repository.NewBondEventRepository(dbHandler)
	priceFeedRepository = repository.NewPriceFeedRepository(dbHandler)

	clock := domain.SystemClock{}
	treasuryId := config.GetTreasuryAccountId()
	oneUnit := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	pegLedger = ledger.NewMemoryLedger("peg", treasuryId)
	bondLedger = ledger.NewMemoryLedger("bond", treasuryId)
	shareLedger = ledger.NewMemoryLedger("share", treasuryId)

	pegOracle = oracle.NewPostedOracle(clock, config.GetPegAccountId(), config.GetTwapWindow())
	astralPlane := boardroom.NewBoardroom(config.GetBoardroomAccountId(), treasuryId, pegLedger, clock)

	oracleInteractor := usecase.NewOracleInteractor(pegOracle, config.GetPegAccountId(), oneUnit)
	guard := usecase.NewBlockGuard(clock, config.GetBlockTime())
	scheduler := usecase.NewEpochScheduler(clock)

	treasuryInteractor = usecase.NewTreasuryInteractor(
		treasuryId, config.GetOperatorAccountId(),
		pegLedger, bondLedger, shareLedger,
		astralPlane, oracleInteractor, guard, scheduler, clock)
	treasuryInteractor.InitializeRepositories(stateRepository, epochRepository, bondEventRepository)

	memoInteractor = usecase.NewMemoInteractor(stateRepository)
	statisticInteractor = usecase.NewStatisticInteractor(epochRepository, bondEventRepository)
}

var dbPool *sql.DB
var stateRepository *repository.StateRepository
var epochRepository *repository.EpochRepository
var bondEventRepository *repository.BondEventRepository
var priceFeedRepository *repository.PriceFeedRepository
var pegLedger *ledger.MemoryLedger
var bondLedger *ledger.MemoryLedger
var shareLedger *ledger.MemoryLedger
var pegOracle *oracle.PostedOracle
var treasuryInteractor *usecase.TreasuryInteractor
var memoInteractor *usecase.MemoInteractor
var statisticInteractor *usecase.StatisticInteractor
