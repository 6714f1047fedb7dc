package config

import (
	"fmt"
	"log"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tonkeeper/tongo"
)

const (
	MainNetwork = "mainnet"
	TestNetwork = "testnet"
)

var (
	ErrorInvalidNetwork = fmt.Errorf("network must be equal to 'mainnet' or 'testnet' only")

	ErrorInvalidEpochPeriod      = fmt.Errorf("invalid epoch period")
	ErrorInvalidBlockTime        = fmt.Errorf("invalid block time")
	ErrorInvalidAllocateInterval = fmt.Errorf("invalid time interval for allocate process")
	ErrorInvalidTwapWindow       = fmt.Errorf("invalid twap window")
	ErrorInvalidPriceOne         = fmt.Errorf("invalid peg target price")

	ErrorInvalidTreasuryAddress  = fmt.Errorf("invalid treasury address")
	ErrorInvalidOperatorAddress  = fmt.Errorf("invalid operator address")
	ErrorInvalidPegAddress       = fmt.Errorf("invalid peg asset address")
	ErrorInvalidBoardroomAddress = fmt.Errorf("invalid boardroom address")
	ErrorInvalidDaoFundAddress   = fmt.Errorf("invalid dao fund address")
	ErrorInvalidDevFundAddress   = fmt.Errorf("invalid dev fund address")
)

var (
	TrailingSlashRE = regexp.MustCompile("/+$")
)

var (
	dbUri   string
	network string

	treasuryAddress    string
	treasuryAccountId  tongo.AccountID
	operatorAccountId  tongo.AccountID
	pegAccountId       tongo.AccountID
	boardroomAccountId tongo.AccountID
	daoFundAccountId   tongo.AccountID
	devFundAccountId   tongo.AccountID

	daoFundPercent uint64
	devFundPercent uint64

	priceOne *big.Int

	epochPeriod      time.Duration
	blockTime        time.Duration
	allocateInterval time.Duration
	twapWindow       time.Duration

	metricsAddress string
)

func ReadConfig(filePath string) {
	viper.SetConfigFile(filePath)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("⚠️ Failed reading config file: %v\n", err.Error())
	}

	err := initializeVariables()
	if err != nil {
		log.Fatalf("Configuration error - %v\n", err.Error())
	}
}

// This method processes the configuration parameters and keeps the processed values
// in some variables for later accesses rapidly.
func initializeVariables() error {
	var err error

	// Database stuff
	dbUri = TrailingSlashRE.ReplaceAllString(viper.GetString("service_db_uri"), "")

	// Network stuff
	network = strings.TrimSpace(strings.ToLower(viper.GetString("network")))
	if strings.Compare(network, MainNetwork) != 0 && strings.Compare(network, TestNetwork) != 0 {
		return ErrorInvalidNetwork
	}

	// Treasury stuff
	treasuryAddress = strings.TrimSpace(viper.GetString("treasury_address"))
	treasuryAccountId, err = tongo.ParseAccountID(treasuryAddress)
	if err != nil {
		return ErrorInvalidTreasuryAddress
	}

	operatorAccountId, err = tongo.ParseAccountID(strings.TrimSpace(viper.GetString("operator_address")))
	if err != nil {
		return ErrorInvalidOperatorAddress
	}

	pegAccountId, err = tongo.ParseAccountID(strings.TrimSpace(viper.GetString("peg_address")))
	if err != nil {
		return ErrorInvalidPegAddress
	}

	boardroomAccountId, err = tongo.ParseAccountID(strings.TrimSpace(viper.GetString("boardroom_address")))
	if err != nil {
		return ErrorInvalidBoardroomAddress
	}

	daoFundAccountId, err = tongo.ParseAccountID(strings.TrimSpace(viper.GetString("dao_fund")))
	if err != nil {
		return ErrorInvalidDaoFundAddress
	}

	devFundAccountId, err = tongo.ParseAccountID(strings.TrimSpace(viper.GetString("dev_fund")))
	if err != nil {
		return ErrorInvalidDevFundAddress
	}

	daoFundPercent = viper.GetUint64("dao_fund_percent")
	devFundPercent = viper.GetUint64("dev_fund_percent")

	// Peg target price, 1e18 scale
	strValue := strings.TrimSpace(viper.GetString("price_one"))
	value, ok := new(big.Int).SetString(strValue, 10)
	if !ok || value.Sign() <= 0 {
		return ErrorInvalidPriceOne
	}
	priceOne = value

	//---------------------------------------------------------------
	// epoch period
	strValue = viper.GetString("epoch_period")
	epochPeriod, err = time.ParseDuration(strValue)
	if err != nil || epochPeriod <= 0 {
		return ErrorInvalidEpochPeriod
	}

	//---------------------------------------------------------------
	// block time, the settlement unit length
	strValue = viper.GetString("block_time")
	blockTime, err = time.ParseDuration(strValue)
	if err != nil || blockTime <= 0 {
		return ErrorInvalidBlockTime
	}

	//---------------------------------------------------------------
	// allocate interval
	strValue = viper.GetString("allocate_interval")
	allocateInterval, err = time.ParseDuration(strValue)
	if err != nil || allocateInterval <= 0 {
		return ErrorInvalidAllocateInterval
	}

	//---------------------------------------------------------------
	// twap window
	strValue = viper.GetString("twap_window")
	twapWindow, err = time.ParseDuration(strValue)
	if err != nil || twapWindow <= 0 {
		return ErrorInvalidTwapWindow
	}

	metricsAddress = strings.TrimSpace(viper.GetString("metrics_address"))
	if metricsAddress == "" {
		metricsAddress = ":9090"
	}

	return nil
}

//-------------------------------------------------------------------
// Normal configuration values

func GetDbUri() string {
	return dbUri
}

func GetNetwork() string {
	return network
}

func GetTreasuryAddress() string {
	return treasuryAddress
}

func GetTreasuryAccountId() tongo.AccountID {
	return treasuryAccountId
}

func GetOperatorAccountId() tongo.AccountID {
	return operatorAccountId
}

func GetPegAccountId() tongo.AccountID {
	return pegAccountId
}

func GetBoardroomAccountId() tongo.AccountID {
	return boardroomAccountId
}

func GetDaoFundAccountId() tongo.AccountID {
	return daoFundAccountId
}

func GetDevFundAccountId() tongo.AccountID {
	return devFundAccountId
}

func GetDaoFundPercent() uint64 {
	return daoFundPercent
}

func GetDevFundPercent() uint64 {
	return devFundPercent
}

func GetPriceOne() *big.Int {
	return priceOne
}

func GetEpochPeriod() time.Duration {
	return epochPeriod
}

func GetBlockTime() time.Duration {
	return blockTime
}

func GetAllocateInterval() time.Duration {
	return allocateInterval
}

func GetTwapWindow() time.Duration {
	return twapWindow
}

func GetMetricsAddress() string {
	return metricsAddress
}

// -------------------------------------------------------------------
// Evaluating values

func IsTestNet() bool {
	return strings.Compare(network, TestNetwork) == 0
}
