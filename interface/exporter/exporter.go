package exporter

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_ERROR_COUNT      = "error_count"
	METRIC_EPOCHS_CLOSED    = "epochs_closed"
	METRIC_BOND_PURCHASES   = "bond_purchases"
	METRIC_BOND_REDEMPTIONS = "bond_redemptions"

	METRIC_EPOCH_INDEX        = "epoch_index"
	METRIC_PEG_PRICE          = "peg_price"
	METRIC_RESERVE            = "seigniorage_reserve"
	METRIC_CONTRACTION_BUDGET = "contraction_budget_left"
)

var (
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
)

var wad = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

func Init() {

	// --- Static Metrics: the metrics which are not depended on running configuration

	// Create metric spaces
	counters = make(map[string]prometheus.Counter)
	gauges = make(map[string]prometheus.Gauge)

	// Register metrics
	counterHelp := map[string]string{
		METRIC_ERROR_COUNT:      "Counts swallowed and persistence errors",
		METRIC_EPOCHS_CLOSED:    "Counts successfully closed epochs",
		METRIC_BOND_PURCHASES:   "Counts successful bond purchases",
		METRIC_BOND_REDEMPTIONS: "Counts successful bond redemptions",
	}
	for name, help := range counterHelp {
		counter := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "seigniorage",
			Subsystem: "treasury",
			Name:      name,
			Help:      help,
		})
		prometheus.MustRegister(counter)
		counters[name] = counter
	}

	gaugeHelp := map[string]string{
		METRIC_EPOCH_INDEX:        "Current epoch index",
		METRIC_PEG_PRICE:          "Previous epoch price in units of the peg target",
		METRIC_RESERVE:            "Seigniorage saved for bond payoff, whole peg units",
		METRIC_CONTRACTION_BUDGET: "Peg asset still burnable for bonds this epoch, whole peg units",
	}
	for name, help := range gaugeHelp {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "seigniorage",
			Subsystem: "treasury",
			Name:      name,
			Help:      help,
		})
		prometheus.MustRegister(gauge)
		gauges[name] = gauge
	}
}

func GetCounter(name string) prometheus.Counter {
	return counters[name]
}

func inc(name string) {
	if counters == nil {
		return
	}
	counters[name].Inc()
}

func set(name string, value float64) {
	if gauges == nil {
		return
	}
	gauges[name].Set(value)
}

func IncErrorCount() {
	inc(METRIC_ERROR_COUNT)
}

func IncEpochClosed() {
	inc(METRIC_EPOCHS_CLOSED)
}

func IncBondPurchase() {
	inc(METRIC_BOND_PURCHASES)
}

func IncBondRedemption() {
	inc(METRIC_BOND_REDEMPTIONS)
}

func SetEpochIndex(index uint32) {
	set(METRIC_EPOCH_INDEX, float64(index))
}

// SetPegPrice exports price as a ratio over the peg target, so 1.0 is par.
func SetPegPrice(price, priceOne *big.Int) {
	if price == nil || priceOne == nil || priceOne.Sign() == 0 {
		return
	}
	ratio, _ := new(big.Float).Quo(new(big.Float).SetInt(price), new(big.Float).SetInt(priceOne)).Float64()
	set(METRIC_PEG_PRICE, ratio)
}

func SetReserve(amount *big.Int) {
	set(METRIC_RESERVE, wholeUnits(amount))
}

func SetContractionBudget(amount *big.Int) {
	set(METRIC_CONTRACTION_BUDGET, wholeUnits(amount))
}

func wholeUnits(amount *big.Int) float64 {
	if amount == nil {
		return 0
	}
	value, _ := new(big.Float).Quo(new(big.Float).SetInt(amount), wad).Float64()
	return value
}
