package cmd

import (
	"os"

	"treasury/domain/config"
	"treasury/interface/exporter"

	"github.com/spf13/cobra"
)

var cfgFile string

// quit ends the scheduled tasks; the 'stop' command closes it.
var quit chan bool

var rootCmd = &cobra.Command{
	Use:   "treasury",
	Short: "Epoch-driven seigniorage policy engine",
	Long: `Runs the monetary-policy loop of a seigniorage economy: consults the
peg price oracle once per epoch, sells discounted bonds below the peg, redeems
them at a premium above the ceiling, and routes expansion seigniorage to the
reserve, the fee funds and the boardroom.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "configuration file")

	quit = make(chan bool)
}

func initConfig() {
	config.ReadConfig(cfgFile)
	exporter.Init()
}
