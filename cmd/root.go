package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
)

// verbose 打开调试日志。
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lang-visible",
	Short: "Programming language popularity charts by quarter",
	Args:  cobra.NoArgs,
	RunE:  runChart,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")
	cobra.OnInitialize(initLogging)
}

func initLogging() {
	log.SetHandler(cli.New(os.Stderr))
	if verbose {
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetLevel(log.WarnLevel)
}
