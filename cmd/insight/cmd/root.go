package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configFile string
	dbURL      string
)

var rootCmd = &cobra.Command{
	Use:   "insight",
	Short: "insight survey definition tooling",
	Long:  `insight validates survey definitions, evaluates display logic against answer snapshots, and manages the definition store.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
}

func Execute() error {
	return rootCmd.Execute()
}
