package commands

import (
	"github.com/spf13/cobra"
)

// Version is reported by the version command
const Version = "1.0.0"

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "seasonality",
	Short: "Weekly seasonality feature tables for time-series models",
	Long: `Seasonality builds weekly feature tables for forecasting models.

Every row is one week. Columns are bank-holiday counts ("<name> BH"),
53 ISO-week dummies and 12 month dummies.

Usage:
  go run ./cmd/seasonality [command]

Examples:
  go run ./cmd/seasonality build --country AR --start 01/01/2024 --end 31/12/2024 --day MON
  go run ./cmd/seasonality countries
  go run ./cmd/seasonality anchor --day MON --date 03/01/2024
  go run ./cmd/seasonality api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
