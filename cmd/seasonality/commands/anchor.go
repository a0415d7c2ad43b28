package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/seasonality/internal/calendar"
)

// anchorCmd prints the start of the week containing a date
var anchorCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Print the first day of the week containing a date",
	Long: `Print the first day of the week containing --date, for weeks
starting on --day.

Example:
  go run ./cmd/seasonality anchor --day MON --date 03/01/2024   # 01/01/2024`,
	RunE: runAnchor,
}

var (
	anchorDay  string
	anchorDate string
)

func init() {
	rootCmd.AddCommand(anchorCmd)

	anchorCmd.Flags().StringVar(&anchorDay, "day", "MON", "week start day (MON..SUN)")
	anchorCmd.Flags().StringVar(&anchorDate, "date", "", "date, DD/MM/YYYY")
	_ = anchorCmd.MarkFlagRequired("date")
}

func runAnchor(cmd *cobra.Command, args []string) error {
	anchored, err := calendar.ConvertDate(anchorDay, anchorDate)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), anchored)
	return nil
}
