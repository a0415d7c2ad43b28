package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// countriesCmd lists the country codes the holiday directory knows
var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List available country codes",
	RunE:  runCountries,
}

func init() {
	rootCmd.AddCommand(countriesCmd)
}

func runCountries(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), storeNone)
	if err != nil {
		return err
	}
	defer a.Close()

	countries, err := a.builder.Countries(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	widths := []int{4, 40}
	PrintTableHeader(out, []string{"Code", "Name"}, widths)
	for _, c := range countries {
		PrintTableRow(out, []string{c.Code, c.Name}, widths)
	}
	fmt.Fprintln(out)
	PrintInfo(out, fmt.Sprintf("%d countries", len(countries)))
	return nil
}
