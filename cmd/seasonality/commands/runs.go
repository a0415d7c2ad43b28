package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/internal/export"
)

// runsCmd manages feature tables stored with --store
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored feature tables",
	Long: `List, export and delete feature tables persisted with --store.
Requires DATABASE_URL.

Example:
  go run ./cmd/seasonality runs list
  go run ./cmd/seasonality runs export <run_id> --format xlsx
  go run ./cmd/seasonality runs delete <run_id>`,
}

var (
	runsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the most recent runs",
		RunE:  listRuns,
	}

	runsExportCmd = &cobra.Command{
		Use:   "export [run_id]",
		Short: "Write a stored run to the output directory",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	runsDeleteCmd = &cobra.Command{
		Use:   "delete [run_id]",
		Short: "Delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	runsLimit  int
	runsFormat string
	runsOut    string
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsDeleteCmd)

	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of runs")
	runsExportCmd.Flags().StringVar(&runsFormat, "format", "csv", "output format (csv|xlsx)")
	runsExportCmd.Flags().StringVar(&runsOut, "out", "", "output directory (default OUTPUT_DIR)")
}

func listRuns(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), storeRequired)
	if err != nil {
		return err
	}
	defer a.Close()

	metas, err := a.repo.List(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	widths := []int{36, 7, 12, 23, 20}
	PrintTableHeader(out, []string{"Run ID", "Country", "Subdivision", "Period", "Created"}, widths)
	for _, m := range metas {
		PrintTableRow(out, []string{
			m.RunID,
			m.Country.Code,
			m.Subdivision,
			contracts.FormatDate(m.Start) + " ~ " + contracts.FormatDate(m.End),
			m.CreatedAt.Format("2006-01-02 15:04:05"),
		}, widths)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(runsFormat)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), storeRequired)
	if err != nil {
		return err
	}
	defer a.Close()

	ft, err := a.repo.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	dir := runsOut
	if dir == "" {
		dir = a.cfg.OutputDir
	}
	path, err := export.WriteFile(dir, format, ft)
	if err != nil {
		return err
	}

	PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Run %s written to %s", ft.Meta.RunID, path))
	return nil
}

func deleteRun(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), storeRequired)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.repo.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Run %s deleted", args[0]))
	return nil
}
