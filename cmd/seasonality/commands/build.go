package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/seasonality/internal/export"
	"github.com/wonny/seasonality/internal/pipeline"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a feature table and write Seasonality.csv",
	Long: `Build the weekly feature table of one country and write it to the
output directory.

Steps:
- fetch the bank holidays of every calendar year in the range
- count holidays per week ("<name> BH" columns)
- add 53 ISO-week and 12 month dummies
- join the three tables on the week date

Example:
  go run ./cmd/seasonality build --country AR --start 01/01/2024 --end 31/12/2024 --day MON
  go run ./cmd/seasonality build --country GB --subdivision England --start 01/01/2022 --end 31/12/2023 --day SUN --week-ending
  go run ./cmd/seasonality build --country US --start 01/01/2024 --end 31/12/2024 --day MON --format xlsx --out ./out`,
	RunE: runBuild,
}

var (
	buildReq    pipeline.Request
	buildFormat string
	buildOut    string
	buildStore  bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	f := buildCmd.Flags()
	f.StringVar(&buildReq.Country, "country", "", "two-letter country code")
	f.StringVar(&buildReq.Start, "start", "", "first day, DD/MM/YYYY")
	f.StringVar(&buildReq.End, "end", "", "last day, DD/MM/YYYY")
	f.StringVar(&buildReq.WeekStart, "day", "MON", "week start day (MON..SUN)")
	f.StringVar(&buildReq.Subdivision, "subdivision", "", "subdivision name, e.g. England")
	f.BoolVar(&buildReq.WeekEnding, "week-ending", false, "label weeks by their last day")
	f.StringVar(&buildReq.Frequency, "frequency", "weekly", "bucket frequency (weekly|monthly)")
	f.StringVar(&buildReq.Join, "join", "inner", "join policy (inner|outer)")
	f.StringVar(&buildFormat, "format", "csv", "output format (csv|xlsx)")
	f.StringVar(&buildOut, "out", "", "output directory (default OUTPUT_DIR)")
	f.BoolVar(&buildStore, "store", false, "also persist the table in Postgres")

	_ = buildCmd.MarkFlagRequired("country")
	_ = buildCmd.MarkFlagRequired("start")
	_ = buildCmd.MarkFlagRequired("end")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	format, err := export.ParseFormat(buildFormat)
	if err != nil {
		return err
	}

	mode := storeNone
	if buildStore {
		mode = storeRequired
	}

	a, err := newApp(ctx, mode)
	if err != nil {
		return err
	}
	defer a.Close()

	started := time.Now()

	ft, err := a.builder.BuildRequest(ctx, buildReq)
	if err != nil {
		return fmt.Errorf("build feature table: %w", err)
	}

	PrintRunHeader(out, ft.Meta)

	dir := buildOut
	if dir == "" {
		dir = a.cfg.OutputDir
	}
	path, err := export.WriteFile(dir, format, ft)
	if err != nil {
		return err
	}

	PrintKeyValue(out, "Rows", fmt.Sprintf("%d", ft.Table.Len()), 11)
	PrintKeyValue(out, "Columns", fmt.Sprintf("%d", len(ft.Header())), 11)
	PrintKeyValue(out, "File", path, 11)

	if a.repo != nil {
		if err := a.repo.Save(ctx, ft); err != nil {
			return err
		}
		PrintKeyValue(out, "Stored", ft.Meta.RunID, 11)
	}

	fmt.Fprintln(out)
	PrintSuccess(out, fmt.Sprintf("Completed in %.2fs", time.Since(started).Seconds()))
	return nil
}
