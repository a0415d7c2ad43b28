package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/seasonality/internal/export"
	"github.com/wonny/seasonality/internal/pipeline"
	"github.com/wonny/seasonality/internal/scheduler"
	"github.com/wonny/seasonality/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Rebuild a feature table on a cron schedule",
	Long: `Rebuild one country's feature table on a cron schedule and write it
to the output directory, so the holiday columns pick up directory updates.

The range runs from 1 January of --years-back years ago to 31 December
of --years-ahead years ahead, recomputed on every run.

Example:
  go run ./cmd/seasonality scheduler --country GB --subdivision England --cron "0 0 3 * * MON"
  go run ./cmd/seasonality scheduler --country US --once`,
	RunE: runScheduler,
}

var (
	schedReq        pipeline.Request
	schedCron       string
	schedYearsBack  int
	schedYearsAhead int
	schedFormat     string
	schedOut        string
	schedStore      bool
	schedOnce       bool
	schedRetries    int
)

func init() {
	rootCmd.AddCommand(schedulerCmd)

	f := schedulerCmd.Flags()
	f.StringVar(&schedReq.Country, "country", "", "two-letter country code")
	f.StringVar(&schedReq.WeekStart, "day", "MON", "week start day (MON..SUN)")
	f.StringVar(&schedReq.Subdivision, "subdivision", "", "subdivision name")
	f.BoolVar(&schedReq.WeekEnding, "week-ending", false, "label weeks by their last day")
	f.StringVar(&schedReq.Frequency, "frequency", "weekly", "bucket frequency (weekly|monthly)")
	f.StringVar(&schedReq.Join, "join", "inner", "join policy (inner|outer)")
	f.StringVar(&schedCron, "cron", "0 0 3 * * *", "cron expression with seconds")
	f.IntVar(&schedYearsBack, "years-back", 3, "full years before the current one")
	f.IntVar(&schedYearsAhead, "years-ahead", 1, "full years after the current one")
	f.StringVar(&schedFormat, "format", "csv", "output format (csv|xlsx)")
	f.StringVar(&schedOut, "out", "", "output directory (default OUTPUT_DIR)")
	f.BoolVar(&schedStore, "store", false, "also persist every table in Postgres")
	f.BoolVar(&schedOnce, "once", false, "run the job once and exit")
	f.IntVar(&schedRetries, "retries", 0, "re-runs of a failed job")

	_ = schedulerCmd.MarkFlagRequired("country")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(schedFormat)
	if err != nil {
		return err
	}

	mode := storeNone
	if schedStore {
		mode = storeRequired
	}

	a, err := newApp(cmd.Context(), mode)
	if err != nil {
		return err
	}
	defer a.Close()

	dir := schedOut
	if dir == "" {
		dir = a.cfg.OutputDir
	}

	var saver jobs.Saver
	if a.repo != nil {
		saver = a.repo
	}

	job := jobs.NewExportJob(jobs.ExportConfig{
		Schedule:   schedCron,
		Request:    schedReq,
		YearsBack:  schedYearsBack,
		YearsAhead: schedYearsAhead,
		Format:     format,
		OutputDir:  dir,
	}, a.builder, saver, a.log)

	sched := scheduler.New(a.log).WithRetry(schedRetries, time.Minute)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if schedOnce {
		res, err := sched.RunJob(job.Name())
		if err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("job %s failed: %s", res.JobName, res.Error)
		}
		PrintSuccess(out, fmt.Sprintf("Job %s completed in %.2fs", res.JobName, res.Duration.Seconds()))
		return nil
	}

	next, err := sched.Next(job.Name(), time.Now())
	if err != nil {
		return err
	}

	sched.Start()

	PrintSuccess(out, "Scheduler started")
	for _, name := range sched.GetAllJobs() {
		PrintKeyValue(out, "Job", name, 8)
	}
	PrintKeyValue(out, "Schedule", job.Schedule(), 8)
	PrintKeyValue(out, "Next run", next.Format(time.RFC3339), 8)
	PrintInfo(out, "Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return printJobSummary(out, sched)
}

// printJobSummary reports run counts and the last result of every job
func printJobSummary(out io.Writer, sched *scheduler.Scheduler) error {
	widths := []int{24, 6, 9, 20}
	PrintTableHeader(out, []string{"Job", "Runs", "Success", "Last run"}, widths)

	for _, name := range sched.GetAllJobs() {
		history, err := sched.GetJobHistory(name)
		if err != nil {
			return err
		}

		last := "-"
		if latest := history.GetLatestResults(1); len(latest) == 1 {
			status := "ok"
			if !latest[0].Success {
				status = "failed"
			}
			last = latest[0].StartTime.Format("2006-01-02 15:04:05") + " " + status
		}

		PrintTableRow(out, []string{
			name,
			fmt.Sprintf("%d", len(history.Results)),
			fmt.Sprintf("%.0f%%", history.GetSuccessRate()*100),
			last,
		}, widths)
	}
	return nil
}
