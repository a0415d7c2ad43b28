package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/internal/export"
	"github.com/wonny/seasonality/internal/pipeline"
	"github.com/wonny/seasonality/pkg/logger"
)

// Saver persists a built feature table
type Saver interface {
	Save(ctx context.Context, ft *contracts.FeatureTable) error
}

// ExportConfig describes the table an ExportJob rebuilds on every run.
// The date range is recomputed at run time: 1 January of YearsBack years ago
// through 31 December of YearsAhead years ahead.
type ExportConfig struct {
	Name       string
	Schedule   string
	Request    pipeline.Request // Start and End are overwritten
	YearsBack  int
	YearsAhead int
	Format     export.Format
	OutputDir  string
}

// ExportJob rebuilds a feature table and writes it to the output directory
type ExportJob struct {
	cfg     ExportConfig
	builder *pipeline.Builder
	saver   Saver
	logger  *logger.Logger
	now     func() time.Time
}

// NewExportJob creates a new export job; saver may be nil
func NewExportJob(cfg ExportConfig, builder *pipeline.Builder, saver Saver, log *logger.Logger) *ExportJob {
	if cfg.Name == "" {
		cfg.Name = "seasonality_export"
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "0 0 3 * * *" // Every day at 03:00
	}
	if cfg.Format == "" {
		cfg.Format = export.FormatCSV
	}
	return &ExportJob{
		cfg:     cfg,
		builder: builder,
		saver:   saver,
		logger:  log,
		now:     time.Now,
	}
}

// Name returns the job name
func (j *ExportJob) Name() string {
	return j.cfg.Name
}

// Schedule returns the cron schedule
func (j *ExportJob) Schedule() string {
	return j.cfg.Schedule
}

// Request returns the build request for a run happening at now
func (j *ExportJob) Request(now time.Time) pipeline.Request {
	req := j.cfg.Request
	year := now.Year()
	req.Start = contracts.FormatDate(time.Date(year-j.cfg.YearsBack, time.January, 1, 0, 0, 0, 0, time.UTC))
	req.End = contracts.FormatDate(time.Date(year+j.cfg.YearsAhead, time.December, 31, 0, 0, 0, 0, time.UTC))
	return req
}

// Run builds the table, writes the export and optionally stores it
func (j *ExportJob) Run(ctx context.Context) error {
	req := j.Request(j.now())

	log := j.logger.WithFields(map[string]interface{}{
		"job":     j.cfg.Name,
		"country": req.Country,
		"start":   req.Start,
		"end":     req.End,
	})
	log.Debug("Starting scheduled export")

	ft, err := j.builder.BuildRequest(ctx, req)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	path, err := export.WriteFile(j.cfg.OutputDir, j.cfg.Format, ft)
	if err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	if j.saver != nil {
		if err := j.saver.Save(ctx, ft); err != nil {
			return fmt.Errorf("store run %s: %w", ft.Meta.RunID, err)
		}
	}

	log.WithFields(map[string]interface{}{
		"run_id": ft.Meta.RunID,
		"rows":   ft.Table.Len(),
		"path":   path,
		"stored": j.saver != nil,
	}).Info("Scheduled export completed")

	return nil
}
