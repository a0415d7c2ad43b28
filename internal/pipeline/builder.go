// Package pipeline builds seasonality feature tables from a validated request.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/seasonality/internal/assembler"
	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/internal/dummies"
	"github.com/wonny/seasonality/internal/holidays"
	"github.com/wonny/seasonality/pkg/logger"
	"github.com/wonny/seasonality/pkg/metrics"
)

// Builder runs holiday resolution, dummy encoding and the final join.
// A Builder holds no per-run state and can be shared.
type Builder struct {
	resolver *holidays.Resolver
	metrics  *metrics.Metrics
	logger   *logger.Logger
	now      func() time.Time
}

// NewBuilder creates a Builder over dir; m may be nil
func NewBuilder(dir contracts.HolidayDirectory, m *metrics.Metrics, log *logger.Logger) (*Builder, error) {
	resolver, err := holidays.NewResolver(dir, log)
	if err != nil {
		return nil, err
	}
	return &Builder{
		resolver: resolver,
		metrics:  m,
		logger:   log,
		now:      time.Now,
	}, nil
}

// BuildRequest validates req and builds it
func (b *Builder) BuildRequest(ctx context.Context, req Request) (*contracts.FeatureTable, error) {
	opts, err := req.Options()
	if err != nil {
		b.logger.WithError(err).Warn("Rejected build request")
		return nil, err
	}
	return b.Build(ctx, opts)
}

// Build produces the feature table described by opts. Any stage failure
// aborts the run; no partial table is returned.
func (b *Builder) Build(ctx context.Context, opts Options) (ft *contracts.FeatureTable, err error) {
	started := b.now()
	runID := uuid.NewString()

	log := b.logger.WithFields(map[string]interface{}{
		"run_id":      runID,
		"country":     opts.Country,
		"subdivision": opts.Subdivision,
		"start":       contracts.FormatDate(opts.Range.Start),
		"end":         contracts.FormatDate(opts.Range.End),
	})

	defer func() {
		rows := 0
		if ft != nil {
			rows = ft.Table.Len()
		}
		b.metrics.ObserveBuild(opts.Country, started, rows, err)
	}()

	holidayTable, res, err := b.resolver.Table(ctx, opts.Country, opts.Subdivision, opts.Range, opts.Period)
	if err != nil {
		log.WithError(err).Error("Holiday stage failed")
		return nil, err
	}

	weeks, err := dummies.Weeks(opts.Range, opts.Period)
	if err != nil {
		log.WithError(err).Error("Week dummy stage failed")
		return nil, err
	}

	months, err := dummies.Months(opts.Range, opts.Period)
	if err != nil {
		log.WithError(err).Error("Month dummy stage failed")
		return nil, err
	}

	table, err := assembler.Join(opts.Join, holidayTable, weeks, months)
	if err != nil {
		log.WithError(err).Error("Join stage failed")
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"rows":     table.Len(),
		"holidays": res.Holidays.Len(),
		"columns":  len(table.Columns()),
	}).Info("Feature table built")

	return &contracts.FeatureTable{
		Meta: contracts.FeatureMeta{
			RunID:       runID,
			Country:     res.Country,
			Subdivision: opts.Subdivision,
			Start:       opts.Range.Start,
			End:         opts.Range.End,
			Period:      opts.Period,
			Join:        opts.Join,
			CreatedAt:   b.now().UTC(),
		},
		Table: table,
	}, nil
}

// Countries lists the directory's countries
func (b *Builder) Countries(ctx context.Context) ([]contracts.Country, error) {
	return b.resolver.Countries(ctx)
}
