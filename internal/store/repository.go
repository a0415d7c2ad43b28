// Package store persists feature tables in PostgreSQL.
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/seasonality/internal/contracts"
)

//go:embed schema.sql
var schema string

// ErrNotFound is returned when a run id has no stored table
var ErrNotFound = errors.New("feature table not found")

// Repository stores feature tables, one run per table
// ⭐ SSOT: feature-table persistence lives here
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Migrate creates the schema if it does not exist
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Save stores ft under ft.Meta.RunID in one transaction
func (r *Repository) Save(ctx context.Context, ft *contracts.FeatureTable) error {
	if ft.Meta.RunID == "" {
		return fmt.Errorf("save feature table: run id is required")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	m := ft.Meta
	_, err = tx.Exec(ctx, `
		INSERT INTO seasonality.runs
			(run_id, country_code, country_name, subdivision, start_date, end_date,
			 frequency, week_start, week_label, join_policy, columns, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		m.RunID, m.Country.Code, m.Country.Name, m.Subdivision, m.Start, m.End,
		string(m.Period.Frequency), int16(m.Period.WeekStart), int16(m.Period.Label),
		string(m.Join), ft.Table.Columns(), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"seasonality", "feature_rows"},
		[]string{"run_id", "bucket_date", "cells"},
		pgx.CopyFromRows(rowsOf(m.RunID, ft.Table)),
	)
	if err != nil {
		return fmt.Errorf("copy feature rows: %w", err)
	}

	return tx.Commit(ctx)
}

// Get loads the feature table stored under runID
func (r *Repository) Get(ctx context.Context, runID string) (*contracts.FeatureTable, error) {
	var (
		m         contracts.FeatureMeta
		frequency string
		weekStart int16
		label     int16
		join      string
		columns   []string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT run_id, country_code, country_name, subdivision, start_date, end_date,
		       frequency, week_start, week_label, join_policy, columns, created_at
		FROM seasonality.runs
		WHERE run_id = $1
	`, runID).Scan(
		&m.RunID, &m.Country.Code, &m.Country.Name, &m.Subdivision, &m.Start, &m.End,
		&frequency, &weekStart, &label, &join, &columns, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("select run: %w", err)
	}
	m.Period = contracts.PeriodSpec{
		Frequency: contracts.Frequency(frequency),
		WeekStart: time.Weekday(weekStart),
		Label:     contracts.WeekLabel(label),
	}
	m.Join = contracts.JoinPolicy(join)

	rows, err := r.pool.Query(ctx, `
		SELECT bucket_date, cells
		FROM seasonality.feature_rows
		WHERE run_id = $1
		ORDER BY bucket_date ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("select feature rows: %w", err)
	}
	defer rows.Close()

	var (
		dates []time.Time
		cells [][]int32
	)
	for rows.Next() {
		var d time.Time
		var c []int32
		if err := rows.Scan(&d, &c); err != nil {
			return nil, err
		}
		dates = append(dates, d)
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	table, err := tableOf(dates, columns, cells)
	if err != nil {
		return nil, err
	}
	return &contracts.FeatureTable{Meta: m, Table: table}, nil
}

// List returns the most recent runs, newest first
func (r *Repository) List(ctx context.Context, limit int) ([]contracts.FeatureMeta, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT run_id, country_code, country_name, subdivision, start_date, end_date, join_policy, created_at
		FROM seasonality.runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var metas []contracts.FeatureMeta
	for rows.Next() {
		var m contracts.FeatureMeta
		var join string
		if err := rows.Scan(&m.RunID, &m.Country.Code, &m.Country.Name, &m.Subdivision,
			&m.Start, &m.End, &join, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Join = contracts.JoinPolicy(join)
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Delete removes a run and its rows
func (r *Repository) Delete(ctx context.Context, runID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM seasonality.runs WHERE run_id = $1`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return nil
}

// rowsOf flattens t into copy rows of (run_id, bucket_date, cells)
func rowsOf(runID string, t *contracts.Table) [][]interface{} {
	out := make([][]interface{}, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		cells := make([]int32, len(row))
		for j, v := range row {
			cells[j] = int32(v)
		}
		out[i] = []interface{}{runID, t.Date(i), cells}
	}
	return out
}

// tableOf rebuilds a Table from stored rows
func tableOf(dates []time.Time, columns []string, cells [][]int32) (*contracts.Table, error) {
	t, err := contracts.NewTable(dates)
	if err != nil {
		return nil, err
	}

	for j, name := range columns {
		col := make([]int, len(dates))
		for i, row := range cells {
			if len(row) != len(columns) {
				return nil, fmt.Errorf("%w: stored row %d has %d cells for %d columns",
					contracts.ErrDataShape, i, len(row), len(columns))
			}
			col[i] = int(row[j])
		}
		if err := t.AddColumn(name, col); err != nil {
			return nil, err
		}
	}
	return t, nil
}
