package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/internal/dummies"
	"github.com/wonny/seasonality/pkg/logger"
	"github.com/wonny/seasonality/pkg/metrics"
)

type stubDirectory struct {
	records map[int][]contracts.HolidayRecord
	err     error
}

func (s *stubDirectory) ListCountries(ctx context.Context) ([]contracts.Country, error) {
	return []contracts.Country{{Code: "AR", Name: "Argentina"}}, nil
}

func (s *stubDirectory) ListHolidays(ctx context.Context, year int, code string) ([]contracts.HolidayRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records[year], nil
}

func argentina2024() *stubDirectory {
	return &stubDirectory{records: map[int][]contracts.HolidayRecord{
		2024: {
			{Name: "New Year's Day", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Types: []string{"Public"}},
			{Name: "Independence Day", Date: time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC), Types: []string{"Public"}},
		},
	}}
}

func TestRequest_Validate(t *testing.T) {
	valid := Request{Country: "AR", Start: "01/01/2024", End: "31/12/2024", WeekStart: "MON"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		edit  func(r *Request)
		field string
	}{
		{"missing country", func(r *Request) { r.Country = "" }, "country"},
		{"three letter country", func(r *Request) { r.Country = "ARG" }, "country"},
		{"numeric country", func(r *Request) { r.Country = "A1" }, "country"},
		{"iso start date", func(r *Request) { r.Start = "2024-01-01" }, "start"},
		{"bad end date", func(r *Request) { r.End = "31/02/2024" }, "end"},
		{"bad weekday", func(r *Request) { r.WeekStart = "MONDAY" }, "week_start"},
		{"bad frequency", func(r *Request) { r.Frequency = "daily" }, "frequency"},
		{"bad join", func(r *Request) { r.Join = "left" }, "join"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.edit(&r)

			var verr contracts.ValidationError
			require.ErrorAs(t, r.Validate(), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestRequest_Options(t *testing.T) {
	opts, err := Request{
		Country:     "gb",
		Start:       "01/01/2024",
		End:         "31/03/2024",
		WeekStart:   "sun",
		Subdivision: " England ",
		WeekEnding:  true,
		Frequency:   "monthly",
		Join:        "outer",
	}.Options()
	require.NoError(t, err)

	assert.Equal(t, "GB", opts.Country)
	assert.Equal(t, "England", opts.Subdivision)
	assert.Equal(t, time.Sunday, opts.Range.WeekStart)
	assert.Equal(t, contracts.WeekEnding, opts.Period.Label)
	assert.Equal(t, contracts.FrequencyMonthly, opts.Period.Frequency)
	assert.Equal(t, contracts.JoinOuter, opts.Join)
}

func TestRequest_OptionsInvalidRange(t *testing.T) {
	_, err := Request{Country: "AR", Start: "02/01/2024", End: "01/01/2024", WeekStart: "MON"}.Options()
	assert.ErrorIs(t, err, contracts.ErrInvalidRange)
}

func TestBuild_Argentina2024(t *testing.T) {
	m := metrics.New()
	b, err := NewBuilder(argentina2024(), m, logger.Nop())
	require.NoError(t, err)

	ft, err := b.BuildRequest(context.Background(), Request{
		Country: "AR", Start: "01/01/2024", End: "31/12/2024", WeekStart: "MON",
	})
	require.NoError(t, err)

	table := ft.Table
	require.Equal(t, 53, table.Len())
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), table.Date(0))

	cols := table.Columns()
	require.Len(t, cols, 2+53+12)
	assert.Equal(t, []string{"New Year's Day BH", "Independence Day BH"}, cols[:2])
	assert.Equal(t, dummies.WeekColumns(), cols[2:55])
	assert.Equal(t, dummies.MonthColumns(), cols[55:])

	newYear, _ := table.Column("New Year's Day BH")
	assert.Equal(t, 1, newYear[0])
	assert.Equal(t, 1, table.Sum("New Year's Day BH"))

	assert.Equal(t, "Argentina", ft.Meta.Country.Name)
	assert.NotEmpty(t, ft.Meta.RunID)
	assert.Equal(t, contracts.JoinInner, ft.Meta.Join)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BuildsTotal.WithLabelValues("AR", "success")))
}

func TestBuild_DirectoryFailureReturnsNoTable(t *testing.T) {
	m := metrics.New()
	dir := argentina2024()
	dir.err = fmt.Errorf("%w: status 500", contracts.ErrNetwork)

	b, err := NewBuilder(dir, m, logger.Nop())
	require.NoError(t, err)

	ft, err := b.BuildRequest(context.Background(), Request{
		Country: "AR", Start: "01/01/2024", End: "31/12/2024", WeekStart: "MON",
	})
	assert.Nil(t, ft)
	assert.True(t, errors.Is(err, contracts.ErrNetwork), "got %v", err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BuildsTotal.WithLabelValues("AR", "error")))
}

func TestBuild_UnknownCountry(t *testing.T) {
	b, err := NewBuilder(argentina2024(), nil, logger.Nop())
	require.NoError(t, err)

	_, err = b.BuildRequest(context.Background(), Request{
		Country: "ZZ", Start: "01/01/2024", End: "31/01/2024", WeekStart: "MON",
	})
	assert.ErrorIs(t, err, contracts.ErrUnknownCountry)
}

func TestBuild_WeekEnding(t *testing.T) {
	b, err := NewBuilder(argentina2024(), nil, logger.Nop())
	require.NoError(t, err)

	ft, err := b.BuildRequest(context.Background(), Request{
		Country: "AR", Start: "01/01/2024", End: "28/01/2024", WeekStart: "SUN", WeekEnding: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC),
	}, ft.Table.Dates())
	assert.Equal(t, 1, ft.Table.Value(0, "New Year's Day BH"))
	assert.Equal(t, 1, ft.Table.Value(0, "Dummy Week 1"))
	assert.Equal(t, 1, ft.Table.Value(0, "Dummy January"))
}

func TestCountries(t *testing.T) {
	b, err := NewBuilder(argentina2024(), nil, logger.Nop())
	require.NoError(t, err)

	countries, err := b.Countries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []contracts.Country{{Code: "AR", Name: "Argentina"}}, countries)
}
