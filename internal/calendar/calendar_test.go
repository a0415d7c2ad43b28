package calendar

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/seasonality/internal/contracts"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDays_InvalidRange(t *testing.T) {
	ranges := []contracts.DateRange{
		{Start: date(2024, 1, 2), End: date(2024, 1, 1)},
		{Start: date(2025, 1, 1), End: date(2024, 12, 31)},
	}

	for _, r := range ranges {
		_, err := Days(r)
		assert.True(t, errors.Is(err, contracts.ErrInvalidRange), "got %v", err)

		_, err = Dates(r)
		assert.True(t, errors.Is(err, contracts.ErrInvalidRange), "got %v", err)
	}
}

func TestDays_InclusiveAscending(t *testing.T) {
	r := contracts.DateRange{Start: date(2024, 2, 27), End: date(2024, 3, 2)}

	dates, err := Dates(r)
	require.NoError(t, err)

	// 2024 is a leap year: 27, 28, 29 Feb, 1, 2 Mar
	require.Len(t, dates, 5)
	assert.Equal(t, date(2024, 2, 29), dates[2])
	assert.Equal(t, date(2024, 3, 2), dates[4])
	assert.Equal(t, 5, DayCount(r))
}

func TestDays_Restartable(t *testing.T) {
	r := contracts.DateRange{Start: date(2024, 1, 1), End: date(2024, 1, 10)}
	seq, err := Days(r)
	require.NoError(t, err)

	first := 0
	for range seq {
		first++
	}
	second := 0
	for d := range seq {
		second++
		if d.Equal(date(2024, 1, 3)) {
			break
		}
	}

	assert.Equal(t, 10, first)
	assert.Equal(t, 3, second)
}

func TestYears(t *testing.T) {
	r := contracts.DateRange{Start: date(2022, 12, 30), End: date(2024, 1, 2)}
	assert.Equal(t, []int{2022, 2023, 2024}, Years(r))
	assert.Nil(t, Years(contracts.DateRange{Start: date(2024, 1, 2), End: date(2024, 1, 1)}))
}

func TestAnchorWeek_Idempotent(t *testing.T) {
	weekStarts := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}

	for _, ws := range weekStarts {
		t.Run(ws.String(), func(t *testing.T) {
			for d := date(2024, 1, 1); d.Before(date(2024, 3, 1)); d = d.AddDate(0, 0, 1) {
				anchored := AnchorWeek(d, ws)
				assert.Equal(t, ws, anchored.Weekday())
				assert.Equal(t, anchored, AnchorWeek(anchored, ws))

				diff := int(d.Sub(anchored).Hours() / 24)
				assert.GreaterOrEqual(t, diff, 0)
				assert.Less(t, diff, 7)
			}
		})
	}
}

func TestAnchorWeek_Examples(t *testing.T) {
	tests := []struct {
		date      time.Time
		weekStart time.Weekday
		want      time.Time
	}{
		// 2024-01-03 is a Wednesday
		{date(2024, 1, 3), time.Monday, date(2024, 1, 1)},
		{date(2024, 1, 3), time.Tuesday, date(2024, 1, 2)},
		{date(2024, 1, 3), time.Wednesday, date(2024, 1, 3)},
		{date(2024, 1, 3), time.Thursday, date(2023, 12, 28)},
		{date(2024, 1, 3), time.Sunday, date(2023, 12, 31)},
		// a Monday anchored on Tuesday goes back six days
		{date(2024, 1, 8), time.Tuesday, date(2024, 1, 2)},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.date.Format("2006-01-02"), tt.weekStart), func(t *testing.T) {
			assert.Equal(t, tt.want, AnchorWeek(tt.date, tt.weekStart))
		})
	}
}

func TestEndOfWeek(t *testing.T) {
	// Wednesday -> following Sunday; Sunday stays put
	assert.Equal(t, date(2024, 1, 7), EndOfWeek(date(2024, 1, 3), time.Sunday))
	assert.Equal(t, date(2024, 1, 7), EndOfWeek(date(2024, 1, 7), time.Sunday))
	assert.Equal(t, date(2024, 1, 8), EndOfWeek(date(2024, 1, 2), time.Monday))
}

func TestConvertDate(t *testing.T) {
	got, err := ConvertDate("MON", "03/01/2024")
	require.NoError(t, err)
	assert.Equal(t, "01/01/2024", got)

	got, err = ConvertDate("sun", "06/01/2024")
	require.NoError(t, err)
	assert.Equal(t, "31/12/2023", got)

	_, err = ConvertDate("XYZ", "03/01/2024")
	assert.ErrorIs(t, err, contracts.ErrInvalidWeekday)

	_, err = ConvertDate("MON", "2024-01-03")
	var verr contracts.ValidationError
	assert.ErrorAs(t, err, &verr)
}
