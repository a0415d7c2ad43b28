package dummies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/seasonality/internal/contracts"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekly(ws time.Weekday, label contracts.WeekLabel) contracts.PeriodSpec {
	return contracts.PeriodSpec{Frequency: contracts.FrequencyWeekly, WeekStart: ws, Label: label}
}

func TestColumns(t *testing.T) {
	weeks := WeekColumns()
	require.Len(t, weeks, 53)
	assert.Equal(t, "Dummy Week 1", weeks[0])
	assert.Equal(t, "Dummy Week 53", weeks[52])

	months := MonthColumns()
	require.Len(t, months, 12)
	assert.Equal(t, "Dummy January", months[0])
	assert.Equal(t, "Dummy December", months[11])
}

func TestWeeks_MondayWeeksAreOneHot(t *testing.T) {
	// ISO weeks start on Monday, so every full Monday bucket sits in one ISO week
	r := contracts.DateRange{Start: date(2020, 1, 1), End: date(2021, 1, 31)}

	table, err := Weeks(r, weekly(time.Monday, contracts.WeekBeginning))
	require.NoError(t, err)
	assert.Equal(t, WeekColumns(), table.Columns())

	for i := 0; i < table.Len(); i++ {
		start := table.Date(i)
		if start.Before(r.Start) || start.AddDate(0, 0, 6).After(r.End) {
			continue
		}
		ones := 0
		for _, v := range table.Row(i) {
			ones += v
		}
		assert.Equal(t, 1, ones, "week of %s", contracts.FormatDate(start))

		_, iso := start.ISOWeek()
		assert.Equal(t, 1, table.Value(i, WeekColumn(iso)))
	}

	// 2020 has 53 ISO weeks; week of 28/12/2020 is week 53
	i, ok := table.IndexOf(date(2020, 12, 28))
	require.True(t, ok)
	assert.Equal(t, 1, table.Value(i, "Dummy Week 53"))
}

func TestWeeks_FullWeeksAreOneHot(t *testing.T) {
	// a full 7-day bucket holds one Thursday, and its ISO week covers at least 4 days
	r := contracts.DateRange{Start: date(2020, 1, 1), End: date(2021, 1, 31)}

	tests := []struct {
		name  string
		day   time.Weekday
		label contracts.WeekLabel
	}{
		{"monday beginning", time.Monday, contracts.WeekBeginning},
		{"sunday beginning", time.Sunday, contracts.WeekBeginning},
		{"sunday ending", time.Sunday, contracts.WeekEnding},
		{"wednesday ending", time.Wednesday, contracts.WeekEnding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Weeks(r, weekly(tt.day, tt.label))
			require.NoError(t, err)

			full := 0
			for i := 0; i < table.Len(); i++ {
				first := table.Date(i)
				if tt.label == contracts.WeekEnding {
					first = first.AddDate(0, 0, -6)
				}
				if first.Before(r.Start) || first.AddDate(0, 0, 6).After(r.End) {
					continue
				}
				full++

				ones := 0
				for _, v := range table.Row(i) {
					ones += v
				}
				assert.Equal(t, 1, ones, "bucket %s", contracts.FormatDate(table.Date(i)))

				thursday := first.AddDate(0, 0, (int(time.Thursday)-int(first.Weekday())+7)%7)
				_, iso := thursday.ISOWeek()
				assert.Equal(t, 1, table.Value(i, WeekColumn(iso)), "bucket %s", contracts.FormatDate(table.Date(i)))
			}
			assert.GreaterOrEqual(t, full, 55)
		})
	}
}

func TestWeeks_MajorityVote(t *testing.T) {
	// Thursday-start weeks straddle ISO weeks 4 days / 3 days
	r := contracts.DateRange{Start: date(2024, 1, 4), End: date(2024, 1, 17)}

	table, err := Weeks(r, weekly(time.Thursday, contracts.WeekBeginning))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	// Thu 04 .. Wed 10: Thu-Sun in ISO week 1 (4 days), Mon-Wed in week 2 (3 days)
	assert.Equal(t, 1, table.Value(0, "Dummy Week 1"))
	assert.Equal(t, 0, table.Value(0, "Dummy Week 2"))
	assert.Equal(t, 1, table.Value(1, "Dummy Week 2"))
}

func TestWeeks_PartialEdgeWeek(t *testing.T) {
	// Only Fri..Sun of the first bucket is inside the range: 3 days, below the vote
	r := contracts.DateRange{Start: date(2024, 1, 5), End: date(2024, 1, 14)}

	table, err := Weeks(r, weekly(time.Monday, contracts.WeekBeginning))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	assert.Equal(t, date(2024, 1, 1), table.Date(0))
	for _, v := range table.Row(0) {
		assert.Equal(t, 0, v)
	}
	assert.Equal(t, 1, table.Value(1, "Dummy Week 2"))
}

func TestMonths(t *testing.T) {
	r := contracts.DateRange{Start: date(2024, 1, 29), End: date(2024, 2, 18)}

	table, err := Months(r, weekly(time.Monday, contracts.WeekBeginning))
	require.NoError(t, err)
	assert.Equal(t, MonthColumns(), table.Columns())
	require.Equal(t, 3, table.Len())

	// Mon 29/01 .. Sun 04/02: 3 January days, 4 February days
	assert.Equal(t, 0, table.Value(0, "Dummy January"))
	assert.Equal(t, 1, table.Value(0, "Dummy February"))
	assert.Equal(t, 1, table.Value(1, "Dummy February"))
	assert.Equal(t, 1, table.Value(2, "Dummy February"))
}

func TestMonths_WeekEnding(t *testing.T) {
	r := contracts.DateRange{Start: date(2024, 3, 1), End: date(2024, 3, 31)}

	table, err := Months(r, weekly(time.Sunday, contracts.WeekEnding))
	require.NoError(t, err)

	// Fri 01/03 .. Sun 03/03 is a 3-day partial bucket ending 03/03
	assert.Equal(t, date(2024, 3, 3), table.Date(0))
	assert.Equal(t, 0, table.Value(0, "Dummy March"))
	assert.Equal(t, date(2024, 3, 31), table.Date(table.Len()-1))
	assert.Equal(t, 1, table.Value(table.Len()-1, "Dummy March"))
}

func TestMonths_MonthlyFrequency(t *testing.T) {
	r := contracts.DateRange{Start: date(2024, 1, 1), End: date(2024, 4, 2)}

	table, err := Months(r, contracts.PeriodSpec{Frequency: contracts.FrequencyMonthly, Label: contracts.WeekEnding})
	require.NoError(t, err)
	require.Equal(t, 4, table.Len())

	assert.Equal(t, 1, table.Value(0, "Dummy January"))
	assert.Equal(t, 1, table.Value(2, "Dummy March"))
	// April only has 2 days in range
	assert.Equal(t, 0, table.Value(3, "Dummy April"))
}

func TestWeeks_InvalidRange(t *testing.T) {
	_, err := Weeks(contracts.DateRange{Start: date(2024, 2, 1), End: date(2024, 1, 1)}, weekly(time.Monday, contracts.WeekBeginning))
	assert.ErrorIs(t, err, contracts.ErrInvalidRange)
}
