// Package dummies builds binarized ISO-week and calendar-month indicator tables.
package dummies

import (
	"fmt"
	"time"

	"github.com/wonny/seasonality/internal/calendar"
	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/internal/resample"
)

// Threshold is the number of days a bucket must exceed for a dummy to be set.
// A 7-day week needs at least 4 days in the same ISO week or month.
const Threshold = 3

// ISOWeeks is the number of week dummy columns
const ISOWeeks = 53

// WeekColumn returns the dummy column name of ISO week n
func WeekColumn(n int) string {
	return fmt.Sprintf("Dummy Week %d", n)
}

// MonthColumn returns the dummy column name of month m
func MonthColumn(m time.Month) string {
	return "Dummy " + m.String()
}

// WeekColumns lists "Dummy Week 1".."Dummy Week 53"
func WeekColumns() []string {
	cols := make([]string, ISOWeeks)
	for i := range cols {
		cols[i] = WeekColumn(i + 1)
	}
	return cols
}

// MonthColumns lists "Dummy January".."Dummy December"
func MonthColumns() []string {
	cols := make([]string, 12)
	for i := range cols {
		cols[i] = MonthColumn(time.Month(i + 1))
	}
	return cols
}

// Weeks builds the week dummy table for r
func Weeks(r contracts.DateRange, spec contracts.PeriodSpec) (*contracts.Table, error) {
	return build(r, spec, WeekColumns(), func(d time.Time) int {
		_, week := d.ISOWeek()
		return week - 1
	})
}

// Months builds the month dummy table for r
func Months(r contracts.DateRange, spec contracts.PeriodSpec) (*contracts.Table, error) {
	return build(r, spec, MonthColumns(), func(d time.Time) int {
		return int(d.Month()) - 1
	})
}

// build one-hot encodes each day with slot, resamples, then binarizes
func build(r contracts.DateRange, spec contracts.PeriodSpec, columns []string, slot func(time.Time) int) (*contracts.Table, error) {
	dates, err := calendar.Dates(r)
	if err != nil {
		return nil, err
	}

	values := make([][]int, len(columns))
	for i := range values {
		values[i] = make([]int, len(dates))
	}
	for i, d := range dates {
		values[slot(d)][i] = 1
	}

	daily, err := contracts.NewTable(dates)
	if err != nil {
		return nil, err
	}
	for i, name := range columns {
		if err := daily.AddColumn(name, values[i]); err != nil {
			return nil, err
		}
	}

	summed, err := resample.Sum(daily, spec)
	if err != nil {
		return nil, err
	}

	return resample.Binarize(summed, Threshold)
}
