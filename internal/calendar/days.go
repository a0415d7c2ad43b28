// Package calendar produces the daily date sequence of a range and maps dates
// onto anchored weeks.
package calendar

import (
	"iter"
	"time"

	"github.com/wonny/seasonality/internal/contracts"
)

// Days returns every calendar day from r.Start to r.End inclusive, ascending.
// The sequence is lazy and can be ranged over any number of times.
func Days(r contracts.DateRange) (iter.Seq[time.Time], error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	start := contracts.TruncateDay(r.Start)
	end := contracts.TruncateDay(r.End)

	return func(yield func(time.Time) bool) {
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}, nil
}

// Dates collects Days into a slice
func Dates(r contracts.DateRange) ([]time.Time, error) {
	seq, err := Days(r)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, DayCount(r))
	for d := range seq {
		dates = append(dates, d)
	}
	return dates, nil
}

// DayCount returns the number of days in r (0 for an invalid range)
func DayCount(r contracts.DateRange) int {
	if r.Start.After(r.End) {
		return 0
	}
	start := contracts.TruncateDay(r.Start)
	end := contracts.TruncateDay(r.End)
	return int(end.Sub(start).Hours()/24) + 1
}

// Years lists the calendar years touched by r, ascending
func Years(r contracts.DateRange) []int {
	if r.Start.After(r.End) {
		return nil
	}
	years := make([]int, 0, r.End.Year()-r.Start.Year()+1)
	for y := r.Start.Year(); y <= r.End.Year(); y++ {
		years = append(years, y)
	}
	return years
}
