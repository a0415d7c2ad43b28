package contracts

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the DD/MM/YYYY layout used on input and in every export
const DateLayout = "02/01/2006"

// ISODateLayout is the layout the holiday directory uses for record dates
const ISODateLayout = "2006-01-02"

// WeekLabel selects whether a bucket is reported by its first or last date
type WeekLabel int

const (
	// WeekBeginning labels a bucket with its first day (label=left, closed=left)
	WeekBeginning WeekLabel = iota
	// WeekEnding labels a bucket with its last day (label=right, closed=right)
	WeekEnding
)

// String returns the label name
func (l WeekLabel) String() string {
	if l == WeekEnding {
		return "week_ending"
	}
	return "week_beginning"
}

// Frequency is the bucket size used by the resampler
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency converts a flag value into a Frequency
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case "", FrequencyWeekly:
		return FrequencyWeekly, nil
	case FrequencyMonthly:
		return FrequencyMonthly, nil
	default:
		return "", ValidationError{"frequency", fmt.Sprintf("unknown frequency %q (valid: weekly, monthly)", s)}
	}
}

// PeriodSpec describes how daily rows are bucketed
type PeriodSpec struct {
	Frequency Frequency
	WeekStart time.Weekday
	Label     WeekLabel
}

// DateRange is the inclusive calendar span a feature table covers
// ⭐ SSOT: every component derives its dates from this value
type DateRange struct {
	Start     time.Time
	End       time.Time
	WeekStart time.Weekday
	Label     WeekLabel
}

// NewDateRange builds a DateRange normalized to UTC midnight
func NewDateRange(start, end time.Time, weekStart time.Weekday, label WeekLabel) (DateRange, error) {
	r := DateRange{
		Start:     TruncateDay(start),
		End:       TruncateDay(end),
		WeekStart: weekStart,
		Label:     label,
	}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate checks the Start <= End invariant
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange,
			r.Start.Format(DateLayout), r.End.Format(DateLayout))
	}
	return nil
}

// Period returns the weekly period spec implied by the range
func (r DateRange) Period() PeriodSpec {
	return PeriodSpec{Frequency: FrequencyWeekly, WeekStart: r.WeekStart, Label: r.Label}
}

// TruncateDay drops the clock part of t and moves it to UTC
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a DD/MM/YYYY string into a UTC date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ValidationError{"date", fmt.Sprintf("%q is not a DD/MM/YYYY date", s)}
	}
	return t, nil
}

// FormatDate renders t as DD/MM/YYYY
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

var weekdayAbbrev = map[string]time.Weekday{
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
	"SUN": time.Sunday,
}

// ParseWeekday converts a three-letter abbreviation (MON..SUN) into a time.Weekday
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayAbbrev[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (valid: MON, TUE, WED, THU, FRI, SAT, SUN)", ErrInvalidWeekday, s)
	}
	return wd, nil
}

// WeekdayAbbrev returns the three-letter abbreviation for wd
func WeekdayAbbrev(wd time.Weekday) string {
	return strings.ToUpper(wd.String()[:3])
}
