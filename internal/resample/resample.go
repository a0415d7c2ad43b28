// Package resample aggregates daily indicator tables into anchored periods.
//
// Weekly buckets follow the pandas "W-<DAY>" resample convention:
//   - WeekBeginning: label=left, closed=left. Bucket [D, D+7) labelled D, D on the configured day.
//   - WeekEnding: label=right, closed=right. Bucket (D-7, D] labelled D, D on the configured day,
//     so the configured day is the last day of each week.
//
// Monthly buckets are labelled by the first (WeekBeginning) or last (WeekEnding) day of the month.
package resample

import (
	"fmt"
	"time"

	"github.com/wonny/seasonality/internal/calendar"
	"github.com/wonny/seasonality/internal/contracts"
)

// Bucketer maps dates to bucket labels
type Bucketer interface {
	// Label returns the label of the bucket containing date
	Label(date time.Time) time.Time
	// Next returns the label of the bucket following label
	Next(label time.Time) time.Time
}

// NewBucketer returns the Bucketer described by spec
func NewBucketer(spec contracts.PeriodSpec) (Bucketer, error) {
	switch spec.Frequency {
	case contracts.FrequencyWeekly, "":
		return weekly{day: spec.WeekStart, label: spec.Label}, nil
	case contracts.FrequencyMonthly:
		return monthly{label: spec.Label}, nil
	default:
		return nil, contracts.ValidationError{Field: "frequency", Message: fmt.Sprintf("unsupported frequency %q", spec.Frequency)}
	}
}

type weekly struct {
	day   time.Weekday
	label contracts.WeekLabel
}

func (w weekly) Label(date time.Time) time.Time {
	if w.label == contracts.WeekEnding {
		return calendar.EndOfWeek(date, w.day)
	}
	return calendar.AnchorWeek(date, w.day)
}

func (w weekly) Next(label time.Time) time.Time {
	return label.AddDate(0, 0, 7)
}

type monthly struct {
	label contracts.WeekLabel
}

func (m monthly) Label(date time.Time) time.Time {
	y, mo, _ := date.Date()
	first := time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC)
	if m.label == contracts.WeekEnding {
		return first.AddDate(0, 1, -1)
	}
	return first
}

func (m monthly) Next(label time.Time) time.Time {
	if m.label == contracts.WeekEnding {
		// last day of the following month
		return m.Label(label.AddDate(0, 0, 1))
	}
	return label.AddDate(0, 1, 0)
}

// Sum resamples daily into period buckets, summing every column.
// Every bucket between the first and last daily row is emitted in ascending
// order, partial edge buckets included; buckets without rows hold zeros.
func Sum(daily *contracts.Table, spec contracts.PeriodSpec) (*contracts.Table, error) {
	b, err := NewBucketer(spec)
	if err != nil {
		return nil, err
	}
	return SumWith(daily, b)
}

// SumWith resamples daily with an explicit Bucketer
func SumWith(daily *contracts.Table, b Bucketer) (*contracts.Table, error) {
	if daily.Len() == 0 {
		return contracts.NewTable(nil)
	}

	first := b.Label(daily.Date(0))
	last := b.Label(daily.Date(daily.Len() - 1))

	var labels []time.Time
	slot := make(map[time.Time]int)
	for l := first; !l.After(last); l = b.Next(l) {
		slot[l] = len(labels)
		labels = append(labels, l)
	}

	out, err := contracts.NewTable(labels)
	if err != nil {
		return nil, err
	}

	rowSlot := make([]int, daily.Len())
	for i := 0; i < daily.Len(); i++ {
		s, ok := slot[b.Label(daily.Date(i))]
		if !ok {
			return nil, fmt.Errorf("%w: %s falls outside the bucket range", contracts.ErrDataShape,
				contracts.FormatDate(daily.Date(i)))
		}
		rowSlot[i] = s
	}

	for _, name := range daily.Columns() {
		values, _ := daily.Column(name)
		sums := make([]int, len(labels))
		for i, v := range values {
			sums[rowSlot[i]] += v
		}
		if err := out.AddColumn(name, sums); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Binarize returns a copy of t where every cell above threshold becomes 1 and the rest 0
func Binarize(t *contracts.Table, threshold int) (*contracts.Table, error) {
	out, err := contracts.NewTable(t.Dates())
	if err != nil {
		return nil, err
	}

	for _, name := range t.Columns() {
		values, _ := t.Column(name)
		for i, v := range values {
			if v > threshold {
				values[i] = 1
			} else {
				values[i] = 0
			}
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}

	return out, nil
}
