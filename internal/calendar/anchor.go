package calendar

import (
	"time"

	"github.com/wonny/seasonality/internal/contracts"
)

// Offset returns how many days date lies after the most recent weekStart (0-6)
func Offset(date time.Time, weekStart time.Weekday) int {
	return (int(date.Weekday()) - int(weekStart) + 7) % 7
}

// AnchorWeek returns the first day of the weekStart-anchored week containing date.
// A date already on weekStart is returned unchanged.
func AnchorWeek(date time.Time, weekStart time.Weekday) time.Time {
	d := contracts.TruncateDay(date)
	return d.AddDate(0, 0, -Offset(d, weekStart))
}

// EndOfWeek returns the first date on or after date that falls on lastDay
func EndOfWeek(date time.Time, lastDay time.Weekday) time.Time {
	d := contracts.TruncateDay(date)
	return d.AddDate(0, 0, (int(lastDay)-int(d.Weekday())+7)%7)
}

// ConvertDate anchors a DD/MM/YYYY date to the week starting on day (MON..SUN)
// and returns the anchored date in the same layout.
func ConvertDate(day, date string) (string, error) {
	weekStart, err := contracts.ParseWeekday(day)
	if err != nil {
		return "", err
	}

	d, err := contracts.ParseDate(date)
	if err != nil {
		return "", err
	}

	return contracts.FormatDate(AnchorWeek(d, weekStart)), nil
}
