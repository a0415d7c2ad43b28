package holidays

import (
	"time"

	"github.com/wonny/seasonality/internal/contracts"
)

// DailyIndicators builds one 0/1 column per holiday over dates.
// Columns follow the set's first-seen order; holidays with no date inside
// dates still get an all-zero column.
func DailyIndicators(set *contracts.HolidaySet, dates []time.Time) (*contracts.Table, error) {
	t, err := contracts.NewTable(dates)
	if err != nil {
		return nil, err
	}

	for _, name := range set.Names() {
		col := make([]int, t.Len())
		for _, d := range set.Dates(name) {
			if i, ok := t.IndexOf(d); ok {
				col[i] = 1
			}
		}
		if err := t.AddColumn(name.Column(), col); err != nil {
			return nil, err
		}
	}

	return t, nil
}
