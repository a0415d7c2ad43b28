package directory

import (
	"context"
	"time"

	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/pkg/metrics"
)

// Instrumented records directory call latency
type Instrumented struct {
	next    contracts.HolidayDirectory
	metrics *metrics.Metrics
}

var _ contracts.HolidayDirectory = (*Instrumented)(nil)

// NewInstrumented wraps next; a nil m records nothing
func NewInstrumented(next contracts.HolidayDirectory, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

// ListCountries implements contracts.HolidayDirectory
func (d *Instrumented) ListCountries(ctx context.Context) ([]contracts.Country, error) {
	defer d.metrics.ObserveDirectory("list_countries", time.Now())
	return d.next.ListCountries(ctx)
}

// ListHolidays implements contracts.HolidayDirectory
func (d *Instrumented) ListHolidays(ctx context.Context, year int, countryCode string) ([]contracts.HolidayRecord, error) {
	defer d.metrics.ObserveDirectory("list_holidays", time.Now())
	return d.next.ListHolidays(ctx, year, countryCode)
}
