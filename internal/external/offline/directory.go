// Package offline serves United States federal holidays without network
// access, computed by github.com/rickar/cal.
package offline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/wonny/seasonality/internal/contracts"
)

// CountryCode is the only country the offline directory knows
const CountryCode = "US"

var federal = []*cal.Holiday{
	us.NewYear,
	us.MlkDay,
	us.PresidentsDay,
	us.MemorialDay,
	us.Juneteenth,
	us.IndependenceDay,
	us.LaborDay,
	us.ColumbusDay,
	us.VeteransDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// Directory is a contracts.HolidayDirectory backed by rule-based calendars
type Directory struct {
	holidays []*cal.Holiday
}

var _ contracts.HolidayDirectory = (*Directory)(nil)

// New returns a Directory of US federal holidays
func New() *Directory {
	return &Directory{holidays: federal}
}

// ListCountries returns the single supported country
func (d *Directory) ListCountries(ctx context.Context) ([]contracts.Country, error) {
	return []contracts.Country{{Code: CountryCode, Name: "United States"}}, nil
}

// ListHolidays returns the observed federal holidays of year.
// Holidays not yet established in year are skipped.
func (d *Directory) ListHolidays(ctx context.Context, year int, countryCode string) ([]contracts.HolidayRecord, error) {
	if !strings.EqualFold(countryCode, CountryCode) {
		return nil, fmt.Errorf("%w: %q is not available offline", contracts.ErrUnknownCountry, countryCode)
	}

	records := make([]contracts.HolidayRecord, 0, len(d.holidays))
	for _, h := range d.holidays {
		_, observed := h.Calc(year)
		if observed.IsZero() {
			continue
		}
		records = append(records, contracts.HolidayRecord{
			Name:        h.Name,
			LocalName:   h.Name,
			Date:        time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, time.UTC),
			CountryCode: CountryCode,
			Types:       []string{contracts.HolidayTypePublic},
		})
	}
	return records, nil
}
