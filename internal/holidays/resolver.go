// Package holidays resolves the bank holidays of a country (or one of its
// subdivisions) into per-holiday indicator columns.
package holidays

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/seasonality/internal/calendar"
	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/internal/resample"
	"github.com/wonny/seasonality/pkg/logger"
)

// Resolution is the outcome of resolving one country over a set of years
type Resolution struct {
	Country     contracts.Country
	Subdivision string
	Holidays    *contracts.HolidaySet
}

// Resolver queries a holiday directory and filters its records
type Resolver struct {
	dir     contracts.HolidayDirectory
	aliases *AliasTable
	log     *logger.Logger
}

// NewResolver creates a Resolver using the embedded alias table
func NewResolver(dir contracts.HolidayDirectory, log *logger.Logger) (*Resolver, error) {
	aliases, err := DefaultAliases()
	if err != nil {
		return nil, err
	}
	return NewResolverWithAliases(dir, aliases, log), nil
}

// NewResolverWithAliases creates a Resolver with an explicit alias table
func NewResolverWithAliases(dir contracts.HolidayDirectory, aliases *AliasTable, log *logger.Logger) *Resolver {
	return &Resolver{
		dir:     dir,
		aliases: aliases,
		log:     log,
	}
}

// Countries returns the directory's country listing
func (r *Resolver) Countries(ctx context.Context) ([]contracts.Country, error) {
	countries, err := r.dir.ListCountries(ctx)
	if err != nil {
		r.log.WithError(err).Error("Failed to list countries")
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return countries, nil
}

// LookupCountry finds code in the directory's country listing
func (r *Resolver) LookupCountry(ctx context.Context, code string) (contracts.Country, error) {
	countries, err := r.Countries(ctx)
	if err != nil {
		return contracts.Country{}, err
	}

	for _, c := range countries {
		if strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}

	err = fmt.Errorf("%w: %q", contracts.ErrUnknownCountry, code)
	r.log.WithError(err).Error("Country not in directory listing")
	return contracts.Country{}, err
}

// Resolve fetches every year in ascending order and merges the admitted
// holidays by name. The first failing year aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, code, subdivision string, years []int) (*Resolution, error) {
	country, err := r.LookupCountry(ctx, code)
	if err != nil {
		return nil, err
	}

	log := r.log.WithFields(map[string]interface{}{
		"country":     country.Code,
		"subdivision": subdivision,
	})

	set := contracts.NewHolidaySet()
	for _, year := range years {
		records, err := r.dir.ListHolidays(ctx, year, country.Code)
		if err != nil {
			log.WithError(err).WithField("year", year).Error("Failed to fetch holidays")
			return nil, fmt.Errorf("fetch holidays %s/%d: %w", country.Code, year, err)
		}

		admitted, err := Filter(records, country.Name, subdivision)
		if err != nil {
			log.WithError(err).WithField("year", year).Error("Rejected holiday data")
			return nil, err
		}

		for _, rec := range admitted {
			set.Add(contracts.HolidayName(rec.Name), rec.Date)
		}

		log.WithFields(map[string]interface{}{
			"year":     year,
			"received": len(records),
			"admitted": len(admitted),
		}).Debug("Holidays fetched")
	}

	log.WithField("holidays", set.Len()).Info("Holidays resolved")

	return &Resolution{
		Country:     country,
		Subdivision: subdivision,
		Holidays:    set,
	}, nil
}

// Table resolves the holidays of r's years and returns them as resampled,
// alias-normalized "<name> BH" columns. Sums are kept as counts.
func (r *Resolver) Table(ctx context.Context, code, subdivision string, dr contracts.DateRange, spec contracts.PeriodSpec) (*contracts.Table, *Resolution, error) {
	dates, err := calendar.Dates(dr)
	if err != nil {
		return nil, nil, err
	}

	res, err := r.Resolve(ctx, code, subdivision, calendar.Years(dr))
	if err != nil {
		return nil, nil, err
	}

	daily, err := DailyIndicators(res.Holidays, dates)
	if err != nil {
		return nil, nil, err
	}

	table, err := resample.Sum(daily, spec)
	if err != nil {
		return nil, nil, err
	}

	if err := r.aliases.Apply(table, res.Country.Code, subdivision != ""); err != nil {
		r.log.WithError(err).Error("Failed to normalize holiday columns")
		return nil, nil, err
	}

	return table, res, nil
}
