// Package directory wraps a holiday directory with a response cache.
package directory

import (
	"context"
	"time"

	"github.com/wonny/seasonality/internal/contracts"
	"github.com/wonny/seasonality/pkg/logger"
	"github.com/wonny/seasonality/pkg/redis"
)

// Cache is the subset of *redis.Cache the decorator needs
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Cached serves directory responses from Cache before asking the wrapped directory.
// Cache failures are logged and never fail a lookup; directory errors are never cached.
type Cached struct {
	next   contracts.HolidayDirectory
	cache  Cache
	ttl    time.Duration
	logger *logger.Logger
}

var _ contracts.HolidayDirectory = (*Cached)(nil)

// NewCached wraps next with cache
func NewCached(next contracts.HolidayDirectory, cache Cache, ttl time.Duration, log *logger.Logger) *Cached {
	if ttl <= 0 {
		ttl = redis.TTLDaily
	}
	return &Cached{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

// ListCountries implements contracts.HolidayDirectory
func (c *Cached) ListCountries(ctx context.Context) ([]contracts.Country, error) {
	key := redis.CountriesKey()

	var countries []contracts.Country
	if c.lookup(ctx, key, &countries) {
		return countries, nil
	}

	countries, err := c.next.ListCountries(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, countries)
	return countries, nil
}

// ListHolidays implements contracts.HolidayDirectory
func (c *Cached) ListHolidays(ctx context.Context, year int, countryCode string) ([]contracts.HolidayRecord, error) {
	key := redis.HolidaysKey(countryCode, year)

	var records []contracts.HolidayRecord
	if c.lookup(ctx, key, &records) {
		return records, nil
	}

	records, err := c.next.ListHolidays(ctx, year, countryCode)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, records)
	return records, nil
}

func (c *Cached) lookup(ctx context.Context, key string, dest interface{}) bool {
	found, err := c.cache.Get(ctx, key, dest)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
		return false
	}
	if found {
		c.logger.WithField("key", key).Debug("Cache hit")
	}
	return found
}

func (c *Cached) store(ctx context.Context, key string, value interface{}) {
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}
