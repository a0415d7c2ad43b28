package contracts

import (
	"context"
	"sort"
	"time"
)

// HolidayTypePublic is the directory type that marks a bank holiday
const HolidayTypePublic = "Public"

// HolidayColumnSuffix is appended to a holiday name to form its column
const HolidayColumnSuffix = " BH"

// Country is one entry of the directory's country listing
type Country struct {
	Code string `json:"countryCode"`
	Name string `json:"name"`
}

// HolidayScope classifies a record by applicability
type HolidayScope int

const (
	ScopeNonPublic HolidayScope = iota
	ScopeNationalPublic
	ScopeRegionalPublic
)

// String returns the scope name
func (s HolidayScope) String() string {
	switch s {
	case ScopeNationalPublic:
		return "national_public"
	case ScopeRegionalPublic:
		return "regional_public"
	default:
		return "non_public"
	}
}

// HolidayRecord is a single holiday as reported by the directory
// Subdivisions is nil when the holiday is not restricted to any subdivision.
type HolidayRecord struct {
	Name         string    `json:"name"`
	LocalName    string    `json:"localName"`
	Date         time.Time `json:"date"`
	CountryCode  string    `json:"countryCode"`
	Types        []string  `json:"types"`
	Subdivisions []string  `json:"subdivisions"`
}

// IsPublic reports whether the record's primary type is Public
func (r HolidayRecord) IsPublic() bool {
	return len(r.Types) > 0 && r.Types[0] == HolidayTypePublic
}

// Scope derives the applicability of the record
func (r HolidayRecord) Scope() HolidayScope {
	switch {
	case !r.IsPublic():
		return ScopeNonPublic
	case r.Subdivisions == nil:
		return ScopeNationalPublic
	default:
		return ScopeRegionalPublic
	}
}

// HolidayDirectory is the external source of holiday records
// ⭐ SSOT: the pipeline only talks to holiday sources through this interface
type HolidayDirectory interface {
	ListCountries(ctx context.Context) ([]Country, error)
	ListHolidays(ctx context.Context, year int, countryCode string) ([]HolidayRecord, error)
}

// HolidayName identifies a holiday across years
type HolidayName string

// Column returns the feature-table column name for the holiday
func (n HolidayName) Column() string {
	return string(n) + HolidayColumnSuffix
}

// HolidaySet maps holiday names to their dates, preserving first-seen order
type HolidaySet struct {
	order []HolidayName
	dates map[HolidayName]map[time.Time]struct{}
}

// NewHolidaySet creates an empty set
func NewHolidaySet() *HolidaySet {
	return &HolidaySet{dates: make(map[HolidayName]map[time.Time]struct{})}
}

// Add records date under name; repeated dates are kept once
func (s *HolidaySet) Add(name HolidayName, date time.Time) {
	days, ok := s.dates[name]
	if !ok {
		days = make(map[time.Time]struct{})
		s.dates[name] = days
		s.order = append(s.order, name)
	}
	days[TruncateDay(date)] = struct{}{}
}

// Names returns holiday names in first-seen order
func (s *HolidaySet) Names() []HolidayName {
	out := make([]HolidayName, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of distinct holiday names
func (s *HolidaySet) Len() int {
	return len(s.order)
}

// Contains reports whether name falls on date
func (s *HolidaySet) Contains(name HolidayName, date time.Time) bool {
	_, ok := s.dates[name][TruncateDay(date)]
	return ok
}

// Dates returns the ascending dates of name
func (s *HolidaySet) Dates(name HolidayName) []time.Time {
	days := s.dates[name]
	out := make([]time.Time, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
