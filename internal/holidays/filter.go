package holidays

import (
	"fmt"
	"strings"

	"github.com/wonny/seasonality/internal/contracts"
)

// SubdivisionLabel is how the directory names a subdivision of a country
func SubdivisionLabel(countryName, subdivision string) string {
	return fmt.Sprintf("%s - %s", countryName, subdivision)
}

// Validate rejects records the resolver cannot interpret
func Validate(rec contracts.HolidayRecord) error {
	switch {
	case len(rec.Types) == 0:
		return fmt.Errorf("%w: holiday %q on %s has no types", contracts.ErrDataShape, rec.Name, rec.Date.Format(contracts.ISODateLayout))
	case strings.TrimSpace(rec.Name) == "":
		return fmt.Errorf("%w: holiday on %s has no name", contracts.ErrDataShape, rec.Date.Format(contracts.ISODateLayout))
	case rec.Date.IsZero():
		return fmt.Errorf("%w: holiday %q has no date", contracts.ErrDataShape, rec.Name)
	}
	return nil
}

// Admit decides whether a record contributes to the run.
// Without a subdivision only national public holidays are kept. With one,
// national public holidays plus those listing the subdivision are kept.
func Admit(rec contracts.HolidayRecord, countryName, subdivision string) bool {
	switch rec.Scope() {
	case contracts.ScopeNationalPublic:
		return true
	case contracts.ScopeRegionalPublic:
		if subdivision == "" {
			return false
		}
		label := SubdivisionLabel(countryName, subdivision)
		for _, s := range rec.Subdivisions {
			if strings.EqualFold(s, label) || strings.EqualFold(s, subdivision) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Filter validates records and keeps the admitted ones, preserving order
func Filter(records []contracts.HolidayRecord, countryName, subdivision string) ([]contracts.HolidayRecord, error) {
	out := make([]contracts.HolidayRecord, 0, len(records))
	for _, rec := range records {
		if err := Validate(rec); err != nil {
			return nil, err
		}
		if Admit(rec, countryName, subdivision) {
			out = append(out, rec)
		}
	}
	return out, nil
}
