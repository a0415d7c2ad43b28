package contracts

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the pipeline. Callers match them with errors.Is.
var (
	ErrInvalidRange   = errors.New("invalid date range")
	ErrInvalidWeekday = errors.New("invalid week start day")
	ErrNetwork        = errors.New("holiday directory request failed")
	ErrUnknownCountry = errors.New("unknown country code")
	ErrDataShape      = errors.New("unexpected holiday data shape")
)

// ValidationError reports a rejected configuration field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
