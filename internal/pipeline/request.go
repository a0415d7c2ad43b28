package pipeline

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wonny/seasonality/internal/contracts"
)

// Request is the user-facing configuration of one build
type Request struct {
	Country     string `json:"country" validate:"required,len=2,alpha"`
	Start       string `json:"start" validate:"required,ddmmyyyy"`
	End         string `json:"end" validate:"required,ddmmyyyy"`
	WeekStart   string `json:"week_start" validate:"required,weekday"`
	Subdivision string `json:"subdivision,omitempty" validate:"omitempty,max=64"`
	WeekEnding  bool   `json:"week_ending,omitempty"`
	Frequency   string `json:"frequency,omitempty" validate:"omitempty,oneof=weekly monthly"`
	Join        string `json:"join,omitempty" validate:"omitempty,oneof=inner outer"`
}

// Options is a validated Request
type Options struct {
	Country     string
	Subdivision string
	Range       contracts.DateRange
	Period      contracts.PeriodSpec
	Join        contracts.JoinPolicy
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("ddmmyyyy", func(fl validator.FieldLevel) bool {
		_, err := contracts.ParseDate(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := contracts.ParseWeekday(fl.Field().String())
		return err == nil
	})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Validate checks the struct tags and returns the first failure as a contracts.ValidationError
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return contracts.ValidationError{Field: fe.Field(), Message: message(fe)}
	}
	return err
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "alpha":
		return "must contain letters only"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "ddmmyyyy":
		return fmt.Sprintf("%q is not a DD/MM/YYYY date", fe.Value())
	case "weekday":
		return fmt.Sprintf("%q is not one of MON, TUE, WED, THU, FRI, SAT, SUN", fe.Value())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// Options validates r and converts it into build options.
// A start date after the end date fails with contracts.ErrInvalidRange.
func (r Request) Options() (Options, error) {
	if err := r.Validate(); err != nil {
		return Options{}, err
	}

	start, err := contracts.ParseDate(r.Start)
	if err != nil {
		return Options{}, err
	}
	end, err := contracts.ParseDate(r.End)
	if err != nil {
		return Options{}, err
	}
	weekStart, err := contracts.ParseWeekday(r.WeekStart)
	if err != nil {
		return Options{}, err
	}
	frequency, err := contracts.ParseFrequency(r.Frequency)
	if err != nil {
		return Options{}, err
	}
	join, err := contracts.ParseJoinPolicy(r.Join)
	if err != nil {
		return Options{}, err
	}

	label := contracts.WeekBeginning
	if r.WeekEnding {
		label = contracts.WeekEnding
	}

	dr, err := contracts.NewDateRange(start, end, weekStart, label)
	if err != nil {
		return Options{}, err
	}

	period := dr.Period()
	period.Frequency = frequency

	return Options{
		Country:     strings.ToUpper(r.Country),
		Subdivision: strings.TrimSpace(r.Subdivision),
		Range:       dr,
		Period:      period,
		Join:        join,
	}, nil
}
