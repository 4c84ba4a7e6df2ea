package ledger

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/budgetwise/internal/models"
)

// newValidator builds a validator that reports JSON field names and checks
// decimal amounts numerically.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	return v
}

// check validates s and converts the first failure into a *ValidationError.
func check(v *validator.Validate, s any, row int) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Row: row, Field: "request", Message: err.Error()}
	}

	e := fieldErrs[0]
	return &ValidationError{Row: row, Field: e.Field(), Message: validationMessage(e)}
}

// validationMessage returns a human-readable validation message
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	default:
		return "Invalid value"
	}
}

// parseDate accepts a calendar day or an RFC 3339 timestamp, which is
// truncated to its UTC day.
func parseDate(s string, row int) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(models.DateLayout, s); err == nil {
		return d, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.Day(t), nil
	}
	return time.Time{}, &ValidationError{Row: row, Field: "date", Message: "Must be a date in YYYY-MM-DD format"}
}
