// Package validate turns untrusted asset input into records.
//
// Form input, CSV rows and JSON import objects all pass through Build, so every
// entry point enforces the same rules: a parseable calendar date, a non-empty
// source, a finite amount greater than zero and a non-empty currency.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/assettrack/assettrack/internal/day"
	"github.com/assettrack/assettrack/internal/model"
)

// ValidationError describes one rejected field.
type ValidationError struct {
	Field       string
	Value       string
	Description string
}

func (e ValidationError) Error() string {
	return e.Description
}

// Errors is every field failure of one draft, in field order.
type Errors []ValidationError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

var checker = newChecker()

func newChecker() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("calendar_date", isCalendarDate)
	_ = v.RegisterValidation("positive_amount", isPositiveAmount)

	// Report fields under their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func isCalendarDate(fl validator.FieldLevel) bool {
	_, err := day.Parse(fl.Field().String())
	return err == nil
}

func isPositiveAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}

// Build validates a draft and converts it to an Asset with an empty ID.
// Surrounding whitespace is trimmed from every field first.
func Build(d model.Draft) (model.Asset, error) {
	d = Trim(d)
	if err := checker.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return model.Asset{}, fmt.Errorf("validating asset: %w", err)
		}
		errs := make(Errors, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			errs = append(errs, describe(fe))
		}
		return model.Asset{}, errs
	}

	// Both parses are guaranteed by the checks above.
	date, _ := day.Parse(d.Date)
	amount, _ := decimal.NewFromString(d.Amount)
	return model.Asset{
		Date:     date,
		Name:     d.Name,
		Amount:   amount,
		Currency: d.Currency,
	}, nil
}

// Trim returns d with surrounding whitespace removed from every field.
func Trim(d model.Draft) model.Draft {
	return model.Draft{
		Date:     strings.TrimSpace(d.Date),
		Name:     strings.TrimSpace(d.Name),
		Amount:   strings.TrimSpace(d.Amount),
		Currency: strings.TrimSpace(d.Currency),
	}
}

func describe(fe validator.FieldError) ValidationError {
	value := fmt.Sprint(fe.Value())
	ve := ValidationError{Field: fe.Field(), Value: value}
	switch fe.Field() {
	case "date":
		if fe.Tag() == "required" {
			ve.Description = "date is empty"
		} else {
			ve.Description = fmt.Sprintf("invalid date %q", value)
		}
	case "name":
		ve.Description = "source name is empty"
	case "amount":
		if fe.Tag() == "required" {
			ve.Description = "amount is empty"
		} else {
			ve.Description = fmt.Sprintf("invalid amount %q", value)
		}
	case "currency":
		ve.Description = "currency is empty"
	default:
		ve.Description = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return ve
}

// FromAsset converts a record back to draft form, e.g. to pre-fill an edit.
func FromAsset(a model.Asset) model.Draft {
	return model.Draft{
		Date:     a.Date.String(),
		Name:     a.Name,
		Amount:   a.Amount.String(),
		Currency: a.Currency,
	}
}
