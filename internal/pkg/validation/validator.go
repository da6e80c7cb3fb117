// Package validation checks input structs with go-playground/validator and
// reports failures as errs typed errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"bookypedia/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that names fields after their json tags.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate checks s and joins one errs error per failed field.
// It also satisfies echo.Validator.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return convert(err)
	}
	return nil
}

func convert(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	fieldErrs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrs = append(fieldErrs, fieldError(e))
	}
	return errors.Join(fieldErrs...)
}

func fieldError(e validator.FieldError) error {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return errs.NewValueIsRequiredError(field)
	case "max":
		return errs.NewValueIsInvalidErrorWithCause(field,
			fmt.Errorf("must not exceed %s characters", e.Param()))
	case "min":
		return errs.NewValueIsInvalidErrorWithCause(field,
			fmt.Errorf("must be at least %s characters", e.Param()))
	case "gte":
		return errs.NewValueIsInvalidErrorWithCause(field,
			fmt.Errorf("must be greater than or equal to %s", e.Param()))
	case "lte":
		return errs.NewValueIsInvalidErrorWithCause(field,
			fmt.Errorf("must be less than or equal to %s", e.Param()))
	case "uuid":
		return errs.NewValueIsInvalidErrorWithCause(field, errors.New("must be a valid UUID"))
	default:
		return errs.NewValueIsInvalidError(field)
	}
}
