package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ValidationError reports a caller-supplied field that failed validation
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// ValidateNew checks a task before it is added
func ValidateNew(n NewTask) error {
	return translate(validate.Struct(n))
}

// ValidatePatch checks the fields a patch would set
func ValidatePatch(p Patch) error {
	return translate(validate.Struct(p))
}

// ValidateFilter checks a status filter value
func ValidateFilter(f Filter) error {
	if !f.Valid() {
		return &ValidationError{Field: "filter", Reason: fmt.Sprintf("unknown filter %q", f)}
	}
	return nil
}

// translate turns the first validator failure into a ValidationError
func translate(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "notblank", "required":
		return &ValidationError{Field: field, Reason: "must not be empty"}
	case "oneof":
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("%q is not one of %s", fmt.Sprint(fe.Value()), strings.ReplaceAll(fe.Param(), " ", ", ")),
		}
	default:
		return &ValidationError{Field: field, Reason: fmt.Sprintf("failed %s check", fe.Tag())}
	}
}
