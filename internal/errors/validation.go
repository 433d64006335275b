package errors

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FromValidator converts validator field errors to API validation errors
func FromValidator(errs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, fe := range errs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: FieldErrorMessage(fe),
			Value:   fe.Value(),
		})
	}
	return out
}

// FieldErrorMessage formats a single validator failure
func FieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "school":
		return fmt.Sprintf("%s must be a school name or code", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
