package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "enrollstats/internal/errors"
)

// RequestValidator validates query parameter structs using struct tags.
// Field names in errors come from the `query` tag.
type RequestValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewRequestValidator creates a validator with the custom school rule registered
func NewRequestValidator(logger *slog.Logger) *RequestValidator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	v.RegisterValidation("school", isSchoolIdentifier)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &RequestValidator{
		validator: v,
		logger:    logger.With(slog.String("component", "request_validator")),
	}
}

// ValidateStruct validates v and converts failures to a 400 APIError
func (rv *RequestValidator) ValidateStruct(v interface{}) error {
	err := rv.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	return apierrors.NewValidationErrors(apierrors.FromValidator(fieldErrs))
}

// QueryInt reads an integer query parameter, returning def when it is absent
func (rv *RequestValidator) QueryInt(r *http.Request, param string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(param))
	if raw == "" {
		return def, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		rv.logger.DebugContext(r.Context(), "invalid integer parameter",
			slog.String("param", param),
			slog.String("value", raw))
		return 0, apierrors.ErrValidation(param, fmt.Sprintf("%s must be a valid integer", param))
	}
	return value, nil
}

// QueryString reads a query parameter, returning def when it is absent
func (rv *RequestValidator) QueryString(r *http.Request, param, def string) string {
	if value := strings.TrimSpace(r.URL.Query().Get(param)); value != "" {
		return value
	}
	return def
}

// isSchoolIdentifier accepts any non-blank school name or code
func isSchoolIdentifier(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
