// Package validation wraps go-playground/validator and reports failures as
// validation AppErrors with JSON field names.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"menu-service/internal/common/errors"
)

// Validator validates request payloads using struct tags
type Validator struct {
	validator *validator.Validate
}

// FieldError describes one failed rule
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// New creates a validator that names fields after their json tags
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{validator: v}
}

// Register adds a string rule under tag. Non-string fields never match it.
func (cv *Validator) Register(tag string, ok func(value string) bool) error {
	return cv.validator.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.String {
			return false
		}
		return ok(fl.Field().String())
	})
}

// ValidateStruct validates a struct using its tags
func (cv *Validator) ValidateStruct(s interface{}) error {
	if err := cv.validator.Struct(s); err != nil {
		return cv.formatValidationErrors(err)
	}
	return nil
}

// FieldErrors returns the individual failures of s, or nil when s is valid
func (cv *Validator) FieldErrors(s interface{}) []FieldError {
	err := cv.validator.Struct(s)
	if err == nil {
		return nil
	}
	return cv.extractFieldErrors(err)
}

// formatValidationErrors converts go-playground/validator errors to internal errors
func (cv *Validator) formatValidationErrors(err error) error {
	fieldErrors := cv.extractFieldErrors(err)

	messages := make([]string, len(fieldErrors))
	for i, e := range fieldErrors {
		messages[i] = e.Message
	}

	appErr := errors.ValidationError(strings.Join(messages, "; "))
	if len(fieldErrors) == 1 {
		appErr.WithContext("field", fieldErrors[0].Field)
	}
	return appErr
}

func (cv *Validator) extractFieldErrors(err error) []FieldError {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "unknown", Tag: "error", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrs))
	for _, fieldError := range validationErrs {
		out = append(out, FieldError{
			Field:   fieldError.Field(),
			Tag:     fieldError.Tag(),
			Param:   fieldError.Param(),
			Message: formatFieldError(fieldError),
		})
	}
	return out
}

func formatFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", err.Field())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s characters", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s characters", err.Field(), err.Param())
	case "uuid":
		return fmt.Sprintf("field '%s' must be a valid UUID", err.Field())
	case "price":
		return fmt.Sprintf("field '%s' must be a price like 12.50", err.Field())
	default:
		return fmt.Sprintf("field '%s' failed validation: %s", err.Field(), err.Tag())
	}
}
