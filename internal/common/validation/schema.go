package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Schema describes a flat form: which fields exist and what each accepts.
// Values are the already-trimmed string inputs of a screen.
type Schema struct {
	Fields   map[string]Field
	Required []string
}

type Field struct {
	Pattern   *string
	MinLength *int
	MaxLength *int
}

type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validate checks input against the schema with detailed errors. Required
// fields must be present and non-empty after trimming.
func Validate(input map[string]string, schema Schema) *Result {
	errors := []ValidationError{}

	for _, required := range schema.Required {
		if strings.TrimSpace(input[required]) == "" {
			errors = append(errors, ValidationError{
				Field:   required,
				Message: "required field missing",
				Code:    "REQUIRED_FIELD_MISSING",
			})
		}
	}

	for name, value := range input {
		field, exists := schema.Fields[name]
		if !exists {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		errors = append(errors, validateField(name, value, field)...)
	}

	return &Result{Valid: len(errors) == 0, Errors: errors}
}

func validateField(name, value string, field Field) []ValidationError {
	errors := []ValidationError{}

	if field.MinLength != nil && len(value) < *field.MinLength {
		errors = append(errors, ValidationError{
			Field:   name,
			Message: fmt.Sprintf("must be at least %d characters", *field.MinLength),
			Code:    "MIN_LENGTH",
		})
	}
	if field.MaxLength != nil && len(value) > *field.MaxLength {
		errors = append(errors, ValidationError{
			Field:   name,
			Message: fmt.Sprintf("must be at most %d characters", *field.MaxLength),
			Code:    "MAX_LENGTH",
		})
	}
	if field.Pattern != nil {
		matched, err := regexp.MatchString(*field.Pattern, value)
		if err != nil || !matched {
			errors = append(errors, ValidationError{
				Field:   name,
				Message: "invalid format",
				Code:    "PATTERN_MISMATCH",
			})
		}
	}

	return errors
}

// FirstError returns the first failure message, or empty when valid.
func (r *Result) FirstError() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	return fmt.Sprintf("%s: %s", r.Errors[0].Field, r.Errors[0].Message)
}

// Common wire-format patterns.
var (
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	PhonePattern = `^[0-9]{10,15}$`
	CodePattern  = `^[0-9]{6}$`
)

func Ptr[T any](v T) *T { return &v }
