package services

import (
	"errors"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

const (
	RuleType     = "type"
	RulePattern  = "pattern"
	RuleMin      = "min"
	RuleMax      = "max"
	RuleEnum     = "enum"
	RuleRequired = "required"
	RuleUnique   = "unique"
	RuleExists   = "exists"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError collects every field that failed, never only the first one.
type ValidationError struct {
	Fields []FieldError
}

func (validationErr *ValidationError) Error() string {
	if validationErr == nil || len(validationErr.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(validationErr.Fields))
	for _, field := range validationErr.Fields {
		parts = append(parts, field.Field+" ("+field.Rule+")")
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (validationErr *ValidationError) Unwrap() error {
	return ErrValidation
}

func (validationErr *ValidationError) Add(field string, rule string, message string) {
	validationErr.Fields = append(validationErr.Fields, FieldError{Field: field, Rule: rule, Message: message})
}

func (validationErr *ValidationError) Has(field string) bool {
	for _, entry := range validationErr.Fields {
		if entry.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when nothing failed so callers can `return v.Err()`.
func (validationErr *ValidationError) Err() error {
	if validationErr == nil || len(validationErr.Fields) == 0 {
		return nil
	}
	return validationErr
}

// AsValidationError unwraps err into its field list.
func AsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}
