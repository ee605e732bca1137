package features

import (
	"errors"
	"fmt"
)

// UnknownCategoryError is returned when a categorical label has no code in
// its table.
type UnknownCategoryError struct {
	Field string
	Label string
}

func (e UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category for field %q: %q", e.Field, e.Label)
}

// IsUnknownCategory reports whether err is (or wraps) an UnknownCategoryError.
func IsUnknownCategory(err error) bool {
	var e UnknownCategoryError
	return errors.As(err, &e)
}

// MissingFieldError is returned when the input lacks a field named by the schema.
type MissingFieldError struct {
	Field string
	Kind  Kind
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s field %q", e.Kind, e.Field)
}

// IsMissingField reports whether err is (or wraps) a MissingFieldError.
func IsMissingField(err error) bool {
	var e MissingFieldError
	return errors.As(err, &e)
}
