package schema

import (
	"fmt"

	"github.com/capbac/go-capbac/core/result/failure"
)

type FormatError struct {
	failure.NamedWithStackTrace
	object   string
	field    string
	reason   string
	expected string
	actual   string
}

func NewFormatError(object, field, reason, expected, actual string) FormatError {
	return FormatError{failure.NamedWithCurrentStackTrace("FormatError"), object, field, reason, expected, actual}
}

// Object is the name of the format that was being checked.
func (fe FormatError) Object() string {
	return fe.object
}

// Field is the offending field, empty when the object as a whole is invalid.
func (fe FormatError) Field() string {
	return fe.field
}

func (fe FormatError) Reason() string {
	return fe.reason
}

func (fe FormatError) Expected() string {
	return fe.expected
}

func (fe FormatError) Actual() string {
	return fe.actual
}

func (fe FormatError) Error() string {
	if fe.field == "" {
		return fmt.Sprintf("invalid %s: %s (expected %s, got %s)", fe.object, fe.reason, fe.expected, fe.actual)
	}
	return fmt.Sprintf("invalid %s: field %q: %s (expected %s, got %s)", fe.object, fe.field, fe.reason, fe.expected, fe.actual)
}

func (fe FormatError) Category() failure.Category {
	return failure.Malformed
}
