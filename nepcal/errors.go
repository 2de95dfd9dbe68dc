package nepcal

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange indicates a date outside the span covered by the calendar table.
	// Errors wrapping it are usually a *RangeError naming the violated bound.
	ErrOutOfRange = errors.New("nepcal: date out of range")
	// ErrMalformedInput indicates a structurally invalid date value.
	ErrMalformedInput = errors.New("nepcal: malformed input")
)

// RangeError reports which bound of a date was violated.
type RangeError struct {
	// Field is "year", "month", "day" or "jdn".
	Field string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("nepcal: %s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}
