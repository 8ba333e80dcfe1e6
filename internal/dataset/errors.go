package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad matches every *LoadError with errors.Is.
	ErrLoad = errors.New("dataset load failed")

	// ErrValidation matches every *ValidationError with errors.Is.
	ErrValidation = errors.New("invalid date range")
)

// LoadError reports a missing, unreadable or malformed input table.
type LoadError struct {
	Path   string
	Line   int    // 0 when the error is not tied to a row
	Column string // empty when the error is not tied to a column
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("load %s: line %d, column %q: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrLoad) true for any LoadError.
func (e *LoadError) Is(target error) bool { return target == ErrLoad }

// ValidationError reports a date range selection that cannot be applied.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
