package extract

import (
	"errors"
	"fmt"
)

// ErrMissingField is returned when a dataset header lacks a required
// column or field.
var ErrMissingField = errors.New("missing dataset field")

// ParseError reports a malformed dataset record. Row counts data records
// from 1, excluding the header.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ParseError struct {
	Row    int
	Column string
	cause  error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.cause)
	}
	return fmt.Sprintf("row %d: column %q: %v", e.Row, e.Column, e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }
