package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable means the input could not be opened or read at all.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMissingColumn means a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnparsableValue is matched by every *ParseError.
	ErrUnparsableValue = errors.New("unparsable value")
)

// ParseError reports a field that failed type coercion.
type ParseError struct {
	Row    int // 1-based line in the source; the header is row 1
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf("row %d", e.Row)
	if e.Column != "" {
		where += ", column " + e.Column
	}
	msg := fmt.Sprintf("%s: cannot parse %q", where, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrUnparsableValue }
