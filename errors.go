package tagfile

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrFormat indicates the container does not follow the tag layout:
	// a section signature mismatch, an unsupported type flag, an
	// unexpected SDK version string or an unknown subtype.
	ErrFormat = errors.New("format error")

	// ErrTruncated indicates the stream ended before an expected field or
	// section boundary.
	ErrTruncated = errors.New("truncated data")

	// ErrReference indicates a type, string or item index that is out of
	// range, or a type missing from the catalog being written.
	ErrReference = errors.New("invalid reference")

	// ErrRange indicates a value that cannot be represented, most commonly a
	// packed integer at or above 0x8000000.
	ErrRange = errors.New("value out of range")

	// ErrInvariant indicates a value graph that cannot be written: missing
	// required data or a value whose variant disagrees with its type.
	ErrInvariant = errors.New("invariant violation")
)

// Error carries the context of a failed read or write.
// It wraps one of the sentinel errors above.
type Error struct {
	Err     error  // Underlying sentinel error (ErrFormat, ErrTruncated, ...)
	Section string // Signature of the innermost section, if known
	Offset  int64  // Absolute stream offset where the failure was detected
	Detail  string // Human readable description
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Section != "" {
		msg = fmt.Sprintf("%s in %s at 0x%x", msg, e.Section, e.Offset)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates an Error at the given position.
func newError(sentinel error, section string, offset int64, format string, args ...any) error {
	return &Error{
		Err:     sentinel,
		Section: section,
		Offset:  offset,
		Detail:  fmt.Sprintf(format, args...),
	}
}

// invariantf creates an ErrInvariant error without a stream position.
func invariantf(format string, args ...any) error {
	return &Error{
		Err:    ErrInvariant,
		Detail: fmt.Sprintf(format, args...),
	}
}
