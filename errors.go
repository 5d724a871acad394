package timescale

import (
	"errors"
	"fmt"

	"darvaza.org/core"
)

// Error kinds returned by this package. Every failure a caller can act on
// wraps one of these sentinels; use errors.Is to test for a kind.
var (
	// ErrOverflow is returned when an operation on tai_seconds, mjd or
	// nanos would exceed the range of an int64.
	ErrOverflow = errors.New("overflow")

	// ErrInvalidArgument is returned when a nano, nano-of-day or
	// leap-second registration value violates its stated range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParse is returned when a textual form does not match the
	// documented grammar.
	ErrParse = errors.New("parse error")

	// ErrNullArgument is returned when a required value is absent at a
	// boundary where the caller must supply one explicitly.
	ErrNullArgument = errors.New("null argument")
)

// ErrNilReceiver is returned when a conversion or binary-marshalling
// method is invoked through a nil *UtcRules.
var ErrNilReceiver = core.ErrNilReceiver

func errOverflowf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrOverflow}, args...)...)
}

func errInvalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}

func errParsef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrParse}, args...)...)
}
