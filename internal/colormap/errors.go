package colormap

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned when a hex color has the wrong length.
	ErrInvalidFormat = errors.New("invalid hex color format")

	// ErrInvalidDigit is returned when a hex color contains a non-hex character.
	ErrInvalidDigit = errors.New("invalid hex digit")

	// ErrInsufficientStops is returned when a colormap is finalized with
	// fewer than two stops.
	ErrInsufficientStops = errors.New("colormap requires at least 2 stops")

	// ErrLUTSize is returned when a lookup table smaller than 2 entries is requested.
	ErrLUTSize = errors.New("lookup table size must be at least 2")
)

// ParseError describes a hex color that could not be parsed.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing color %q: %s", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodeError describes a colormap document that violates the JSON schema.
// Stop is the index of the offending stop, or -1 when the error concerns
// the document as a whole.
type DecodeError struct {
	Stop int
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Stop < 0 {
		return fmt.Sprintf("decoding colormap: %s", e.Err)
	}
	return fmt.Sprintf("decoding colormap: stop %d: %s", e.Stop, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
