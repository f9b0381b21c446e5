package whiteboard

import (
	"errors"
	"fmt"
)

var (
	// ErrNilImage is returned when Execute is called without an image.
	ErrNilImage = errors.New("whiteboard: input image is nil")

	// ErrInvalidDimensions is returned when the requested output dimensions
	// are not both positive.
	ErrInvalidDimensions = errors.New("whiteboard: invalid dimensions specified")

	// ErrOutOfRange is wrapped by ArgumentError when a value lies outside
	// its allowed range.
	ErrOutOfRange = errors.New("value out of range")
)

// ArgumentError reports a parameter that failed validation.
type ArgumentError struct {
	Param  string
	Value  interface{}
	Reason string
	Err    error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("whiteboard: invalid %s (%v): %s", e.Param, e.Value, e.Reason)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

func outOfRange(param string, value interface{}, reason string) *ArgumentError {
	return &ArgumentError{Param: param, Value: value, Reason: reason, Err: ErrOutOfRange}
}
