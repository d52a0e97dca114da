package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrWidgetNotFound = fmt.Errorf("%w: widget", ErrNotFound)

	// Derivation errors. Both are recoverable: callers degrade to an empty
	// record set instead of propagating them past the rendering boundary.
	ErrInvalidMapping = errors.New("column role mapping is invalid")
	ErrMissingData    = errors.New("tabular result is absent or incomplete")

	// Rendering errors
	ErrRenderFailed = errors.New("render failed")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewInvalidMappingError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidMapping, reason)
}

func NewMissingDataError(reason string) error {
	return fmt.Errorf("%w: %s", ErrMissingData, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRecoverable reports whether an error is one of the derivation failures
// that must degrade to "no data to render" rather than fail the render.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInvalidMapping) || errors.Is(err, ErrMissingData)
}
