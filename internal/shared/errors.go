package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrValidation          = fmt.Errorf("validation failed")
	ErrMissingID           = fmt.Errorf("%w: id is required", ErrValidation)
	ErrNotFound            = fmt.Errorf("not found")
	ErrAllocationExhausted = fmt.Errorf("id allocation exhausted")
	ErrStore               = fmt.Errorf("store failure")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// IsExpected reports whether err is an ordinary outcome (bad input or a missing entity)
// rather than an operational failure.
func IsExpected(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{ErrValidation, ErrNotFound, ErrInvalidInput, ErrMissingArgument, ErrInvalidArgument} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
