package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotAvailable      = errors.New("apartment not available for the selected dates")
	ErrApartmentNotFound = errors.New("apartment not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrPersistence       = errors.New("booking persistence error")
)

// ValidationError carries every violated field so the caller can render all
// problems at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%d fields)", len(e.Fields))
}
