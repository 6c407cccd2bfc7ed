package catalog

import "errors"

var (
	ErrNotFound  = errors.New("apartment not found")
	ErrForbidden = errors.New("apartment belongs to another landlord")
)
