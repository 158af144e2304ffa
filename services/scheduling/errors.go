package scheduling

import "errors"

var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrTechnicianNotFound = errors.New("technician not found")
	ErrInvalidDate        = errors.New("invalid date")
)
