package shift

import "errors"

var (
	ErrShiftNotFound    = errors.New("Shift time not found")
	ErrInvalidShiftName = errors.New("Invalid shift name")
)
