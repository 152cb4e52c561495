package errors

import "errors"

var (
	ErrNotAdmin       = errors.New("caller does not hold the admin token")
	ErrNotInitialized = errors.New("admin token has not been issued")
	ErrAlreadyIssued  = errors.New("admin token has already been issued")
	ErrInvalidHolder  = errors.New("admin token holder is required")
)
