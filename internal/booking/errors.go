package booking

import "errors"

var (
	ErrNotFound        = errors.New("booking not found")
	ErrRequestNotFound = errors.New("request not found")
	ErrAlreadyResolved = errors.New("request already resolved")
	ErrNotApproved     = errors.New("request is not approved")
	ErrNotScheduled    = errors.New("booking is not scheduled")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
