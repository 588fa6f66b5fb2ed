package invoice

import "errors"

var (
	ErrNotFound             = errors.New("invoice not found")
	ErrLocked               = errors.New("invoice is locked")
	ErrEntryNotFound        = errors.New("expense entry not found")
	ErrExtraTimeNotFound    = errors.New("extra time record not found")
	ErrExtraTimeNotAttached = errors.New("extra time record is not on this invoice")
)

// ValidationError reports input rejected before any store call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
