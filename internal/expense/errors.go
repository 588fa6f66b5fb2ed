package expense

import "errors"

var ErrNotFound = errors.New("expense not found")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
