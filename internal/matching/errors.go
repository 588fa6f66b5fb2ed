package matching

import "errors"

var (
	ErrRuleNotFound = errors.New("category rule not found")
	ErrInvalidRule  = errors.New("pattern and category are required")
)
