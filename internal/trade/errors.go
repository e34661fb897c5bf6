package trade

import (
	"errors"
	"strings"
)

var (
	// Commit errors
	ErrMissingUserID = errors.New("userId is required")
	ErrValidation    = errors.New("transaction validation failed")
	ErrBusinessRule  = errors.New("business rule violated")

	// Repository errors
	ErrDuplicateID = errors.New("transaction id already exists")
)

// FieldError is a single schema violation on one field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every schema violation found on a transaction
type ValidationError struct {
	Details []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Details))
	for i, d := range e.Details {
		msgs[i] = d.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// BusinessRuleError is raised for a transaction that is well formed but not
// acceptable for commit (non-positive price or volume, unknown side).
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

func (e *BusinessRuleError) Is(target error) bool {
	return target == ErrBusinessRule
}
