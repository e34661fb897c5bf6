package ingest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyInput    = errors.New("no rows to ingest")
	ErrNormalization = errors.New("row normalization failed")
	ErrDateFormat    = errors.New("invalid date format")
	ErrDerivation    = errors.New("row derivation failed")
)

// NormalizationError reports required columns still absent after header
// aliasing
type NormalizationError struct {
	Missing []string
}

func (e *NormalizationError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

func (e *NormalizationError) Is(target error) bool {
	return target == ErrNormalization
}

// DateFormatError reports a date that matches none of the supported layouts
type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	if e.Value == "" {
		return "date is required"
	}
	return fmt.Sprintf("invalid date format: %q (supported: %s, time part is ignored)",
		e.Value, strings.Join(supportedDateFormats, ", "))
}

func (e *DateFormatError) Is(target error) bool {
	return target == ErrDateFormat
}

// DerivationError reports a numeric field that could not be parsed
type DerivationError struct {
	Field string
	Value string
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("invalid %s value: %q", e.Field, e.Value)
}

func (e *DerivationError) Is(target error) bool {
	return target == ErrDerivation
}

// RowProcessingError wraps the first failure of a batch with the 1-based
// position of the offending row in the input.
type RowProcessingError struct {
	RowIndex int
	Err      error
}

func (e *RowProcessingError) Error() string {
	return fmt.Sprintf("error in row %d: %v", e.RowIndex, e.Err)
}

func (e *RowProcessingError) Unwrap() error {
	return e.Err
}
