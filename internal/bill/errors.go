package bill

import (
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/sharemal/internal/money"
)

var (
	// ErrNotFound is returned when a bill or a participant does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSplit is returned when shares cannot be allocated.
	ErrInvalidSplit = errors.New("invalid split")
	// ErrInvalidAmount is returned for non-positive totals.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrValidation covers malformed titles, names and dates.
	ErrValidation = errors.New("validation failed")
)

// SumMismatchError reports custom shares that do not add up to the bill total.
type SumMismatchError struct {
	Expected money.Amount
	Actual   money.Amount
}

func (e *SumMismatchError) Error() string {
	return fmt.Sprintf("custom amounts do not add up to the bill total: expected %s, actual %s", e.Expected, e.Actual)
}

func (e *SumMismatchError) Unwrap() error {
	return ErrInvalidSplit
}
