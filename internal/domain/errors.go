package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is matched by every InvalidInputError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports the constraint a projection input violated.
// It is raised before any computation starts.
type InvalidInputError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// NewInvalidInputError builds an InvalidInputError with a formatted reason.
func NewInvalidInputError(field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is lets callers test with errors.Is(err, ErrInvalidInput).
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// RateFromFloat converts a float rate (fraction, 0.05 == 5%) to a decimal,
// rejecting NaN and infinities.
func RateFromFloat(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, NewInvalidInputError(field, "rate must be finite, got %v", v)
	}
	return decimal.NewFromFloat(v), nil
}

// AmountFromFloat converts a float currency amount to a decimal, rejecting
// NaN and infinities. Sign checks are left to the engine.
func AmountFromFloat(field string, v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, NewInvalidInputError(field, "amount must be finite, got %v", v)
	}
	return decimal.NewFromFloat(v), nil
}
