package errors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientFundsError is returned when an account cannot cover a debit.
type InsufficientFundsError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: requested %s, available %s", e.Requested.String(), e.Available.String())
}

// Code makes the error carry the shared taxonomy code.
func (e *InsufficientFundsError) Code() string {
	return ErrInsufficientFunds
}

func (e *InsufficientFundsError) Unwrap() error {
	return nil
}

// NewInsufficientFundsError creates a new InsufficientFundsError.
func NewInsufficientFundsError(requested, available decimal.Decimal) *InsufficientFundsError {
	return &InsufficientFundsError{
		Requested: requested,
		Available: available,
	}
}
