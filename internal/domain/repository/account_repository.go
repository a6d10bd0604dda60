package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the atomic money-movement operations on deposit
// accounts and credit cards. Every method runs inside a single store
// transaction; the balance check and the mutation are never separate store
// operations (debited rows are locked for the duration of the call).
type AccountRepository interface {
	// Deposit adds amount to the identified account and returns the new balance.
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, idempotencyKey *uuid.UUID) (decimal.Decimal, error)

	// Withdraw subtracts amount from the user's account and returns the new
	// balance. Fails with InsufficientFundsError rather than going negative.
	Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, idempotencyKey *uuid.UUID) (decimal.Decimal, error)

	// Transfer debits the sender and credits the target user's account in one
	// transaction, returning the sender's new balance.
	Transfer(ctx context.Context, senderUserID int64, targetUsername string, amount decimal.Decimal, idempotencyKey *uuid.UUID) (decimal.Decimal, error)

	// PayCreditBalance moves min(amount, debt) from the user's account onto
	// their credit card debt. Returns the new account balance and new debt.
	PayCreditBalance(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error)
}
