package dto

import (
	"github.com/shopspring/decimal"
)

// DepositRequest credits a named account.
type DepositRequest struct {
	AccountID      int64           `json:"account_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	IdempotencyKey string          `json:"idempotency_key,omitempty" validate:"omitempty,uuid4"`
}

// WithdrawRequest debits the caller's own account.
type WithdrawRequest struct {
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	IdempotencyKey string          `json:"idempotency_key,omitempty" validate:"omitempty,uuid4"`
}

// TransferRequest moves funds from the caller to another user's account.
type TransferRequest struct {
	TargetUsername string          `json:"target_username" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	IdempotencyKey string          `json:"idempotency_key,omitempty" validate:"omitempty,uuid4"`
}

// PayCreditBalanceRequest pays down the caller's credit card debt from their
// deposit account.
type PayCreditBalanceRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// BalanceResponse reports the balance after a single-account mutation.
type BalanceResponse struct {
	Message    string `json:"message"`
	NewBalance string `json:"new_balance"`
}

// PayoffResponse reports both balances touched by a credit payoff.
type PayoffResponse struct {
	Message        string `json:"message"`
	AccountBalance string `json:"account_balance"`
	CreditCardDebt string `json:"credit_card_debt"`
}
