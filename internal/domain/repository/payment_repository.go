package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finvero/corebank/internal/domain/model"
)

// NewCardParams carries the storable fields derived from a raw card number.
// The number itself never crosses this boundary, only its fingerprint.
type NewCardParams struct {
	Fingerprint string
	CardType    string
	LastFour    string
	ExpiryDate  time.Time
	// Save persists the card as active for reuse. Otherwise the row is
	// created inactive, purely to anchor the transaction's foreign key, and
	// removed once the transaction resolves.
	Save bool
}

// InitiatePaymentParams is the unit of work for the first payment phase.
type InitiatePaymentParams struct {
	UserID     int64
	MerchantID int64
	Amount     decimal.Decimal
	Code       string

	// StoredCardID selects the stored-card path when non-zero.
	StoredCardID int64
	// NewCard is consulted when StoredCardID is zero.
	NewCard *NewCardParams

	// DispatchCode delivers the one-time code to the payer. It runs inside
	// the store transaction; an error rolls back every write of this call.
	DispatchCode func(code string) error
}

// PaymentRepository drives the two-phase credit-payment protocol against the
// ledger store.
type PaymentRepository interface {
	// InitiatePayment validates the merchant and card, persists the card row
	// if needed, dispatches the one-time code, and inserts the PENDING
	// transaction, all in one store transaction.
	InitiatePayment(ctx context.Context, p InitiatePaymentParams) (*model.CreditTransaction, error)

	// VerifyPayment settles a PENDING transaction. The status transition is
	// guarded so concurrent calls for the same transaction cannot both
	// succeed. Returns the completed transaction and the merchant name.
	VerifyPayment(ctx context.Context, userID, transactionID int64, code string) (*model.CreditTransaction, string, error)

	// SaveCard persists a card for later reuse and returns its id.
	SaveCard(ctx context.Context, userID int64, card NewCardParams) (int64, error)
}
