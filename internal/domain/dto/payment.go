package dto

import (
	"github.com/shopspring/decimal"
)

// InitiatePaymentRequest starts a two-phase credit payment. Exactly one of
// CardID (stored-card path) or CardNumber (new-card path) must be set; the
// new-card path additionally needs the expiry fields.
type InitiatePaymentRequest struct {
	MerchantID  int64           `json:"merchant_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	CVV         string          `json:"cvv" validate:"required,len=3,numeric"`
	CardID      int64           `json:"card_id,omitempty"`
	CardNumber  string          `json:"card_number,omitempty" validate:"omitempty,len=16,numeric"`
	ExpiryMonth int             `json:"expiry_month,omitempty" validate:"omitempty,min=1,max=12"`
	ExpiryYear  int             `json:"expiry_year,omitempty" validate:"omitempty,min=2000"`
	SaveCard    bool            `json:"save_card,omitempty"`
}

// StoredCardPath reports whether the request references an already saved card.
func (r *InitiatePaymentRequest) StoredCardPath() bool {
	return r.CardID != 0
}

// InitiatePaymentResponse acknowledges a pending transaction.
type InitiatePaymentResponse struct {
	Message       string `json:"message"`
	TransactionID int64  `json:"transaction_id"`
}

// SaveCardRequest stores a card for later reuse without paying anything.
type SaveCardRequest struct {
	CardNumber  string `json:"card_number" validate:"required,len=16,numeric"`
	ExpiryMonth int    `json:"expiry_month" validate:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year" validate:"required,min=2000"`
}

// SaveCardResponse acknowledges a stored card with its display fields.
type SaveCardResponse struct {
	Message  string `json:"message"`
	CardID   int64  `json:"card_id"`
	CardType string `json:"card_type"`
	LastFour string `json:"last_four"`
}

// VerifyPaymentRequest settles a pending transaction with its one-time code.
type VerifyPaymentRequest struct {
	TransactionID int64  `json:"transaction_id" validate:"required"`
	OTPCode       string `json:"otp_code" validate:"required,len=6,numeric"`
}

// VerifyPaymentResponse reports the settled amount and merchant.
type VerifyPaymentResponse struct {
	Message  string `json:"message"`
	Amount   string `json:"amount"`
	Merchant string `json:"merchant"`
}
