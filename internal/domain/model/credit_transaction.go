package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the lifecycle state of a credit transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Valid reports whether the status is one of the closed set.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	}
	return false
}

// Scan implements sql.Scanner and rejects values outside the closed set, so
// a corrupted status row fails loudly instead of flowing through settlement.
func (s *TransactionStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = TransactionStatus(v)
	case []byte:
		*s = TransactionStatus(v)
	default:
		return fmt.Errorf("unsupported transaction status type %T", src)
	}
	if !s.Valid() {
		return fmt.Errorf("invalid transaction status %q", string(*s))
	}
	return nil
}

// Value implements driver.Valuer interface
func (s TransactionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// CreditTransaction is one two-phase credit payment. Status moves PENDING to
// COMPLETED or FAILED exactly once; the one-time code is only honored while
// the row is PENDING.
type CreditTransaction struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	MerchantID  int64             `gorm:"not null;index" json:"merchant_id"`
	CardID      int64             `gorm:"not null;index" json:"card_id"`
	Amount      decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status      TransactionStatus `gorm:"type:varchar(20);not null" json:"status"`
	OTPCode     string            `gorm:"column:otp_code;size:10" json:"-"`
	OTPVerified bool              `gorm:"column:otp_verified;default:false" json:"otp_verified"`
	CreatedAt   time.Time         `gorm:"default:now();index" json:"created_at"`

	Merchant *Merchant   `gorm:"foreignKey:MerchantID" json:"merchant,omitempty"`
	Card     *StoredCard `gorm:"foreignKey:CardID" json:"card,omitempty"`
}

// TableName specifies the table name for GORM
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}
