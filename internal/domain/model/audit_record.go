package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// JSONB is a generic jsonb column
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		*j = make(JSONB)
		return nil
	}
}

// AuditKind classifies an audit record
type AuditKind string

const (
	AuditPaymentInitiated AuditKind = "PAYMENT_INITIATED"
	AuditPaymentCompleted AuditKind = "PAYMENT_COMPLETED"
	AuditPaymentFailed    AuditKind = "PAYMENT_FAILED"
	AuditCardSaved        AuditKind = "CARD_SAVED"
	AuditDeposit          AuditKind = "DEPOSIT"
	AuditWithdrawal       AuditKind = "WITHDRAWAL"
	AuditTransfer         AuditKind = "TRANSFER"
	AuditCreditPayoff     AuditKind = "CREDIT_PAYOFF"
)

// AuditRecord is an append-only trail entry. Context must never contain raw
// card numbers, CVVs, or one-time codes.
type AuditRecord struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Kind          AuditKind       `gorm:"column:log_type;type:varchar(50);not null" json:"kind"`
	TransactionID *int64          `gorm:"index" json:"transaction_id,omitempty"`
	UserID        int64           `gorm:"index" json:"user_id"`
	MerchantID    int64           `json:"merchant_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2)" json:"amount"`
	Status        string          `gorm:"size:50" json:"status"`
	Context       JSONB           `gorm:"column:extra_data;type:jsonb" json:"context,omitempty"`
	SourceAddress string          `gorm:"column:ip_address;size:45" json:"source_address"`
	CreatedAt     time.Time       `gorm:"default:now();index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (AuditRecord) TableName() string {
	return "credit_transaction_logs"
}
