package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType represents the kind of account mutation a ledger entry records
type EntryType string

const (
	EntryTypeDeposit      EntryType = "deposit"
	EntryTypeWithdrawal   EntryType = "withdrawal"
	EntryTypeTransferOut  EntryType = "transfer_out"
	EntryTypeTransferIn   EntryType = "transfer_in"
	EntryTypeCreditPayoff EntryType = "credit_payoff"
)

// Scan implements sql.Scanner interface
func (t *EntryType) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*t = EntryType(v)
	case []byte:
		*t = EntryType(v)
	default:
		return nil
	}
	return nil
}

// Value implements driver.Valuer interface
func (t EntryType) Value() (driver.Value, error) {
	return string(t), nil
}

// LedgerEntry records one applied account mutation. The unique idempotency
// key lets a client retry a money mutation safely: a replayed key returns
// the recorded balance instead of applying the mutation again.
type LedgerEntry struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID      int64           `gorm:"not null;index:idx_ledger_entries_account_created" json:"account_id"`
	EntryType      EntryType       `gorm:"type:varchar(20);not null" json:"entry_type"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	BalanceAfter   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_after"`
	IdempotencyKey *uuid.UUID      `gorm:"type:uuid;unique" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time       `gorm:"default:now();index:idx_ledger_entries_account_created" json:"created_at"`
}

// TableName specifies the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
