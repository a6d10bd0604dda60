package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a user's deposit account. Balance never goes negative; every
// mutation happens under a row lock inside a single store transaction.
type Account struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	UserID    int64           `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time       `gorm:"default:now()" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// CreditCard tracks a user's revolving credit line. Balance is outstanding
// debt, not available funds; it decreases on payoff and increases when a
// credit payment completes. The limit is stored but deliberately not
// enforced against the debt.
type CreditCard struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreditLimit decimal.Decimal `gorm:"column:limit_credit;type:decimal(15,2);not null;default:1" json:"credit_limit"`
	Balance     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	UserID      int64           `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt   time.Time       `gorm:"default:now()" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (CreditCard) TableName() string {
	return "credit_cards"
}
