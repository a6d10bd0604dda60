package model

import (
	"time"
)

// Merchant is a payee for credit payments. Only active merchants accept new
// payments; deactivation does not touch pending transactions.
type Merchant struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Active    bool      `gorm:"column:status;default:true" json:"active"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Merchant) TableName() string {
	return "merchants"
}
