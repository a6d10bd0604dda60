package model

import (
	"time"
)

// StoredCard keeps a one-way fingerprint of a card number plus the display
// fields; the full number is never persisted. Cards inserted only to anchor
// one transaction's foreign key start inactive and are deleted when that
// transaction resolves.
type StoredCard struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64     `gorm:"not null;index" json:"user_id"`
	CardNumberHash string    `gorm:"column:card_number_hash;not null" json:"-"`
	CardType       string    `gorm:"not null;size:20" json:"card_type"`
	LastFour       string    `gorm:"type:char(4);not null" json:"last_four"`
	ExpiryDate     time.Time `gorm:"type:date;not null" json:"expiry_date"`
	Active         bool      `gorm:"column:is_active;default:true" json:"active"`
	CreatedAt      time.Time `gorm:"default:now()" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (StoredCard) TableName() string {
	return "encrypted_cards"
}
