package model

import (
	"time"
)

// AuthToken is a durable record of an issued bearer token. Logout deletes
// the row, revoking the token even before its JWT expiry.
type AuthToken struct {
	Token     string    `gorm:"primaryKey" json:"-"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (AuthToken) TableName() string {
	return "tokens"
}
