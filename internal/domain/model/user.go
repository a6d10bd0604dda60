package model

import (
	"time"
)

// User is an authenticated bank customer or employee.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         string    `gorm:"not null;size:20" json:"role"`
	FullName     string    `gorm:"size:100" json:"full_name"`
	Email        string    `gorm:"size:100" json:"email"`
	CreatedAt    time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// Roles a user may hold.
const (
	RoleClient = "client"
	RoleTeller = "teller"
)
