package database

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/finvero/corebank/internal/domain/model"
)

// Seed provisions demo users, their accounts and credit cards, and a few
// merchants. It only runs against an empty users table.
func Seed(db *gorm.DB, logger *zap.Logger) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	logger.Info("Seeding demo data...")

	type demoUser struct {
		username string
		password string
		role     string
		fullName string
		email    string
	}

	demo := []demoUser{
		{"user1", "pass1", model.RoleClient, "Usuario Uno", "user1@example.com"},
		{"user2", "pass2", model.RoleClient, "Usuario Dos", "user2@example.com"},
		{"user3", "pass3", model.RoleTeller, "Usuario Tres", "user3@example.com"},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, d := range demo {
			hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			user := model.User{
				Username:     d.username,
				PasswordHash: string(hash),
				Role:         d.role,
				FullName:     d.fullName,
				Email:        d.email,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create user %s: %w", d.username, err)
			}

			account := model.Account{
				Balance: decimal.NewFromInt(1000),
				UserID:  user.ID,
			}
			if err := tx.Create(&account).Error; err != nil {
				return fmt.Errorf("failed to create account for %s: %w", d.username, err)
			}

			card := model.CreditCard{
				CreditLimit: decimal.NewFromInt(5000),
				Balance:     decimal.Zero,
				UserID:      user.ID,
			}
			if err := tx.Create(&card).Error; err != nil {
				return fmt.Errorf("failed to create credit card for %s: %w", d.username, err)
			}
		}

		merchants := []model.Merchant{
			{Name: "Tienda A", Active: true},
			{Name: "Tienda B", Active: true},
			{Name: "Supermercado C", Active: true},
		}
		if err := tx.Create(&merchants).Error; err != nil {
			return fmt.Errorf("failed to create merchants: %w", err)
		}

		logger.Info("Demo data seeded",
			zap.Int("users", len(demo)),
			zap.Int("merchants", len(merchants)))
		return nil
	})
}
