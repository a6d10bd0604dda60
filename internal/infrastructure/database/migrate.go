package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/finvero/corebank/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.User{},
		&model.Account{},
		&model.CreditCard{},
		&model.Merchant{},
		&model.StoredCard{},
		&model.CreditTransaction{},
		&model.LedgerEntry{},
		&model.AuditRecord{},
		&model.AuthToken{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
