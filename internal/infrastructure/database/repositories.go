package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/finvero/corebank/internal/adapter/repository"
	"github.com/finvero/corebank/internal/audit"
	domainRepo "github.com/finvero/corebank/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Account domainRepo.AccountRepository
	Payment domainRepo.PaymentRepository
	Auth    domainRepo.AuthRepository
	Audit   audit.Recorder
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Account: repository.NewAccountRepository(db, logger),
		Payment: repository.NewPaymentRepository(db, logger),
		Auth:    repository.NewAuthRepository(db, logger),
		Audit:   audit.NewStoreRecorder(db, logger),
	}
}
