package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finvero/corebank/internal/audit"
	domainErrors "github.com/finvero/corebank/internal/domain/errors"
	"github.com/finvero/corebank/internal/domain/model"
	"github.com/finvero/corebank/internal/domain/repository"
)

// AccountService handles deposit-account money movement
type AccountService struct {
	accountRepo repository.AccountRepository
	recorder    audit.Recorder
	logger      *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	accountRepo repository.AccountRepository,
	recorder audit.Recorder,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		recorder:    recorder,
		logger:      logger,
	}
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainErrors.NewAppError(domainErrors.ErrInvalidArgument, "amount must be greater than zero", nil)
	}
	return nil
}

// Deposit credits the identified account and returns its new balance.
func (s *AccountService) Deposit(ctx context.Context, userID, accountID int64, amount decimal.Decimal, idempotencyKey *uuid.UUID) (decimal.Decimal, error) {
	if err := requirePositive(amount); err != nil {
		return decimal.Zero, err
	}

	newBalance, err := s.accountRepo.Deposit(ctx, accountID, amount, idempotencyKey)
	if err != nil {
		domainErrors.LogError(s.logger, err, "deposit failed",
			zap.Int64("account_id", accountID))
		return decimal.Zero, err
	}

	s.recorder.Record(ctx, audit.Event{
		Kind:          model.AuditDeposit,
		UserID:        userID,
		Amount:        amount,
		Status:        "COMPLETED",
		Context:       model.JSONB{"account_id": accountID},
		SourceAddress: audit.SourceFrom(ctx),
	})

	return newBalance, nil
}

// Withdraw debits the caller's account and returns its new balance.
func (s *AccountService) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, idempotencyKey *uuid.UUID) (decimal.Decimal, error) {
	if err := requirePositive(amount); err != nil {
		return decimal.Zero, err
	}

	newBalance, err := s.accountRepo.Withdraw(ctx, userID, amount, idempotencyKey)
	if err != nil {
		domainErrors.LogError(s.logger, err, "withdrawal failed",
			zap.Int64("user_id", userID))
		return decimal.Zero, err
	}

	s.recorder.Record(ctx, audit.Event{
		Kind:          model.AuditWithdrawal,
		UserID:        userID,
		Amount:        amount,
		Status:        "COMPLETED",
		SourceAddress: audit.SourceFrom(ctx),
	})

	return newBalance, nil
}

// Transfer moves funds from the caller to the named user. The self-transfer
// check runs before any store access.
func (s *AccountService) Transfer(ctx context.Context, userID int64, username, targetUsername string, amount decimal.Decimal, idempotencyKey *uuid.UUID) (decimal.Decimal, error) {
	if err := requirePositive(amount); err != nil {
		return decimal.Zero, err
	}
	if targetUsername == "" {
		return decimal.Zero, domainErrors.NewAppError(domainErrors.ErrInvalidArgument, "target username is required", nil)
	}
	if targetUsername == username {
		return decimal.Zero, domainErrors.NewAppError(domainErrors.ErrInvalidArgument, "cannot transfer to the same account", nil)
	}

	newBalance, err := s.accountRepo.Transfer(ctx, userID, targetUsername, amount, idempotencyKey)
	if err != nil {
		domainErrors.LogError(s.logger, err, "transfer failed",
			zap.Int64("user_id", userID),
			zap.String("target_username", targetUsername))
		return decimal.Zero, err
	}

	s.recorder.Record(ctx, audit.Event{
		Kind:          model.AuditTransfer,
		UserID:        userID,
		Amount:        amount,
		Status:        "COMPLETED",
		Context:       model.JSONB{"target_username": targetUsername},
		SourceAddress: audit.SourceFrom(ctx),
	})

	return newBalance, nil
}

// PayCreditBalance pays down the caller's card debt from their account,
// capped at the outstanding debt. Returns the new account balance and debt.
func (s *AccountService) PayCreditBalance(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if err := requirePositive(amount); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	accountBalance, cardDebt, err := s.accountRepo.PayCreditBalance(ctx, userID, amount)
	if err != nil {
		domainErrors.LogError(s.logger, err, "credit payoff failed",
			zap.Int64("user_id", userID))
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to pay credit balance: %w", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Kind:          model.AuditCreditPayoff,
		UserID:        userID,
		Amount:        amount,
		Status:        "COMPLETED",
		SourceAddress: audit.SourceFrom(ctx),
	})

	return accountBalance, cardDebt, nil
}
