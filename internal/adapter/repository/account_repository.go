package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainErrors "github.com/finvero/corebank/internal/domain/errors"
	"github.com/finvero/corebank/internal/domain/model"
	domainRepo "github.com/finvero/corebank/internal/domain/repository"
)

// accountRepository implements the AccountRepository interface
type accountRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAccountRepository creates a new account repository instance
func NewAccountRepository(db *gorm.DB, logger *zap.Logger) domainRepo.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

// replayedEntry returns the previously recorded outcome for an idempotency
// key, if any. Runs inside the caller's transaction.
func replayedEntry(tx *gorm.DB, key *uuid.UUID) (*model.LedgerEntry, error) {
	if key == nil {
		return nil, nil
	}
	var prior model.LedgerEntry
	err := tx.Where("idempotency_key = ?", *key).First(&prior).Error
	if err == nil {
		return &prior, nil
	}
	if domainErrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, fmt.Errorf("failed to check idempotency key: %w", err)
}

// lockAccount loads an account row FOR UPDATE so the balance check and the
// subsequent write are a single serialized unit.
func lockAccount(tx *gorm.DB, cond string, arg interface{}) (*model.Account, error) {
	var account model.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(cond, arg).
		First(&account).Error
	if err != nil {
		if domainErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewAppError(domainErrors.ErrNotFound, "account not found", nil)
		}
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return &account, nil
}

// Deposit adds amount to the identified account atomically.
func (r *accountRepository) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, idempotencyKey *uuid.UUID) (decimal.Decimal, error) {
	var newBalance decimal.Decimal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prior, err := replayedEntry(tx, idempotencyKey)
		if err != nil {
			return err
		}
		if prior != nil {
			r.logger.Info("deposit already applied, replaying recorded result",
				zap.String("idempotency_key", idempotencyKey.String()),
				zap.Int64("account_id", accountID))
			newBalance = prior.BalanceAfter
			return nil
		}

		account, err := lockAccount(tx, "id = ?", accountID)
		if err != nil {
			return err
		}

		account.Balance = account.Balance.Add(amount)
		if err := tx.Save(account).Error; err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		entry := model.LedgerEntry{
			AccountID:      account.ID,
			EntryType:      model.EntryTypeDeposit,
			Amount:         amount,
			BalanceAfter:   account.Balance,
			IdempotencyKey: idempotencyKey,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record ledger entry: %w", err)
		}

		newBalance = account.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}

// Withdraw subtracts amount from the user's account atomically.
func (r *accountRepository) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, idempotencyKey *uuid.UUID) (decimal.Decimal, error) {
	var newBalance decimal.Decimal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prior, err := replayedEntry(tx, idempotencyKey)
		if err != nil {
			return err
		}
		if prior != nil {
			r.logger.Info("withdrawal already applied, replaying recorded result",
				zap.String("idempotency_key", idempotencyKey.String()),
				zap.Int64("user_id", userID))
			newBalance = prior.BalanceAfter
			return nil
		}

		account, err := lockAccount(tx, "user_id = ?", userID)
		if err != nil {
			return err
		}

		if account.Balance.LessThan(amount) {
			return domainErrors.NewInsufficientFundsError(amount, account.Balance)
		}

		account.Balance = account.Balance.Sub(amount)
		if err := tx.Save(account).Error; err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		entry := model.LedgerEntry{
			AccountID:      account.ID,
			EntryType:      model.EntryTypeWithdrawal,
			Amount:         amount,
			BalanceAfter:   account.Balance,
			IdempotencyKey: idempotencyKey,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record ledger entry: %w", err)
		}

		newBalance = account.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}

// Transfer debits the sender and credits the target in one transaction.
func (r *accountRepository) Transfer(ctx context.Context, senderUserID int64, targetUsername string, amount decimal.Decimal, idempotencyKey *uuid.UUID) (decimal.Decimal, error) {
	var newBalance decimal.Decimal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prior, err := replayedEntry(tx, idempotencyKey)
		if err != nil {
			return err
		}
		if prior != nil {
			r.logger.Info("transfer already applied, replaying recorded result",
				zap.String("idempotency_key", idempotencyKey.String()),
				zap.Int64("user_id", senderUserID))
			newBalance = prior.BalanceAfter
			return nil
		}

		var target model.User
		if err := tx.Where("username = ?", targetUsername).First(&target).Error; err != nil {
			if domainErrors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.NewAppError(domainErrors.ErrNotFound, "target user not found", nil)
			}
			return fmt.Errorf("failed to look up target user: %w", err)
		}

		// Lock both rows in user-id order so two opposite transfers cannot
		// deadlock on each other.
		firstID, secondID := senderUserID, target.ID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}

		first, err := lockAccount(tx, "user_id = ?", firstID)
		if err != nil {
			return transferLockError(err, firstID, senderUserID)
		}
		second, err := lockAccount(tx, "user_id = ?", secondID)
		if err != nil {
			return transferLockError(err, secondID, senderUserID)
		}

		sender, receiver := first, second
		if sender.UserID != senderUserID {
			sender, receiver = second, first
		}

		if sender.Balance.LessThan(amount) {
			return domainErrors.NewInsufficientFundsError(amount, sender.Balance)
		}

		sender.Balance = sender.Balance.Sub(amount)
		receiver.Balance = receiver.Balance.Add(amount)

		if err := tx.Save(sender).Error; err != nil {
			return fmt.Errorf("failed to debit sender: %w", err)
		}
		if err := tx.Save(receiver).Error; err != nil {
			return fmt.Errorf("failed to credit target: %w", err)
		}

		entries := []model.LedgerEntry{
			{
				AccountID:      sender.ID,
				EntryType:      model.EntryTypeTransferOut,
				Amount:         amount,
				BalanceAfter:   sender.Balance,
				IdempotencyKey: idempotencyKey,
			},
			{
				AccountID:    receiver.ID,
				EntryType:    model.EntryTypeTransferIn,
				Amount:       amount,
				BalanceAfter: receiver.Balance,
			},
		}
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("failed to record ledger entries: %w", err)
		}

		newBalance = sender.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}

// transferLockError distinguishes a missing sender account (NotFound) from
// a target user whose account row is absent, which is an inconsistent state.
func transferLockError(err error, lockedUserID, senderUserID int64) error {
	if domainErrors.CodeOf(err) != domainErrors.ErrNotFound {
		return err
	}
	if lockedUserID == senderUserID {
		return domainErrors.NewAppError(domainErrors.ErrNotFound, "sender account not found", nil)
	}
	return domainErrors.NewAppError(domainErrors.ErrInternal, "target user has no account", nil)
}

// PayCreditBalance moves min(amount, debt) from the account onto the card.
func (r *accountRepository) PayCreditBalance(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	var accountBalance, cardDebt decimal.Decimal

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, "user_id = ?", userID)
		if err != nil {
			return err
		}

		var card model.CreditCard
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&card).Error
		if err != nil {
			if domainErrors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.NewAppError(domainErrors.ErrNotFound, "credit card not found", nil)
			}
			return fmt.Errorf("failed to lock credit card: %w", err)
		}

		if account.Balance.LessThan(amount) {
			return domainErrors.NewInsufficientFundsError(amount, account.Balance)
		}

		// Never pay more than the outstanding debt, even when the caller
		// requested a larger amount.
		payment := decimal.Min(amount, card.Balance)

		account.Balance = account.Balance.Sub(payment)
		card.Balance = card.Balance.Sub(payment)

		if err := tx.Save(account).Error; err != nil {
			return fmt.Errorf("failed to debit account: %w", err)
		}
		if err := tx.Save(&card).Error; err != nil {
			return fmt.Errorf("failed to reduce card debt: %w", err)
		}

		entry := model.LedgerEntry{
			AccountID:    account.ID,
			EntryType:    model.EntryTypeCreditPayoff,
			Amount:       payment,
			BalanceAfter: account.Balance,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record ledger entry: %w", err)
		}

		accountBalance = account.Balance
		cardDebt = card.Balance
		return nil
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return accountBalance, cardDebt, nil
}
