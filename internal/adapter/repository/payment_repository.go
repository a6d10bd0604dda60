package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainErrors "github.com/finvero/corebank/internal/domain/errors"
	"github.com/finvero/corebank/internal/domain/model"
	domainRepo "github.com/finvero/corebank/internal/domain/repository"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

// InitiatePayment runs the whole first phase in one store transaction. The
// code dispatch happens inside it on purpose: a failed send must roll back
// any card row written earlier in the call.
func (r *paymentRepository) InitiatePayment(ctx context.Context, p domainRepo.InitiatePaymentParams) (*model.CreditTransaction, error) {
	var created *model.CreditTransaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var merchant model.Merchant
		err := tx.Where("id = ? AND status = ?", p.MerchantID, true).First(&merchant).Error
		if err != nil {
			if domainErrors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.NewAppError(domainErrors.ErrInvalidArgument, "invalid or inactive merchant", nil)
			}
			return fmt.Errorf("failed to look up merchant: %w", err)
		}

		cardID, err := r.resolveCard(tx, p)
		if err != nil {
			return err
		}

		if err := p.DispatchCode(p.Code); err != nil {
			return domainErrors.NewAppError(domainErrors.ErrDeliveryFailed, "failed to send verification code", err)
		}

		txn := model.CreditTransaction{
			MerchantID: merchant.ID,
			CardID:     cardID,
			Amount:     p.Amount,
			Status:     model.TransactionStatusPending,
			OTPCode:    p.Code,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		created = &txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// resolveCard returns the id of the card paying this transaction: either a
// validated stored card or a freshly persisted row for a new number.
func (r *paymentRepository) resolveCard(tx *gorm.DB, p domainRepo.InitiatePaymentParams) (int64, error) {
	if p.StoredCardID != 0 {
		var card model.StoredCard
		err := tx.Where("id = ? AND user_id = ?", p.StoredCardID, p.UserID).First(&card).Error
		if err != nil {
			if domainErrors.Is(err, gorm.ErrRecordNotFound) {
				return 0, domainErrors.NewAppError(domainErrors.ErrUnauthorized, "invalid card or unauthorized access", nil)
			}
			return 0, fmt.Errorf("failed to look up stored card: %w", err)
		}
		if !card.Active {
			return 0, domainErrors.NewAppError(domainErrors.ErrInvalidArgument, "card is inactive", nil)
		}
		return card.ID, nil
	}

	if p.NewCard == nil {
		return 0, domainErrors.NewAppError(domainErrors.ErrInvalidArgument, "card details required", nil)
	}

	card := model.StoredCard{
		UserID:         p.UserID,
		CardNumberHash: p.NewCard.Fingerprint,
		CardType:       p.NewCard.CardType,
		LastFour:       p.NewCard.LastFour,
		ExpiryDate:     p.NewCard.ExpiryDate,
		// Unsaved cards stay inactive and only anchor this transaction.
		Active: p.NewCard.Save,
	}
	if err := tx.Create(&card).Error; err != nil {
		return 0, fmt.Errorf("failed to persist card: %w", err)
	}

	return card.ID, nil
}

// VerifyPayment settles a PENDING transaction exactly once. The row is
// locked while checked, and the final UPDATE is guarded on status so a
// concurrent verifier that lost the race observes zero affected rows.
func (r *paymentRepository) VerifyPayment(ctx context.Context, userID, transactionID int64, code string) (*model.CreditTransaction, string, error) {
	var completed *model.CreditTransaction
	var merchantName string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn model.CreditTransaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", transactionID, model.TransactionStatusPending).
			First(&txn).Error
		if err != nil {
			if domainErrors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.NewAppError(domainErrors.ErrInvalidOrExpired, "invalid or expired transaction", nil)
			}
			return fmt.Errorf("failed to load transaction: %w", err)
		}

		var card model.StoredCard
		if err := tx.First(&card, txn.CardID).Error; err != nil {
			return fmt.Errorf("failed to load transaction card: %w", err)
		}
		if card.UserID != userID {
			return domainErrors.NewAppError(domainErrors.ErrUnauthorized, "unauthorized transaction", nil)
		}

		if txn.OTPCode != code {
			return domainErrors.NewAppError(domainErrors.ErrInvalidOrExpired, "invalid verification code", nil)
		}

		res := tx.Model(&model.CreditTransaction{}).
			Where("id = ? AND status = ?", txn.ID, model.TransactionStatusPending).
			Updates(map[string]interface{}{
				"status":       model.TransactionStatusCompleted,
				"otp_verified": true,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to complete transaction: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domainErrors.NewAppError(domainErrors.ErrInvalidOrExpired, "invalid or expired transaction", nil)
		}

		// The completed payment draws on the owner's credit line. The limit
		// is intentionally not checked here.
		var creditCard model.CreditCard
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&creditCard).Error
		if err != nil {
			if domainErrors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.NewAppError(domainErrors.ErrInternal, "card owner has no credit line", nil)
			}
			return fmt.Errorf("failed to lock credit card: %w", err)
		}
		creditCard.Balance = creditCard.Balance.Add(txn.Amount)
		if err := tx.Save(&creditCard).Error; err != nil {
			return fmt.Errorf("failed to draw on credit line: %w", err)
		}

		// Cards persisted only for this transaction are removed once it
		// resolves.
		if !card.Active {
			if err := tx.Delete(&model.StoredCard{}, card.ID).Error; err != nil {
				return fmt.Errorf("failed to remove temporary card: %w", err)
			}
		}

		var merchant model.Merchant
		if err := tx.First(&merchant, txn.MerchantID).Error; err != nil {
			return fmt.Errorf("failed to load merchant: %w", err)
		}

		txn.Status = model.TransactionStatusCompleted
		txn.OTPVerified = true
		completed = &txn
		merchantName = merchant.Name
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return completed, merchantName, nil
}

// SaveCard persists a reusable card record and returns its id.
func (r *paymentRepository) SaveCard(ctx context.Context, userID int64, params domainRepo.NewCardParams) (int64, error) {
	card := model.StoredCard{
		UserID:         userID,
		CardNumberHash: params.Fingerprint,
		CardType:       params.CardType,
		LastFour:       params.LastFour,
		ExpiryDate:     params.ExpiryDate,
		Active:         true,
	}

	if err := r.db.WithContext(ctx).Create(&card).Error; err != nil {
		r.logger.Error("failed to save card",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return 0, fmt.Errorf("failed to save card: %w", err)
	}

	return card.ID, nil
}
