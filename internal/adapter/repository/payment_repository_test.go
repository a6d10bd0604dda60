package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/finvero/corebank/internal/domain/errors"
	"github.com/finvero/corebank/internal/domain/model"
	domainRepo "github.com/finvero/corebank/internal/domain/repository"
)

func newCardFixture(save bool) *domainRepo.NewCardParams {
	return &domainRepo.NewCardParams{
		Fingerprint: "fp-4532015112830366",
		CardType:    "VISA",
		LastFour:    "0366",
		ExpiryDate:  time.Date(2027, 12, 1, 0, 0, 0, 0, time.UTC),
		Save:        save,
	}
}

func initiateParams(f fixtures, dispatched *[]string) domainRepo.InitiatePaymentParams {
	return domainRepo.InitiatePaymentParams{
		UserID:     f.userA.ID,
		MerchantID: f.merchant.ID,
		Amount:     decimal.NewFromInt(150),
		Code:       "482913",
		NewCard:    newCardFixture(false),
		DispatchCode: func(code string) error {
			*dispatched = append(*dispatched, code)
			return nil
		},
	}
}

func TestPaymentRepository_InitiatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending transaction with an anchored card", func(t *testing.T) {
		db := newTestDB(t)
		f := seedFixtures(t, db)
		repo := NewPaymentRepository(db, zap.NewNop())

		var dispatched []string
		txn, err := repo.InitiatePayment(ctx, initiateParams(f, &dispatched))
		require.NoError(t, err)
		require.NotNil(t, txn)

		assert.Equal(t, model.TransactionStatusPending, txn.Status)
		assert.Equal(t, "482913", txn.OTPCode)
		assert.Equal(t, []string{"482913"}, dispatched)

		var card model.StoredCard
		require.NoError(t, db.First(&card, txn.CardID).Error)
		assert.False(t, card.Active, "an unsaved card only anchors this transaction")
		assert.Equal(t, f.userA.ID, card.UserID)
		assert.Equal(t, "0366", card.LastFour)
	})

	t.Run("inactive merchant is rejected", func(t *testing.T) {
		db := newTestDB(t)
		f := seedFixtures(t, db)
		require.NoError(t, db.Model(&model.Merchant{}).Where("id = ?", f.merchant.ID).Update("status", false).Error)
		repo := NewPaymentRepository(db, zap.NewNop())

		var dispatched []string
		_, err := repo.InitiatePayment(ctx, initiateParams(f, &dispatched))
		assert.Equal(t, domainErrors.ErrInvalidArgument, domainErrors.CodeOf(err))
		assert.Empty(t, dispatched, "no code may leave the service for a rejected merchant")
	})

	t.Run("failed code delivery rolls back the card row", func(t *testing.T) {
		db := newTestDB(t)
		f := seedFixtures(t, db)
		repo := NewPaymentRepository(db, zap.NewNop())

		params := initiateParams(f, &[]string{})
		params.DispatchCode = func(string) error {
			return errors.New("smtp: connection refused")
		}

		_, err := repo.InitiatePayment(ctx, params)
		assert.Equal(t, domainErrors.ErrDeliveryFailed, domainErrors.CodeOf(err))

		var cards, txns int64
		require.NoError(t, db.Model(&model.StoredCard{}).Count(&cards).Error)
		require.NoError(t, db.Model(&model.CreditTransaction{}).Count(&txns).Error)
		assert.EqualValues(t, 0, cards, "the anchored card must not survive the rollback")
		assert.EqualValues(t, 0, txns)
	})

	t.Run("stored card owned by another user is rejected", func(t *testing.T) {
		db := newTestDB(t)
		f := seedFixtures(t, db)
		repo := NewPaymentRepository(db, zap.NewNop())

		foreign := model.StoredCard{
			UserID:         f.userB.ID,
			CardNumberHash: "fp-other",
			CardType:       "VISA",
			LastFour:       "1111",
			ExpiryDate:     time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			Active:         true,
		}
		require.NoError(t, db.Create(&foreign).Error)

		params := initiateParams(f, &[]string{})
		params.NewCard = nil
		params.StoredCardID = foreign.ID

		_, err := repo.InitiatePayment(ctx, params)
		assert.Equal(t, domainErrors.ErrUnauthorized, domainErrors.CodeOf(err))
	})
}

func TestPaymentRepository_VerifyPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("completes the payment and draws on the credit line", func(t *testing.T) {
		db := newTestDB(t)
		f := seedFixtures(t, db)
		repo := NewPaymentRepository(db, zap.NewNop())

		var dispatched []string
		pending, err := repo.InitiatePayment(ctx, initiateParams(f, &dispatched))
		require.NoError(t, err)

		txn, merchantName, err := repo.VerifyPayment(ctx, f.userA.ID, pending.ID, "482913")
		require.NoError(t, err)
		assert.Equal(t, model.TransactionStatusCompleted, txn.Status)
		assert.True(t, txn.OTPVerified)
		assert.Equal(t, "Tienda A", merchantName)

		card := reloadCreditCard(t, db, f.cardA.ID)
		assert.True(t, card.Balance.Equal(decimal.NewFromInt(350)),
			"debt grows by the payment amount, got %s", card.Balance)

		var anchored int64
		require.NoError(t, db.Model(&model.StoredCard{}).Where("id = ?", pending.CardID).Count(&anchored).Error)
		assert.EqualValues(t, 0, anchored, "the temporary card is removed on settlement")
	})

	t.Run("second verification of a completed transaction finds nothing pending", func(t *testing.T) {
		db := newTestDB(t)
		f := seedFixtures(t, db)
		repo := NewPaymentRepository(db, zap.NewNop())

		var dispatched []string
		pending, err := repo.InitiatePayment(ctx, initiateParams(f, &dispatched))
		require.NoError(t, err)

		_, _, err = repo.VerifyPayment(ctx, f.userA.ID, pending.ID, "482913")
		require.NoError(t, err)

		_, _, err = repo.VerifyPayment(ctx, f.userA.ID, pending.ID, "482913")
		assert.Equal(t, domainErrors.ErrInvalidOrExpired, domainErrors.CodeOf(err))

		card := reloadCreditCard(t, db, f.cardA.ID)
		assert.True(t, card.Balance.Equal(decimal.NewFromInt(350)),
			"the credit line is drawn exactly once")
	})

	t.Run("wrong code leaves the transaction pending", func(t *testing.T) {
		db := newTestDB(t)
		f := seedFixtures(t, db)
		repo := NewPaymentRepository(db, zap.NewNop())

		var dispatched []string
		pending, err := repo.InitiatePayment(ctx, initiateParams(f, &dispatched))
		require.NoError(t, err)

		_, _, err = repo.VerifyPayment(ctx, f.userA.ID, pending.ID, "000000")
		assert.Equal(t, domainErrors.ErrInvalidOrExpired, domainErrors.CodeOf(err))

		var stored model.CreditTransaction
		require.NoError(t, db.First(&stored, pending.ID).Error)
		assert.Equal(t, model.TransactionStatusPending, stored.Status)
		card := reloadCreditCard(t, db, f.cardA.ID)
		assert.True(t, card.Balance.Equal(decimal.NewFromInt(200)))
	})

	t.Run("another user's verification attempt is rejected", func(t *testing.T) {
		db := newTestDB(t)
		f := seedFixtures(t, db)
		repo := NewPaymentRepository(db, zap.NewNop())

		var dispatched []string
		pending, err := repo.InitiatePayment(ctx, initiateParams(f, &dispatched))
		require.NoError(t, err)

		_, _, err = repo.VerifyPayment(ctx, f.userB.ID, pending.ID, "482913")
		assert.Equal(t, domainErrors.ErrUnauthorized, domainErrors.CodeOf(err))
	})
}

func TestPaymentRepository_SaveCard(t *testing.T) {
	ctx := context.Background()

	t.Run("persists an active reusable card", func(t *testing.T) {
		db := newTestDB(t)
		f := seedFixtures(t, db)
		repo := NewPaymentRepository(db, zap.NewNop())

		id, err := repo.SaveCard(ctx, f.userA.ID, *newCardFixture(true))
		require.NoError(t, err)

		var card model.StoredCard
		require.NoError(t, db.First(&card, id).Error)
		assert.True(t, card.Active)
		assert.Equal(t, f.userA.ID, card.UserID)
		assert.Equal(t, "VISA", card.CardType)
		assert.Equal(t, "0366", card.LastFour)
	})
}
