package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/finvero/corebank/internal/audit"
	"github.com/finvero/corebank/internal/domain/dto"
	domainErrors "github.com/finvero/corebank/internal/domain/errors"
	"github.com/finvero/corebank/internal/domain/model"
	"github.com/finvero/corebank/internal/domain/repository"
	"github.com/finvero/corebank/internal/usecase"
)

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) InitiatePayment(ctx context.Context, p repository.InitiatePaymentParams) (*model.CreditTransaction, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreditTransaction), args.Error(1)
}

func (m *MockPaymentRepository) VerifyPayment(ctx context.Context, userID, transactionID int64, code string) (*model.CreditTransaction, string, error) {
	args := m.Called(ctx, userID, transactionID, code)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.CreditTransaction), args.String(1), args.Error(2)
}

func (m *MockPaymentRepository) SaveCard(ctx context.Context, userID int64, card repository.NewCardParams) (int64, error) {
	args := m.Called(ctx, userID, card)
	return args.Get(0).(int64), args.Error(1)
}

// MockCodeSender is a mock implementation of email.CodeSender
type MockCodeSender struct {
	mock.Mock
}

func (m *MockCodeSender) Send(ctx context.Context, address, code string) error {
	args := m.Called(ctx, address, code)
	return args.Error(0)
}

func newCardRequest() dto.InitiatePaymentRequest {
	return dto.InitiatePaymentRequest{
		MerchantID:  1,
		Amount:      decimal.NewFromFloat(150.00),
		CVV:         "123",
		CardNumber:  "4532015112830366",
		ExpiryMonth: 12,
		ExpiryYear:  2028,
	}
}

func TestPaymentService_Initiate(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("new card path derives storable fields and dispatches code", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		req := newCardRequest()
		pending := &model.CreditTransaction{
			ID:         42,
			MerchantID: 1,
			CardID:     9,
			Amount:     req.Amount,
			Status:     model.TransactionStatusPending,
		}

		var captured repository.InitiatePaymentParams
		mockRepo.On("InitiatePayment", ctx, mock.AnythingOfType("repository.InitiatePaymentParams")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(repository.InitiatePaymentParams)
			}).
			Return(pending, nil)

		txn, err := service.Initiate(ctx, 1, "user1@example.com", req)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), txn.ID)
		assert.Equal(t, model.TransactionStatusPending, txn.Status)

		// The raw number never crosses the repository boundary.
		assert.Zero(t, captured.StoredCardID)
		assert.NotNil(t, captured.NewCard)
		assert.Equal(t, "VISA", captured.NewCard.CardType)
		assert.Equal(t, "0366", captured.NewCard.LastFour)
		assert.NotContains(t, captured.NewCard.Fingerprint, "4532")
		assert.Len(t, captured.Code, 6)
		mockRepo.AssertExpectations(t)
	})

	t.Run("dispatch callback reaches the sender with the code", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		mockSender := new(MockCodeSender)
		service := usecase.NewPaymentService(mockRepo, mockSender, audit.NopRecorder{}, logger)

		req := newCardRequest()
		pending := &model.CreditTransaction{ID: 42, MerchantID: 1, Amount: req.Amount, Status: model.TransactionStatusPending}

		mockSender.On("Send", ctx, "user1@example.com", mock.AnythingOfType("string")).Return(nil)
		mockRepo.On("InitiatePayment", ctx, mock.AnythingOfType("repository.InitiatePaymentParams")).
			Run(func(args mock.Arguments) {
				// The store runs the dispatch inside its transaction.
				p := args.Get(1).(repository.InitiatePaymentParams)
				assert.NoError(t, p.DispatchCode(p.Code))
			}).
			Return(pending, nil)

		_, err := service.Initiate(ctx, 1, "user1@example.com", req)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockSender.AssertExpectations(t)
	})

	t.Run("stored card path forwards the card id", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		req := dto.InitiatePaymentRequest{
			MerchantID: 1,
			Amount:     decimal.NewFromFloat(80.00),
			CVV:        "456",
			CardID:     9,
		}
		pending := &model.CreditTransaction{ID: 7, MerchantID: 1, CardID: 9, Amount: req.Amount, Status: model.TransactionStatusPending}

		var captured repository.InitiatePaymentParams
		mockRepo.On("InitiatePayment", ctx, mock.AnythingOfType("repository.InitiatePaymentParams")).
			Run(func(args mock.Arguments) {
				captured = args.Get(1).(repository.InitiatePaymentParams)
			}).
			Return(pending, nil)

		_, err := service.Initiate(ctx, 1, "user1@example.com", req)

		assert.NoError(t, err)
		assert.Equal(t, int64(9), captured.StoredCardID)
		assert.Nil(t, captured.NewCard)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid card number rejected before store access", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		req := newCardRequest()
		req.CardNumber = "4532015112830367" // fails the checksum

		_, err := service.Initiate(ctx, 1, "user1@example.com", req)

		assert.Error(t, err)
		assert.Equal(t, domainErrors.ErrInvalidArgument, domainErrors.CodeOf(err))
		mockRepo.AssertNotCalled(t, "InitiatePayment")
	})

	t.Run("invalid CVV rejected", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		req := newCardRequest()
		req.CVV = "12a"

		_, err := service.Initiate(ctx, 1, "user1@example.com", req)

		assert.Error(t, err)
		assert.Equal(t, domainErrors.ErrInvalidArgument, domainErrors.CodeOf(err))
		mockRepo.AssertNotCalled(t, "InitiatePayment")
	})

	t.Run("missing payer email rejected", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		_, err := service.Initiate(ctx, 1, "", newCardRequest())

		assert.Error(t, err)
		assert.Equal(t, domainErrors.ErrInvalidArgument, domainErrors.CodeOf(err))
		mockRepo.AssertNotCalled(t, "InitiatePayment")
	})

	t.Run("delivery failure aborts the initiation", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		mockRepo.On("InitiatePayment", ctx, mock.AnythingOfType("repository.InitiatePaymentParams")).
			Return(nil, domainErrors.NewAppError(domainErrors.ErrDeliveryFailed, "failed to send verification code", nil))

		_, err := service.Initiate(ctx, 1, "user1@example.com", newCardRequest())

		assert.Error(t, err)
		assert.Equal(t, domainErrors.ErrDeliveryFailed, domainErrors.CodeOf(err))
		mockRepo.AssertExpectations(t)
	})
}

func TestPaymentService_SaveCard(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("valid card stored active with derived fields", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		var captured repository.NewCardParams
		mockRepo.On("SaveCard", ctx, int64(1), mock.AnythingOfType("repository.NewCardParams")).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(repository.NewCardParams)
			}).
			Return(int64(9), nil)

		res, err := service.SaveCard(ctx, 1, dto.SaveCardRequest{
			CardNumber:  "4532015112830366",
			ExpiryMonth: 12,
			ExpiryYear:  2028,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(9), res.CardID)
		assert.Equal(t, "VISA", res.CardType)
		assert.Equal(t, "0366", res.LastFour)
		assert.True(t, captured.Save)
		assert.NotContains(t, captured.Fingerprint, "4532")
		mockRepo.AssertExpectations(t)
	})

	t.Run("checksum failure rejected before store access", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		_, err := service.SaveCard(ctx, 1, dto.SaveCardRequest{
			CardNumber:  "4532015112830367",
			ExpiryMonth: 12,
			ExpiryYear:  2028,
		})

		assert.Error(t, err)
		assert.Equal(t, domainErrors.ErrInvalidArgument, domainErrors.CodeOf(err))
		mockRepo.AssertNotCalled(t, "SaveCard")
	})

	t.Run("store error passes through", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		mockRepo.On("SaveCard", ctx, int64(1), mock.AnythingOfType("repository.NewCardParams")).
			Return(int64(0), domainErrors.NewAppError(domainErrors.ErrInternal, "failed to save card", nil))

		_, err := service.SaveCard(ctx, 1, dto.SaveCardRequest{
			CardNumber:  "4532015112830366",
			ExpiryMonth: 12,
			ExpiryYear:  2028,
		})

		assert.Error(t, err)
		assert.Equal(t, domainErrors.ErrInternal, domainErrors.CodeOf(err))
		mockRepo.AssertExpectations(t)
	})
}

func TestPaymentService_Verify(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("successful verification returns amount and merchant", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		settled := &model.CreditTransaction{
			ID:          42,
			MerchantID:  1,
			Amount:      decimal.NewFromFloat(150.00),
			Status:      model.TransactionStatusCompleted,
			OTPVerified: true,
		}
		mockRepo.On("VerifyPayment", ctx, int64(1), int64(42), "123456").
			Return(settled, "Tienda A", nil)

		amount, merchant, err := service.Verify(ctx, 1, 42, "123456")

		assert.NoError(t, err)
		assert.True(t, amount.Equal(decimal.NewFromFloat(150.00)))
		assert.Equal(t, "Tienda A", merchant)
		mockRepo.AssertExpectations(t)
	})

	t.Run("wrong code surfaces invalid or expired", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		mockRepo.On("VerifyPayment", ctx, int64(1), int64(42), "000000").
			Return(nil, "", domainErrors.NewAppError(domainErrors.ErrInvalidOrExpired, "invalid verification code", nil))

		_, _, err := service.Verify(ctx, 1, 42, "000000")

		assert.Error(t, err)
		assert.Equal(t, domainErrors.ErrInvalidOrExpired, domainErrors.CodeOf(err))
		mockRepo.AssertExpectations(t)
	})

	t.Run("foreign transaction surfaces unauthorized", func(t *testing.T) {
		mockRepo := new(MockPaymentRepository)
		service := usecase.NewPaymentService(mockRepo, nil, audit.NopRecorder{}, logger)

		mockRepo.On("VerifyPayment", ctx, int64(2), int64(42), "123456").
			Return(nil, "", domainErrors.NewAppError(domainErrors.ErrUnauthorized, "unauthorized transaction", nil))

		_, _, err := service.Verify(ctx, 2, 42, "123456")

		assert.Error(t, err)
		assert.Equal(t, domainErrors.ErrUnauthorized, domainErrors.CodeOf(err))
		mockRepo.AssertExpectations(t)
	})
}
