package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finvero/corebank/internal/audit"
	"github.com/finvero/corebank/internal/cards"
	"github.com/finvero/corebank/internal/domain/dto"
	domainErrors "github.com/finvero/corebank/internal/domain/errors"
	"github.com/finvero/corebank/internal/domain/model"
	"github.com/finvero/corebank/internal/domain/repository"
	"github.com/finvero/corebank/internal/infrastructure/email"
)

const oneTimeCodeLength = 6

// PaymentService drives the two-phase credit-payment protocol: initiate
// persists a PENDING transaction and dispatches a one-time code; verify
// proves possession of the code and settles the transaction exactly once.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	sender      email.CodeSender
	recorder    audit.Recorder
	logger      *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	sender email.CodeSender,
	recorder audit.Recorder,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		sender:      sender,
		recorder:    recorder,
		logger:      logger,
	}
}

// Initiate validates the merchant, card, and CVV, persists a PENDING
// transaction, and dispatches a one-time code to the payer's email.
func (s *PaymentService) Initiate(ctx context.Context, userID int64, userEmail string, req dto.InitiatePaymentRequest) (*model.CreditTransaction, error) {
	txn, err := s.initiate(ctx, userID, userEmail, req)
	if err != nil {
		// The failure already rolled everything back; the trail entry is
		// still attempted.
		s.recorder.Record(ctx, audit.Event{
			Kind:          model.AuditPaymentFailed,
			UserID:        userID,
			MerchantID:    req.MerchantID,
			Amount:        req.Amount,
			Status:        string(model.TransactionStatusFailed),
			Context:       model.JSONB{"error": err.Error()},
			SourceAddress: audit.SourceFrom(ctx),
		})
		return nil, err
	}

	if !req.StoredCardPath() && req.SaveCard {
		s.recorder.Record(ctx, audit.Event{
			Kind:          model.AuditCardSaved,
			UserID:        userID,
			MerchantID:    req.MerchantID,
			Status:        "COMPLETED",
			Context:       model.JSONB{"card_type": string(cards.Classify(req.CardNumber))},
			SourceAddress: audit.SourceFrom(ctx),
		})
	}

	s.recorder.Record(ctx, audit.Event{
		Kind:          model.AuditPaymentInitiated,
		TransactionID: &txn.ID,
		UserID:        userID,
		MerchantID:    txn.MerchantID,
		Amount:        txn.Amount,
		Status:        string(txn.Status),
		SourceAddress: audit.SourceFrom(ctx),
	})

	s.logger.Info("payment initiated",
		zap.Int64("transaction_id", txn.ID),
		zap.Int64("user_id", userID),
		zap.Int64("merchant_id", txn.MerchantID),
		zap.String("amount", txn.Amount.String()))

	return txn, nil
}

func (s *PaymentService) initiate(ctx context.Context, userID int64, userEmail string, req dto.InitiatePaymentRequest) (*model.CreditTransaction, error) {
	if userEmail == "" {
		return nil, domainErrors.NewAppError(domainErrors.ErrInvalidArgument, "user email is required for verification", nil)
	}
	if !req.Amount.IsPositive() {
		return nil, domainErrors.NewAppError(domainErrors.ErrInvalidArgument, "amount must be greater than zero", nil)
	}
	if !cards.ValidCVV(req.CVV) {
		return nil, domainErrors.NewAppError(domainErrors.ErrInvalidArgument, "invalid CVV format", nil)
	}

	params := repository.InitiatePaymentParams{
		UserID:     userID,
		MerchantID: req.MerchantID,
		Amount:     req.Amount,
	}

	if req.StoredCardPath() {
		params.StoredCardID = req.CardID
	} else {
		if !cards.ValidNumber(req.CardNumber) {
			return nil, domainErrors.NewAppError(domainErrors.ErrInvalidArgument, "invalid card number", nil)
		}
		params.NewCard = &repository.NewCardParams{
			Fingerprint: cards.Fingerprint(req.CardNumber),
			CardType:    string(cards.Classify(req.CardNumber)),
			LastFour:    cards.LastFour(req.CardNumber),
			ExpiryDate:  time.Date(req.ExpiryYear, time.Month(req.ExpiryMonth), 1, 0, 0, 0, 0, time.UTC),
			Save:        req.SaveCard,
		}
	}

	code, err := generateOneTimeCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}
	params.Code = code
	params.DispatchCode = func(c string) error {
		return s.sender.Send(ctx, userEmail, c)
	}

	return s.paymentRepo.InitiatePayment(ctx, params)
}

// SaveCard validates a card number and stores its fingerprint and display
// fields for later reuse.
func (s *PaymentService) SaveCard(ctx context.Context, userID int64, req dto.SaveCardRequest) (*dto.SaveCardResponse, error) {
	if !cards.ValidNumber(req.CardNumber) {
		return nil, domainErrors.NewAppError(domainErrors.ErrInvalidArgument, "invalid card number", nil)
	}

	params := repository.NewCardParams{
		Fingerprint: cards.Fingerprint(req.CardNumber),
		CardType:    string(cards.Classify(req.CardNumber)),
		LastFour:    cards.LastFour(req.CardNumber),
		ExpiryDate:  time.Date(req.ExpiryYear, time.Month(req.ExpiryMonth), 1, 0, 0, 0, 0, time.UTC),
		Save:        true,
	}

	cardID, err := s.paymentRepo.SaveCard(ctx, userID, params)
	if err != nil {
		domainErrors.LogError(s.logger, err, "card save failed",
			zap.Int64("user_id", userID))
		return nil, err
	}

	s.recorder.Record(ctx, audit.Event{
		Kind:          model.AuditCardSaved,
		UserID:        userID,
		Status:        "COMPLETED",
		Context:       model.JSONB{"card_type": params.CardType},
		SourceAddress: audit.SourceFrom(ctx),
	})

	return &dto.SaveCardResponse{
		CardID:   cardID,
		CardType: params.CardType,
		LastFour: params.LastFour,
	}, nil
}

// Verify settles a PENDING transaction with its one-time code and returns
// the settled amount and merchant name.
func (s *PaymentService) Verify(ctx context.Context, userID, transactionID int64, code string) (decimal.Decimal, string, error) {
	txn, merchantName, err := s.paymentRepo.VerifyPayment(ctx, userID, transactionID, code)
	if err != nil {
		domainErrors.LogError(s.logger, err, "payment verification failed",
			zap.Int64("transaction_id", transactionID),
			zap.Int64("user_id", userID))
		s.recorder.Record(ctx, audit.Event{
			Kind:          model.AuditPaymentFailed,
			TransactionID: &transactionID,
			UserID:        userID,
			Status:        string(model.TransactionStatusFailed),
			Context:       model.JSONB{"error": err.Error()},
			SourceAddress: audit.SourceFrom(ctx),
		})
		return decimal.Zero, "", err
	}

	s.recorder.Record(ctx, audit.Event{
		Kind:          model.AuditPaymentCompleted,
		TransactionID: &txn.ID,
		UserID:        userID,
		MerchantID:    txn.MerchantID,
		Amount:        txn.Amount,
		Status:        string(txn.Status),
		SourceAddress: audit.SourceFrom(ctx),
	})

	s.logger.Info("payment completed",
		zap.Int64("transaction_id", txn.ID),
		zap.Int64("user_id", userID),
		zap.String("merchant", merchantName))

	return txn.Amount, merchantName, nil
}

// generateOneTimeCode draws each digit from a cryptographically secure
// source. A predictable generator here would let an attacker skip the
// possession proof entirely.
func generateOneTimeCode() (string, error) {
	buf := make([]byte, oneTimeCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}
