package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/finvero/corebank/internal/domain/dto"
	"github.com/finvero/corebank/internal/usecase"
)

// PaymentHandler handles the two-phase credit-payment endpoints
type PaymentHandler struct {
	logger         *zap.Logger
	paymentService *usecase.PaymentService
}

// NewPaymentHandler creates a new payment handler instance
func NewPaymentHandler(logger *zap.Logger, paymentService *usecase.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		logger:         logger,
		paymentService: paymentService,
	}
}

// InitiatePayment handles POST /api/v1/bank/credit-payment
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	txn, err := h.paymentService.Initiate(c.Request().Context(), user.ID, user.Email, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.InitiatePaymentResponse{
		Message:       "Transaction initiated",
		TransactionID: txn.ID,
	})
}

// SaveCard handles POST /api/v1/bank/cards
func (h *PaymentHandler) SaveCard(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.SaveCardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.paymentService.SaveCard(c.Request().Context(), user.ID, req)
	if err != nil {
		return respondError(c, err)
	}

	res.Message = "Card saved successfully"
	return c.JSON(http.StatusOK, res)
}

// VerifyPayment handles POST /api/v1/bank/verify-otp
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	amount, merchantName, err := h.paymentService.Verify(c.Request().Context(), user.ID, req.TransactionID, req.OTPCode)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.VerifyPaymentResponse{
		Message:  "Transaction completed successfully",
		Amount:   amount.String(),
		Merchant: merchantName,
	})
}
