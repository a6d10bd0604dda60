package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/finvero/corebank/internal/domain/dto"
	"github.com/finvero/corebank/internal/middleware/auth"
	"github.com/finvero/corebank/internal/usecase"
)

// AccountHandler handles deposit-account money movement requests
type AccountHandler struct {
	logger         *zap.Logger
	accountService *usecase.AccountService
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(logger *zap.Logger, accountService *usecase.AccountService) *AccountHandler {
	return &AccountHandler{
		logger:         logger,
		accountService: accountService,
	}
}

// requireUser extracts the authenticated identity set by the middleware. The
// returned error must be non-nil on failure so callers stop before touching
// the user.
func requireUser(c echo.Context) (*auth.AuthUser, error) {
	user, ok := auth.UserFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return user, nil
}

// parseIdempotencyKey converts the optional client key. Format errors were
// already rejected by request validation.
func parseIdempotencyKey(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	key, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &key
}

// Deposit handles POST /api/v1/bank/deposit
func (h *AccountHandler) Deposit(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.DepositRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	newBalance, err := h.accountService.Deposit(c.Request().Context(), user.ID, req.AccountID, req.Amount, parseIdempotencyKey(req.IdempotencyKey))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BalanceResponse{
		Message:    "Deposit successful",
		NewBalance: newBalance.String(),
	})
}

// Withdraw handles POST /api/v1/bank/withdraw
func (h *AccountHandler) Withdraw(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.WithdrawRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	newBalance, err := h.accountService.Withdraw(c.Request().Context(), user.ID, req.Amount, parseIdempotencyKey(req.IdempotencyKey))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BalanceResponse{
		Message:    "Withdrawal successful",
		NewBalance: newBalance.String(),
	})
}

// Transfer handles POST /api/v1/bank/transfer
func (h *AccountHandler) Transfer(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.TransferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	newBalance, err := h.accountService.Transfer(c.Request().Context(), user.ID, user.Username, req.TargetUsername, req.Amount, parseIdempotencyKey(req.IdempotencyKey))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BalanceResponse{
		Message:    "Transfer successful",
		NewBalance: newBalance.String(),
	})
}

// PayCreditBalance handles POST /api/v1/bank/pay-credit-balance
func (h *AccountHandler) PayCreditBalance(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.PayCreditBalanceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	accountBalance, cardDebt, err := h.accountService.PayCreditBalance(c.Request().Context(), user.ID, req.Amount)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.PayoffResponse{
		Message:        "Credit card debt payment successful",
		AccountBalance: accountBalance.String(),
		CreditCardDebt: cardDebt.String(),
	})
}
