package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/finvero/corebank/internal/adapter/handler/http"
	"github.com/finvero/corebank/internal/audit"
	"github.com/finvero/corebank/internal/config"
	"github.com/finvero/corebank/internal/infrastructure/database"
	"github.com/finvero/corebank/internal/infrastructure/email"
	"github.com/finvero/corebank/internal/logger"
	"github.com/finvero/corebank/internal/middleware/auth"
	"github.com/finvero/corebank/internal/usecase"
)

type Server struct {
	config *config.Config
	logger *zap.Logger
	echo   *echo.Echo
	repos  *database.Repositories
}

func NewServer(cfg *config.Config, log *zap.Logger, repos *database.Repositories) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewRequestValidator()

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))
	// Attach the caller's address so audit emissions deep in the call
	// chain carry the request origin.
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(audit.WithSource(req.Context(), c.RealIP())))
			return next(c)
		}
	})

	return &Server{
		config: cfg,
		logger: log,
		echo:   e,
		repos:  repos,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// newCodeSender selects the delivery transport from configuration.
func (s *Server) newCodeSender() email.CodeSender {
	if s.config.Email.Mode == "smtp" {
		return email.NewSMTPSender(email.SMTPConfig{
			Host:     s.config.Email.Host,
			Port:     s.config.Email.Port,
			Username: s.config.Email.Username,
			Password: s.config.Email.Password,
			From:     s.config.Email.From,
		}, s.logger)
	}
	return email.NewLogSender(s.logger)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Initialize services
	authService := usecase.NewAuthService(s.repos.Auth, s.config.JWT.Secret, s.config.JWT.TokenTTL.Std(), s.logger)
	accountService := usecase.NewAccountService(s.repos.Account, s.repos.Audit, s.logger)
	paymentService := usecase.NewPaymentService(s.repos.Payment, s.newCodeSender(), s.repos.Audit, s.logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(s.logger, authService)
	accountHandler := handlers.NewAccountHandler(s.logger, accountService)
	paymentHandler := handlers.NewPaymentHandler(s.logger, paymentService)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Public routes (no authentication required)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout)

	// Protected routes (require a valid, unrevoked bearer token)
	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
		Tokens: s.repos.Auth,
	}
	bank := v1.Group("/bank", auth.JWTMiddleware(jwtConfig))

	bank.POST("/deposit", accountHandler.Deposit)
	bank.POST("/withdraw", accountHandler.Withdraw)
	bank.POST("/transfer", accountHandler.Transfer)
	bank.POST("/pay-credit-balance", accountHandler.PayCreditBalance)

	bank.POST("/credit-payment", paymentHandler.InitiatePayment)
	bank.POST("/verify-otp", paymentHandler.VerifyPayment)
	bank.POST("/cards", paymentHandler.SaveCard)
}
