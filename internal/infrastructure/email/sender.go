// Package email delivers one-time verification codes to payers.
package email

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// CodeSender delivers a one-time code to an address. A returned error is a
// hard stop for payment initiation.
type CodeSender interface {
	Send(ctx context.Context, address, code string) error
}

// SMTPConfig holds the delivery transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends codes over SMTP.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTPSender creates a CodeSender backed by an SMTP server.
func NewSMTPSender(cfg SMTPConfig, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// Send delivers the code. It honors context cancellation before dialing;
// gomail itself does not take a context.
func (s *SMTPSender) Send(ctx context.Context, address, code string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", address)
	m.SetHeader("Subject", "Your payment verification code")
	m.SetBody("text/plain", fmt.Sprintf("Your one-time verification code is %s. It is valid for this payment only.", code))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("failed to send verification code",
			zap.String("address", address),
			zap.Error(err))
		return fmt.Errorf("failed to send verification code: %w", err)
	}

	s.logger.Info("verification code sent", zap.String("address", address))
	return nil
}

// LogSender writes codes to the log instead of sending mail. Development
// only; never enable it where real codes matter.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a CodeSender that only logs.
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, address, code string) error {
	s.logger.Info("simulated verification code delivery",
		zap.String("address", address),
		zap.String("code", code))
	return nil
}
