package usecase

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/finvero/corebank/internal/domain/dto"
	domainErrors "github.com/finvero/corebank/internal/domain/errors"
	"github.com/finvero/corebank/internal/domain/repository"
)

// AuthService issues and revokes bearer tokens. Tokens are JWTs and are also
// recorded in the store, so revocation works before expiry.
type AuthService struct {
	authRepo repository.AuthRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	authRepo repository.AuthRepository,
	secret string,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		authRepo: authRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *dto.UserProfile, error) {
	user, err := s.authRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if domainErrors.CodeOf(err) == domainErrors.ErrNotFound {
			// Same message as a bad password so usernames cannot be probed.
			return "", nil, domainErrors.NewAppError(domainErrors.ErrUnauthenticated, "invalid credentials", nil)
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domainErrors.NewAppError(domainErrors.ErrUnauthenticated, "invalid credentials", nil)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       user.ID,
		"username":  user.Username,
		"role":      user.Role,
		"email":     user.Email,
		"full_name": user.FullName,
		"iat":       now.Unix(),
		"exp":       now.Add(s.tokenTTL).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, domainErrors.Wrap(err, "failed to sign token")
	}

	if err := s.authRepo.SaveToken(ctx, token, user.ID); err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username))

	return token, &dto.UserProfile{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		FullName: user.FullName,
		Email:    user.Email,
	}, nil
}

// Logout revokes a previously issued token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.authRepo.DeleteToken(ctx, token)
}
