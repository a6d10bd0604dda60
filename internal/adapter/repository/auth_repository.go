package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domainErrors "github.com/finvero/corebank/internal/domain/errors"
	"github.com/finvero/corebank/internal/domain/model"
	domainRepo "github.com/finvero/corebank/internal/domain/repository"
)

// authRepository implements the AuthRepository interface
type authRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAuthRepository creates a new auth repository instance
func NewAuthRepository(db *gorm.DB, logger *zap.Logger) domainRepo.AuthRepository {
	return &authRepository{
		db:     db,
		logger: logger,
	}
}

func (r *authRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if domainErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewAppError(domainErrors.ErrNotFound, "user not found", nil)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

func (r *authRepository) SaveToken(ctx context.Context, token string, userID int64) error {
	record := model.AuthToken{
		Token:  token,
		UserID: userID,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (r *authRepository) GetUserByToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN tokens ON tokens.user_id = users.id").
		Where("tokens.token = ?", token).
		First(&user).Error
	if err != nil {
		if domainErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewAppError(domainErrors.ErrUnauthenticated, "invalid or expired token", nil)
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return &user, nil
}

func (r *authRepository) DeleteToken(ctx context.Context, token string) error {
	res := r.db.WithContext(ctx).Delete(&model.AuthToken{}, "token = ?", token)
	if res.Error != nil {
		return fmt.Errorf("failed to delete token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domainErrors.NewAppError(domainErrors.ErrUnauthenticated, "invalid token", nil)
	}
	return nil
}
