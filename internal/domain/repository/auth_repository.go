package repository

import (
	"context"

	"github.com/finvero/corebank/internal/domain/model"
)

// AuthRepository resolves identities and maintains the durable token store.
type AuthRepository interface {
	// GetUserByUsername loads a user for credential verification.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// SaveToken records an issued bearer token.
	SaveToken(ctx context.Context, token string, userID int64) error

	// GetUserByToken resolves a bearer token to its user, failing if the
	// token was never issued or has been revoked.
	GetUserByToken(ctx context.Context, token string) (*model.User, error)

	// DeleteToken revokes a token. Fails if the token is unknown.
	DeleteToken(ctx context.Context, token string) error
}
