package ports

import (
	"context"

	"github.com/macapp/admin-console/internal/core/domain"
)

// LoginThrottle limits repeated failed logins for the same key.
type LoginThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// AuthService verifies credentials and re-validates session users.
type AuthService interface {
	// Login returns the safe user for valid credentials of an active account.
	// Every failure cause collapses into domain.ErrInvalidCredentials.
	Login(ctx context.Context, userName, password string) (*domain.SafeUser, error)
	// Profile re-reads the user and fails with domain.ErrAccountDisabled unless
	// it still exists with status NORMAL.
	Profile(ctx context.Context, id string) (*domain.SafeUser, error)
}
