package ports

import (
	"context"

	"github.com/macapp/admin-console/internal/core/domain"
)

// UserCreateInput carries a create request with the plain-text password.
type UserCreateInput struct {
	UserName string
	Password string
	Email    *string
	Role     *string
	Avatar   *string
	Status   domain.Status
}

// UserUpdateInput carries a partial update. Nil fields are left unchanged.
type UserUpdateInput struct {
	ID       string
	UserName *string
	Password *string
	Email    *string
	Role     *string
	Avatar   *string
	Status   *domain.Status
}

// UserChanges is the persisted form of an update: PasswordHash replaces the
// plain-text password.
type UserChanges struct {
	ID           string
	UserName     *string
	PasswordHash *string
	Email        *string
	Role         *string
	Avatar       *string
	Status       *domain.Status
}

// UserRepository persists administrator accounts in the "user" table.
type UserRepository interface {
	// FindActiveByUserName only matches accounts whose status is NORMAL.
	FindActiveByUserName(ctx context.Context, userName string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindPaged(ctx context.Context, q domain.PageQuery) ([]domain.SafeUser, int64, error)
	Insert(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, ch UserChanges) error
	SoftDelete(ctx context.Context, id string) error
}

// UserService defines the user administration use cases.
type UserService interface {
	List(ctx context.Context, q domain.PageQuery) (domain.Page[domain.SafeUser], error)
	Create(ctx context.Context, in UserCreateInput) (string, error)
	Update(ctx context.Context, in UserUpdateInput) error
	Delete(ctx context.Context, id string) error
}
