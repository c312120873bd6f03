package ports

import (
	"context"

	"github.com/macapp/admin-console/internal/core/domain"
)

// CategoryCreateInput carries a validated create request.
type CategoryCreateInput struct {
	Name        string
	Description *string
	Status      domain.Status
}

// CategoryUpdateInput carries a partial update. Nil fields are left unchanged.
type CategoryUpdateInput struct {
	ID          int64
	Name        *string
	Description *string
	Status      *domain.Status
}

// CategoryRepository reads the unified category view and writes the
// categories table.
type CategoryRepository interface {
	FindPaged(ctx context.Context, q domain.PageQuery) ([]domain.Category, int64, error)
	Insert(ctx context.Context, in CategoryCreateInput) (string, error)
	Update(ctx context.Context, in CategoryUpdateInput) error
	Delete(ctx context.Context, id int64) error
}

// CategoryService defines the category use cases.
type CategoryService interface {
	List(ctx context.Context, q domain.PageQuery) (domain.Page[domain.Category], error)
	Create(ctx context.Context, in CategoryCreateInput) (string, error)
	Update(ctx context.Context, in CategoryUpdateInput) error
	Delete(ctx context.Context, id int64) error
}
