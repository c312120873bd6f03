package ports

import (
	"context"

	"github.com/macapp/admin-console/internal/core/domain"
)

// ResourceCreateInput carries a validated create request.
type ResourceCreateInput struct {
	Title      string
	URL        string
	CategoryID *int64
	Synopsis   *string
	Icon       *string
	Status     domain.Status
}

// ResourceUpdateInput carries a partial update. CategoryID and Icon can be
// cleared explicitly, the other nil fields are left unchanged.
type ResourceUpdateInput struct {
	ID         int64
	Title      *string
	URL        *string
	CategoryID Optional[int64]
	Synopsis   *string
	Icon       Optional[string]
	Status     *domain.Status
}

// ResourceRepository reads the unified resource view and writes the
// resources table together with its resource_category links.
type ResourceRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Resource, error)
	FindPaged(ctx context.Context, q domain.PageQuery) ([]domain.ResourceSummary, int64, error)
	Insert(ctx context.Context, in ResourceCreateInput) (string, error)
	Update(ctx context.Context, in ResourceUpdateInput) error
	Delete(ctx context.Context, id int64) error
}

// ResourceService defines the resource use cases.
type ResourceService interface {
	Get(ctx context.Context, id int64) (*domain.Resource, error)
	List(ctx context.Context, q domain.PageQuery) (domain.Page[domain.ResourceSummary], error)
	Create(ctx context.Context, in ResourceCreateInput) (string, error)
	Update(ctx context.Context, in ResourceUpdateInput) error
	Delete(ctx context.Context, id int64) error
}
