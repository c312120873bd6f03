package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

type ResourceService struct {
	repo ports.ResourceRepository
	log  zerolog.Logger
}

var _ ports.ResourceService = (*ResourceService)(nil)

func NewResourceService(repo ports.ResourceRepository, log zerolog.Logger) *ResourceService {
	return &ResourceService{repo: repo, log: log}
}

// Get reads a resource from the resources table only.
func (s *ResourceService) Get(ctx context.Context, id int64) (*domain.Resource, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidID
	}
	return s.repo.FindByID(ctx, id)
}

func (s *ResourceService) List(ctx context.Context, q domain.PageQuery) (domain.Page[domain.ResourceSummary], error) {
	items, total, err := s.repo.FindPaged(ctx, q)
	if err != nil {
		return domain.Page[domain.ResourceSummary]{}, err
	}
	return domain.NewPage(q, items, total), nil
}

func (s *ResourceService) Create(ctx context.Context, in ports.ResourceCreateInput) (string, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)

	details := map[string]string{}
	if in.Title == "" {
		details["title"] = "title is required"
	}
	if in.URL == "" {
		details["url"] = "url is required"
	}
	if len(details) > 0 {
		return "", domain.FieldErrors(details, []string{"title", "url"})
	}
	if in.Status == "" {
		in.Status = domain.StatusNormal
	}

	id, err := s.repo.Insert(ctx, in)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("resource_id", id).Str("title", in.Title).Msg("resource created")
	return id, nil
}

// Update applies a partial update. Sending categoryId replaces the category
// links of the resource; sending it as null clears them.
func (s *ResourceService) Update(ctx context.Context, in ports.ResourceUpdateInput) error {
	if in.ID <= 0 {
		return domain.ErrInvalidID
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return domain.FieldErrors(map[string]string{"title": "title is required"}, []string{"title"})
		}
		in.Title = &title
	}

	if err := s.repo.Update(ctx, in); err != nil {
		return err
	}
	s.log.Info().Int64("resource_id", in.ID).Bool("category_changed", in.CategoryID.Set).Msg("resource updated")
	return nil
}

func (s *ResourceService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("resource_id", id).Msg("resource deleted")
	return nil
}
