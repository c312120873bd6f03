package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

type CategoryService struct {
	repo ports.CategoryRepository
	log  zerolog.Logger
}

var _ ports.CategoryService = (*CategoryService)(nil)

func NewCategoryService(repo ports.CategoryRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

func (s *CategoryService) List(ctx context.Context, q domain.PageQuery) (domain.Page[domain.Category], error) {
	items, total, err := s.repo.FindPaged(ctx, q)
	if err != nil {
		return domain.Page[domain.Category]{}, err
	}
	return domain.NewPage(q, items, total), nil
}

func (s *CategoryService) Create(ctx context.Context, in ports.CategoryCreateInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return "", domain.FieldErrors(map[string]string{"name": "name is required"}, []string{"name"})
	}
	if in.Status == "" {
		in.Status = domain.StatusNormal
	}

	id, err := s.repo.Insert(ctx, in)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("category_id", id).Str("name", in.Name).Msg("category created")
	return id, nil
}

func (s *CategoryService) Update(ctx context.Context, in ports.CategoryUpdateInput) error {
	if in.ID <= 0 {
		return domain.ErrInvalidID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.FieldErrors(map[string]string{"name": "name is required"}, []string{"name"})
		}
		in.Name = &name
	}

	if err := s.repo.Update(ctx, in); err != nil {
		return err
	}
	s.log.Info().Int64("category_id", in.ID).Msg("category updated")
	return nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}
