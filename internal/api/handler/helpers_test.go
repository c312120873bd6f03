package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func validationError(t *testing.T, err error) *domain.ValidationError {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return ve
}

func strPtr(s string) *string { return &s }

type stubCategoryService struct {
	listFn   func(ctx context.Context, q domain.PageQuery) (domain.Page[domain.Category], error)
	createFn func(ctx context.Context, in ports.CategoryCreateInput) (string, error)
	updateFn func(ctx context.Context, in ports.CategoryUpdateInput) error
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubCategoryService) List(ctx context.Context, q domain.PageQuery) (domain.Page[domain.Category], error) {
	return s.listFn(ctx, q)
}

func (s *stubCategoryService) Create(ctx context.Context, in ports.CategoryCreateInput) (string, error) {
	return s.createFn(ctx, in)
}

func (s *stubCategoryService) Update(ctx context.Context, in ports.CategoryUpdateInput) error {
	return s.updateFn(ctx, in)
}

func (s *stubCategoryService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

type stubResourceService struct {
	getFn    func(ctx context.Context, id int64) (*domain.Resource, error)
	listFn   func(ctx context.Context, q domain.PageQuery) (domain.Page[domain.ResourceSummary], error)
	createFn func(ctx context.Context, in ports.ResourceCreateInput) (string, error)
	updateFn func(ctx context.Context, in ports.ResourceUpdateInput) error
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubResourceService) Get(ctx context.Context, id int64) (*domain.Resource, error) {
	return s.getFn(ctx, id)
}

func (s *stubResourceService) List(ctx context.Context, q domain.PageQuery) (domain.Page[domain.ResourceSummary], error) {
	return s.listFn(ctx, q)
}

func (s *stubResourceService) Create(ctx context.Context, in ports.ResourceCreateInput) (string, error) {
	return s.createFn(ctx, in)
}

func (s *stubResourceService) Update(ctx context.Context, in ports.ResourceUpdateInput) error {
	return s.updateFn(ctx, in)
}

func (s *stubResourceService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

type stubUserService struct {
	listFn   func(ctx context.Context, q domain.PageQuery) (domain.Page[domain.SafeUser], error)
	createFn func(ctx context.Context, in ports.UserCreateInput) (string, error)
	updateFn func(ctx context.Context, in ports.UserUpdateInput) error
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubUserService) List(ctx context.Context, q domain.PageQuery) (domain.Page[domain.SafeUser], error) {
	return s.listFn(ctx, q)
}

func (s *stubUserService) Create(ctx context.Context, in ports.UserCreateInput) (string, error) {
	return s.createFn(ctx, in)
}

func (s *stubUserService) Update(ctx context.Context, in ports.UserUpdateInput) error {
	return s.updateFn(ctx, in)
}

func (s *stubUserService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type stubUploadService struct {
	uploadFn func(ctx context.Context, in ports.IconUpload) (*ports.UploadResult, error)
}

func (s *stubUploadService) UploadIcon(ctx context.Context, in ports.IconUpload) (*ports.UploadResult, error) {
	return s.uploadFn(ctx, in)
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
