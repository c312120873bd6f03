package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

func TestCategoryHandler_List_EchoesFilters(t *testing.T) {
	stub := &stubCategoryService{
		listFn: func(ctx context.Context, q domain.PageQuery) (domain.Page[domain.Category], error) {
			if q.Page != 2 || q.PageSize != 100 || q.Q != "dev" || q.Status == nil || *q.Status != domain.StatusVoid {
				t.Fatalf("unexpected query: %+v", q)
			}
			return domain.NewPage(q, []domain.Category{{ID: "3", Name: "Dev", Status: domain.StatusVoid}}, 101), nil
		},
	}
	handler := NewCategoryHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/categories?page=2.7&pageSize=500&q=%20dev%20&status=VOID", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	resp := decode(t, rec)
	if resp["total"] != float64(101) || resp["page"] != float64(2) || resp["pageSize"] != float64(100) {
		t.Fatalf("unexpected paging: %v", resp)
	}
	if resp["q"] != " dev " || resp["status"] != "VOID" {
		t.Fatalf("raw filters should be echoed: %v", resp)
	}
	if items := resp["items"].([]any); len(items) != 1 {
		t.Fatalf("unexpected items: %v", items)
	}
}

func TestCategoryHandler_List_Defaults(t *testing.T) {
	stub := &stubCategoryService{
		listFn: func(ctx context.Context, q domain.PageQuery) (domain.Page[domain.Category], error) {
			if q.Page != 1 || q.PageSize != 10 || q.Status != nil {
				t.Fatalf("unexpected query: %+v", q)
			}
			return domain.NewPage[domain.Category](q, nil, 0), nil
		},
	}
	handler := NewCategoryHandler(stub)

	c, rec := newContext(http.MethodGet, "/api/categories?page=abc&status=bogus", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	if _, present := resp["q"]; present {
		t.Fatalf("q should be omitted when absent: %v", resp)
	}
	if resp["status"] != "bogus" {
		t.Fatalf("raw status should be echoed: %v", resp)
	}
	if items, ok := resp["items"].([]any); !ok || len(items) != 0 {
		t.Fatalf("items should be an empty array: %v", resp["items"])
	}
}

func TestCategoryHandler_Create(t *testing.T) {
	stub := &stubCategoryService{
		createFn: func(ctx context.Context, in ports.CategoryCreateInput) (string, error) {
			if in.Name != "Tools" || in.Description == nil || *in.Description != "cli" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return "42", nil
		},
	}
	handler := NewCategoryHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/categories", `{"name":"Tools","description":"cli"}`)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)
	if decode(t, rec)["id"] != "42" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCategoryHandler_Create_Invalid(t *testing.T) {
	stub := &stubCategoryService{
		createFn: func(ctx context.Context, in ports.CategoryCreateInput) (string, error) {
			t.Fatalf("should not be called")
			return "", nil
		},
	}
	handler := NewCategoryHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/categories", `{"status":"DELETED"}`)
	ve := validationError(t, handler.Create(c))
	if ve.Details["name"] == "" || ve.Details["status"] == "" {
		t.Fatalf("expected name and status details, got %+v", ve.Details)
	}
}

func TestCategoryHandler_Update_AcceptsStringID(t *testing.T) {
	stub := &stubCategoryService{
		updateFn: func(ctx context.Context, in ports.CategoryUpdateInput) error {
			if in.ID != 5 || in.Name == nil || *in.Name != "Renamed" || in.Status != nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			return nil
		},
	}
	handler := NewCategoryHandler(stub)

	c, rec := newContext(http.MethodPut, "/api/categories", `{"id":"5","name":"Renamed"}`)
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decode(t, rec)["ok"] != true {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestCategoryHandler_Update_InvalidID(t *testing.T) {
	handler := NewCategoryHandler(&stubCategoryService{})

	for _, body := range []string{`{"id":0}`, `{"id":"abc"}`, `{"id":1.5}`, `{}`} {
		c, _ := newContext(http.MethodPut, "/api/categories", body)
		validationError(t, handler.Update(c))
	}
}

func TestCategoryHandler_Delete(t *testing.T) {
	var got int64
	stub := &stubCategoryService{
		deleteFn: func(ctx context.Context, id int64) error {
			got = id
			return nil
		},
	}
	handler := NewCategoryHandler(stub)

	c, rec := newContext(http.MethodDelete, "/api/categories?id=7", "")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	if got != 7 {
		t.Fatalf("expected id 7, got %d", got)
	}

	for _, target := range []string{"/api/categories", "/api/categories?id=x", "/api/categories?id=-3"} {
		c, _ := newContext(http.MethodDelete, target, "")
		if err := handler.Delete(c); !errors.Is(err, domain.ErrInvalidID) {
			t.Fatalf("%s: expected ErrInvalidID, got %v", target, err)
		}
	}
}

func TestCategoryHandler_Delete_NotFound(t *testing.T) {
	stub := &stubCategoryService{
		deleteFn: func(ctx context.Context, id int64) error { return domain.ErrCategoryNotFound },
	}
	handler := NewCategoryHandler(stub)

	c, _ := newContext(http.MethodDelete, "/api/categories?id=9", "")
	if err := handler.Delete(c); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}
