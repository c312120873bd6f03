package service

import (
	"context"
	"io"
	"time"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID     map[string]*domain.User
	findErr  error
	inserted []*domain.User
	changes  []ports.UserChanges
	deleted  []string
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		r.byID[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) FindActiveByUserName(_ context.Context, userName string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.UserName != nil && *u.UserName == userName && u.Status == domain.StatusNormal {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindPaged(_ context.Context, q domain.PageQuery) ([]domain.SafeUser, int64, error) {
	var out []domain.SafeUser
	for _, u := range r.byID {
		out = append(out, u.Safe())
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Insert(_ context.Context, u *domain.User) error {
	u.CreateTime = time.Now().UTC()
	r.inserted = append(r.inserted, u)
	r.byID[u.ID] = u
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, ch ports.UserChanges) error {
	r.changes = append(r.changes, ch)
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func strPtr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Login throttle
// ---------------------------------------------------------------------------

type stubThrottle struct {
	blocked  bool
	allowErr error
	failed   []string
	reset    []string
}

func (t *stubThrottle) Allow(_ context.Context, key string) (bool, error) {
	if t.allowErr != nil {
		return true, t.allowErr
	}
	return !t.blocked, nil
}

func (t *stubThrottle) Fail(_ context.Context, key string) error {
	t.failed = append(t.failed, key)
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, key string) error {
	t.reset = append(t.reset, key)
	return nil
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

type stubCategoryRepo struct {
	findPaged func(q domain.PageQuery) ([]domain.Category, int64, error)
	insert    func(in ports.CategoryCreateInput) (string, error)
	update    func(in ports.CategoryUpdateInput) error
	delete    func(id int64) error
}

func (r *stubCategoryRepo) FindPaged(_ context.Context, q domain.PageQuery) ([]domain.Category, int64, error) {
	return r.findPaged(q)
}

func (r *stubCategoryRepo) Insert(_ context.Context, in ports.CategoryCreateInput) (string, error) {
	return r.insert(in)
}

func (r *stubCategoryRepo) Update(_ context.Context, in ports.CategoryUpdateInput) error {
	return r.update(in)
}

func (r *stubCategoryRepo) Delete(_ context.Context, id int64) error {
	return r.delete(id)
}

type stubResourceRepo struct {
	findByID  func(id int64) (*domain.Resource, error)
	findPaged func(q domain.PageQuery) ([]domain.ResourceSummary, int64, error)
	insert    func(in ports.ResourceCreateInput) (string, error)
	update    func(in ports.ResourceUpdateInput) error
	delete    func(id int64) error
}

func (r *stubResourceRepo) FindByID(_ context.Context, id int64) (*domain.Resource, error) {
	return r.findByID(id)
}

func (r *stubResourceRepo) FindPaged(_ context.Context, q domain.PageQuery) ([]domain.ResourceSummary, int64, error) {
	return r.findPaged(q)
}

func (r *stubResourceRepo) Insert(_ context.Context, in ports.ResourceCreateInput) (string, error) {
	return r.insert(in)
}

func (r *stubResourceRepo) Update(_ context.Context, in ports.ResourceUpdateInput) error {
	return r.update(in)
}

func (r *stubResourceRepo) Delete(_ context.Context, id int64) error {
	return r.delete(id)
}

// ---------------------------------------------------------------------------
// Object storage
// ---------------------------------------------------------------------------

type stubStorage struct {
	putErr  error
	headErr error
	objects map[string][]byte
}

func (s *stubStorage) Put(_ context.Context, obj ports.Object) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return err
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[obj.Key] = data
	return nil
}

func (s *stubStorage) Head(_ context.Context, key string) (*ports.ObjectInfo, error) {
	if s.headErr != nil {
		return nil, s.headErr
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, io.EOF
	}
	return &ports.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (s *stubStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}
