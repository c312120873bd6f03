package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/session"
)

const testSecret = "handler-test-secret-0123456789abcdef"

type stubAuthService struct {
	loginFn   func(ctx context.Context, userName, password string) (*domain.SafeUser, error)
	profileFn func(ctx context.Context, id string) (*domain.SafeUser, error)
}

func (s *stubAuthService) Login(ctx context.Context, userName, password string) (*domain.SafeUser, error) {
	return s.loginFn(ctx, userName, password)
}

func (s *stubAuthService) Profile(ctx context.Context, id string) (*domain.SafeUser, error) {
	return s.profileFn(ctx, id)
}

func alice() *domain.SafeUser {
	return &domain.SafeUser{
		ID:         "0123456789abcdef0123456789abcdef",
		UserName:   strPtr("alice"),
		Email:      strPtr("alice@example.com"),
		Role:       strPtr("admin"),
		Status:     domain.StatusNormal,
		CreateTime: time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	codec := session.NewCodec(testSecret)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, userName, password string) (*domain.SafeUser, error) {
			if userName != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", userName, password)
			}
			return alice(), nil
		},
	}
	handler := NewAuthHandler(stub, codec, true)

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"userName":"alice","password":"secret"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	resp := decode(t, rec)
	if resp["message"] != "登录成功" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["userName"] != "alice" || user["role"] != "admin" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["status"]; leaked {
		t.Fatalf("login user should not carry status: %+v", user)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.CookieName {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}
	ck := cookies[0]
	if !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteLaxMode || ck.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %+v", ck)
	}
	p := codec.Decode(ck.Value)
	if !p.Authenticated() || p.User.ID != alice().ID {
		t.Fatalf("cookie does not carry the session: %+v", p)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, userName, password string) (*domain.SafeUser, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, session.NewCodec(testSecret), false)

	for _, body := range []string{"not-json", `{"userName":"alice"}`, `{"password":"x"}`, `{"userName":"","password":""}`} {
		c, rec := newContext(http.MethodPost, "/api/auth/login", body)
		err := handler.Login(c)
		if ve := validationError(t, err); ve.Message != "用户名或密码格式错误" {
			t.Fatalf("%s: unexpected message %q", body, ve.Message)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatalf("%s: cookie must not be set", body)
		}
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, userName, password string) (*domain.SafeUser, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, session.NewCodec(testSecret), false)

	c, rec := newContext(http.MethodPost, "/api/auth/login", `{"userName":"bob","password":"wrong"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("cookie must not be set")
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, session.NewCodec(testSecret), false)

	c, rec := newContext(http.MethodPost, "/api/auth/logout", "")
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	if decode(t, rec)["message"] != "退出登录成功" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expiring cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Profile_Unauthenticated(t *testing.T) {
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, id string) (*domain.SafeUser, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, session.NewCodec(testSecret), false)

	c, _ := newContext(http.MethodGet, "/api/auth/profile", "")
	if err := handler.Profile(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthHandler_Profile_FromSession(t *testing.T) {
	codec := session.NewCodec(testSecret)
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, id string) (*domain.SafeUser, error) {
			if id != alice().ID {
				t.Fatalf("unexpected id %s", id)
			}
			return alice(), nil
		},
	}
	handler := NewAuthHandler(stub, codec, false)

	c, rec := newContext(http.MethodGet, "/api/auth/profile", "")
	store := codec.Load(c.Request())
	store.SetUser(alice())
	store.SetLoggedIn(true)
	c.Set(session.ContextKey, store)

	if err := handler.Profile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
	user := decode(t, rec)["user"].(map[string]any)
	if user["status"] != "NORMAL" || user["createTime"] != "2024-05-01T08:30:00Z" {
		t.Fatalf("unexpected profile: %+v", user)
	}
}

func TestAuthHandler_Profile_DisabledAccount(t *testing.T) {
	codec := session.NewCodec(testSecret)
	stub := &stubAuthService{
		profileFn: func(ctx context.Context, id string) (*domain.SafeUser, error) {
			return nil, domain.ErrAccountDisabled
		},
	}
	handler := NewAuthHandler(stub, codec, false)

	c, _ := newContext(http.MethodGet, "/api/auth/profile", "")
	store := codec.Load(c.Request())
	store.SetUser(alice())
	store.SetLoggedIn(true)
	token, err := store.TokenForCookie()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	c.Request().AddCookie(session.NewCookie(token, false))

	if err := handler.Profile(c); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}
