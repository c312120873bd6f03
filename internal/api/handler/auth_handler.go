package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
	"github.com/macapp/admin-console/internal/session"
)

type AuthHandler struct {
	authService  ports.AuthService
	codec        *session.Codec
	secureCookie bool
}

func NewAuthHandler(authService ports.AuthService, codec *session.Codec, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, codec: codec, secureCookie: secureCookie}
}

type loginRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// loginUser is the subset of the user echoed back on login.
type loginUser struct {
	ID       string  `json:"id"`
	UserName *string `json:"userName"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Avatar   *string `json:"avatar"`
}

type loginResponse struct {
	Message string    `json:"message"`
	User    loginUser `json:"user"`
}

type profileUser struct {
	ID         string        `json:"id"`
	UserName   *string       `json:"userName"`
	Email      *string       `json:"email"`
	Role       *string       `json:"role"`
	Avatar     *string       `json:"avatar"`
	Status     domain.Status `json:"status"`
	CreateTime time.Time     `json:"createTime"`
}

type profileResponse struct {
	User profileUser `json:"user"`
}

// Login verifies credentials and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      429   {object}  errorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("用户名或密码格式错误")
	}
	if err := c.Validate(&req); err != nil {
		return domain.NewValidationError("用户名或密码格式错误")
	}

	user, err := h.authService.Login(c.Request().Context(), req.UserName, req.Password)
	if err != nil {
		return err
	}

	store := h.codec.Load(c.Request())
	store.SetUser(user)
	store.SetLoggedIn(true)
	token, err := store.TokenForCookie()
	if err != nil {
		return err
	}
	c.SetCookie(session.NewCookie(token, h.secureCookie))

	return c.JSON(http.StatusOK, loginResponse{
		Message: "登录成功",
		User: loginUser{
			ID:       user.ID,
			UserName: user.UserName,
			Email:    user.Email,
			Role:     user.Role,
			Avatar:   user.Avatar,
		},
	})
}

// Logout clears the session cookie. It always succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(session.ClearCookie(h.secureCookie))
	return c.JSON(http.StatusOK, messageResponse{Message: "退出登录成功"})
}

// Profile returns the session user, re-read from the database.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorBody
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	store := currentSession(c)
	if store == nil {
		store = h.codec.Load(c.Request())
	}
	if !store.Authenticated() {
		return domain.ErrUnauthenticated
	}

	user, err := h.authService.Profile(c.Request().Context(), store.User().ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{User: profileUser{
		ID:         user.ID,
		UserName:   user.UserName,
		Email:      user.Email,
		Role:       user.Role,
		Avatar:     user.Avatar,
		Status:     user.Status,
		CreateTime: user.CreateTime,
	}})
}
