package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

// UserHandler serves /api/users. Every route sits behind the auth gate.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	UserName string        `json:"userName" validate:"required,max=255"`
	Password string        `json:"password" validate:"required,max=255"`
	Email    *string       `json:"email" validate:"omitempty,email,max=255"`
	Role     *string       `json:"role" validate:"omitempty,max=255"`
	Avatar   *string       `json:"avatar" validate:"omitempty,max=255"`
	Status   domain.Status `json:"status" validate:"omitempty,oneof=NORMAL VOID"`
}

type updateUserRequest struct {
	ID       string         `json:"id" validate:"required"`
	UserName *string        `json:"userName" validate:"omitempty,max=255"`
	Password *string        `json:"password" validate:"omitempty,max=255"`
	Email    *string        `json:"email" validate:"omitempty,email,max=255"`
	Role     *string        `json:"role" validate:"omitempty,max=255"`
	Avatar   *string        `json:"avatar" validate:"omitempty,max=255"`
	Status   *domain.Status `json:"status" validate:"omitempty,oneof=NORMAL VOID"`
}

// List returns one page of users without password hashes.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page      query     int     false  "Page, 1-based"
// @Param        pageSize  query     int     false  "Page size, at most 100"
// @Param        q         query     string  false  "Substring filter on user name or email"
// @Param        status    query     string  false  "NORMAL or VOID"
// @Success      200       {object}  listResponse[domain.SafeUser]
// @Failure      401       {object}  errorBody
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	q, rawQ, rawStatus := listQuery(c)
	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page, rawQ, rawStatus))
}

// Create adds an administrator account.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  idResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.service.Create(c.Request().Context(), ports.UserCreateInput{
		UserName: req.UserName,
		Password: req.Password,
		Email:    req.Email,
		Role:     req.Role,
		Avatar:   req.Avatar,
		Status:   req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

// Update changes the fields present in the body.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  okResponse
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /users [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.service.Update(c.Request().Context(), ports.UserUpdateInput{
		ID:       req.ID,
		UserName: req.UserName,
		Password: req.Password,
		Email:    req.Email,
		Role:     req.Role,
		Avatar:   req.Avatar,
		Status:   req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Delete soft-deletes a user.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        id   query     string  true  "User id"
// @Success      200  {object}  okResponse
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /users [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id := strings.TrimSpace(c.QueryParam("id"))
	if id == "" {
		return domain.NewValidationError("用户ID是必需的")
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}
