package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

type createCategoryRequest struct {
	Name        string        `json:"name" validate:"required,max=100"`
	Description *string       `json:"description" validate:"omitempty,max=1000"`
	Status      domain.Status `json:"status" validate:"omitempty,oneof=NORMAL VOID"`
}

type updateCategoryRequest struct {
	ID          looseInt       `json:"id" validate:"gt=0"`
	Name        *string        `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string        `json:"description" validate:"omitempty,max=1000"`
	Status      *domain.Status `json:"status" validate:"omitempty,oneof=NORMAL VOID"`
}

// List returns one page of categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        page      query     int     false  "Page, 1-based"
// @Param        pageSize  query     int     false  "Page size, at most 100"
// @Param        q         query     string  false  "Substring filter on name or description"
// @Param        status    query     string  false  "NORMAL or VOID"
// @Success      200       {object}  listResponse[domain.Category]
// @Failure      500       {object}  errorBody
// @Router       /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	q, rawQ, rawStatus := listQuery(c)
	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page, rawQ, rawStatus))
}

// Create adds a category.
//
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body      createCategoryRequest  true  "Category"
// @Success      201   {object}  idResponse
// @Failure      400   {object}  errorBody
// @Router       /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req createCategoryRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.service.Create(c.Request().Context(), ports.CategoryCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

// Update changes the fields present in the body.
//
// @Summary      Update category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body      updateCategoryRequest  true  "Fields to change"
// @Success      200   {object}  okResponse
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /categories [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	var req updateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.service.Update(c.Request().Context(), ports.CategoryUpdateInput{
		ID:          int64(req.ID),
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Delete removes a category from the categories table.
//
// @Summary      Delete category
// @Tags         categories
// @Produce      json
// @Param        id   query     int  true  "Category id"
// @Success      200  {object}  okResponse
// @Failure      400  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /categories [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}
