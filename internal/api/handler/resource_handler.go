package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

type ResourceHandler struct {
	service ports.ResourceService
}

func NewResourceHandler(service ports.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

type createResourceRequest struct {
	Title      string        `json:"title" validate:"required,max=200"`
	URL        string        `json:"url" validate:"required,url"`
	CategoryID *looseInt     `json:"categoryId" validate:"omitempty,gt=0"`
	Synopsis   *string       `json:"synopsis" validate:"omitempty,max=2000"`
	Icon       *string       `json:"icon" validate:"omitempty,url"`
	Status     domain.Status `json:"status" validate:"omitempty,oneof=NORMAL VOID"`
}

// updateResourceRequest keeps categoryId and icon tri-state: absent leaves
// the column alone, null clears it.
type updateResourceRequest struct {
	ID         looseInt                 `json:"id" validate:"gt=0"`
	Title      *string                  `json:"title" validate:"omitempty,min=1,max=200"`
	URL        *string                  `json:"url" validate:"omitempty,url"`
	CategoryID ports.Optional[looseInt] `json:"categoryId"`
	Synopsis   *string                  `json:"synopsis" validate:"omitempty,max=2000"`
	Icon       ports.Optional[string]   `json:"icon"`
	Status     *domain.Status           `json:"status" validate:"omitempty,oneof=NORMAL VOID"`
}

func (r *updateResourceRequest) checkOptional() error {
	if r.CategoryID.Value != nil && *r.CategoryID.Value <= 0 {
		return domain.FieldErrors(map[string]string{"categoryId": "categoryId must be greater than 0"}, []string{"categoryId"})
	}
	if r.Icon.Value != nil {
		return checkVar("icon", *r.Icon.Value, "url")
	}
	return nil
}

// List returns one page of resources, or a single resource when a positive
// ?id= is given.
//
// @Summary      List resources or fetch one
// @Tags         resources
// @Produce      json
// @Param        id        query     int     false  "Resource id; returns the detail when positive"
// @Param        page      query     int     false  "Page, 1-based"
// @Param        pageSize  query     int     false  "Page size, at most 100"
// @Param        q         query     string  false  "Substring filter on title, url, synopsis or category name"
// @Param        status    query     string  false  "NORMAL or VOID"
// @Success      200       {object}  listResponse[domain.ResourceSummary]
// @Failure      404       {object}  errorBody
// @Router       /resources [get]
func (h *ResourceHandler) List(c echo.Context) error {
	if id, err := queryID(c); err == nil {
		res, err := h.service.Get(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, res)
	}

	q, rawQ, rawStatus := listQuery(c)
	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(page, rawQ, rawStatus))
}

// Create adds a resource.
//
// @Summary      Create resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        body  body      createResourceRequest  true  "Resource"
// @Success      201   {object}  idResponse
// @Failure      400   {object}  errorBody
// @Router       /resources [post]
func (h *ResourceHandler) Create(c echo.Context) error {
	var req createResourceRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.service.Create(c.Request().Context(), ports.ResourceCreateInput{
		Title:      req.Title,
		URL:        req.URL,
		CategoryID: req.CategoryID.ptr(),
		Synopsis:   req.Synopsis,
		Icon:       req.Icon,
		Status:     req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, idResponse{ID: numericID(id)})
}

// Update changes the fields present in the body. Sending categoryId replaces
// the resource's category links.
//
// @Summary      Update resource
// @Tags         resources
// @Accept       json
// @Produce      json
// @Param        body  body      updateResourceRequest  true  "Fields to change"
// @Success      200   {object}  okResponse
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /resources [put]
func (h *ResourceHandler) Update(c echo.Context) error {
	var req updateResourceRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := req.checkOptional(); err != nil {
		return err
	}

	in := ports.ResourceUpdateInput{
		ID:       int64(req.ID),
		Title:    req.Title,
		URL:      req.URL,
		Synopsis: req.Synopsis,
		Icon:     req.Icon,
		Status:   req.Status,
	}
	if req.CategoryID.Set {
		in.CategoryID = ports.Optional[int64]{Set: true, Value: req.CategoryID.Value.ptr()}
	}

	if err := h.service.Update(c.Request().Context(), in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Delete removes a resource and its category links.
//
// @Summary      Delete resource
// @Tags         resources
// @Produce      json
// @Param        id   query     int  true  "Resource id"
// @Success      200  {object}  okResponse
// @Failure      400  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /resources [delete]
func (h *ResourceHandler) Delete(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// numericID renders a decimal id as a JSON number.
func numericID(id string) any {
	if n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64); err == nil {
		return n
	}
	return id
}
