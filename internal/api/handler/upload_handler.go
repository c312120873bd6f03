package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/macapp/admin-console/internal/core/domain"
	"github.com/macapp/admin-console/internal/core/ports"
)

type UploadHandler struct {
	service ports.UploadService
}

func NewUploadHandler(service ports.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// ResourceIcon stores an uploaded icon in object storage.
//
// @Summary      Upload resource icon
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "jpeg, png, gif or webp image, at most 10MB"
// @Success      200   {object}  ports.UploadResult
// @Failure      400   {object}  errorBody
// @Failure      500   {object}  errorBody
// @Router       /uploads/resource-icon [post]
func (h *UploadHandler) ResourceIcon(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return domain.NewValidationError("file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := h.service.UploadIcon(c.Request().Context(), ports.IconUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
