package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/macapp/admin-console/internal/core/domain"
)

const validationCode = "VALIDATION_ERROR"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": {"message": "..."}}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, payload := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: payload})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorPayload) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorPayload{Message: ve.Message, Code: validationCode, Details: ve.Details}
	}

	// Echo's own errors (router 404/405, body limit, rate limit).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorPayload{Message: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorPayload{Message: "未登录"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorPayload{Message: "用户名或密码错误"}
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusUnauthorized, errorPayload{Message: "用户不存在或已被禁用"}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorPayload{Message: "登录尝试过于频繁，请稍后再试"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorPayload{Message: "用户不存在"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, errorPayload{Message: "用户名已存在"}
	case errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrResourceNotFound):
		return http.StatusNotFound, errorPayload{Message: err.Error()}
	case errors.Is(err, domain.ErrCategoryExists),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, errorPayload{Message: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorPayload{Message: "Internal Server Error"}
}
