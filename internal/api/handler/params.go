package handler

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/macapp/admin-console/internal/core/domain"
)

// looseInt accepts a JSON number or a numeric string, as the admin UI sends
// ids both ways.
type looseInt int64

func (n *looseInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return errors.New("must be an integer")
	}
	*n = looseInt(f)
	return nil
}

func (n *looseInt) ptr() *int64 {
	if n == nil {
		return nil
	}
	v := int64(*n)
	return &v
}

// queryNumber parses a query parameter the way the admin UI encodes it:
// fractional values are floored and anything unparsable yields 0.
func queryNumber(raw string) int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Floor(f)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int64(f)
}

// queryID returns the positive integer id in ?id=, or domain.ErrInvalidID.
func queryID(c echo.Context) (int64, error) {
	raw := strings.TrimSpace(c.QueryParam("id"))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || f <= 0 || f > math.MaxInt64 {
		return 0, domain.ErrInvalidID
	}
	return int64(f), nil
}

// listQuery reads page, pageSize, q and status. Alongside the normalised
// query it returns the raw q (nil when absent) and status (nil when absent)
// so the response can echo them.
func listQuery(c echo.Context) (domain.PageQuery, *string, *string) {
	params := c.QueryParams()
	q := domain.NewPageQuery(
		int(queryNumber(params.Get("page"))),
		int(queryNumber(params.Get("pageSize"))),
		params.Get("q"),
		params.Get("status"),
	)
	return q, optionalParam(c, "q"), optionalParam(c, "status")
}

func optionalParam(c echo.Context, name string) *string {
	if !c.QueryParams().Has(name) {
		return nil
	}
	v := c.QueryParam(name)
	return &v
}

// listResponse is the page envelope of every list endpoint.
type listResponse[T any] struct {
	Items    []T     `json:"items"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	Q        *string `json:"q,omitempty"`
	Status   *string `json:"status"`
}

func newListResponse[T any](p domain.Page[T], q, status *string) listResponse[T] {
	return listResponse[T]{
		Items:    p.Items,
		Total:    p.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Q:        q,
		Status:   status,
	}
}

type idResponse struct {
	ID any `json:"id"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorBody documents the error envelope for swagger.
type errorBody struct {
	Error struct {
		Message string            `json:"message"`
		Code    string            `json:"code,omitempty"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}
