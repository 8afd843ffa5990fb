package pagination

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// DefaultLimit is the page size used by the admin tables.
	DefaultLimit = 10
	// MaxLimit caps the page size a caller may request.
	MaxLimit = 100
)

// ListQuery carries the filters every admin list endpoint accepts.
type ListQuery struct {
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Status   string `json:"status,omitempty"`
	Role     string `json:"role,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
	Keyword  string `json:"keyword,omitempty"`
}

// FromRequest reads the list filters from the query string, clamping page and limit.
func FromRequest(c *fiber.Ctx) ListQuery {
	q := ListQuery{
		Page:    c.QueryInt("page", 1),
		Limit:   c.QueryInt("limit", DefaultLimit),
		Status:  strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Role:    strings.ToUpper(strings.TrimSpace(c.Query("role"))),
		Keyword: strings.TrimSpace(c.Query("keyword")),
	}

	if raw := c.Query("isActive"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			q.IsActive = &v
		}
	}

	return q.Normalize()
}

// Normalize clamps Page to at least 1 and Limit to 1..MaxLimit.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// Values encodes the query for the backend. Empty filters are omitted.
func (q ListQuery) Values() url.Values {
	q = q.Normalize()
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Status != "" && q.Status != "ALL" {
		v.Set("status", q.Status)
	}
	if q.Role != "" {
		v.Set("role", q.Role)
	}
	if q.IsActive != nil {
		v.Set("isActive", strconv.FormatBool(*q.IsActive))
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	return v
}

// Page is one page of a backend list response.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}

// Meta holds the backend's pagination details.
type Meta struct {
	TotalPages int `json:"totalPages"`
}
