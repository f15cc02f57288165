package httpapi

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform wire wrapper for every API response.
type Envelope struct {
	Success bool   `json:"success"`           // Whether the request succeeded.
	Data    any    `json:"data,omitempty"`    // Payload on success.
	Error   string `json:"error,omitempty"`   // Error message on failure.
	Message string `json:"message,omitempty"` // Optional human-readable note.
}

// Respond writes a success envelope. Success is derived from the status
// being in the 2xx range.
func Respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{
		Success: status >= 200 && status < 300,
		Data:    data,
		Message: message,
	})
}

// Fail writes an error envelope.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{
		Success: false,
		Error:   message,
	})
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int   `json:"page"`       // Requested page, 1-based.
	Limit      int   `json:"limit"`      // Page size.
	Total      int64 `json:"total"`      // Total matching records.
	TotalPages int   `json:"totalPages"` // Total page count.
}

// Pagination defaults for list endpoints.
const (
	DefaultPage  = 1
	DefaultLimit = 50
)

// PageParams reads page/limit query parameters with defaults.
func PageParams(c *gin.Context) (page, limit int) {
	page = DefaultPage
	limit = DefaultLimit
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		if parsed, errParse := strconv.Atoi(raw); errParse == nil && parsed > 0 {
			page = parsed
		}
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if parsed, errParse := strconv.Atoi(raw); errParse == nil && parsed > 0 {
			limit = parsed
		}
	}
	return page, limit
}

// NewPagination builds pagination metadata for a page window.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
