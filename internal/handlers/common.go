package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cablestock-service/internal/apperrors"
	"cablestock-service/internal/config"
	"cablestock-service/internal/models"
)

// respondError maps a service error to the response envelope. Internal
// error detail stays in the request log; the caller gets a generic message.
func respondError(c *gin.Context, err error) {
	code, status := apperrors.Categorize(err)
	message := err.Error()
	if code == apperrors.CodeInternal {
		c.Error(err)
		message = "An unexpected error occurred"
	}
	c.JSON(status, models.ErrorResponse(code, message))
}

// pagination parses page/pageSize query params with configured bounds.
func pagination(c *gin.Context, cfg *config.Config) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(cfg.DefaultPageSize)))
	if pageSize < 1 {
		pageSize = cfg.DefaultPageSize
	}
	if pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}
	return page, pageSize
}

func paginationMeta(page, pageSize int, total int64) models.PaginationMeta {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return models.PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// queryTime parses an RFC3339 or date-only query parameter.
func queryTime(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	return nil
}
