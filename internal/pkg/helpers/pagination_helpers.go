package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/postium/internal/app/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // page numbers are 1-based
)

// CalculateOffsetLimit calculates the offset and limit for SQL queries based
// on a 1-based page number.
func CalculateOffsetLimit(page, size int) (offset uint64, limit int) {
	if size <= 0 || size > MaxPageSize {
		limit = DefaultPageSize
	} else {
		limit = size
	}

	if page < 1 {
		page = DefaultPage
	}

	offset = uint64((page - 1) * limit)
	return offset, limit
}

// NewPage builds the pagination view model handed to templates.
// page is the 1-based page number.
func NewPage(totalItems int64, page, size int) models.Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	} else if page == 1 {
		// An empty listing still renders one (empty) page.
		totalPages = 1
	}

	current := page
	if totalPages > 0 && current > totalPages {
		current = totalPages
	}

	return models.Page{
		Number:   current,
		Size:     size,
		NumPages: totalPages,
		Total:    totalItems,
		HasPrev:  current > 1,
		HasNext:  current < totalPages,
	}
}

// ParsePageParam extracts the 1-based page number from the request query,
// defaulting to the first page on absent or invalid input.
func ParsePageParam(c *gin.Context) int {
	pageStr := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}
