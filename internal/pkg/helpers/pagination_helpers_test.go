package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dkoval/postium/internal/app/models"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		size       int
		wantOffset uint64
		wantLimit  int
	}{
		{name: "first page", page: 1, size: 10, wantOffset: 0, wantLimit: 10},
		{name: "second page", page: 2, size: 10, wantOffset: 10, wantLimit: 10},
		{name: "zero page clamps to first", page: 0, size: 10, wantOffset: 0, wantLimit: 10},
		{name: "negative page clamps to first", page: -3, size: 10, wantOffset: 0, wantLimit: 10},
		{name: "zero size falls back to default", page: 2, size: 0, wantOffset: 10, wantLimit: DefaultPageSize},
		{name: "oversized page size falls back to default", page: 1, size: 1000, wantOffset: 0, wantLimit: DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPage(t *testing.T) {
	t.Run("eleven items split into two pages", func(t *testing.T) {
		first := NewPage(11, 1, 10)
		assert.Equal(t, models.Page{Number: 1, Size: 10, NumPages: 2, Total: 11, HasPrev: false, HasNext: true}, first)

		second := NewPage(11, 2, 10)
		assert.Equal(t, models.Page{Number: 2, Size: 10, NumPages: 2, Total: 11, HasPrev: true, HasNext: false}, second)
	})

	t.Run("empty listing still renders one page", func(t *testing.T) {
		page := NewPage(0, 1, 10)
		assert.Equal(t, 1, page.Number)
		assert.Equal(t, 1, page.NumPages)
		assert.False(t, page.HasPrev)
		assert.False(t, page.HasNext)
	})

	t.Run("page beyond the end clamps to the last page", func(t *testing.T) {
		page := NewPage(15, 9, 10)
		assert.Equal(t, 2, page.Number)
		assert.Equal(t, 2, page.NumPages)
		assert.True(t, page.HasPrev)
		assert.False(t, page.HasNext)
	})
}

func TestParsePageParam(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "absent", query: "", want: 1},
		{name: "valid", query: "page=3", want: 3},
		{name: "not a number", query: "page=abc", want: 1},
		{name: "zero", query: "page=0", want: 1},
		{name: "negative", query: "page=-2", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)
			assert.Equal(t, tt.want, ParsePageParam(c))
		})
	}
}
