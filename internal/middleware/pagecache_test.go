package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingRouter renders a body that changes on every handler invocation,
// so cache hits are distinguishable from re-renders.
func countingRouter(cache *PageCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	calls := 0
	router.GET("/", cache.Handler(), func(c *gin.Context) {
		calls++
		c.String(http.StatusOK, fmt.Sprintf("render %d", calls))
	})
	router.GET("/broken", cache.Handler(), func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "boom")
	})
	return router
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestPageCacheServesIdenticalBytesWithinWindow(t *testing.T) {
	cache := NewPageCache(time.Minute)
	router := countingRouter(cache)

	first := get(t, router, "/")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "render 1", first.Body.String())

	second := get(t, router, "/")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestPageCacheExpires(t *testing.T) {
	cache := NewPageCache(30 * time.Millisecond)
	router := countingRouter(cache)

	first := get(t, router, "/")
	assert.Equal(t, "render 1", first.Body.String())

	time.Sleep(60 * time.Millisecond)

	refreshed := get(t, router, "/")
	assert.Equal(t, "render 2", refreshed.Body.String())
}

func TestPageCacheKeysIncludeQueryString(t *testing.T) {
	cache := NewPageCache(time.Minute)
	router := countingRouter(cache)

	pageOne := get(t, router, "/?page=1")
	pageTwo := get(t, router, "/?page=2")
	assert.NotEqual(t, pageOne.Body.String(), pageTwo.Body.String())

	// Each page number stays cached independently.
	assert.Equal(t, pageOne.Body.String(), get(t, router, "/?page=1").Body.String())
	assert.Equal(t, pageTwo.Body.String(), get(t, router, "/?page=2").Body.String())
}

func TestPageCacheSkipsErrorResponses(t *testing.T) {
	cache := NewPageCache(time.Minute)
	router := countingRouter(cache)

	get(t, router, "/broken")

	// A second request reaches the handler again rather than a cached error.
	w := get(t, router, "/broken")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "boom", w.Body.String())
}

func TestPageCacheFlush(t *testing.T) {
	cache := NewPageCache(time.Minute)
	router := countingRouter(cache)

	assert.Equal(t, "render 1", get(t, router, "/").Body.String())
	cache.Flush()
	assert.Equal(t, "render 2", get(t, router, "/").Body.String())
}
