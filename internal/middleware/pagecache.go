package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

// cachedPage is one fully rendered response held until its TTL expires.
type cachedPage struct {
	status      int
	contentType string
	body        []byte
}

// PageCache caches fully rendered GET responses for a fixed window, keyed by
// the request URI (so each page number caches independently). There is no
// invalidation on write: within the window every read returns the identical
// bytes, and new posts only become visible once the window expires.
type PageCache struct {
	store *gocache.Cache
	ttl   time.Duration
}

// NewPageCache creates a page cache with the given expiry window.
func NewPageCache(ttl time.Duration) *PageCache {
	return &PageCache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Handler is the gin middleware serving and filling the cache.
func (p *PageCache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if entry, found := p.store.Get(key); found {
			page := entry.(cachedPage)
			c.Data(page.status, page.contentType, page.body)
			c.Abort()
			return
		}

		writer := &bufferingWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		// Only successful pages are cached; errors stay fresh.
		if writer.Status() == http.StatusOK {
			p.store.Set(key, cachedPage{
				status:      writer.Status(),
				contentType: writer.Header().Get("Content-Type"),
				body:        writer.buf.Bytes(),
			}, p.ttl)
		}
	}
}

// Flush drops all cached pages. Used by tests.
func (p *PageCache) Flush() {
	p.store.Flush()
}

// bufferingWriter tees the response body into a buffer while writing it
// through to the client.
type bufferingWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bufferingWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
