package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/postium/internal/middleware"
)

// withUser merges the current viewer into a template context under "User".
func withUser(c *gin.Context, ctx gin.H) gin.H {
	if user, ok := middleware.CurrentUser(c); ok {
		ctx["User"] = user
	}
	return ctx
}

// parseID parses a numeric path parameter; ok is false when it is not a
// positive integer.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// parseGroupID reads the optional group selector from a submitted form.
// ok is false when a value was submitted but is not a positive integer;
// the caller shows that as a field error rather than posting ungrouped.
func parseGroupID(c *gin.Context) (groupID *int64, ok bool) {
	raw := c.PostForm("group")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, false
	}
	return &id, true
}
