package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/postium/internal/pkg/apperrors"
	"github.com/dkoval/postium/internal/pkg/logger"
)

// RenderNotFound renders the dedicated 404 page, showing the request path.
func RenderNotFound(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.HTML(http.StatusNotFound, "404.html", gin.H{
		"Path": c.Request.URL.Path,
		"User": user,
	})
	c.Abort()
}

// RenderServerError renders the dedicated 500 page.
func RenderServerError(c *gin.Context) {
	user, _ := CurrentUser(c)
	c.HTML(http.StatusInternalServerError, "500.html", gin.H{
		"User": user,
	})
	c.Abort()
}

// HandlePageError maps a service error onto an error page: not-found family
// errors get the 404 page, everything else the 500 page.
func HandlePageError(c *gin.Context, err error) {
	if apperrors.IsNotFound(err) {
		RenderNotFound(c)
		return
	}

	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled page error")
	RenderServerError(c)
}
