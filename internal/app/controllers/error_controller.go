package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/dkoval/postium/internal/middleware"
)

// ErrorController serves the standalone error demo pages.
type ErrorController struct{}

// NewErrorController creates a new ErrorController
func NewErrorController() *ErrorController {
	return &ErrorController{}
}

// NotFoundPage renders the 404 page for its demo route.
func (ec *ErrorController) NotFoundPage(c *gin.Context) {
	middleware.RenderNotFound(c)
}

// ServerErrorPage renders the 500 page for its demo route.
func (ec *ErrorController) ServerErrorPage(c *gin.Context) {
	middleware.RenderServerError(c)
}
