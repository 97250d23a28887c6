package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/postium/internal/app/models"
	"github.com/dkoval/postium/internal/app/repositories"
	"github.com/dkoval/postium/internal/pkg/auth"
	"github.com/dkoval/postium/internal/pkg/logger"
)

// contextUserKey is where LoadUser stores the authenticated user.
const contextUserKey = "currentUser"

// AuthMiddleware resolves the session cookie into the current user.
type AuthMiddleware struct {
	sessions   *auth.SessionService
	userRepo   repositories.UserRepository
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions *auth.SessionService, userRepo repositories.UserRepository, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		userRepo:   userRepo,
		cookieName: cookieName,
	}
}

// LoadUser populates the request context with the current user when a valid
// session cookie is present. It never aborts; pages that render differently
// for authenticated viewers run behind this alone.
func (m *AuthMiddleware) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := m.sessions.ValidateToken(token)
		if err != nil {
			// Expired or tampered cookie; treat the viewer as anonymous.
			c.Next()
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Warn().Err(err).Int64("userId", claims.UserID).Msg("Session user no longer resolvable")
			c.Next()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireAuth redirects anonymous viewers to the login page, carrying the
// original path so login can bounce back. Must run after LoadUser.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, "/auth/login?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by LoadUser, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// SetCurrentUser stores the user in the request context. Exposed for handler
// tests that bypass cookie handling.
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(contextUserKey, user)
}
