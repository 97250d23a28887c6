package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/postium/internal/app/forms"
	"github.com/dkoval/postium/internal/app/models"
	"github.com/dkoval/postium/internal/app/services"
	"github.com/dkoval/postium/internal/middleware"
	"github.com/dkoval/postium/internal/pkg/apperrors"
)

// sessionIssuer issues signed session tokens for the login cookie.
// *auth.SessionService satisfies it.
type sessionIssuer interface {
	GenerateToken(user *models.User) (string, error)
	TokenMaxAge() int
}

// AuthController handles signup, login and logout pages.
type AuthController struct {
	authService services.AuthService
	sessions    sessionIssuer
	cookieName  string
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, sessions sessionIssuer, cookieName string) *AuthController {
	return &AuthController{
		authService: authService,
		sessions:    sessions,
		cookieName:  cookieName,
	}
}

// Signup renders the registration form on GET and creates the account on
// POST, signing the new user in.
func (ac *AuthController) Signup(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.HTML(http.StatusOK, "signup.html", withUser(c, gin.H{
			"Form": &forms.SignupForm{},
		}))
		return
	}

	form := &forms.SignupForm{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	if fieldErrors := form.Validate(); len(fieldErrors) > 0 {
		c.HTML(http.StatusOK, "signup.html", withUser(c, gin.H{
			"Form":   form,
			"Errors": fieldErrors,
		}))
		return
	}

	user, err := ac.authService.Register(c.Request.Context(), form)
	if err != nil {
		fieldErrors := forms.FieldErrors{}
		switch {
		case errors.Is(err, apperrors.ErrUsernameTaken):
			fieldErrors["username"] = "This username is already taken."
		case errors.Is(err, apperrors.ErrEmailTaken):
			fieldErrors["email"] = "This email is already registered."
		default:
			middleware.HandlePageError(c, err)
			return
		}

		c.HTML(http.StatusOK, "signup.html", withUser(c, gin.H{
			"Form":   form,
			"Errors": fieldErrors,
		}))
		return
	}

	if !ac.startSession(c, user) {
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Login renders the login form on GET and checks credentials on POST.
func (ac *AuthController) Login(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.HTML(http.StatusOK, "login.html", withUser(c, gin.H{
			"Form": &forms.LoginForm{},
			"Next": c.Query("next"),
		}))
		return
	}

	form := &forms.LoginForm{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}

	fieldErrors := form.Validate()
	if len(fieldErrors) == 0 {
		user, err := ac.authService.Login(c.Request.Context(), form)
		if err == nil {
			if ac.startSession(c, user) {
				c.Redirect(http.StatusFound, safeNext(c.PostForm("next")))
			}
			return
		}

		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			fieldErrors = forms.FieldErrors{"form": "Invalid username or password."}
		} else {
			middleware.HandlePageError(c, err)
			return
		}
	}

	c.HTML(http.StatusOK, "login.html", withUser(c, gin.H{
		"Form":   form,
		"Errors": fieldErrors,
		"Next":   c.PostForm("next"),
	}))
}

// Logout clears the session cookie and redirects home.
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetCookie(ac.cookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// startSession issues a session token and sets the cookie. On a token
// failure it renders the error page and reports false so the caller does
// not write a redirect on top of it.
func (ac *AuthController) startSession(c *gin.Context, user *models.User) bool {
	token, err := ac.sessions.GenerateToken(user)
	if err != nil {
		middleware.HandlePageError(c, err)
		return false
	}

	c.SetCookie(ac.cookieName, token, ac.sessions.TokenMaxAge(), "/", "", false, true)
	return true
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	decoded, err := url.QueryUnescape(next)
	if err != nil || decoded == "" {
		return "/"
	}
	if !strings.HasPrefix(decoded, "/") || strings.HasPrefix(decoded, "//") {
		return "/"
	}
	return decoded
}
