package controllers_test

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoval/postium/internal/app/controllers"
	"github.com/dkoval/postium/internal/app/forms"
	"github.com/dkoval/postium/internal/app/models"
	"github.com/dkoval/postium/internal/app/repositories/mock"
	"github.com/dkoval/postium/internal/app/routes"
	"github.com/dkoval/postium/internal/app/services"
	"github.com/dkoval/postium/internal/middleware"
	"github.com/dkoval/postium/internal/pkg/auth"
)

const cookieName = "postium_session"

// Minimal stand-ins for the real templates, emitting markers the assertions
// can look for.
const testTemplates = `
{{ define "index.html" }}index posts={{ len .Posts }} page={{ .Page.Number }}{{ end }}
{{ define "group.html" }}group {{ .Group.Slug }} posts={{ len .Posts }}{{ end }}
{{ define "profile.html" }}profile {{ .Author.Username }} count={{ .Count }} follows={{ .ViewerFollows }}{{ end }}
{{ define "post.html" }}post {{ .Post.Text }} comments={{ len .Comments }}{{ if .Errors }} errors{{ end }}{{ end }}
{{ define "post_form.html" }}post_form edit={{ .IsEdit }}{{ if .Errors }} errors{{ end }}{{ end }}
{{ define "follow.html" }}feed posts={{ len .Posts }}{{ end }}
{{ define "signup.html" }}signup{{ if .Errors }} errors{{ end }}{{ end }}
{{ define "login.html" }}login{{ if .Errors }} errors{{ end }}{{ end }}
{{ define "404.html" }}not found {{ .Path }}{{ end }}
{{ define "500.html" }}server error{{ end }}
`

type testApp struct {
	t        *testing.T
	repos    *mock.Repos
	sessions *auth.SessionService
	postSvc  services.PostService
	groupSvc services.GroupService
	router   *gin.Engine
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := mock.NewRepos()
	sessions := auth.NewSessionService(auth.SessionConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "test",
	})
	lgr := zerolog.Nop()

	authSvc := services.NewAuthService(repos.Users, lgr)
	groupSvc := services.NewGroupService(repos.Groups, repos.Posts, 10, lgr)
	postSvc := services.NewPostService(repos.Posts, repos.Users, repos.Comments, repos.Follows, nil, 10, lgr)
	commentSvc := services.NewCommentService(repos.Comments, repos.Posts, repos.Users, lgr)
	followSvc := services.NewFollowService(repos.Follows, repos.Users, lgr)

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.New("test").Parse(testTemplates)))
	routes.SetupRouter(router,
		controllers.NewPostController(postSvc, groupSvc),
		controllers.NewGroupController(groupSvc),
		controllers.NewProfileController(postSvc, followSvc),
		controllers.NewCommentController(commentSvc, postSvc),
		controllers.NewAuthController(authSvc, sessions, cookieName),
		controllers.NewErrorController(),
		middleware.NewAuthMiddleware(sessions, repos.Users, cookieName),
		middleware.NewPageCache(time.Minute),
	)

	return &testApp{
		t:        t,
		repos:    repos,
		sessions: sessions,
		postSvc:  postSvc,
		groupSvc: groupSvc,
		router:   router,
	}
}

func (a *testApp) createUser(username string) *models.User {
	a.t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "x"}
	_, err := a.repos.Users.Create(context.Background(), user)
	require.NoError(a.t, err)
	return user
}

func (a *testApp) createPost(author *models.User, text string) *models.Post {
	a.t.Helper()
	post, err := a.postSvc.CreatePost(context.Background(), author.ID, &forms.PostForm{Text: text}, nil)
	require.NoError(a.t, err)
	return post
}

// sessionCookie builds the cookie an authenticated request carries.
func (a *testApp) sessionCookie(user *models.User) *http.Cookie {
	a.t.Helper()
	token, err := a.sessions.GenerateToken(user)
	require.NoError(a.t, err)
	return &http.Cookie{Name: cookieName, Value: token}
}

func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestIndexPage(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser("leo")
	app.createPost(author, "hello")

	w := app.get("/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "index posts=1")
}

func TestGroupPage(t *testing.T) {
	app := newTestApp(t)
	_, err := app.groupSvc.CreateGroup(context.Background(), "Travel notes", "", "")
	require.NoError(t, err)

	t.Run("known slug renders", func(t *testing.T) {
		w := app.get("/group/travel-notes", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "group travel-notes")
	})

	t.Run("unknown slug renders the 404 page", func(t *testing.T) {
		w := app.get("/group/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "not found /group/missing")
	})
}

func TestProfilePage(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser("leo")
	app.createPost(author, "a")
	viewer := app.createUser("fyodor")

	t.Run("renders the author's posts", func(t *testing.T) {
		w := app.get("/leo", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "profile leo count=1")
		assert.Contains(t, w.Body.String(), "follows=false")
	})

	t.Run("shows follow state to an authenticated viewer", func(t *testing.T) {
		w := app.get("/leo/follow", app.sessionCookie(viewer))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/leo", w.Header().Get("Location"))

		w = app.get("/leo", app.sessionCookie(viewer))
		assert.Contains(t, w.Body.String(), "follows=true")
	})

	t.Run("unknown username renders the 404 page", func(t *testing.T) {
		w := app.get("/nobody", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPostDetailPage(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser("leo")
	post := app.createPost(author, "read me")

	t.Run("renders the post", func(t *testing.T) {
		w := app.get(fmt.Sprintf("/leo/%d", post.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "post read me")
	})

	t.Run("missing post id renders the 404 page", func(t *testing.T) {
		w := app.get("/leo/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-numeric post id renders the 404 page", func(t *testing.T) {
		w := app.get("/leo/abc", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNewPost(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser("leo")

	t.Run("anonymous viewer is redirected to login", func(t *testing.T) {
		w := app.get("/new", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/auth/login?next=%2Fnew", w.Header().Get("Location"))
	})

	t.Run("valid submission creates a post and redirects home", func(t *testing.T) {
		w := app.postForm("/new", url.Values{"text": {"fresh"}}, app.sessionCookie(author))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		_, total, err := app.repos.Posts.ListByAuthor(context.Background(), author.ID, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("empty text re-renders the form with errors", func(t *testing.T) {
		w := app.postForm("/new", url.Values{"text": {"   "}}, app.sessionCookie(author))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "post_form edit=false errors")
	})
}

func TestEditPost(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser("leo")
	other := app.createUser("fyodor")
	post := app.createPost(author, "original")
	detailURL := fmt.Sprintf("/leo/%d", post.ID)

	t.Run("owner gets the pre-populated form", func(t *testing.T) {
		w := app.get(detailURL+"/edit", app.sessionCookie(author))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "post_form edit=true")
	})

	t.Run("non-owner is silently redirected to the detail page", func(t *testing.T) {
		w := app.get(detailURL+"/edit", app.sessionCookie(other))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, detailURL, w.Header().Get("Location"))

		w = app.postForm(detailURL+"/edit", url.Values{"text": {"hijacked"}}, app.sessionCookie(other))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, detailURL, w.Header().Get("Location"))

		// The post is untouched.
		got, err := app.repos.Posts.FindByAuthorAndID(context.Background(), author.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", got.Text)
	})

	t.Run("owner update is saved and redirects to the detail page", func(t *testing.T) {
		w := app.postForm(detailURL+"/edit", url.Values{"text": {"edited"}}, app.sessionCookie(author))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, detailURL, w.Header().Get("Location"))

		got, err := app.repos.Posts.FindByAuthorAndID(context.Background(), author.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", got.Text)
		assert.True(t, got.PubDate.Equal(post.PubDate))
	})
}

func TestAddComment(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser("leo")
	commenter := app.createUser("fyodor")
	post := app.createPost(author, "discuss")
	commentURL := fmt.Sprintf("/leo/%d/comment", post.ID)

	t.Run("anonymous commenter is redirected to login", func(t *testing.T) {
		w := app.postForm(commentURL, url.Values{"text": {"hi"}}, nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/auth/login?next=")
	})

	t.Run("valid comment is stored and redirects to the post", func(t *testing.T) {
		w := app.postForm(commentURL, url.Values{"text": {"well said"}}, app.sessionCookie(commenter))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, fmt.Sprintf("/leo/%d", post.ID), w.Header().Get("Location"))

		count, err := app.repos.Comments.CountByPost(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("overlong comment re-renders the post page with errors", func(t *testing.T) {
		long := strings.Repeat("a", 101)
		w := app.postForm(commentURL, url.Values{"text": {long}}, app.sessionCookie(commenter))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "errors")

		count, err := app.repos.Comments.CountByPost(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestFollowRoutes(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser("leo")
	reader := app.createUser("fyodor")
	app.createPost(author, "followed content")

	t.Run("follow then feed shows the author's posts", func(t *testing.T) {
		w := app.get("/leo/follow", app.sessionCookie(reader))
		assert.Equal(t, http.StatusFound, w.Code)

		w = app.get("/follow", app.sessionCookie(reader))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "feed posts=1")
	})

	t.Run("unfollow empties the feed", func(t *testing.T) {
		w := app.get("/leo/unfollow", app.sessionCookie(reader))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/leo", w.Header().Get("Location"))

		w = app.get("/follow", app.sessionCookie(reader))
		assert.Contains(t, w.Body.String(), "feed posts=0")
	})

	t.Run("self-follow is a silent no-op", func(t *testing.T) {
		w := app.get("/leo/follow", app.sessionCookie(author))
		assert.Equal(t, http.StatusFound, w.Code)

		exists, err := app.repos.Follows.Exists(context.Background(), author.ID, author.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestSignup(t *testing.T) {
	app := newTestApp(t)

	t.Run("valid signup sets the session cookie and redirects home", func(t *testing.T) {
		w := app.postForm("/auth/signup", url.Values{
			"username": {"leo"},
			"email":    {"leo@example.com"},
			"password": {"secret-password"},
		}, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		var sessionSet bool
		for _, cookie := range w.Result().Cookies() {
			if cookie.Name == cookieName && cookie.Value != "" {
				sessionSet = true
			}
		}
		assert.True(t, sessionSet)
	})

	t.Run("duplicate username re-renders with errors", func(t *testing.T) {
		w := app.postForm("/auth/signup", url.Values{
			"username": {"leo"},
			"email":    {"other@example.com"},
			"password": {"secret-password"},
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "signup errors")
	})
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	_, err := services.NewAuthService(app.repos.Users, zerolog.Nop()).
		Register(context.Background(), &forms.SignupForm{Username: "leo", Email: "leo@example.com", Password: "secret-password"})
	require.NoError(t, err)

	t.Run("valid credentials redirect to next", func(t *testing.T) {
		w := app.postForm("/auth/login", url.Values{
			"username": {"leo"},
			"password": {"secret-password"},
			"next":     {"/new"},
		}, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/new", w.Header().Get("Location"))
	})

	t.Run("off-site next falls back to home", func(t *testing.T) {
		w := app.postForm("/auth/login", url.Values{
			"username": {"leo"},
			"password": {"secret-password"},
			"next":     {"//evil.example.com"},
		}, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("wrong password re-renders with a generic error", func(t *testing.T) {
		w := app.postForm("/auth/login", url.Values{
			"username": {"leo"},
			"password": {"wrong"},
		}, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "login errors")
	})
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser("leo")

	w := app.get("/auth/logout", app.sessionCookie(user))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var cleared bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == cookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestErrorDemoPages(t *testing.T) {
	app := newTestApp(t)

	w := app.get("/404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found /404")

	w = app.get("/500", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "server error")
}

func TestIndexPageIsCached(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser("leo")
	app.createPost(author, "first")

	before := app.get("/", nil)
	assert.Contains(t, before.Body.String(), "index posts=1")

	// A new post does not appear until the cache window passes.
	app.createPost(author, "second")
	after := app.get("/", nil)
	assert.Equal(t, before.Body.String(), after.Body.String())
}

func TestNewPostRejectsMalformedGroup(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser("leo")

	w := app.postForm("/new", url.Values{"text": {"grouped"}, "group": {"abc"}}, app.sessionCookie(author))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "post_form edit=false errors")

	_, total, err := app.repos.Posts.ListByAuthor(context.Background(), author.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

// failingTokenIssuer stands in for the session service when its signing
// step breaks.
type failingTokenIssuer struct{}

func (failingTokenIssuer) GenerateToken(*models.User) (string, error) {
	return "", errors.New("signing key unavailable")
}

func (failingTokenIssuer) TokenMaxAge() int { return 0 }

func TestSessionTokenFailureRendersErrorPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repos := mock.NewRepos()
	authSvc := services.NewAuthService(repos.Users, zerolog.Nop())
	_, err := authSvc.Register(context.Background(), &forms.SignupForm{Username: "leo", Email: "leo@example.com", Password: "secret-password"})
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.New("test").Parse(testTemplates)))
	ctrl := controllers.NewAuthController(authSvc, failingTokenIssuer{}, cookieName)
	router.POST("/auth/signup", ctrl.Signup)
	router.POST("/auth/login", ctrl.Login)

	send := func(path string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("signup renders the error page instead of redirecting", func(t *testing.T) {
		w := send("/auth/signup", url.Values{"username": {"anna"}, "email": {"anna@example.com"}, "password": {"secret-password"}})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "server error")
		assert.Empty(t, w.Header().Get("Location"))
	})

	t.Run("login renders the error page instead of redirecting", func(t *testing.T) {
		w := send("/auth/login", url.Values{"username": {"leo"}, "password": {"secret-password"}})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "server error")
		assert.Empty(t, w.Header().Get("Location"))
	})
}
