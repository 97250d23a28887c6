package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dkoval/postium/internal/app/controllers"
	"github.com/dkoval/postium/internal/middleware"
)

// SetupRouter configures all application routes.
//
// Static segments (/new, /follow, /group, /auth, /404, /500) are registered
// alongside the /:username wildcard; gin resolves statics first, so reserved
// words never shadow a profile and vice versa.
func SetupRouter(
	router *gin.Engine,
	postController *controllers.PostController,
	groupController *controllers.GroupController,
	profileController *controllers.ProfileController,
	commentController *controllers.CommentController,
	authController *controllers.AuthController,
	errorController *controllers.ErrorController,
	authMiddleware *middleware.AuthMiddleware,
	pageCache *middleware.PageCache,
) {
	// Every page may render differently for an authenticated viewer.
	router.Use(authMiddleware.LoadUser())

	// Index is the one full-page-cached route.
	router.GET("/", pageCache.Handler(), postController.Index)

	router.GET("/group/:slug", groupController.Posts)

	// Error demo pages
	router.GET("/404", errorController.NotFoundPage)
	router.GET("/500", errorController.ServerErrorPage)

	// Local accounts
	auth := router.Group("/auth")
	{
		auth.GET("/signup", authController.Signup)
		auth.POST("/signup", authController.Signup)
		auth.GET("/login", authController.Login)
		auth.POST("/login", authController.Login)
		auth.GET("/logout", authController.Logout)
	}

	// Authenticated-only routes
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.RequireAuth())
	{
		authenticated.GET("/new", postController.NewPost)
		authenticated.POST("/new", postController.NewPost)

		authenticated.GET("/follow", postController.FollowIndex)

		authenticated.GET("/:username/follow", profileController.Follow)
		authenticated.GET("/:username/unfollow", profileController.Unfollow)

		authenticated.GET("/:username/:post_id/edit", postController.Edit)
		authenticated.POST("/:username/:post_id/edit", postController.Edit)

		authenticated.GET("/:username/:post_id/comment", commentController.AddComment)
		authenticated.POST("/:username/:post_id/comment", commentController.AddComment)
	}

	// Public profile and post pages share the /:username wildcard with the
	// authenticated routes above.
	router.GET("/:username", profileController.Profile)
	router.GET("/:username/:post_id", postController.Detail)

	router.NoRoute(func(c *gin.Context) {
		middleware.RenderNotFound(c)
	})
}
