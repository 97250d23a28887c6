package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/postium/internal/app/services"
	"github.com/dkoval/postium/internal/middleware"
	"github.com/dkoval/postium/internal/pkg/helpers"
)

// ProfileController handles author profile pages and follow/unfollow actions.
type ProfileController struct {
	postService   services.PostService
	followService services.FollowService
}

// NewProfileController creates a new ProfileController
func NewProfileController(postService services.PostService, followService services.FollowService) *ProfileController {
	return &ProfileController{
		postService:   postService,
		followService: followService,
	}
}

// Profile renders an author's page with their posts and counts. For an
// authenticated viewer it also reports whether they already follow the
// author.
func (pc *ProfileController) Profile(c *gin.Context) {
	page := helpers.ParsePageParam(c)

	var viewerID *int64
	if viewer, ok := middleware.CurrentUser(c); ok {
		viewerID = &viewer.ID
	}

	data, err := pc.postService.Profile(c.Request.Context(), c.Param("username"), viewerID, page)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	c.HTML(http.StatusOK, "profile.html", withUser(c, gin.H{
		"Author":        data.Author,
		"Posts":         data.Posts,
		"Page":          data.Page,
		"Count":         data.PostCount,
		"Followers":     data.Followers,
		"Following":     data.Following,
		"ViewerFollows": data.ViewerFollows,
	}))
}

// Follow makes the viewer follow the author, then redirects to the profile.
// Self-follow and an existing follow are silent no-ops.
func (pc *ProfileController) Follow(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	username := c.Param("username")

	if err := pc.followService.Follow(c.Request.Context(), user.ID, username); err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/"+username)
}

// Unfollow removes the viewer's follow of the author, then redirects to the
// profile. A missing follow is a no-op.
func (pc *ProfileController) Unfollow(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	username := c.Param("username")

	if err := pc.followService.Unfollow(c.Request.Context(), user.ID, username); err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/"+username)
}
