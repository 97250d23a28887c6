package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/postium/internal/app/forms"
	"github.com/dkoval/postium/internal/app/services"
	"github.com/dkoval/postium/internal/middleware"
	"github.com/dkoval/postium/internal/pkg/apperrors"
	"github.com/dkoval/postium/internal/pkg/helpers"
)

// PostController handles the index, post creation/editing and detail pages.
type PostController struct {
	postService  services.PostService
	groupService services.GroupService
}

// NewPostController creates a new PostController
func NewPostController(postService services.PostService, groupService services.GroupService) *PostController {
	return &PostController{
		postService:  postService,
		groupService: groupService,
	}
}

// Index renders all posts, newest first, paginated. The route sits behind
// the page cache middleware.
func (pc *PostController) Index(c *gin.Context) {
	page := helpers.ParsePageParam(c)

	posts, pageInfo, err := pc.postService.ListPosts(c.Request.Context(), page)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", withUser(c, gin.H{
		"Posts": posts,
		"Page":  pageInfo,
	}))
}

// NewPost renders the empty post form on GET and creates the post on POST.
func (pc *PostController) NewPost(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	groups, err := pc.groupService.ListGroups(c.Request.Context())
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	if c.Request.Method != http.MethodPost {
		c.HTML(http.StatusOK, "post_form.html", withUser(c, gin.H{
			"Form":   &forms.PostForm{},
			"Groups": groups,
			"IsEdit": false,
		}))
		return
	}

	groupID, groupOK := parseGroupID(c)
	form := &forms.PostForm{
		Text:    c.PostForm("text"),
		GroupID: groupID,
	}

	fieldErrors := form.Validate()
	if !groupOK {
		if fieldErrors == nil {
			fieldErrors = forms.FieldErrors{}
		}
		fieldErrors["group"] = "Select a valid group."
	}
	if len(fieldErrors) > 0 {
		c.HTML(http.StatusOK, "post_form.html", withUser(c, gin.H{
			"Form":   form,
			"Errors": fieldErrors,
			"Groups": groups,
			"IsEdit": false,
		}))
		return
	}

	image, _ := c.FormFile("image")

	if _, err := pc.postService.CreatePost(c.Request.Context(), user.ID, form, image); err != nil {
		if apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrGroupNotFound) {
			c.HTML(http.StatusOK, "post_form.html", withUser(c, gin.H{
				"Form":   form,
				"Errors": forms.FieldErrors{"image": err.Error()},
				"Groups": groups,
				"IsEdit": false,
			}))
			return
		}
		middleware.HandlePageError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Detail renders a single post resolved by (author username, post id),
// including comments and the author's follower counts.
func (pc *PostController) Detail(c *gin.Context) {
	postID, ok := parseID(c, "post_id")
	if !ok {
		middleware.RenderNotFound(c)
		return
	}

	detail, err := pc.postService.GetDetail(c.Request.Context(), c.Param("username"), postID)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	c.HTML(http.StatusOK, "post.html", withUser(c, gin.H{
		"Post":      detail.Post,
		"Author":    detail.Author,
		"Count":     detail.PostCount,
		"Comments":  detail.Comments,
		"Followers": detail.Followers,
		"Following": detail.Following,
		"Form":      &forms.CommentForm{},
	}))
}

// Edit renders the pre-populated form on GET and updates the post on POST.
// A non-owner is silently redirected to the detail page in both cases.
func (pc *PostController) Edit(c *gin.Context) {
	username := c.Param("username")
	postID, ok := parseID(c, "post_id")
	if !ok {
		middleware.RenderNotFound(c)
		return
	}

	user, _ := middleware.CurrentUser(c)
	detailURL := fmt.Sprintf("/%s/%d", username, postID)

	if c.Request.Method != http.MethodPost {
		post, err := pc.postService.GetForEdit(c.Request.Context(), username, postID, user.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrPermissionDenied) {
				c.Redirect(http.StatusFound, detailURL)
				return
			}
			middleware.HandlePageError(c, err)
			return
		}

		groups, err := pc.groupService.ListGroups(c.Request.Context())
		if err != nil {
			middleware.HandlePageError(c, err)
			return
		}

		c.HTML(http.StatusOK, "post_form.html", withUser(c, gin.H{
			"Form":   &forms.PostForm{Text: post.Text, GroupID: post.GroupID},
			"Groups": groups,
			"IsEdit": true,
			"Post":   post,
		}))
		return
	}

	groupID, groupOK := parseGroupID(c)
	form := &forms.PostForm{
		Text:    c.PostForm("text"),
		GroupID: groupID,
	}

	fieldErrors := form.Validate()
	if !groupOK {
		if fieldErrors == nil {
			fieldErrors = forms.FieldErrors{}
		}
		fieldErrors["group"] = "Select a valid group."
	}
	if len(fieldErrors) > 0 {
		groups, err := pc.groupService.ListGroups(c.Request.Context())
		if err != nil {
			middleware.HandlePageError(c, err)
			return
		}

		c.HTML(http.StatusOK, "post_form.html", withUser(c, gin.H{
			"Form":   form,
			"Errors": fieldErrors,
			"Groups": groups,
			"IsEdit": true,
		}))
		return
	}

	image, _ := c.FormFile("image")

	if _, err := pc.postService.EditPost(c.Request.Context(), username, postID, user.ID, form, image); err != nil {
		if errors.Is(err, apperrors.ErrPermissionDenied) {
			c.Redirect(http.StatusFound, detailURL)
			return
		}
		middleware.HandlePageError(c, err)
		return
	}

	c.Redirect(http.StatusFound, detailURL)
}

// FollowIndex renders the feed of posts by authors the viewer follows.
func (pc *PostController) FollowIndex(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	page := helpers.ParsePageParam(c)

	posts, pageInfo, err := pc.postService.FollowedPosts(c.Request.Context(), user.ID, page)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	c.HTML(http.StatusOK, "follow.html", withUser(c, gin.H{
		"Posts": posts,
		"Page":  pageInfo,
	}))
}
