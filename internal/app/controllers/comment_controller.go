package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/postium/internal/app/forms"
	"github.com/dkoval/postium/internal/app/services"
	"github.com/dkoval/postium/internal/middleware"
)

// CommentController handles comment submission.
type CommentController struct {
	commentService services.CommentService
	postService    services.PostService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService, postService services.PostService) *CommentController {
	return &CommentController{
		commentService: commentService,
		postService:    postService,
	}
}

// AddComment validates and stores a comment on POST, then redirects to the
// post detail page. A GET, or a failed validation, re-renders the detail
// page with the (possibly errored) form.
func (cc *CommentController) AddComment(c *gin.Context) {
	username := c.Param("username")
	postID, ok := parseID(c, "post_id")
	if !ok {
		middleware.RenderNotFound(c)
		return
	}

	form := &forms.CommentForm{Text: c.PostForm("text")}

	if c.Request.Method == http.MethodPost {
		if fieldErrors := form.Validate(); len(fieldErrors) == 0 {
			user, _ := middleware.CurrentUser(c)

			if _, err := cc.commentService.AddComment(c.Request.Context(), username, postID, user.ID, form); err != nil {
				middleware.HandlePageError(c, err)
				return
			}

			c.Redirect(http.StatusFound, fmt.Sprintf("/%s/%d", username, postID))
			return
		} else {
			cc.renderDetail(c, username, postID, form, fieldErrors)
			return
		}
	}

	cc.renderDetail(c, username, postID, form, nil)
}

// renderDetail re-renders the post detail page carrying the comment form
// state, used for GET loads and validation failures.
func (cc *CommentController) renderDetail(c *gin.Context, username string, postID int64, form *forms.CommentForm, fieldErrors forms.FieldErrors) {
	detail, err := cc.postService.GetDetail(c.Request.Context(), username, postID)
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
		"Form":      form,
		"Errors":    fieldErrors,
	}))
}
