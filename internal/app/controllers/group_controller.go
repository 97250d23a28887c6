package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkoval/postium/internal/app/services"
	"github.com/dkoval/postium/internal/middleware"
	"github.com/dkoval/postium/internal/pkg/helpers"
)

// GroupController handles group pages.
type GroupController struct {
	groupService services.GroupService
}

// NewGroupController creates a new GroupController
func NewGroupController(groupService services.GroupService) *GroupController {
	return &GroupController{groupService: groupService}
}

// Posts renders a group's posts, resolved by slug, paginated.
func (gc *GroupController) Posts(c *gin.Context) {
	page := helpers.ParsePageParam(c)

	group, posts, pageInfo, err := gc.groupService.GroupPosts(c.Request.Context(), c.Param("slug"), page)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	c.HTML(http.StatusOK, "group.html", withUser(c, gin.H{
		"Group": group,
		"Posts": posts,
		"Page":  pageInfo,
	}))
}
