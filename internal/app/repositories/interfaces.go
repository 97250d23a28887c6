package repositories

import (
	"context"

	"github.com/dkoval/postium/internal/app/models"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// Delete removes the user. Their posts, comments and follow rows go
	// with them.
	Delete(ctx context.Context, id int64) error
}

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) (int64, error)
	FindBySlug(ctx context.Context, slug string) (*models.Group, error)
	GetAll(ctx context.Context) ([]models.Group, error)
	Delete(ctx context.Context, id int64) error
}

// PostRepository defines persistence operations for posts. All list methods
// return posts newest-first together with the total row count for pagination.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	FindByAuthorAndID(ctx context.Context, authorID, postID int64) (*models.Post, error)
	ListAll(ctx context.Context, page, size int) ([]models.Post, int64, error)
	ListByGroup(ctx context.Context, groupID int64, page, size int) ([]models.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID int64, page, size int) ([]models.Post, int64, error)
	ListFollowed(ctx context.Context, userID int64, page, size int) ([]models.Post, int64, error)
	CountByAuthor(ctx context.Context, authorID int64) (int64, error)
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (int64, error)
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
	CountByPost(ctx context.Context, postID int64) (int64, error)
}

// FollowRepository defines persistence operations for follow relationships.
type FollowRepository interface {
	// Create inserts the (userID, authorID) pair. A concurrent duplicate is
	// absorbed by the unique constraint and reported as
	// apperrors.ErrAlreadyFollowing.
	Create(ctx context.Context, userID, authorID int64) (int64, error)
	// Delete removes the pair; deleting a missing pair is not an error.
	Delete(ctx context.Context, userID, authorID int64) error
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
	CountFollowers(ctx context.Context, authorID int64) (int64, error)
	CountFollowing(ctx context.Context, userID int64) (int64, error)
}
