package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories is the container for all repository instances
type Repositories struct {
	UserRepository    UserRepository
	GroupRepository   GroupRepository
	PostRepository    PostRepository
	CommentRepository CommentRepository
	FollowRepository  FollowRepository
}

// NewRepositories creates all repositories over the shared connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		GroupRepository:   NewGroupRepository(db),
		PostRepository:    NewPostRepository(db),
		CommentRepository: NewCommentRepository(db),
		FollowRepository:  NewFollowRepository(db),
	}
}
