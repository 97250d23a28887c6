package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dkoval/postium/internal/app/forms"
	"github.com/dkoval/postium/internal/app/models"
	"github.com/dkoval/postium/internal/app/repositories"
)

// CommentService defines the interface for comment operations
type CommentService interface {
	AddComment(ctx context.Context, username string, postID, authorID int64, form *forms.CommentForm) (*models.Comment, error)
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	userRepo    repositories.UserRepository
	logger      zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	logger zerolog.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// AddComment attaches a comment by authorID to the post resolved by
// (username, postID). The target post must exist; the comment's creation
// timestamp is server-assigned.
func (s *commentServiceImpl) AddComment(ctx context.Context, username string, postID, authorID int64, form *forms.CommentForm) (*models.Comment, error) {
	postAuthor, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.FindByAuthorAndID(ctx, postAuthor.ID, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     form.Text,
		AuthorID: authorID,
		PostID:   post.ID,
	}

	if _, err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("commentId", comment.ID).Int64("postId", post.ID).Msg("Comment added")
	return comment, nil
}
