package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/dkoval/postium/internal/app/repositories"
	"github.com/dkoval/postium/internal/pkg/apperrors"
)

// FollowService defines the interface for follow/unfollow operations
type FollowService interface {
	// Follow makes userID follow the author named by username. Following
	// yourself or an already-followed author is a silent no-op.
	Follow(ctx context.Context, userID int64, username string) error
	// Unfollow removes the relationship; a missing one is a no-op.
	Unfollow(ctx context.Context, userID int64, username string) error
}

// followServiceImpl implements FollowService
type followServiceImpl struct {
	followRepo repositories.FollowRepository
	userRepo   repositories.UserRepository
	logger     zerolog.Logger
}

// NewFollowService creates a new FollowService
func NewFollowService(
	followRepo repositories.FollowRepository,
	userRepo repositories.UserRepository,
	logger zerolog.Logger,
) FollowService {
	return &followServiceImpl{
		followRepo: followRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// Follow creates the follow relationship. The uniqueness constraint absorbs
// a racing duplicate: both requests finish as "following", neither errors.
func (s *followServiceImpl) Follow(ctx context.Context, userID int64, username string) error {
	author, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if author.ID == userID {
		return nil
	}

	if _, err := s.followRepo.Create(ctx, userID, author.ID); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyFollowing) {
			return nil
		}
		return err
	}

	s.logger.Debug().Int64("userId", userID).Int64("authorId", author.ID).Msg("Follow created")
	return nil
}

// Unfollow deletes the follow relationship, if any.
func (s *followServiceImpl) Unfollow(ctx context.Context, userID int64, username string) error {
	author, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	return s.followRepo.Delete(ctx, userID, author.ID)
}
