package services

import (
	"context"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/dkoval/postium/internal/app/models"
	"github.com/dkoval/postium/internal/app/repositories"
	"github.com/dkoval/postium/internal/pkg/helpers"
)

// maxDerivedSlugLength caps slugs derived from group titles.
const maxDerivedSlugLength = 100

// GroupService defines the interface for group operations
type GroupService interface {
	CreateGroup(ctx context.Context, title, slugValue, description string) (*models.Group, error)
	GetBySlug(ctx context.Context, slugValue string) (*models.Group, error)
	GroupPosts(ctx context.Context, slugValue string, page int) (*models.Group, []models.Post, models.Page, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
	DeleteGroup(ctx context.Context, id int64) error
}

// groupServiceImpl implements GroupService
type groupServiceImpl struct {
	groupRepo repositories.GroupRepository
	postRepo  repositories.PostRepository
	pageSize  int
	logger    zerolog.Logger
}

// NewGroupService creates a new GroupService
func NewGroupService(
	groupRepo repositories.GroupRepository,
	postRepo repositories.PostRepository,
	pageSize int,
	logger zerolog.Logger,
) GroupService {
	return &groupServiceImpl{
		groupRepo: groupRepo,
		postRepo:  postRepo,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// CreateGroup creates a group. When no slug is supplied it is derived from
// the title: transliterated to URL-safe latin and truncated to 100 chars.
func (s *groupServiceImpl) CreateGroup(ctx context.Context, title, slugValue, description string) (*models.Group, error) {
	if slugValue == "" {
		slugValue = DeriveSlug(title)
	}

	group := &models.Group{
		Title:       title,
		Slug:        slugValue,
		Description: description,
	}

	if _, err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info().Str("slug", group.Slug).Msg("Group created")
	return group, nil
}

// DeriveSlug transliterates a title into a URL-safe slug truncated to 100
// characters.
func DeriveSlug(title string) string {
	derived := slug.Make(title)
	if len(derived) > maxDerivedSlugLength {
		derived = derived[:maxDerivedSlugLength]
	}
	return derived
}

// GetBySlug resolves a group by its slug.
func (s *groupServiceImpl) GetBySlug(ctx context.Context, slugValue string) (*models.Group, error) {
	return s.groupRepo.FindBySlug(ctx, slugValue)
}

// GroupPosts resolves a group and its posts for one page.
func (s *groupServiceImpl) GroupPosts(ctx context.Context, slugValue string, page int) (*models.Group, []models.Post, models.Page, error) {
	group, err := s.groupRepo.FindBySlug(ctx, slugValue)
	if err != nil {
		return nil, nil, models.Page{}, err
	}

	posts, total, err := s.postRepo.ListByGroup(ctx, group.ID, page, s.pageSize)
	if err != nil {
		return nil, nil, models.Page{}, err
	}

	return group, posts, helpers.NewPage(total, page, s.pageSize), nil
}

// ListGroups returns all groups for the post form selector.
func (s *groupServiceImpl) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.GetAll(ctx)
}

// DeleteGroup removes a group. Posts that referenced it stay published
// without a group.
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, id int64) error {
	if err := s.groupRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("group_id", id).Msg("Group deleted")
	return nil
}
