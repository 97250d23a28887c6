package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/dkoval/postium/internal/app/forms"
	"github.com/dkoval/postium/internal/app/models"
	"github.com/dkoval/postium/internal/app/repositories"
	"github.com/dkoval/postium/internal/pkg/apperrors"
	"github.com/dkoval/postium/internal/pkg/dberrors"
	"github.com/dkoval/postium/internal/pkg/filestorage"
	"github.com/dkoval/postium/internal/pkg/helpers"
)

// PostDetail aggregates everything the post detail page renders.
type PostDetail struct {
	Post      *models.Post
	Author    *models.User
	PostCount int64
	Comments  []models.Comment
	Followers int64 // users following the author
	Following int64 // authors the author follows
}

// ProfileData aggregates everything the profile page renders.
type ProfileData struct {
	Author    *models.User
	Posts     []models.Post
	Page      models.Page
	PostCount int64
	Followers int64
	Following int64
	// ViewerFollows is whether the authenticated viewer follows this
	// author; always false for anonymous viewers.
	ViewerFollows bool
}

// PostService defines the interface for post operations
type PostService interface {
	ListPosts(ctx context.Context, page int) ([]models.Post, models.Page, error)
	CreatePost(ctx context.Context, authorID int64, form *forms.PostForm, image *multipart.FileHeader) (*models.Post, error)
	GetDetail(ctx context.Context, username string, postID int64) (*PostDetail, error)
	GetForEdit(ctx context.Context, username string, postID, editorID int64) (*models.Post, error)
	EditPost(ctx context.Context, username string, postID, editorID int64, form *forms.PostForm, image *multipart.FileHeader) (*models.Post, error)
	Profile(ctx context.Context, username string, viewerID *int64, page int) (*ProfileData, error)
	FollowedPosts(ctx context.Context, userID int64, page int) ([]models.Post, models.Page, error)
}

// postServiceImpl implements PostService
type postServiceImpl struct {
	postRepo    repositories.PostRepository
	userRepo    repositories.UserRepository
	commentRepo repositories.CommentRepository
	followRepo  repositories.FollowRepository
	fileStorage *filestorage.LocalStorage
	pageSize    int
	logger      zerolog.Logger
}

// NewPostService creates a new PostService
func NewPostService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	followRepo repositories.FollowRepository,
	fileStorage *filestorage.LocalStorage,
	pageSize int,
	logger zerolog.Logger,
) PostService {
	return &postServiceImpl{
		postRepo:    postRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
		fileStorage: fileStorage,
		pageSize:    pageSize,
		logger:      logger,
	}
}

// ListPosts returns one page of all posts, newest first.
func (s *postServiceImpl) ListPosts(ctx context.Context, page int) ([]models.Post, models.Page, error) {
	posts, total, err := s.postRepo.ListAll(ctx, page, s.pageSize)
	if err != nil {
		return nil, models.Page{}, err
	}
	return posts, helpers.NewPage(total, page, s.pageSize), nil
}

// CreatePost persists a new post for the author, storing the uploaded image
// first when present. The publication timestamp is server-assigned.
func (s *postServiceImpl) CreatePost(ctx context.Context, authorID int64, form *forms.PostForm, image *multipart.FileHeader) (*models.Post, error) {
	post := &models.Post{
		Text:     form.Text,
		AuthorID: authorID,
		GroupID:  form.GroupID,
	}

	if image != nil {
		imagePath, err := s.fileStorage.SaveImage(image, "posts")
		if err != nil {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
		}
		post.Image = &imagePath
	}

	if _, err := s.postRepo.Create(ctx, post); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, err
	}

	s.logger.Info().Int64("postId", post.ID).Int64("authorId", authorID).Msg("Post created")
	return post, nil
}

// resolvePost resolves a post by (author username, post id); a mismatched
// pair is a not-found, never a hint that the post exists elsewhere.
func (s *postServiceImpl) resolvePost(ctx context.Context, username string, postID int64) (*models.User, *models.Post, error) {
	author, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	post, err := s.postRepo.FindByAuthorAndID(ctx, author.ID, postID)
	if err != nil {
		return nil, nil, err
	}

	return author, post, nil
}

// GetDetail loads the detail page data for a post.
func (s *postServiceImpl) GetDetail(ctx context.Context, username string, postID int64) (*PostDetail, error) {
	author, post, err := s.resolvePost(ctx, username, postID)
	if err != nil {
		return nil, err
	}

	postCount, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.CountFollowers(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	following, err := s.followRepo.CountFollowing(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:      post,
		Author:    author,
		PostCount: postCount,
		Comments:  comments,
		Followers: followers,
		Following: following,
	}, nil
}

// GetForEdit resolves a post for the edit form. A non-owner gets
// ErrPermissionDenied, which callers turn into a silent redirect to the
// detail page rather than an error surface.
func (s *postServiceImpl) GetForEdit(ctx context.Context, username string, postID, editorID int64) (*models.Post, error) {
	author, post, err := s.resolvePost(ctx, username, postID)
	if err != nil {
		return nil, err
	}

	if author.ID != editorID {
		return nil, apperrors.ErrPermissionDenied
	}

	return post, nil
}

// EditPost updates a post's text, group and image. Only the author may edit;
// pub_date never changes.
func (s *postServiceImpl) EditPost(ctx context.Context, username string, postID, editorID int64, form *forms.PostForm, image *multipart.FileHeader) (*models.Post, error) {
	post, err := s.GetForEdit(ctx, username, postID, editorID)
	if err != nil {
		return nil, err
	}

	post.Text = form.Text
	post.GroupID = form.GroupID

	if image != nil {
		imagePath, err := s.fileStorage.SaveImage(image, "posts")
		if err != nil {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
		}
		post.Image = &imagePath
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, err
	}

	s.logger.Info().Int64("postId", post.ID).Msg("Post updated")
	return post, nil
}

// Profile loads the profile page data for an author.
func (s *postServiceImpl) Profile(ctx context.Context, username string, viewerID *int64, page int) (*ProfileData, error) {
	author, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, total, err := s.postRepo.ListByAuthor(ctx, author.ID, page, s.pageSize)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.CountFollowers(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	following, err := s.followRepo.CountFollowing(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	data := &ProfileData{
		Author:    author,
		Posts:     posts,
		Page:      helpers.NewPage(total, page, s.pageSize),
		PostCount: total,
		Followers: followers,
		Following: following,
	}

	if viewerID != nil {
		follows, err := s.followRepo.Exists(ctx, *viewerID, author.ID)
		if err != nil {
			return nil, err
		}
		data.ViewerFollows = follows
	}

	return data, nil
}

// FollowedPosts returns one page of posts by authors the user follows.
func (s *postServiceImpl) FollowedPosts(ctx context.Context, userID int64, page int) ([]models.Post, models.Page, error) {
	posts, total, err := s.postRepo.ListFollowed(ctx, userID, page, s.pageSize)
	if err != nil {
		return nil, models.Page{}, err
	}
	return posts, helpers.NewPage(total, page, s.pageSize), nil
}
