package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dkoval/postium/internal/app/forms"
	"github.com/dkoval/postium/internal/app/models"
	"github.com/dkoval/postium/internal/app/repositories"
	"github.com/dkoval/postium/internal/pkg/apperrors"
	"github.com/dkoval/postium/internal/pkg/auth"
)

// AuthService defines the interface for local account operations
type AuthService interface {
	Register(ctx context.Context, form *forms.SignupForm) (*models.User, error)
	Login(ctx context.Context, form *forms.LoginForm) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo repositories.UserRepository
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register creates a local account with a hashed password. Duplicate
// username/email surface as ErrUsernameTaken / ErrEmailTaken.
func (s *authServiceImpl) Register(ctx context.Context, form *forms.SignupForm) (*models.User, error) {
	hashed, err := auth.HashPassword(form.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: hashed,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Msg("User registered")
	return user, nil
}

// Login checks the credentials and returns the user. Both an unknown
// username and a wrong password map to ErrInvalidCredentials so the login
// page does not leak which one failed.
func (s *authServiceImpl) Login(ctx context.Context, form *forms.LoginForm) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, form.Username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, form.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// GetUser resolves a user by ID.
func (s *authServiceImpl) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// DeleteAccount removes the user together with their posts, comments and
// follow relationships.
func (s *authServiceImpl) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("user_id", id).Msg("Account deleted")
	return nil
}
