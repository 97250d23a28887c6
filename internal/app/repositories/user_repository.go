package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/postium/internal/app/models"
	"github.com/dkoval/postium/internal/pkg/apperrors"
	"github.com/dkoval/postium/internal/pkg/dberrors"
)

// PgUserRepository handles database operations for users
type PgUserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new PgUserRepository
func NewUserRepository(db *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// Create inserts a new user and returns its ID
func (r *PgUserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := squirrel.Insert("users").
		Columns("username", "email", "password").
		Values(user.Username, user.Email, user.Password).
		Suffix("RETURNING id, joined_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.JoinedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return 0, apperrors.ErrUsernameTaken
		}
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailTaken
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return user.ID, nil
}

// FindByID retrieves a user by ID
func (r *PgUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, squirrel.Eq{"id": id})
}

// FindByUsername retrieves a user by username
func (r *PgUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, squirrel.Eq{"username": username})
}

func (r *PgUserRepository) findOne(ctx context.Context, pred squirrel.Eq) (*models.User, error) {
	query := squirrel.Select("id", "username", "email", "password", "joined_at").
		From("users").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &user, nil
}

// Delete removes a user. The FK actions cascade to their posts, comments
// and follow rows.
func (r *PgUserRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("users").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
