package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/postium/internal/pkg/apperrors"
	"github.com/dkoval/postium/internal/pkg/dberrors"
)

// PgFollowRepository handles database operations for follow relationships
type PgFollowRepository struct {
	db *pgxpool.Pool
}

// NewFollowRepository creates a new PgFollowRepository
func NewFollowRepository(db *pgxpool.Pool) *PgFollowRepository {
	return &PgFollowRepository{db: db}
}

// Create inserts the (userID, authorID) pair. Uniqueness is enforced by the
// follows_user_author_key constraint; a racing duplicate insert surfaces as
// apperrors.ErrAlreadyFollowing rather than a database error.
func (r *PgFollowRepository) Create(ctx context.Context, userID, authorID int64) (int64, error) {
	query := squirrel.Insert("follows").
		Columns("user_id", "author_id").
		Values(userID, authorID).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "follows_user_author_key") {
			return 0, apperrors.ErrAlreadyFollowing
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// Delete removes the (userID, authorID) pair. Deleting a pair that does not
// exist is a no-op.
func (r *PgFollowRepository) Delete(ctx context.Context, userID, authorID int64) error {
	query := squirrel.Delete("follows").
		Where("user_id = ? AND author_id = ?", userID, authorID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// Exists checks whether the user already follows the author.
func (r *PgFollowRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	query := squirrel.Select("1").
		From("follows").
		Where("user_id = ? AND author_id = ?", userID, authorID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var exists int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return true, nil
}

// CountFollowers returns how many users follow the author.
func (r *PgFollowRepository) CountFollowers(ctx context.Context, authorID int64) (int64, error) {
	return r.count(ctx, squirrel.Eq{"author_id": authorID})
}

// CountFollowing returns how many authors the user follows.
func (r *PgFollowRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, squirrel.Eq{"user_id": userID})
}

func (r *PgFollowRepository) count(ctx context.Context, pred squirrel.Eq) (int64, error) {
	query := squirrel.Select("COUNT(*)").
		From("follows").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return count, nil
}
