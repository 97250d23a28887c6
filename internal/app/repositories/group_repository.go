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

// PgGroupRepository handles database operations for groups
type PgGroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new PgGroupRepository
func NewGroupRepository(db *pgxpool.Pool) *PgGroupRepository {
	return &PgGroupRepository{db: db}
}

// Create inserts a new group and returns its ID
func (r *PgGroupRepository) Create(ctx context.Context, group *models.Group) (int64, error) {
	query := squirrel.Insert("groups").
		Columns("title", "slug", "description").
		Values(group.Title, group.Slug, group.Description).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&group.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "groups_slug_key") {
			return 0, apperrors.ErrSlugTaken
		}
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return group.ID, nil
}

// FindBySlug retrieves a group by its slug
func (r *PgGroupRepository) FindBySlug(ctx context.Context, slug string) (*models.Group, error) {
	query := squirrel.Select("id", "title", "slug", "description").
		From("groups").
		Where("slug = ?", slug).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var group models.Group
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&group.ID,
		&group.Title,
		&group.Slug,
		&group.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return &group, nil
}

// GetAll retrieves all groups ordered by title, used to fill the group
// selector on the post form.
func (r *PgGroupRepository) GetAll(ctx context.Context) ([]models.Group, error) {
	query := squirrel.Select("id", "title", "slug", "description").
		From("groups").
		OrderBy("title").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

// Delete removes a group. Posts referencing it keep existing with their
// group reference nulled by the FK action.
func (r *PgGroupRepository) Delete(ctx context.Context, id int64) error {
	query := squirrel.Delete("groups").
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
		return apperrors.ErrGroupNotFound
	}

	return nil
}
