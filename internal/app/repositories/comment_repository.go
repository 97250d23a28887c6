package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkoval/postium/internal/app/models"
)

// PgCommentRepository handles database operations for comments
type PgCommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new PgCommentRepository
func NewCommentRepository(db *pgxpool.Pool) *PgCommentRepository {
	return &PgCommentRepository{db: db}
}

// Create inserts a new comment. The creation timestamp is assigned by the
// database.
func (r *PgCommentRepository) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	query := squirrel.Insert("comments").
		Columns("text", "author_id", "post_id").
		Values(comment.Text, comment.AuthorID, comment.PostID).
		Suffix("RETURNING id, created").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&comment.ID, &comment.Created)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return comment.ID, nil
}

// ListByPost retrieves a post's comments oldest-first with their authors.
func (r *PgCommentRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := squirrel.Select(
		"c.id", "c.text", "c.created", "c.author_id", "c.post_id",
		"u.username",
	).
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where("c.post_id = ?", postID).
		OrderBy("c.created ASC", "c.id ASC").
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

	var comments []models.Comment
	for rows.Next() {
		var (
			comment models.Comment
			author  models.User
		)
		err := rows.Scan(
			&comment.ID,
			&comment.Text,
			&comment.Created,
			&comment.AuthorID,
			&comment.PostID,
			&author.Username,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}

		author.ID = comment.AuthorID
		comment.Author = &author
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

// CountByPost returns the number of comments attached to a post.
func (r *PgCommentRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	query := squirrel.Select("COUNT(*)").
		From("comments").
		Where("post_id = ?", postID).
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
