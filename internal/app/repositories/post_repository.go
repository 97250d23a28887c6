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
	"github.com/dkoval/postium/internal/pkg/helpers"
)

// PgPostRepository handles database operations for posts
type PgPostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PgPostRepository
func NewPostRepository(db *pgxpool.Pool) *PgPostRepository {
	return &PgPostRepository{db: db}
}

// postColumns are the columns selected by every list/find query. The author
// row is always joined; the group row is joined eagerly so list pages do not
// look groups up per post.
var postColumns = []string{
	"p.id", "p.text", "p.pub_date", "p.author_id", "p.group_id", "p.image",
	"u.username", "u.email", "u.joined_at",
	"g.title", "g.slug",
}

func (r *PgPostRepository) baseSelect() squirrel.SelectBuilder {
	return squirrel.Select(postColumns...).
		From("posts p").
		Join("users u ON u.id = p.author_id").
		LeftJoin("groups g ON g.id = p.group_id").
		PlaceholderFormat(squirrel.Dollar)
}

// scanPost scans one joined row into a Post with its related entities.
func scanPost(row pgx.Row) (*models.Post, error) {
	var (
		post       models.Post
		author     models.User
		groupTitle *string
		groupSlug  *string
	)

	err := row.Scan(
		&post.ID,
		&post.Text,
		&post.PubDate,
		&post.AuthorID,
		&post.GroupID,
		&post.Image,
		&author.Username,
		&author.Email,
		&author.JoinedAt,
		&groupTitle,
		&groupSlug,
	)
	if err != nil {
		return nil, err
	}

	author.ID = post.AuthorID
	post.Author = &author

	if post.GroupID != nil {
		post.Group = &models.Group{
			ID:    *post.GroupID,
			Title: *groupTitle,
			Slug:  *groupSlug,
		}
	}

	return &post, nil
}

// Create inserts a new post. The publication timestamp is assigned by the
// database, never taken from the caller.
func (r *PgPostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := squirrel.Insert("posts").
		Columns("text", "author_id", "group_id", "image").
		Values(post.Text, post.AuthorID, helpers.GetNullInt64(post.GroupID), helpers.GetNullString(post.Image)).
		Suffix("RETURNING id, pub_date").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&post.ID, &post.PubDate)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return post.ID, nil
}

// Update rewrites a post's mutable fields (text, group, image). pub_date and
// author are deliberately not part of the statement.
func (r *PgPostRepository) Update(ctx context.Context, post *models.Post) error {
	query := squirrel.Update("posts").
		Set("text", post.Text).
		Set("group_id", helpers.GetNullInt64(post.GroupID)).
		Set("image", helpers.GetNullString(post.Image)).
		Where("id = ?", post.ID).
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
		return apperrors.ErrPostNotFound
	}

	return nil
}

// FindByAuthorAndID resolves a post by the (author, id) pair; a post that
// exists under a different author is reported as not found.
func (r *PgPostRepository) FindByAuthorAndID(ctx context.Context, authorID, postID int64) (*models.Post, error) {
	query := r.baseSelect().Where("p.id = ? AND p.author_id = ?", postID, authorID)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	post, err := scanPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	return post, nil
}

// ListAll retrieves all posts newest-first with the total count.
func (r *PgPostRepository) ListAll(ctx context.Context, page, size int) ([]models.Post, int64, error) {
	return r.list(ctx, r.baseSelect(), page, size)
}

// ListByGroup retrieves a group's posts newest-first with the total count.
func (r *PgPostRepository) ListByGroup(ctx context.Context, groupID int64, page, size int) ([]models.Post, int64, error) {
	return r.list(ctx, r.baseSelect().Where("p.group_id = ?", groupID), page, size)
}

// ListByAuthor retrieves an author's posts newest-first with the total count.
func (r *PgPostRepository) ListByAuthor(ctx context.Context, authorID int64, page, size int) ([]models.Post, int64, error) {
	return r.list(ctx, r.baseSelect().Where("p.author_id = ?", authorID), page, size)
}

// ListFollowed retrieves posts whose author is followed by the given user,
// newest-first with the total count.
func (r *PgPostRepository) ListFollowed(ctx context.Context, userID int64, page, size int) ([]models.Post, int64, error) {
	query := r.baseSelect().
		Join("follows f ON f.author_id = p.author_id").
		Where("f.user_id = ?", userID)
	return r.list(ctx, query, page, size)
}

// CountByAuthor returns the author's total post count.
func (r *PgPostRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	query := squirrel.Select("COUNT(*)").
		From("posts").
		Where("author_id = ?", authorID).
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

// list runs a filtered post query with newest-first ordering and pagination.
// The total count rides along via a window function instead of a second query.
func (r *PgPostRepository) list(ctx context.Context, query squirrel.SelectBuilder, page, size int) ([]models.Post, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	query = query.
		Column("COUNT(*) OVER() AS total_count").
		OrderBy("p.pub_date DESC", "p.id DESC").
		Limit(uint64(limit)).
		Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var (
		posts []models.Post
		total int64
	)
	for rows.Next() {
		var (
			post       models.Post
			author     models.User
			groupTitle *string
			groupSlug  *string
		)

		err := rows.Scan(
			&post.ID,
			&post.Text,
			&post.PubDate,
			&post.AuthorID,
			&post.GroupID,
			&post.Image,
			&author.Username,
			&author.Email,
			&author.JoinedAt,
			&groupTitle,
			&groupSlug,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}

		author.ID = post.AuthorID
		post.Author = &author
		if post.GroupID != nil {
			post.Group = &models.Group{ID: *post.GroupID, Title: *groupTitle, Slug: *groupSlug}
		}

		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return posts, total, nil
}
