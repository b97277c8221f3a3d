package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"blog_platform/internal/model"

	"github.com/jackc/pgx/v5"
)

const postColumns = `id, title, slug, body, status, author_id, created_at, updated_at, published_at, submitted_at, rejected_at`

// PostRepository defines operations for post data
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id int64) (*model.Post, error)
	FindByAuthor(ctx context.Context, authorID int, filters model.MyPostFilters) ([]model.Post, error)
	FindPending(ctx context.Context) ([]model.Post, error)
	FindPublished(ctx context.Context, page model.PublicPostPage) ([]model.Post, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*model.Post, error)
	SlugExists(ctx context.Context, slug string, excludeID *int64) (bool, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id int64) error
}

type postRepository struct {
	db DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db DB) PostRepository {
	return &postRepository{db: db}
}

func scanPost(row pgx.Row, p *model.Post) error {
	return row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Status, &p.AuthorID,
		&p.CreatedAt, &p.UpdatedAt, &p.PublishedAt, &p.SubmittedAt, &p.RejectedAt,
	)
}

// Create inserts a new post. Returns ErrDuplicate when the slug is already
// taken; the unique index is the backstop for concurrent allocations.
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	sql := `INSERT INTO posts (title, slug, body, status, author_id, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, p.Title, p.Slug, p.Body, p.Status, p.AuthorID, p.CreatedAt).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create post: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// FindByID retrieves a post by its ID
func (r *postRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	p := &model.Post{}
	sql := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	err := scanPost(r.db.QueryRow(ctx, sql, id), p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find post by ID: %w", err)
	}
	return p, nil
}

// FindByAuthor retrieves an author's posts, newest first, with an optional
// status filter.
func (r *postRepository) FindByAuthor(ctx context.Context, authorID int, filters model.MyPostFilters) ([]model.Post, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + postColumns + ` FROM posts WHERE author_id = $1`)
	args := []interface{}{authorID}

	if filters.Status != nil && *filters.Status != "" {
		queryBuilder.WriteString(" AND status = $2")
		args = append(args, *filters.Status)
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts by author: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// FindPending retrieves posts awaiting review, oldest submission first so
// reviewers work the queue in order.
func (r *postRepository) FindPending(ctx context.Context) ([]model.Post, error) {
	sql := `SELECT ` + postColumns + ` FROM posts WHERE status = $1 ORDER BY submitted_at ASC NULLS LAST, created_at ASC`
	rows, err := r.db.Query(ctx, sql, model.StatusPendingReview)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// FindPublished retrieves published posts, most recently published first.
func (r *postRepository) FindPublished(ctx context.Context, page model.PublicPostPage) ([]model.Post, error) {
	sql := `SELECT ` + postColumns + ` FROM posts WHERE status = $1 ORDER BY published_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, sql, model.StatusPublished, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query published posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// FindPublishedBySlug retrieves a published post by its exact slug
func (r *postRepository) FindPublishedBySlug(ctx context.Context, slug string) (*model.Post, error) {
	p := &model.Post{}
	sql := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1 AND status = $2`
	err := scanPost(r.db.QueryRow(ctx, sql, slug, model.StatusPublished), p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found or not published
		}
		return nil, fmt.Errorf("failed to find post by slug: %w", err)
	}
	return p, nil
}

// SlugExists reports whether any post already holds the exact slug,
// optionally excluding one post ID (the post being edited).
func (r *postRepository) SlugExists(ctx context.Context, slug string, excludeID *int64) (bool, error) {
	var exists bool
	var err error
	if excludeID != nil {
		sql := `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`
		err = r.db.QueryRow(ctx, sql, slug, *excludeID).Scan(&exists)
	} else {
		sql := `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`
		err = r.db.QueryRow(ctx, sql, slug).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}
	return exists, nil
}

// Update persists a post's mutable fields in one statement, so a lifecycle
// transition commits atomically. Returns ErrDuplicate on a slug collision.
func (r *postRepository) Update(ctx context.Context, p *model.Post) error {
	sql := `UPDATE posts
            SET title = $1, slug = $2, body = $3, status = $4, published_at = $5, submitted_at = $6, rejected_at = $7, updated_at = NOW()
            WHERE id = $8 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, p.Title, p.Slug, p.Body, p.Status, p.PublishedAt, p.SubmittedAt, p.RejectedAt, p.ID).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("post not found for update")
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to update post: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// Delete removes a post from the database
func (r *postRepository) Delete(ctx context.Context, id int64) error {
	sql := `DELETE FROM posts WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("post not found for deletion")
	}
	return nil
}

func collectPosts(rows pgx.Rows) ([]model.Post, error) {
	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return posts, nil
}
