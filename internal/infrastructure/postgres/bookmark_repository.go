package postgres

import (
	"context"
	"errors"
	"fmt"

	domain "bookmarks/backend/internal/domain/bookmark"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookmarkRepository persists bookmarks in PostgreSQL.
type BookmarkRepository struct {
	pool *pgxpool.Pool
}

// NewBookmarkRepository constructs a repository.
func NewBookmarkRepository(pool *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{pool: pool}
}

var _ domain.Repository = (*BookmarkRepository)(nil)

const bookmarkColumns = `id, user_id, title, link, description, created_at, updated_at`

// Create inserts a new bookmark.
func (r *BookmarkRepository) Create(ctx context.Context, b *domain.Bookmark) error {
	const query = `
INSERT INTO bookmarks (` + bookmarkColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := r.pool.Exec(ctx, query,
		b.ID,
		b.OwnerID,
		b.Title,
		b.Link,
		b.Description,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

// GetByID fetches a bookmark by id regardless of owner.
func (r *BookmarkRepository) GetByID(ctx context.Context, id string) (*domain.Bookmark, error) {
	const query = `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE id = $1`
	b, err := scanBookmark(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select bookmark: %w", err)
	}
	return b, nil
}

// ListByOwner returns the owner's bookmarks, oldest first.
func (r *BookmarkRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Bookmark, error) {
	const query = `
SELECT ` + bookmarkColumns + `
FROM bookmarks
WHERE user_id = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	items := []*domain.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// Update writes bookmark updates to the database.
func (r *BookmarkRepository) Update(ctx context.Context, b *domain.Bookmark) error {
	const query = `
UPDATE bookmarks
SET title = $2,
    link = $3,
    description = $4,
    updated_at = $5
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, query,
		b.ID,
		b.Title,
		b.Link,
		b.Description,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a bookmark by id.
func (r *BookmarkRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM bookmarks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBookmark(row pgx.Row) (*domain.Bookmark, error) {
	var b domain.Bookmark
	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Title,
		&b.Link,
		&b.Description,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
