package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "bookmarks/backend/internal/domain/bookmark"
)

// BookmarkRepository persists bookmarks in SQLite.
type BookmarkRepository struct {
	db *sql.DB
}

var _ domain.Repository = (*BookmarkRepository)(nil)

const bookmarkColumns = `id, user_id, title, link, description, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *BookmarkRepository) Create(ctx context.Context, b *domain.Bookmark) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookmarks (`+bookmarkColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.OwnerID,
		b.Title,
		b.Link,
		b.Description,
		toMillis(b.CreatedAt),
		toMillis(b.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

func (r *BookmarkRepository) GetByID(ctx context.Context, id string) (*domain.Bookmark, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookmarkColumns+` FROM bookmarks WHERE id = ?`, id)
	b, err := scanBookmark(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select bookmark: %w", err)
	}
	return b, nil
}

func (r *BookmarkRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Bookmark, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookmarkColumns+` FROM bookmarks WHERE user_id = ? ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	items := []*domain.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

func (r *BookmarkRepository) Update(ctx context.Context, b *domain.Bookmark) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookmarks SET title = ?, link = ?, description = ?, updated_at = ? WHERE id = ?`,
		b.Title,
		b.Link,
		b.Description,
		toMillis(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update bookmark: %w", err)
	}
	return requireAffected(res)
}

func (r *BookmarkRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBookmark(row rowScanner) (*domain.Bookmark, error) {
	var (
		b                domain.Bookmark
		created, updated int64
	)
	if err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Title,
		&b.Link,
		&b.Description,
		&created,
		&updated,
	); err != nil {
		return nil, err
	}
	b.CreatedAt = fromMillis(created)
	b.UpdatedAt = fromMillis(updated)
	return &b, nil
}
