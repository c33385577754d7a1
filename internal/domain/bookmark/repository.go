package bookmark

import "context"

// Repository defines persistence behaviours for bookmarks.
type Repository interface {
	Create(ctx context.Context, bookmark *Bookmark) error
	GetByID(ctx context.Context, id string) (*Bookmark, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Bookmark, error)
	Update(ctx context.Context, bookmark *Bookmark) error
	Delete(ctx context.Context, id string) error
}
