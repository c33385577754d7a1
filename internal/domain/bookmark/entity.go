package bookmark

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a bookmark could not be located in storage.
	ErrNotFound = errors.New("bookmark not found")
	// ErrForbidden is returned when the requester does not own the bookmark
	// or the bookmark does not exist. The two cases are not distinguished.
	ErrForbidden = errors.New("access to bookmark is forbidden")
)

// Bookmark is a link saved by a user.
type Bookmark struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"userId"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OwnedBy reports whether userID owns the bookmark.
func (b *Bookmark) OwnedBy(userID string) bool {
	return b != nil && userID != "" && b.OwnerID == userID
}

// Update applies arbitrary field updates to the bookmark.
func (b *Bookmark) Update(title, link, description *string, now time.Time) {
	if title != nil {
		b.Title = *title
	}
	if link != nil {
		b.Link = *link
	}
	if description != nil {
		b.Description = *description
	}
	b.UpdatedAt = now
}
