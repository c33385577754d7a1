package bookmark

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "bookmarks/backend/internal/domain/bookmark"

	"github.com/google/uuid"
)

// ErrInvalidInput wraps field-level problems in bookmark payloads.
var ErrInvalidInput = errors.New("invalid bookmark input")

// Service encapsulates bookmark use cases. Every single-item operation goes
// through authorize before touching the record.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs a bookmark service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// CreateInput contains the payload required for bookmark creation.
type CreateInput struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// UpdateInput encapsulates partial bookmark updates.
type UpdateInput struct {
	Title       *string `json:"title"`
	Link        *string `json:"link"`
	Description *string `json:"description"`
}

// List returns the requester's bookmarks. The result is never nil.
func (s *Service) List(ctx context.Context, ownerID string) ([]*domain.Bookmark, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Bookmark{}
	}
	return items, nil
}

// Create stores a new bookmark owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (*domain.Bookmark, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Link = strings.TrimSpace(input.Link)
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title should not be empty", ErrInvalidInput)
	}
	if input.Link == "" {
		return nil, fmt.Errorf("%w: link should not be empty", ErrInvalidInput)
	}

	now := s.nowFunc().UTC()
	item := &domain.Bookmark{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Link:        input.Link,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Get returns a bookmark the requester owns.
func (s *Service) Get(ctx context.Context, requesterID, id string) (*domain.Bookmark, error) {
	return s.authorize(ctx, requesterID, id)
}

// Update applies partial updates to a bookmark the requester owns.
func (s *Service) Update(ctx context.Context, requesterID, id string, input UpdateInput) (*domain.Bookmark, error) {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title should not be empty", ErrInvalidInput)
		}
		input.Title = &title
	}
	if input.Link != nil {
		link := strings.TrimSpace(*input.Link)
		if link == "" {
			return nil, fmt.Errorf("%w: link should not be empty", ErrInvalidInput)
		}
		input.Link = &link
	}

	item, err := s.authorize(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	item.Update(input.Title, input.Link, input.Description, s.nowFunc().UTC())
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	return item, nil
}

// Delete removes a bookmark the requester owns.
func (s *Service) Delete(ctx context.Context, requesterID, id string) error {
	item, err := s.authorize(ctx, requesterID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, item.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return err
	}
	return nil
}

// authorize loads the bookmark and confirms requesterID owns it. Missing and
// foreign bookmarks both yield ErrForbidden.
func (s *Service) authorize(ctx context.Context, requesterID, id string) (*domain.Bookmark, error) {
	id = strings.TrimSpace(id)
	if requesterID == "" || id == "" {
		return nil, domain.ErrForbidden
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, err
	}
	if !item.OwnedBy(requesterID) {
		return nil, domain.ErrForbidden
	}
	return item, nil
}
