package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "bookmarks/backend/internal/domain/auth"
	"bookmarks/backend/internal/logging"
	authusecase "bookmarks/backend/internal/usecase/auth"
)

// Service provides profile use cases for the authenticated user.
type Service struct {
	repo    domain.UserRepository
	cache   authusecase.IdentityCache
	logger  logging.Logger
	nowFunc func() time.Time
}

// NewService constructs a user service around the provided repository. The
// cache is invalidated after every successful update. cache and logger may be
// nil.
func NewService(repo domain.UserRepository, cache authusecase.IdentityCache, logger logging.Logger) *Service {
	if cache == nil {
		cache = authusecase.NopCache{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		repo:    repo,
		cache:   cache,
		logger:  logger.With("component", "user"),
		nowFunc: time.Now,
	}
}

// Get retrieves a single user by its identifier.
func (s *Service) Get(ctx context.Context, id string) (*domain.PublicUser, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// Update applies a partial update to the user. Fails with ErrUserNotFound if
// the id is absent and ErrEmailExists if the new email is taken.
func (s *Service) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.PublicUser, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		email := domain.NormalizeEmail(*patch.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
		}
		user.Email = email
	}
	if patch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		user.LastName = strings.TrimSpace(*patch.LastName)
	}

	user.UpdatedAt = s.nowFunc().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	// The update is committed; a stale cache entry expires with its TTL.
	if err := s.cache.Delete(ctx, user.ID); err != nil {
		s.logger.Warn(ctx, "identity cache invalidation failed", "user_id", user.ID, "error", err)
	}

	return user.Public(), nil
}
