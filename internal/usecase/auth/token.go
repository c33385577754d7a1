package auth

import (
	"context"

	domain "bookmarks/backend/internal/domain/auth"
)

// TokenManager abstracts token issuance and verification.
type TokenManager interface {
	// Issue returns a signed token carrying subject.
	Issue(subject string) (string, error)
	// Validate returns the subject of a valid token, or ErrInvalidSignature /
	// ErrExpired.
	Validate(token string) (string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// IdentityCache stores resolved public identities by user id so the
// authentication gate can skip the directory on hot paths.
type IdentityCache interface {
	Get(ctx context.Context, userID string) (*domain.PublicUser, bool, error)
	Set(ctx context.Context, user *domain.PublicUser) error
	Delete(ctx context.Context, userID string) error
}

// NopCache is an IdentityCache that never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*domain.PublicUser, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, *domain.PublicUser) error                 { return nil }
func (NopCache) Delete(context.Context, string) error                          { return nil }
