package user

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	domain "bookmarks/backend/internal/domain/auth"
	"bookmarks/backend/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users map[string]domain.User
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUsers) Update(_ context.Context, u *domain.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for id, other := range f.users {
		if id != u.ID && other.Email == u.Email {
			return domain.ErrEmailExists
		}
	}
	f.users[u.ID] = *u
	return nil
}

type recordingCache struct {
	deleted   []string
	deleteErr error
}

func (c *recordingCache) Get(context.Context, string) (*domain.PublicUser, bool, error) {
	return nil, false, nil
}
func (c *recordingCache) Set(context.Context, *domain.PublicUser) error { return nil }
func (c *recordingCache) Delete(_ context.Context, id string) error {
	c.deleted = append(c.deleted, id)
	return c.deleteErr
}

func ptr(s string) *string { return &s }

func newFixture() (*Service, *fakeUsers, *recordingCache) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeUsers{users: map[string]domain.User{
		"u1": {ID: "u1", Email: "guy@example.com", PasswordHash: "hash", CreatedAt: created, UpdatedAt: created},
		"u2": {ID: "u2", Email: "taken@example.com", PasswordHash: "hash", CreatedAt: created, UpdatedAt: created},
	}}
	cache := &recordingCache{}
	svc := NewService(repo, cache, nil)
	svc.nowFunc = func() time.Time { return created.Add(time.Hour) }
	return svc, repo, cache
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, repo, cache := newFixture()

	got, err := svc.Update(context.Background(), "u1", domain.UserPatch{
		Email:     ptr(" GuyJof@Example.com "),
		FirstName: ptr("Guy"),
	})
	require.NoError(t, err)

	assert.Equal(t, "guyjof@example.com", got.Email)
	assert.Equal(t, "Guy", got.FirstName)
	assert.Equal(t, "", got.LastName)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	stored := repo.users["u1"]
	assert.Equal(t, "hash", stored.PasswordHash)
	assert.Equal(t, []string{"u1"}, cache.deleted)
}

func TestUpdate_CacheInvalidationFailureIsLogged(t *testing.T) {
	svc, repo, cache := newFixture()
	cache.deleteErr = errors.New("redis: connection refused")

	var buf bytes.Buffer
	svc.logger = logging.New("debug", "text", &buf)

	got, err := svc.Update(context.Background(), "u1", domain.UserPatch{FirstName: ptr("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", got.FirstName)
	assert.Equal(t, "New", repo.users["u1"].FirstName)
	assert.Equal(t, []string{"u1"}, cache.deleted)

	out := buf.String()
	assert.Contains(t, out, "identity cache invalidation failed")
	assert.Contains(t, out, "user_id=u1")
	assert.Contains(t, out, "connection refused")
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.Update(context.Background(), "missing", domain.UserPatch{FirstName: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdate_DuplicateEmail(t *testing.T) {
	svc, _, cache := newFixture()

	_, err := svc.Update(context.Background(), "u1", domain.UserPatch{Email: ptr("taken@example.com")})
	assert.ErrorIs(t, err, domain.ErrEmailExists)
	assert.Empty(t, cache.deleted)
}

func TestUpdate_EmptyEmailRejected(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.Update(context.Background(), "u1", domain.UserPatch{Email: ptr("  ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGet_ReturnsPublicView(t *testing.T) {
	svc, _, _ := newFixture()

	got, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
