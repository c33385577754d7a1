package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	authdomain "bookmarks/backend/internal/domain/auth"
	bookmarkdomain "bookmarks/backend/internal/domain/bookmark"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "bookmarks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testUser(id, email string) *authdomain.User {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &authdomain.User{
		ID:           id,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	require.Error(t, err)
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.db")

	first, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, first.Users().Create(context.Background(), testUser("u1", "a@example.com")))
	require.NoError(t, first.Close())

	second, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Users().GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
}

func TestUsers_CreateAndLookup(t *testing.T) {
	users := openTestStore(t).Users()
	ctx := context.Background()

	u := testUser("u1", "guy@example.com")
	u.FirstName = "Guy"
	require.NoError(t, users.Create(ctx, u))

	byEmail, err := users.GetByEmail(ctx, "guy@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)
	assert.Equal(t, "Guy", byEmail.FirstName)
	assert.Equal(t, u.PasswordHash, byEmail.PasswordHash)
	assert.True(t, u.CreatedAt.Equal(byEmail.CreatedAt))

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, authdomain.ErrUserNotFound)
	_, err = users.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, authdomain.ErrUserNotFound)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	users := openTestStore(t).Users()
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, testUser("u1", "dup@example.com")))
	err := users.Create(ctx, testUser("u2", "dup@example.com"))
	assert.ErrorIs(t, err, authdomain.ErrEmailExists)
}

func TestUsers_Update(t *testing.T) {
	users := openTestStore(t).Users()
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, testUser("u1", "a@example.com")))
	require.NoError(t, users.Create(ctx, testUser("u2", "b@example.com")))

	u, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	u.LastName = "Jof"
	u.PasswordHash = "ignored"
	require.NoError(t, users.Update(ctx, u))

	got, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Jof", got.LastName)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)

	u.Email = "b@example.com"
	assert.ErrorIs(t, users.Update(ctx, u), authdomain.ErrEmailExists)

	assert.ErrorIs(t, users.Update(ctx, testUser("ghost", "g@example.com")), authdomain.ErrUserNotFound)
}

func TestBookmarks_Lifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, testUser("alice", "alice@example.com")))
	require.NoError(t, store.Users().Create(ctx, testUser("bob", "bob@example.com")))

	repo := store.Bookmarks()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second"} {
		require.NoError(t, repo.Create(ctx, &bookmarkdomain.Bookmark{
			ID:        title,
			OwnerID:   "alice",
			Title:     title,
			Link:      "https://example.com/" + title,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	items, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].ID)
	assert.Equal(t, "second", items[1].ID)

	empty, err := repo.ListByOwner(ctx, "bob")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	b, err := repo.GetByID(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, "alice", b.OwnerID)

	b.Description = "updated"
	b.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, b))
	got, err := repo.GetByID(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Description)
	assert.True(t, got.UpdatedAt.Equal(base.Add(time.Hour)))

	require.NoError(t, repo.Delete(ctx, "first"))
	_, err = repo.GetByID(ctx, "first")
	assert.ErrorIs(t, err, bookmarkdomain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "first"), bookmarkdomain.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, b), bookmarkdomain.ErrNotFound)
}

func TestBookmarks_RequireExistingOwner(t *testing.T) {
	repo := openTestStore(t).Bookmarks()
	now := time.Now()

	err := repo.Create(context.Background(), &bookmarkdomain.Bookmark{
		ID: "b1", OwnerID: "ghost", Title: "t", Link: "l", CreatedAt: now, UpdatedAt: now,
	})
	require.Error(t, err)
}
