package auth

import "context"

// UserRepository defines persistence operations for users.
//
// Create and Update must report ErrEmailExists when the storage-level unique
// constraint on email rejects the write.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}
