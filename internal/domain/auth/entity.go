package auth

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrInvalidCredentials indicates a sign-in failure. Unknown emails and
	// wrong passwords both map to it.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailExists signals a duplicate email registration.
	ErrEmailExists = errors.New("email already registered")
	// ErrUnauthenticated means the request carried no usable bearer token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidSignature is returned for tampered or malformed tokens.
	ErrInvalidSignature = errors.New("token signature invalid")
	// ErrExpired is returned for correctly signed tokens past their expiry.
	ErrExpired = errors.New("token expired")
	// ErrUserNotFound indicates missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrEncoding indicates a password the hasher cannot accept.
	ErrEncoding = errors.New("password encoding invalid")
	// ErrInvalidInput wraps field-level input problems.
	ErrInvalidInput = errors.New("invalid input")
)

// User models the identity persisted in storage. It carries the password
// hash and must never be returned to a caller directly; use Public.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the caller-facing view of a User.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public projects the user into a value without the password hash.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Credentials captures raw credential input for signup and signin.
type Credentials struct {
	Email    string
	Password string
}

// Profile holds the optional profile fields supplied at signup.
type Profile struct {
	FirstName string
	LastName  string
}

// UserPatch describes a partial user update; nil fields are left untouched.
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
