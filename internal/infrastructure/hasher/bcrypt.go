package hasher

import (
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"unicode/utf8"

	domain "bookmarks/backend/internal/domain/auth"
	usecase "bookmarks/backend/internal/usecase/auth"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the input limit of bcrypt.
const maxPasswordBytes = 72

// Bcrypt hashes passwords with bcrypt. The salt is generated per call and
// embedded in the encoded hash.
type Bcrypt struct {
	cost int
}

// Ensure Bcrypt implements the PasswordHasher interface.
var _ usecase.PasswordHasher = (*Bcrypt)(nil)

// NewBcrypt constructs a hasher with the given work factor. Out-of-range costs
// fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns the encoded bcrypt hash of password. Only invalid UTF-8 is
// rejected; inputs of any length are accepted.
func (b *Bcrypt) Hash(password string) (string, error) {
	if !utf8.ValidString(password) {
		return "", domain.ErrEncoding
	}
	hashed, err := bcrypt.GenerateFromPassword(prepare(password), b.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrEncoding
		}
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether password matches the encoded hash. Malformed hashes
// are treated as a mismatch.
func (b *Bcrypt) Verify(password, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), prepare(password)) == nil
}

// prepare returns the bytes fed to bcrypt. Passwords past bcrypt's 72-byte
// input limit are first reduced to a base64 SHA-512 digest truncated to that
// limit, so every byte of a long passphrase affects the hash.
func prepare(password string) []byte {
	if len(password) <= maxPasswordBytes {
		return []byte(password)
	}
	sum := sha512.Sum512([]byte(password))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:])[:maxPasswordBytes])
}
