package token

import (
	"strings"
	"testing"
	"time"

	domain "bookmarks/backend/internal/domain/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManagerAt(t *testing.T, now time.Time, ttl time.Duration) (*JWTManager, *time.Time) {
	t.Helper()
	clock := now
	m := NewJWTManager("super-secret", ttl, "bookmarks")
	m.nowFunc = func() time.Time { return clock }
	return m, &clock
}

func TestIssueAndValidate_Success(t *testing.T) {
	t.Parallel()

	m, _ := newManagerAt(t, time.Now(), time.Hour)

	tok, err := m.Issue("user-123")
	require.NoError(t, err)

	sub, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)
}

func TestValidate_ExpiredAfterTTL(t *testing.T) {
	t.Parallel()

	m, clock := newManagerAt(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), 15*time.Minute)

	tok, err := m.Issue("u1")
	require.NoError(t, err)

	*clock = clock.Add(14 * time.Minute)
	_, err = m.Validate(tok)
	require.NoError(t, err)

	*clock = clock.Add(2 * time.Minute)
	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, domain.ErrExpired)
}

func TestValidate_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewJWTManager("right-secret", time.Hour, "bookmarks").Issue("u2")
	require.NoError(t, err)

	_, err = NewJWTManager("wrong-secret", time.Hour, "bookmarks").Validate(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestValidate_ExpiredWithWrongSecretIsInvalidSignature(t *testing.T) {
	t.Parallel()

	tok, err := NewJWTManager("right-secret", -time.Minute, "bookmarks").Issue("u2")
	require.NoError(t, err)

	_, err = NewJWTManager("wrong-secret", time.Hour, "bookmarks").Validate(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestValidate_TamperedPayload(t *testing.T) {
	t.Parallel()

	m, _ := newManagerAt(t, time.Now(), time.Hour)
	tok, err := m.Issue("user-123")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	payload := []byte(parts[1])
	for i := 1; i < len(payload)-1; i++ {
		mutated := append([]byte(nil), payload...)
		mutated[i] ^= 0x01
		forged := parts[0] + "." + string(mutated) + "." + parts[2]

		_, err := m.Validate(forged)
		assert.ErrorIs(t, err, domain.ErrInvalidSignature, "mutation at %d", i)
	}
}

func TestValidate_ForgedSubjectRejected(t *testing.T) {
	t.Parallel()

	m, _ := newManagerAt(t, time.Now(), time.Hour)
	tok, err := m.Issue("victim")
	require.NoError(t, err)

	forgedClaims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "attacker",
		Issuer:    "bookmarks",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, forgedClaims).SignedString([]byte("guess"))
	require.NoError(t, err)

	// Splice the forged payload onto the genuine signature.
	orig := strings.Split(tok, ".")
	fake := strings.Split(forged, ".")
	_, err = m.Validate(orig[0] + "." + fake[1] + "." + orig[2])
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	m, _ := newManagerAt(t, time.Now(), time.Hour)
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		Issuer:    "bookmarks",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestValidate_WrongIssuer(t *testing.T) {
	t.Parallel()

	tok, err := NewJWTManager("secret", time.Hour, "someone-else").Issue("u1")
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Hour, "bookmarks").Validate(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestValidate_Malformed(t *testing.T) {
	t.Parallel()

	m := NewJWTManager("k", time.Hour, "bookmarks")
	for _, raw := range []string{"", "not.a.jwt", "abc"} {
		_, err := m.Validate(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidSignature, "input %q", raw)
	}
}

func TestIssue_RequiresSubject(t *testing.T) {
	t.Parallel()

	_, err := NewJWTManager("k", time.Hour, "bookmarks").Issue("")
	assert.Error(t, err)
}
