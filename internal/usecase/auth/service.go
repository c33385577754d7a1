package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "bookmarks/backend/internal/domain/auth"
	"bookmarks/backend/internal/logging"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("bookmarks/backend/internal/usecase/auth")

// timingPassword is hashed once at construction. Sign-in for an unknown email
// verifies against that hash so both failure paths cost one bcrypt compare.
const timingPassword = "bookmarks:timing-equaliser"

// Service coordinates signup, signin and bearer-token authentication.
type Service struct {
	users     domain.UserRepository
	tokens    TokenManager
	hasher    PasswordHasher
	cache     IdentityCache
	logger    logging.Logger
	nowFunc   func() time.Time
	dummyHash string
}

// NewService constructs an auth service. cache and logger may be nil.
func NewService(users domain.UserRepository, tokens TokenManager, hasher PasswordHasher, cache IdentityCache, logger logging.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	dummy, err := hasher.Hash(timingPassword)
	if err != nil {
		logger.Warn(context.Background(), "could not prepare timing hash", "error", err)
	}
	return &Service{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		cache:     cache,
		logger:    logger.With("component", "auth"),
		nowFunc:   time.Now,
		dummyHash: dummy,
	}
}

// Signup registers a new user and returns an access token for it.
func (s *Service) Signup(ctx context.Context, creds domain.Credentials, profile domain.Profile) (string, error) {
	ctx, span := tracer.Start(ctx, "auth.Signup")
	defer span.End()

	email := domain.NormalizeEmail(creds.Email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if creds.Password == "" {
		return "", fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	hashed, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return "", recordErr(span, err)
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Uniqueness is enforced by storage; ErrEmailExists is passed through as is.
	if err := s.users.Create(ctx, user); err != nil {
		return "", recordErr(span, err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", recordErr(span, fmt.Errorf("issue token: %w", err))
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID)
	return token, nil
}

// Signin validates credentials and returns an access token.
func (s *Service) Signin(ctx context.Context, creds domain.Credentials) (string, error) {
	ctx, span := tracer.Start(ctx, "auth.Signin")
	defer span.End()

	email := domain.NormalizeEmail(creds.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(creds.Password, s.dummyHash)
			return "", domain.ErrInvalidCredentials
		}
		return "", recordErr(span, err)
	}

	if !s.hasher.Verify(creds.Password, user.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", recordErr(span, fmt.Errorf("issue token: %w", err))
	}
	span.SetAttributes(attribute.String("user.id", user.ID))
	return token, nil
}

// Authenticate validates a bearer token and resolves it to the public view of
// its user. Token and lookup failures all wrap ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.PublicUser, error) {
	ctx, span := tracer.Start(ctx, "auth.Authenticate")
	defer span.End()

	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	if cached, ok, err := s.cache.Get(ctx, userID); err != nil {
		s.logger.Warn(ctx, "identity cache read failed", "user_id", userID, "error", err)
	} else if ok {
		return cached, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
		}
		return nil, recordErr(span, err)
	}

	public := user.Public()
	if err := s.cache.Set(ctx, public); err != nil {
		s.logger.Warn(ctx, "identity cache write failed", "user_id", userID, "error", err)
	}
	return public, nil
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
