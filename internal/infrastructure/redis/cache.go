package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "bookmarks/backend/internal/domain/auth"
	usecase "bookmarks/backend/internal/usecase/auth"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "identity:"

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a client and verifies it with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rdb, nil
}

// IdentityCache keeps resolved public identities in Redis as JSON with a TTL.
// Only the public projection is stored; password hashes never leave the
// directory.
type IdentityCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

var _ usecase.IdentityCache = (*IdentityCache)(nil)

// NewIdentityCache wraps rdb. A non-positive ttl falls back to one minute.
func NewIdentityCache(rdb redis.UniversalClient, ttl time.Duration) *IdentityCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &IdentityCache{rdb: rdb, ttl: ttl}
}

func key(userID string) string {
	return keyPrefix + userID
}

func (c *IdentityCache) Get(ctx context.Context, userID string) (*domain.PublicUser, bool, error) {
	val, err := c.rdb.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get identity: %w", err)
	}

	var user domain.PublicUser
	if err := json.Unmarshal(val, &user); err != nil {
		return nil, false, fmt.Errorf("decode identity: %w", err)
	}
	return &user, true, nil
}

func (c *IdentityCache) Set(ctx context.Context, user *domain.PublicUser) error {
	if user == nil || user.ID == "" {
		return nil
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return c.rdb.Set(ctx, key(user.ID), data, c.ttl).Err()
}

func (c *IdentityCache) Delete(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, key(userID)).Err()
}
