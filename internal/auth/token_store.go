package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found or expired")

// TokenStore maps single-use opaque tokens to user IDs with a TTL. Used by
// the password-reset dispatch flow.
type TokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// GenerateToken returns n random bytes, URL-safe base64 encoded.
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func resetKey(token string) string { return "pwd:reset:token:" + token }

// RedisTokenStore keeps reset tokens in Redis so they expire server-side.
type RedisTokenStore struct {
	RDB *redis.Client
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{RDB: rdb}
}

func (s *RedisTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.RDB.Set(ctx, resetKey(token), userID, ttl).Err()
}

func (s *RedisTokenStore) Get(ctx context.Context, token string) (string, error) {
	uid, err := s.RDB.Get(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) || uid == "" {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return uid, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, token string) error {
	return s.RDB.Del(ctx, resetKey(token)).Err()
}

var _ TokenStore = (*RedisTokenStore)(nil)
