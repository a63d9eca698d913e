package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rizkypratama/go-accounts/internal/domain/entity"
	"github.com/rizkypratama/go-accounts/pkg/helpers"
)

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// RedisGateway implements Gateway with a JWT cookie pair plus a Redis
// session hash. A token only resolves while the hash exists and its sid
// matches, so destroying the session invalidates outstanding tokens.
type RedisGateway struct {
	JWT        *helpers.JWTManager
	RDB        *redis.Client
	SessionTTL time.Duration
	Logger     *logrus.Logger
}

func NewRedisGateway(jwt *helpers.JWTManager, rdb *redis.Client, sessionTTL time.Duration, logger *logrus.Logger) *RedisGateway {
	return &RedisGateway{JWT: jwt, RDB: rdb, SessionTTL: sessionTTL, Logger: logger}
}

func (g *RedisGateway) Establish(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := g.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := g.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	key := sessionKey(u.ID)
	fields := map[string]any{
		"user_id":    u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"sid":        sid,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	pipe := g.RDB.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, g.SessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		if g.Logger != nil {
			g.Logger.WithError(err).WithField("key", key).Error("session store failed")
		}
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (g *RedisGateway) Resolve(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, ErrNoSession
	}
	claims, err := g.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return nil, ErrNoSession
	}
	data, err := g.RDB.HGetAll(ctx, sessionKey(claims.UserID)).Result()
	if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
		return nil, ErrNoSession
	}
	return &Identity{
		UserID:   data["user_id"],
		Email:    data["email"],
		Username: data["username"],
	}, nil
}

func (g *RedisGateway) Destroy(ctx context.Context, userID string) error {
	return g.RDB.Del(ctx, sessionKey(userID)).Err()
}

var _ Gateway = (*RedisGateway)(nil)
