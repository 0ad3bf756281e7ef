package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/junaidrashid-git/food-delivery-api/logger"
	"github.com/redis/go-redis/v9"
)

// CachedSessions is a redis read-through cache in front of another store.
// Only valid sessions are cached; an entry never outlives its session.
type CachedSessions struct {
	Next   SessionStore
	Client *redis.Client
	TTL    time.Duration
	Now    func() time.Time
}

func NewCachedSessions(next SessionStore, client *redis.Client, ttl time.Duration) *CachedSessions {
	return &CachedSessions{Next: next, Client: client, TTL: ttl, Now: time.Now}
}

func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}

func (s *CachedSessions) Lookup(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrNoCredentials
	}
	key := cacheKey(token)

	raw, err := s.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var id Identity
		if jsonErr := json.Unmarshal(raw, &id); jsonErr == nil && s.Now().Before(id.ExpiresAt) {
			return id, nil
		}
	case !errors.Is(err, redis.Nil):
		logger.Log.WithError(err).Warn("session cache read failed")
	}

	id, err := s.Next.Lookup(ctx, token)
	if err != nil {
		return Identity{}, err
	}

	ttl := s.TTL
	if remaining := id.ExpiresAt.Sub(s.Now()); remaining < ttl {
		ttl = remaining
	}
	if ttl > 0 {
		if data, jsonErr := json.Marshal(id); jsonErr == nil {
			if setErr := s.Client.Set(ctx, key, data, ttl).Err(); setErr != nil {
				logger.Log.WithError(setErr).Warn("session cache write failed")
			}
		}
	}
	return id, nil
}
