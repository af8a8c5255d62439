package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache maps client idempotency keys to session IDs so repeated
// submissions skip the store round trip
type SessionCache interface {
	Lookup(ctx context.Context, idempotencyKey string) (string, error)
	Remember(ctx context.Context, idempotencyKey, sessionID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) key(idempotencyKey string) string {
	return "idem:" + idempotencyKey
}

// Lookup returns "" when the key is unknown
func (c *sessionCache) Lookup(ctx context.Context, idempotencyKey string) (string, error) {
	id, err := c.client.Get(ctx, c.key(idempotencyKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return id, err
}

// Remember keeps the first session recorded for a key
func (c *sessionCache) Remember(ctx context.Context, idempotencyKey, sessionID string) error {
	return c.client.SetNX(ctx, c.key(idempotencyKey), sessionID, c.ttl).Err()
}
