package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"employercheck/internal/model"
)

// absentMarker is cached for jurisdictions with no ruleset on file
const absentMarker = "-"

// RulesetCache holds ruleset snapshots between store reads. A lookup can
// hit a cached ruleset, hit a cached absence, or miss.
type RulesetCache interface {
	Get(ctx context.Context, jurisdiction string) (rs *model.Ruleset, hit bool, err error)
	Set(ctx context.Context, jurisdiction string, rs *model.Ruleset) error
	Invalidate(ctx context.Context, jurisdiction string) error
}

type rulesetCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRulesetCache creates a ruleset cache with entries living for ttl
func NewRulesetCache(client *redis.Client, ttl time.Duration) RulesetCache {
	return &rulesetCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *rulesetCache) key(jurisdiction string) string {
	return fmt.Sprintf("ruleset:%s", jurisdiction)
}

func (c *rulesetCache) Get(ctx context.Context, jurisdiction string) (*model.Ruleset, bool, error) {
	data, err := c.client.Get(ctx, c.key(jurisdiction)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if data == absentMarker {
		return nil, true, nil
	}
	var rs model.Ruleset
	if err := json.Unmarshal([]byte(data), &rs); err != nil {
		return nil, false, err
	}
	return &rs, true, nil
}

// Set caches rs, or the absence of a ruleset when rs is nil
func (c *rulesetCache) Set(ctx context.Context, jurisdiction string, rs *model.Ruleset) error {
	if rs == nil {
		return c.client.Set(ctx, c.key(jurisdiction), absentMarker, c.ttl).Err()
	}
	data, err := json.Marshal(rs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(jurisdiction), data, c.ttl).Err()
}

func (c *rulesetCache) Invalidate(ctx context.Context, jurisdiction string) error {
	return c.client.Del(ctx, c.key(jurisdiction)).Err()
}
