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

// DraftCache stores in-progress interviews so a dropped connection can resume
type DraftCache interface {
	Save(ctx context.Context, draft *model.InterviewDraft) error
	Load(ctx context.Context, sessionID string) (*model.InterviewDraft, error)
	Delete(ctx context.Context, sessionID string) error
}

type draftCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftCache creates a draft cache; drafts expire ttl after the last save
func NewDraftCache(client *redis.Client, ttl time.Duration) DraftCache {
	return &draftCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *draftCache) key(sessionID string) string {
	return fmt.Sprintf("session:%s:draft", sessionID)
}

func (c *draftCache) Save(ctx context.Context, draft *model.InterviewDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(draft.SessionID), data, c.ttl).Err()
}

// Load returns nil, nil when there is no draft
func (c *draftCache) Load(ctx context.Context, sessionID string) (*model.InterviewDraft, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var draft model.InterviewDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *draftCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}
