package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"employercheck/internal/model"
)

const jurisdictionsKey = "stats:jurisdictions"

// StatsCache counts evaluations per jurisdiction and recommendation
type StatsCache interface {
	Record(ctx context.Context, jurisdiction string, rec model.Recommendation) error
	Top(ctx context.Context, limit int) ([]JurisdictionStats, error)
}

// JurisdictionStats is one row of the evaluation tally
type JurisdictionStats struct {
	Jurisdiction    string                         `json:"jurisdiction"`
	Total           int64                          `json:"total"`
	Rank            int                            `json:"rank"`
	Recommendations map[model.Recommendation]int64 `json:"recommendations"`
}

type statsCache struct {
	client *redis.Client
}

func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{
		client: client,
	}
}

func (c *statsCache) key(jurisdiction string) string {
	return fmt.Sprintf("stats:%s", jurisdiction)
}

func (c *statsCache) Record(ctx context.Context, jurisdiction string, rec model.Recommendation) error {
	pipe := c.client.TxPipeline()
	pipe.ZIncrBy(ctx, jurisdictionsKey, 1, jurisdiction)
	pipe.HIncrBy(ctx, c.key(jurisdiction), string(rec), 1)
	_, err := pipe.Exec(ctx)
	return err
}

// Top returns the most evaluated jurisdictions, busiest first
func (c *statsCache) Top(ctx context.Context, limit int) ([]JurisdictionStats, error) {
	if limit <= 0 {
		limit = 10
	}
	results, err := c.client.ZRevRangeWithScores(ctx, jurisdictionsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]JurisdictionStats, 0, len(results))
	for i, z := range results {
		code, _ := z.Member.(string)
		counts, err := c.client.HGetAll(ctx, c.key(code)).Result()
		if err != nil {
			return nil, err
		}
		row := JurisdictionStats{
			Jurisdiction:    code,
			Total:           int64(z.Score),
			Rank:            i + 1,
			Recommendations: make(map[model.Recommendation]int64, len(counts)),
		}
		for rec, n := range counts {
			v, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("stats %s/%s: %w", code, rec, err)
			}
			row.Recommendations[model.Recommendation(rec)] = v
		}
		out = append(out, row)
	}
	return out, nil
}
