package rankinginfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/Abraxas-365/jobboard/recruitment/ranking"
	"github.com/go-redis/redis/v8"
)

const cachePrefix = "ranking"

// RedisCache implements ranking.Cache using Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ranking.Cache = (*RedisCache)(nil)

// NewRedisCache creates a cache whose entries expire after ttl
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(jobID kernel.JobID, fingerprint string) string {
	return fmt.Sprintf("%s:%s:%s", cachePrefix, jobID, fingerprint)
}

// Get returns the cached result for the job's application set
func (c *RedisCache) Get(ctx context.Context, jobID kernel.JobID, fingerprint string) (*ranking.Result, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(jobID, fingerprint)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get ranking for job %s: %w", jobID, err)
	}

	var result ranking.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("unmarshal ranking for job %s: %w", jobID, err)
	}
	return &result, true, nil
}

// Set stores result
func (c *RedisCache) Set(ctx context.Context, jobID kernel.JobID, fingerprint string, result *ranking.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal ranking for job %s: %w", jobID, err)
	}

	if err := c.client.Set(ctx, cacheKey(jobID, fingerprint), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache ranking for job %s: %w", jobID, err)
	}
	return nil
}
