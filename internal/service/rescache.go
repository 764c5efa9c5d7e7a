package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maskaddr/maskaddr/internal/domain"
)

const resolveKeyPrefix = "maskaddr:resolve:"

// ResolutionCache keeps recently resolved addresses in redis so carriers
// hammering the same code do not hit the store every scan. Entries are
// invalidated whenever the binding behind them changes.
type ResolutionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResolutionCache(rdb *redis.Client, ttl time.Duration) *ResolutionCache {
	return &ResolutionCache{rdb: rdb, ttl: ttl}
}

func (c *ResolutionCache) Get(ctx context.Context, tnaCode string) (*domain.Resolution, error) {
	raw, err := c.rdb.Get(ctx, resolveKeyPrefix+tnaCode).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var resolution domain.Resolution
	if err := json.Unmarshal([]byte(raw), &resolution); err != nil {
		return nil, err
	}
	return &resolution, nil
}

func (c *ResolutionCache) Set(ctx context.Context, resolution domain.Resolution) error {
	raw, err := json.Marshal(resolution)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, resolveKeyPrefix+resolution.TnaCode, raw, c.ttl).Err()
}

func (c *ResolutionCache) Invalidate(ctx context.Context, tnaCode string) error {
	return c.rdb.Del(ctx, resolveKeyPrefix+tnaCode).Err()
}
