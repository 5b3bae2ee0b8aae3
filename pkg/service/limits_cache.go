// Redis read-through cache for organization cost limits
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/choraleia/collectly/pkg/costs"
)

// LimitsCache caches cost limits per organization.
type LimitsCache interface {
	Get(ctx context.Context, organizationID string) (costs.Limits, bool, error)
	Set(ctx context.Context, organizationID string, limits costs.Limits) error
	Delete(ctx context.Context, organizationID string) error
}

const limitsKeyPrefix = "collectly:cost_limits:"

// RedisLimitsCache stores limits as JSON strings with a TTL.
type RedisLimitsCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisLimitsCache(client redis.UniversalClient, ttl time.Duration) *RedisLimitsCache {
	return &RedisLimitsCache{client: client, ttl: ttl}
}

// NewRedisClient builds a client from connection settings.
func NewRedisClient(addr, password string, database int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       database,
	})
}

func limitsKey(organizationID string) string {
	return limitsKeyPrefix + organizationID
}

func (c *RedisLimitsCache) Get(ctx context.Context, organizationID string) (costs.Limits, bool, error) {
	raw, err := c.client.Get(ctx, limitsKey(organizationID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return costs.Limits{}, false, nil
	}
	if err != nil {
		return costs.Limits{}, false, errors.Wrap(err, "redis get cost limits")
	}
	var limits costs.Limits
	if err := json.Unmarshal(raw, &limits); err != nil {
		return costs.Limits{}, false, errors.Wrap(err, "decode cached cost limits")
	}
	return limits, true, nil
}

func (c *RedisLimitsCache) Set(ctx context.Context, organizationID string, limits costs.Limits) error {
	raw, err := json.Marshal(limits)
	if err != nil {
		return err
	}
	return errors.Wrap(c.client.Set(ctx, limitsKey(organizationID), raw, c.ttl).Err(), "redis set cost limits")
}

func (c *RedisLimitsCache) Delete(ctx context.Context, organizationID string) error {
	return errors.Wrap(c.client.Del(ctx, limitsKey(organizationID)).Err(), "redis delete cost limits")
}
