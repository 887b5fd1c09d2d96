package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounter implements Counter on a Redis instance shared by all server
// instances, so the limit applies to the deployment as a whole. Expiry is
// delegated to the key's TTL.
type RedisCounter struct {
	rdb redis.Cmdable
}

// NewRedisCounter creates a Counter backed by the given Redis client.
func NewRedisCounter(rdb redis.Cmdable) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

var _ Counter = (*RedisCounter)(nil)

// Incr increments the key and sets its TTL only when the key has none yet,
// i.e. on the first hit of a window. Both commands run in one pipeline so a
// crash between them cannot leave an immortal counter.
func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
