package typecache

import (
	"context"
	"fmt"
	"time"

	"github.com/Qodestackr/Verity-sub004/internal/util"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCache backs the product-type cache with Redis for deployments that
// run one instead of the HTTP cache service.
type RedisCache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisCache{
		rdb:    rdb,
		logger: util.GetLogger(),
	}, nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// TryGet fetches a cached value; any Redis error degrades to a miss.
func (c *RedisCache) TryGet(ctx context.Context, key string) (string, bool) {
	value, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		util.TypeCacheMissesTotal.Inc()
		return "", false
	}
	if err != nil {
		util.TypeCacheMissesTotal.Inc()
		util.TypeCacheErrorsTotal.WithLabelValues("get").Inc()
		c.logger.Warn("Redis cache read failed, treating as miss",
			zap.String("key", key),
			zap.Error(err))
		return "", false
	}

	util.TypeCacheHitsTotal.Inc()
	return value, true
}

// TryPut stores a value with TTL best-effort; failures are logged and swallowed.
func (c *RedisCache) TryPut(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		util.TypeCacheErrorsTotal.WithLabelValues("put").Inc()
		c.logger.Warn("Redis cache write failed, ignoring",
			zap.String("key", key),
			zap.Error(err))
	}
}
