package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const evictAllScanCount = 200

// Redis is a namespaced cache over a shared Redis instance. Backend
// failures are logged and swallowed: a broken cache degrades reads to the
// store instead of failing them.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{
		client: client,
		ttl:    ttl,
	}
}

func (r *Redis) Get(ctx context.Context, namespace, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, redisKey(namespace, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger(ctx).Warn("cache get failed", "namespace", namespace, "error", err)
		}

		return nil, false
	}

	return data, true
}

func (r *Redis) Put(ctx context.Context, namespace, key string, value []byte) {
	if err := r.client.Set(ctx, redisKey(namespace, key), value, r.ttl).Err(); err != nil {
		logger(ctx).Warn("cache put failed", "namespace", namespace, "error", err)
	}
}

func (r *Redis) Evict(ctx context.Context, namespace, key string) {
	if err := r.client.Del(ctx, redisKey(namespace, key)).Err(); err != nil {
		logger(ctx).Warn("cache evict failed", "namespace", namespace, "error", err)
	}
}

// EvictAll walks the namespace with SCAN and deletes in batches; KEYS would
// block the instance on large keyspaces.
func (r *Redis) EvictAll(ctx context.Context, namespace string) {
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, namespace+":*", evictAllScanCount).Result()
		if err != nil {
			logger(ctx).Warn("cache evict all failed", "namespace", namespace, "error", err)

			return
		}

		if len(keys) > 0 {
			if err = r.client.Del(ctx, keys...).Err(); err != nil {
				logger(ctx).Warn("cache evict all failed", "namespace", namespace, "error", err)

				return
			}
		}

		cursor = next
		if cursor == 0 {
			return
		}
	}
}

func redisKey(namespace, key string) string {
	return namespace + ":" + key
}
