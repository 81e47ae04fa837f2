package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/internal/verification/models"
	"github.com/jayvicsanantonio/ai-hallucination-detector-sub002/pkg/platform/sentinel"
)

// keyPrefix scopes every cache key written by this package; Clear and the
// size scan rely on it.
const keyPrefix = "verification:result:"

// Redis is the distributed cache backend. TTL enforcement is server-side
// (SET with expiry); eviction beyond TTL is left to Redis' own maxmemory
// policy. Hit/miss counters are tracked client-side per process.
type Redis struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewRedis wraps an established go-redis client.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (*models.VerificationResult, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.misses.Add(1)
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get: %w", sentinel.ErrUnavailable, err)
	}

	var result models.VerificationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// A corrupt entry is unreadable forever; drop it and miss.
		r.client.Del(ctx, key)
		r.misses.Add(1)
		return nil, sentinel.ErrNotFound
	}
	r.hits.Add(1)
	return &result, nil
}

func (r *Redis) Set(ctx context.Context, key string, result *models.VerificationResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal cached result: %w", err)
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: redis del: %w", sentinel.ErrUnavailable, err)
	}
	return n > 0, nil
}

// Clear removes every key under the cache prefix using cursor iteration so
// large caches do not block the server.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("%w: redis del during clear: %w", sentinel.ErrUnavailable, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: redis scan: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Stats reports process-local hit/miss counters. Size is a best-effort scan
// with a short deadline; 0 when the backend cannot answer in time.
func (r *Redis) Stats() Stats {
	hits, misses := r.hits.Load(), r.misses.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	size := 0
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		size++
	}

	return Stats{Hits: hits, Misses: misses, Size: size, HitRate: hitRate(hits, misses)}
}
