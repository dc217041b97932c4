package payments

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// referenceTTL keeps processed references around long past any plausible
// gateway retry window.
const referenceTTL = 90 * 24 * time.Hour

// RedisGuard answers membership from Redis and delegates the durable payment
// log to an inner guard. Lookups are O(1) instead of a full sheet scan, and
// a Redis outage degrades to the inner guard rather than blocking delivery.
type RedisGuard struct {
	client *redis.Client
	inner  Guard
}

// NewRedisGuard creates a Redis-fronted idempotency guard.
func NewRedisGuard(client *redis.Client, inner Guard) *RedisGuard {
	return &RedisGuard{client: client, inner: inner}
}

// NewRedisClient connects to Redis from a URL.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}

	return client, nil
}

func referenceKey(reference string) string {
	return "payment:ref:" + reference
}

// Seen checks Redis first; on a Redis failure it falls back to the inner
// guard (which itself fails open).
func (g *RedisGuard) Seen(ctx context.Context, reference string) (bool, error) {
	count, err := g.client.Exists(ctx, referenceKey(reference)).Result()
	if err != nil {
		log.Printf("⚠️  Redis unavailable for %s, falling back to sheet guard: %v", reference, err)
		return g.inner.Seen(ctx, reference)
	}
	if count > 0 {
		return true, nil
	}
	// Redis may be cold (restarted, flushed); the durable log decides.
	return g.inner.Seen(ctx, reference)
}

// Record marks the reference in Redis and appends to the durable log.
// The Redis write is best-effort; the inner record's error is the caller's.
func (g *RedisGuard) Record(ctx context.Context, rec Record) error {
	if err := g.client.SetNX(ctx, referenceKey(rec.Reference), "1", referenceTTL).Err(); err != nil {
		log.Printf("⚠️  Failed to mark %s in redis: %v", rec.Reference, err)
	}
	return g.inner.Record(ctx, rec)
}
