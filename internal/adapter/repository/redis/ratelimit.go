package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitStore counts requests per principal in fixed windows shared by
// every server instance.
type RateLimitStore struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewRateLimitStore allows limit requests per window for each key.
func NewRateLimitStore(client *redis.Client, limit int, window time.Duration) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		prefix: "creditledger:ratelimit:",
		limit:  int64(limit),
		window: window,
	}
}

// Allow records one request for key and reports whether it is within the limit.
func (s *RateLimitStore) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().UnixNano() / int64(s.window)
	fullKey := s.prefix + key + ":" + strconv.FormatInt(bucket, 10)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= s.limit, nil
}
