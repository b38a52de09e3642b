package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window counter shared by every server instance.
type Redis struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisClient parses redisURL into a client.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// NewRedis allows cfg.BurstSize requests per window. The window is the time the
// in-memory bucket needs to refill completely, at least one second.
func NewRedis(client *redis.Client, cfg Config) *Redis {
	window := time.Second
	if cfg.RequestsPerSecond > 0 {
		if w := time.Duration(float64(cfg.BurstSize) / cfg.RequestsPerSecond * float64(time.Second)); w > window {
			window = w
		}
	}
	return &Redis{
		client: client,
		limit:  cfg.BurstSize,
		window: window,
		prefix: "clinicup:ratelimit:",
		now:    time.Now,
	}
}

func (r *Redis) windowKey(key string, now time.Time) (string, time.Time) {
	start := now.Truncate(r.window)
	return r.prefix + key + ":" + strconv.FormatInt(start.Unix(), 10), start.Add(r.window)
}

func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	now := r.now()
	k, resetAt := r.windowKey(key, now)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, r.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit counter: %w", err)
	}

	count := int(incr.Val())
	d := Decision{Allowed: count <= r.limit, Limit: r.limit}
	if d.Allowed {
		d.Remaining = r.limit - count
	} else {
		d.RetryAfter = resetAt.Sub(now)
	}
	return d, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
