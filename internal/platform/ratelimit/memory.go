package ratelimit

import (
	"context"
	"sync"
	"time"
)

// tokenBucket implements a token bucket rate limiter.
type tokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(rate float64, burst int, now time.Time) *tokenBucket {
	return &tokenBucket{
		tokens:     float64(burst),
		maxTokens:  float64(burst),
		refillRate: rate,
		lastRefill: now,
	}
}

func (b *tokenBucket) take(now time.Time) (bool, int, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true, int(b.tokens), 0
	}
	if b.refillRate <= 0 {
		return false, 0, time.Second
	}
	wait := time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
	return false, 0, wait
}

// Memory keeps one token bucket per key in process memory. It is used when no
// Redis is configured and as the fallback when Redis is unreachable.
type Memory struct {
	cfg     Config
	now     func() time.Time
	buckets map[string]*tokenBucket
	mu      sync.RWMutex
}

func NewMemory(cfg Config) *Memory {
	return &Memory{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[string]*tokenBucket),
	}
}

func (m *Memory) bucket(key string) *tokenBucket {
	m.mu.RLock()
	b, ok := m.buckets[key]
	m.mu.RUnlock()
	if ok {
		return b
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Double-check after acquiring write lock
	if b, ok := m.buckets[key]; ok {
		return b
	}
	b = newTokenBucket(m.cfg.RequestsPerSecond, m.cfg.BurstSize, m.now())
	m.buckets[key] = b
	return b
}

func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	ok, remaining, wait := m.bucket(key).take(m.now())
	return Decision{
		Allowed:    ok,
		Limit:      m.cfg.BurstSize,
		Remaining:  remaining,
		RetryAfter: wait,
	}, nil
}
