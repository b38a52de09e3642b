// Package ratelimit throttles API requests per client.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Config holds rate limiting configuration.
type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

// DefaultConfig returns default rate limiting settings.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 50,
		BurstSize:         100,
	}
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Middleware limits requests by client IP. When primary fails the request is
// decided by fallback instead.
func Middleware(primary, fallback Limiter, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := c.RealIP()

			d, err := primary.Allow(ctx, key)
			if err != nil {
				if fallback == nil {
					logger.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
					return next(c)
				}
				logger.Warn().Err(err).Msg("rate limiter unavailable, using fallback")
				if d, err = fallback.Allow(ctx, key); err != nil {
					return next(c)
				}
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			if !d.Allowed {
				secs := int(d.RetryAfter.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
