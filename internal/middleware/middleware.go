package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const UserIDHeader = "X-User-ID"

// RequireUser rejects requests that do not carry the caller's user id.
func RequireUser() fiber.Handler {
	return func(c fiber.Ctx) error {
		if c.Get(UserIDHeader) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
		}
		return c.Next()
	}
}

// RateLimiter is a fixed-window request counter kept in Redis, keyed by user id
// (or client IP when no user id is present).
type RateLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	logger *zap.Logger
}

func NewRateLimiter(client redis.Cmdable, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{client: client, limit: limit, window: window, logger: logger}
}

func rateLimitKey(subject string) string {
	return fmt.Sprintf("quizzbuzz:ratelimit:%s", subject)
}

// Allow counts one request for subject and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	key := rateLimitKey(subject)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("failed to count request: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return true, fmt.Errorf("failed to set window expiry: %w", err)
		}
	}
	return count <= int64(l.limit), nil
}

// Handler fails open: a Redis outage lets requests through.
func (l *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		subject := c.Get(UserIDHeader)
		if subject == "" {
			subject = c.IP()
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		allowed, err := l.Allow(ctx, subject)
		if err != nil {
			l.logger.Warn("rate limiter unavailable", zap.String("subject", subject), zap.Error(err))
			return c.Next()
		}
		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(l.window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
				"code":  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
