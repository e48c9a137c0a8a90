package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sachi-ghani/storefront-service/internal/config"
	"github.com/sachi-ghani/storefront-service/internal/persistence"
	apperrors "github.com/sachi-ghani/storefront-service/pkg/util"
)

// RateLimiter throttles the auth endpoints per client IP using a fixed
// Redis window. When Redis is unreachable it fails open.
type RateLimiter struct {
	redis  *persistence.Redis
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewRateLimiter builds the limiter from config.
func NewRateLimiter(redis *persistence.Redis, cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	limit := cfg.AuthLimit
	if limit <= 0 {
		limit = 20
	}
	return &RateLimiter{
		redis:  redis,
		limit:  limit,
		window: cfg.AuthWindow(),
		logger: logger,
	}
}

// Handle enforces the limit for the current client.
func (rl *RateLimiter) Handle(c *fiber.Ctx) error {
	if rl.redis == nil || rl.redis.Client == nil {
		return c.Next()
	}

	key := "ratelimit:auth:" + c.IP()
	ctx := c.Context()

	count, err := rl.redis.Client.Incr(ctx, key).Result()
	if err != nil {
		rl.logger.Warn("rate limiter unavailable", zap.Error(err))
		return c.Next()
	}
	if count == 1 {
		if err := rl.redis.Client.Expire(ctx, key, rl.window).Err(); err != nil {
			rl.logger.Warn("rate limiter expire failed", zap.Error(err))
		}
	}
	if count > int64(rl.limit) {
		return apperrors.NewTooManyRequests("too many requests, try later")
	}
	return c.Next()
}
