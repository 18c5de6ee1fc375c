package http

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hackucf/onboard/internal/auth"
	"github.com/hackucf/onboard/internal/observability"
	apperrors "github.com/hackucf/onboard/pkg/util/errorutil"
)

// WindowCounter counts events in an expiring bucket.
type WindowCounter interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimiter caps pass requests per member in fixed one minute windows.
// Counter failures let the request through.
type RateLimiter struct {
	counter WindowCounter
	limit   int
	window  time.Duration
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewRateLimiter builds a limiter allowing limit requests per minute. A
// non-positive limit disables limiting.
func NewRateLimiter(counter WindowCounter, limit int, metrics *observability.Metrics, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  time.Minute,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle must run after authentication.
func (rl *RateLimiter) Handle(c *fiber.Ctx) error {
	if rl == nil || rl.counter == nil || rl.limit <= 0 {
		return c.Next()
	}
	member, ok := auth.MemberFromContext(c)
	if !ok {
		return c.Next()
	}

	now := rl.now()
	start := now.Truncate(rl.window)
	key := fmt.Sprintf("wallet:rl:%s:%d", member.UserID, start.Unix())

	count, err := rl.counter.IncrementWindow(c.UserContext(), key, rl.window)
	if err != nil {
		rl.logger.Warn("rate limit counter unavailable", zap.String("user_id", member.UserID), zap.Error(err))
		return c.Next()
	}
	if count > int64(rl.limit) {
		retryAfter := int(start.Add(rl.window).Sub(now).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		rl.metrics.RecordRateLimited()
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return apperrors.NewRateLimited(retryAfter)
	}
	return c.Next()
}
