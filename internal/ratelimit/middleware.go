package ratelimit

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/errors"
)

// KeyFunc picks the identity a request is limited by.
type KeyFunc func(c *gin.Context) string

// ByClientIP limits by the caller's address.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// Middleware limits requests in scope to r per key. Limiter failures let
// the request through.
func (rl *RateLimiter) Middleware(scope string, r Rate, key KeyFunc) gin.HandlerFunc {
	if key == nil {
		key = ByClientIP
	}
	return func(c *gin.Context) {
		id := key(c)
		result, err := rl.Allow(c.Request.Context(), scope+":"+id, r)
		if err != nil {
			slog.Error("Rate limit check failed", "scope", scope, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if rl.metrics != nil {
				rl.metrics.IncrementRateLimitBlock()
			}
			retryAfter := strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds())))
			c.Header("Retry-After", retryAfter)

			appErr := apperrors.NewRateLimitError(retryAfter)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
			return
		}

		c.Next()
	}
}

// ClientMiddleware applies the per-client scoring limit.
func (rl *RateLimiter) ClientMiddleware(key KeyFunc) gin.HandlerFunc {
	return rl.Middleware("score", PerMinute(rl.config.ClientLimitPerMin), key)
}

// AdminMiddleware applies the admin limit.
func (rl *RateLimiter) AdminMiddleware(key KeyFunc) gin.HandlerFunc {
	return rl.Middleware("admin", PerMinute(rl.config.AdminLimitPerMin), key)
}
