package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitWindow = 24 * time.Hour

// IssueRateLimiter caps how many issues one user may report per day. It must
// run after AuthMiddleware. A nil client disables the limit.
func IssueRateLimiter(client *redis.Client, keyPrefix string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || limit <= 0 {
			c.Next()
			return
		}

		viewer := ViewerFrom(c)
		if viewer == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No authorization token provided"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		userKey := keyPrefix + viewer.ID

		// Increment user's count; the window starts at the first report.
		count, err := client.Incr(ctx, userKey).Result()
		if err != nil {
			slog.Error("rate limiter increment failed", "key", userKey, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error incrementing count"})
			c.Abort()
			return
		}

		if count == 1 {
			if err := client.Expire(ctx, userKey, rateLimitWindow).Err(); err != nil {
				slog.Error("rate limiter expire failed", "key", userKey, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error setting TTL"})
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := client.TTL(ctx, userKey).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
