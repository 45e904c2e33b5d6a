package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"arka.dev/learnhub/pkg/apperror"
	"arka.dev/learnhub/pkg/response"
)

// RateLimitMutations throttles write requests per user with a redis SetNX
// lock. Requests pass untouched when redis is not configured.
func RateLimitMutations(rdb *redis.Client, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || window <= 0 || c.Request.Method == "GET" {
			c.Next()
			return
		}

		userID, err := response.GetUserID(c)
		if err != nil {
			// unauthenticated requests are rejected downstream
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:user:%s:mutation", userID)
		wasSet, err := rdb.SetNX(c.Request.Context(), key, "locked", window).Result()
		if err != nil {
			response.Error(c, nil, apperror.Unavailable("rate limiter unavailable", err))
			c.Abort()
			return
		}
		if !wasSet {
			ttl, _ := rdb.TTL(c.Request.Context(), key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success":    false,
				"statusCode": http.StatusTooManyRequests,
				"message":    "too many requests, slow down",
				"retryAfter": ttl.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
