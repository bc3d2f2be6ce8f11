package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zuai/sample-paper-api/types"
)

// Counter is the slice of the cache store the rate limiter needs. The Redis
// client satisfies it with an atomic INCR, so concurrent requests cannot
// slip past the limit.
type Counter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit bounds requests per client IP for one named route over a fixed
// window. When the counter store is unreachable the request is let through;
// uploads degrade to unlimited rather than the API going dark.
func RateLimit(counter Counter, route string, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", route, c.ClientIP())
		count, err := counter.IncrWindow(c.Request.Context(), key, window)
		if err != nil {
			log.Printf("Rate limiter unavailable for %s: %v", route, err)
			c.Next()
			return
		}
		if count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.DataResponse{
				Status:  false,
				Message: fmt.Sprintf("Rate limit exceeded: %d requests per %s allowed", limit, window),
			})
			return
		}
		c.Next()
	}
}
