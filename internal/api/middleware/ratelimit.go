package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
)

// RateLimiter is a fixed one-minute window counter per client IP kept in
// Redis. Redis failures let the request through.
type RateLimiter struct {
	client redis.Cmdable
	limit  int64
	now    func() time.Time
}

func NewRateLimiter(client redis.Cmdable, requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  int64(requestsPerMinute),
		now:    time.Now,
	}
}

func (r *RateLimiter) key(ip string) string {
	return fmt.Sprintf("ratelimit:%s:%d", ip, r.now().Unix()/60)
}

func (r *RateLimiter) Limit() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		c := ctx.Request.Context()
		key := r.key(ctx.ClientIP())

		count, err := r.client.Incr(c, key).Result()
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.Error(err))
			ctx.Next()
			return
		}
		if count == 1 {
			if err = r.client.Expire(c, key, time.Minute).Err(); err != nil {
				zap.L().Warn("failed to set rate limit expiry", zap.String("key", key), zap.Error(err))
			}
		}

		if count > r.limit {
			response.RenderErr(ctx, response.ErrTooManyRequests())
			return
		}

		ctx.Next()
	}
}
