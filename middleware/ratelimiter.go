package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// requestsPerMinute caps each client IP across the whole API. Participation
// flows poll status, so the ceiling stays generous.
const requestsPerMinute = 100

// RateLimiter returns a per-IP rate limiting middleware. Counters live in
// process memory: limits reset on restart and are per-instance when scaled
// out.
func RateLimiter() gin.HandlerFunc {
	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: time.Minute,
		Limit:  requestsPerMinute,
	})
	return ginlimiter.NewMiddleware(instance)
}
