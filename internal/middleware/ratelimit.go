package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitMiddleware limits requests per client IP using an in-memory store.
// The rate is expressed in the limiter format, e.g. "100-M" for 100 requests
// per minute.
func RateLimitMiddleware(formatted string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		// A bad rate string is a deployment mistake; fall back to no-op.
		slog.Error("Invalid rate limit format, rate limiting disabled", slog.String("rate", formatted), slog.String("error", err.Error()))
		return func(c *gin.Context) { c.Next() }
	}
	instance := limiter.New(memory.NewStore(), rate)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiterCtx, err := instance.Get(c.Request.Context(), ip)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Error("Failed to get rate limit context", slog.String("ip", ip), slog.String("error", err.Error()))
			c.Next()
			return
		}
		if limiterCtx.Reached {
			GetLoggerFromCtx(c.Request.Context()).Warn("Rate limit exceeded", slog.String("ip", ip), slog.Int64("limit", limiterCtx.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
