package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/posthog/posthog-go"
)

// PosthogMiddleware captures one analytics event per API request, keyed by
// the authenticated staff user when available. No-op when the client is nil
// (analytics disabled).
func PosthogMiddleware(client posthog.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if client == nil {
			return
		}

		distinctID := "anonymous"
		if userID, ok := GetUserIDFromContext(c); ok {
			distinctID = userID
		}

		err := client.Enqueue(posthog.Capture{
			DistinctId: distinctID,
			Event:      "api_request",
			Properties: posthog.NewProperties().
				Set("method", c.Request.Method).
				Set("path", c.FullPath()).
				Set("status", c.Writer.Status()),
		})
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Debug("Failed to enqueue posthog event", slog.String("error", err.Error()))
		}
	}
}
