package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/library/shell"
)

const (
	headerRequestID = "X-Request-ID"
	headerUserID    = "X-User-ID"

	ctxKeyUserID = "user_id"
)

// RequestContext attaches the correlation ID from X-Request-ID to the request context.
// A missing or malformed header gets a fresh ID, which is echoed in the response.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID, err := uuid.Parse(strings.TrimSpace(c.GetHeader(headerRequestID)))
		if err != nil {
			correlationID = uuid.New()
		}

		c.Request = c.Request.WithContext(shell.WithCorrelationID(c.Request.Context(), correlationID))
		c.Writer.Header().Set(headerRequestID, correlationID.String())
		c.Next()
	}
}

// RequireUser rejects requests without a valid X-User-ID and stores the user ID for the handlers.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := uuid.Parse(strings.TrimSpace(c.GetHeader(headerUserID)))
		if err != nil || userID == uuid.Nil {
			respondError(c, ErrMissingIdentity)
			return
		}

		c.Set(ctxKeyUserID, userID)
		c.Next()
	}
}

// RequestLogger writes one access log line per request.
func RequestLogger(logger shell.ContextualLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if logger == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		if userID, ok := c.Get(ctxKeyUserID); ok {
			fields = append(fields, "user_id", fmt.Sprint(userID))
		}

		if correlationID, ok := shell.CorrelationIDFrom(c.Request.Context()); ok {
			fields = append(fields, shell.LogAttrCorrelationID, correlationID.String())
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.ErrorContext(ctx, "http request", fields...)
		case status >= 400:
			logger.WarnContext(ctx, "http request", fields...)
		default:
			logger.InfoContext(ctx, "http request", fields...)
		}
	}
}

func userIDFrom(c *gin.Context) uuid.UUID {
	userID, _ := c.Get(ctxKeyUserID)
	id, _ := userID.(uuid.UUID)

	return id
}
