package middleware

import (
	"strings"

	"fantasy/pkg/utils/contextkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceIDHeader   = "X-Trace-Id"
	RequestIDHeader = "X-Request-Id"

	traceIDContextKey   = "trace_id"
	requestIDContextKey = "request_id"
)

// TraceContextMiddleware ensures trace/request id are in context and response headers.
// Incoming ids are reused so a console session can correlate its calls.
func TraceContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := headerOrNewID(c, TraceIDHeader)
		requestID := headerOrNewID(c, RequestIDHeader)

		c.Set(traceIDContextKey, traceID)
		c.Set(requestIDContextKey, requestID)

		c.Request = c.Request.WithContext(contextkey.WithRequestIDs(c.Request.Context(), traceID, requestID))

		c.Writer.Header().Set(TraceIDHeader, traceID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}

func headerOrNewID(c *gin.Context, header string) string {
	if id := strings.TrimSpace(c.GetHeader(header)); id != "" {
		return id
	}
	return uuid.NewString()
}
