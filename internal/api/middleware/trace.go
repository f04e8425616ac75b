package middleware

import (
	"Opsboard/internal/pkg/logger"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceHeader       = "X-Trace-ID"
	traceParentHeader = "traceparent"
	maxTraceIDLength  = 64
)

// TraceMiddleware 复用上游网关的 trace id，不合法时重新生成
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := incomingTraceID(c)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(logger.TraceIDKey, traceID)
		ctx := context.WithValue(c.Request.Context(), logger.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(TraceHeader, traceID)
		c.Next()
	}
}

// incomingTraceID 优先 X-Trace-ID，其次 W3C traceparent 中的 trace-id 段
func incomingTraceID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(TraceHeader)); validTraceID(id) {
		return id
	}
	// version-traceid-parentid-flags
	parts := strings.Split(c.GetHeader(traceParentHeader), "-")
	if len(parts) == 4 && len(parts[1]) == 32 && validTraceID(parts[1]) && strings.Trim(parts[1], "0") != "" {
		return parts[1]
	}
	return ""
}

// validTraceID 只接受会原样写入日志的字符
func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
