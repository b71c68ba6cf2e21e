package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"appointments/internal/pkg/response"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger assigns a request id, logs one line per request and turns
// panics into a JSON 500.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set(requestIDHeader, rid)

		defer func() {
			if recovered := recover(); recovered != nil {
				response.AbortError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
				log.Error("panic recovered",
					append(requestFields(c, rid, start),
						zap.String("panic", fmt.Sprint(recovered)),
						zap.ByteString("stack", debug.Stack()))...)
				return
			}

			fields := requestFields(c, rid, start)
			for _, e := range c.Errors {
				fields = append(fields, zap.NamedError("error", e.Err))
			}

			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				log.Error("request failed", fields...)
			case status >= http.StatusBadRequest:
				log.Info("request rejected", fields...)
			default:
				log.Debug("request", fields...)
			}
		}()

		c.Next()
	}
}

func requestFields(c *gin.Context, rid string, start time.Time) []zap.Field {
	return []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("query", c.Request.URL.RawQuery),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
		zap.String("client_ip", c.ClientIP()),
		zap.Int64("user_id", c.GetInt64(ctxUserID)),
		zap.String("request_id", rid),
	}
}
