package handler

import (
	"log/slog"
	"time"

	"github.com/faizanTadvi/SIHP1/internal/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags each request with an id, hands a request-scoped logger
// down through the request context and logs the outcome.
func requestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		id = lo.Ternary(id != "", id, uuid.NewString())
		c.Header(requestIDHeader, id)

		logger := base.With("request_id", id)
		c.Request = c.Request.WithContext(log.NewContext(c.Request.Context(), logger))

		c.Next()

		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"ip", c.ClientIP(),
			"duration", time.Since(start),
		)
	}
}
