package middleware

import (
	"time"

	"github.com/Ankit1478/sfx-backend/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Logger returns a Gin middleware that injects a request-scoped logger and
// logs request start and completion with timing fields.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := uuid.New().String()

		base := log
		if base == nil {
			base = logger.Default()
		}
		reqLogger := base.WithFields(logger.Fields{
			logger.FieldRequestID: requestID,
			logger.FieldComponent: "api",
		})

		ctx := reqLogger.WithContext(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", requestID)

		reqLogger.WithFields(logger.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"client_ip": c.ClientIP(),
		}).Info("Request started")

		c.Next()

		reqLogger.WithFields(logger.Fields{
			"method":               c.Request.Method,
			"path":                 path,
			logger.FieldStatus:     c.Writer.Status(),
			logger.FieldDurationMs: time.Since(start).Milliseconds(),
			logger.FieldSize:       c.Writer.Size(),
		}).Info("Request completed")
	}
}
