package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nadiaputeri/campuscore/pkg/logger"
)

// Logger emits one structured access-log line per request. The tenant school
// id is included when the auth middleware has already resolved the claims,
// so per-school request volumes can be read straight off the logs.
func Logger() gin.HandlerFunc {
	log := logger.WithModule("http")

	return func(c *gin.Context) {
		started := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(started)),
			zap.String("client_ip", c.ClientIP()),
		}
		if schoolID := c.GetString(CtxSchoolIDKey); schoolID != "" {
			fields = append(fields, zap.String("school_id", schoolID))
		}

		log.Info("request", fields...)
	}
}
