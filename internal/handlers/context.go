package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
)

// requestContext returns the caller's request context, falling back to
// Background when the handler runs without a real HTTP request.
func requestContext(c *gin.Context) context.Context {
	if c != nil && c.Request != nil {
		return c.Request.Context()
	}
	return context.Background()
}
