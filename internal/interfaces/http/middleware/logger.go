package middleware

import (
	"time"

	"dinewallet.backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// LoggerMiddleware logs every request once it has been handled, tagged with
// the matched route template so ids in the path do not fragment the logs.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		logger.LogRequest(c.Request.Context(), c.Request.Method, c.FullPath(), path,
			c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}
