package web

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocrud/easylog/logging"
)

// Middleware 请求日志中间件，每个请求记录一行：METHOD path status latency client
// 2xx/3xx 记为 INFO，4xx 记为 WARNING，5xx 记为 ERROR
func Middleware(l *logging.Logger) gin.HandlerFunc {
	if l == nil {
		l = logging.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		msg := fmt.Sprintf("%s %s %d %s %s",
			c.Request.Method, path, status, time.Since(start), c.ClientIP())
		if len(c.Errors) > 0 {
			msg = msg + " errors=" + c.Errors.String()
		}

		l.Log(statusLevel(status), msg)
	}
}

func statusLevel(status int) logging.LogLevel {
	switch {
	case status >= http.StatusInternalServerError:
		return logging.LogLevelError
	case status >= http.StatusBadRequest:
		return logging.LogLevelWarning
	default:
		return logging.LogLevelInfo
	}
}

// Recovery 恢复 handler 中的 panic，以 CRITICAL 记录并返回 500
func Recovery(l *logging.Logger) gin.HandlerFunc {
	if l == nil {
		l = logging.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				l.Criticalf("panic recovered: %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				l.Debug(string(debug.Stack()))
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
