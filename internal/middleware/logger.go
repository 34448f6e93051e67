package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// LoggerMiddleware 访问日志中间件。不读请求体，
// 上传接口的 multipart 流只允许被处理一次
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if query != "" {
			path = path + "?" + query
		}

		// 认证中间件之后能拿到用户身份
		userID := c.GetString("user_id")
		if userID == "" {
			userID = "-"
		}

		log.Printf("[API] %d | %13v | %15s | %s | %-7s %s",
			c.Writer.Status(),
			latency,
			c.ClientIP(),
			userID,
			c.Request.Method,
			path,
		)
	}
}
