package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"dataproxy/internal/metrics"
)

// Metrics 记录每个请求的耗时与状态码，未匹配路由统一记为 "unmatched" 以限制标签基数。
func Metrics(rec *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		rec.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
