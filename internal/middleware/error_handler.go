package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"dataproxy/pkg/utils"
)

// ErrorHandler 中间件：请求结束后记录失败原因。
// 处理器通过 c.Error 挂上内部错误，客户端只会看到通用响应，原因只出现在服务端日志里。
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		log := utils.Logger.With("method", c.Request.Method, "path", c.Request.URL.Path, "status", status)
		if len(c.Errors) == 0 {
			if status >= http.StatusInternalServerError {
				log.Error("request failed")
			}
			return
		}

		for _, e := range c.Errors {
			log.Error("request failed", "error", e.Err.Error())
			// %+v 带上 pkg/errors 的调用栈
			log.Debug("error stack", "stack", fmt.Sprintf("%+v", e.Err))
		}
	}
}
