package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit 限制整个请求体大小，超限时 multipart 读取会直接失败
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
