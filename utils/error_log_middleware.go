package utils

import (
	"log"

	"github.com/gin-gonic/gin"
)

// Status from which response bodies get echoed to the log
const logBodyFromStatus = 400

type failedRequestWriter struct {
	gin.ResponseWriter
	ctx *gin.Context
}

func (w failedRequestWriter) Write(b []byte) (int, error) {
	if status := w.ctx.Writer.Status(); status >= logBodyFromStatus {
		log.Printf("HTTP %d on %s: %s", status, w.ctx.Request.URL.Path, b)
	}
	return w.ResponseWriter.Write(b)
}

// ErrorLogMiddleware logs the body of every failed response next to gin's
// access line, for debugging. Must run before gzip - it reads plain bytes.
func ErrorLogMiddleware(c *gin.Context) {
	c.Writer = &failedRequestWriter{ResponseWriter: c.Writer, ctx: c}
	c.Next()
}
