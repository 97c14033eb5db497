package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Room for multipart boundaries and form field headers on top of the payload.
var multipartOverhead = int64(8 * 1024)

// SizeLimit function is a middleware that caps the request body at
// maxBodyBytes plus multipart framing overhead. Reading past the cap yields
// http.MaxBytesError, which upload handlers map to 413 request entity too
// large before any bytes reach the storage backend.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes+multipartOverhead)

		c.Next()
	}
}
