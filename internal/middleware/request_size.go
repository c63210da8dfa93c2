package middleware

import (
	"net/http"

	"auth-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DefaultMaxRequestSize is plenty for the JSON credential payloads.
const DefaultMaxRequestSize = 1 << 20

// RequestSizeLimitMiddleware rejects declared oversize bodies up front and
// caps the rest while they are read.
func RequestSizeLimitMiddleware(maxSize int64) gin.HandlerFunc {
	if maxSize <= 0 {
		maxSize = DefaultMaxRequestSize
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		}
		c.Next()
	}
}
