package middleware

import (
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyContextKey is where the extracted header value is stored on
// the request context.
const IdempotencyKeyContextKey = "idempotency_key"

// Idempotency extracts the Idempotency-Key header so the create handler can
// replay a previously stored response for retried requests.
func Idempotency() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(IdempotencyKeyContextKey, c.GetHeader("Idempotency-Key"))
		c.Next()
	}
}
