package middleware

import "github.com/gin-gonic/gin"

// NoStore marks every response non-cacheable.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
