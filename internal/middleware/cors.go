package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS lets the browser client call the API. origin "*" echoes the request
// origin so credentials still work.
func CORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allow := origin
		if allow == "*" {
			if o := c.GetHeader("Origin"); o != "" {
				allow = o
			}
		}
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allow)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Max-Age", "86400")
		h.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
