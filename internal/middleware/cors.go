package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// CORSMiddleware allows cross-origin requests from the browser client
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	originsSet := make(map[string]struct{}, len(allowedOrigins)) // Set of allowed origins
	for _, o := range allowedOrigins {
		originsSet[o] = struct{}{} // Index each origin for O(1) lookup
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin") // Origin of the incoming request
		// Only echo origins that are explicitly allowed
		if _, ok := originsSet[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Max-Age", "86400")
		}
		// Preflight requests end here
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next() // Proceed to the next handler
	}
}
