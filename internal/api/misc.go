package api

import (
	"net/http" // HTTP status codes
	"time"     // Health check timestamp

	"github.com/gin-gonic/gin" // Gin web framework
)

// HealthHandler reports service liveness
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	}
}

// InfoHandler describes the API surface
func InfoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Restaurant Menu API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"menu":       "/api/menu",
				"categories": "/api/categories",
				"auth":       "/api/auth",
				"upload":     "/api/upload",
			},
		})
	}
}

// NotFoundHandler is the JSON fallback for unknown routes
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	}
}
