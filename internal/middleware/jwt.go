package middleware

import (
	"errors"                      // Error classification
	"menu_system/internal/domain" // Importing domain models
	"menu_system/internal/utils"  // JWT utility functions
	"net/http"                    // HTTP status codes
	"strings"                     // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// ContextUserKey is the gin context key the authenticated user is stored under
const ContextUserKey = "user"

// JWTAuthMiddleware validates JWT tokens and resolves the authenticated user.
// The resolved user (without its password hash) is attached to the request
// context for downstream handlers.
func JWTAuthMiddleware(db *gorm.DB, secret string, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present
		if authHeader == "" {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Access denied. No token provided."})
			return
		}
		// Check if the header carries a bearer token
		if !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Access denied. Invalid token format."})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// Report the failure kind without changing the status code
			msg := "Access denied. Invalid token."
			switch {
			case errors.Is(err, utils.ErrTokenMalformed):
				msg = "Access denied. Malformed token."
			case errors.Is(err, utils.ErrTokenExpired):
				msg = "Access denied. Token expired."
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": msg})
			return
		}
		var user domain.User // Resolve the identity against the credential store
		if err := db.First(&user, claims.UserID).Error; err != nil {
			// The user may have been deleted after the token was issued
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Access denied. User not found."})
				return
			}
			// Any other store fault is an internal error, detail hidden in production
			logrus.Errorf("auth: failed to resolve user %d: %v", claims.UserID, err)
			resp := gin.H{"success": false, "message": "Server error during authentication."}
			if !isProd {
				resp["error"] = err.Error() // Expose detail in development only
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			return
		}
		user.Password = ""           // Never carry the hash past the gate
		c.Set(ContextUserKey, &user) // Store the resolved user in context
		c.Next()                     // Proceed to the next handler
	}
}

// CurrentUser returns the user the auth middleware attached to the context
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ContextUserKey) // Get user from context
	if !ok {
		return nil, false // Auth middleware did not run
	}
	user, ok := v.(*domain.User) // Assert the stored type
	return user, ok
}
