package api

import (
	"errors"                          // Error classification
	"menu_system/internal/domain"     // Importing domain models
	"menu_system/internal/middleware" // Access to the context user
	"menu_system/internal/utils"      // Utility functions
	"net/http"                        // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			errorResponse(c, http.StatusBadRequest, "Username and password are required")
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errorResponse(c, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			internalResponse(c, isProd, "Error during login", err) // Any other store fault
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			errorResponse(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			internalResponse(c, isProd, "Failed to generate token", err)
			return
		}
		user.Password = "" // Never return the hash
		// Return the token and user in the response
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"data":    gin.H{"token": token, "user": user},
		})
	}
}

// MeHandler returns the authenticated user attached by the auth middleware
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get the authenticated user
		if !ok {
			// The auth middleware must run before this handler
			errorResponse(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": user}) // Return the user
	}
}
