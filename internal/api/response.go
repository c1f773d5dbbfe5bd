package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// FieldError describes a single field-level validation failure
type FieldError struct {
	Field   string `json:"field"`   // Offending field name
	Message string `json:"message"` // Human-readable reason
}

// errorResponse writes a failure envelope with the given status and message
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// validationResponse writes a 400 envelope carrying field-level errors
func validationResponse(c *gin.Context, errs []FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,               // Operation did not commit
		"message": "Validation failed", // Summary message
		"errors":  errs,                // Per-field detail
	})
}

// internalResponse logs an unexpected fault and writes a 500 envelope.
// Raw error detail is only exposed outside production mode.
func internalResponse(c *gin.Context, isProd bool, message string, err error) {
	logrus.Errorf("%s: %v", message, err) // Log the underlying fault
	resp := gin.H{"success": false, "message": message}
	if !isProd {
		resp["error"] = err.Error() // Development-mode detail
	}
	c.JSON(http.StatusInternalServerError, resp)
}
