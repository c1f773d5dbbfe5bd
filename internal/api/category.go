package api

import (
	"context"                     // Context for Redis operations
	"errors"                      // Error classification
	"fmt"                         // Message formatting
	"menu_system/internal/domain" // Importing domain models
	"menu_system/internal/utils"  // Utility functions
	"net/http"                    // HTTP status codes
	"strconv"                     // String conversion
	"strings"                     // String manipulation
	"time"                        // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// listCacheTTL bounds how stale a cached public listing may get
const listCacheTTL = 60 * time.Second

// invalidateCatalogCache drops cached list responses after any catalog mutation
func invalidateCatalogCache(rdb *redis.Client) {
	ctx := context.Background()                         // Use background context for Redis
	_ = utils.InvalidateCache(ctx, rdb, "categories:*") // Drop category listings
	_ = utils.InvalidateCache(ctx, rdb, "menu:*")       // Drop menu listings (groups carry category metadata)
}

// Request struct for category creation
type CategoryRequest struct {
	Name        string `json:"name"`        // Category name
	Description string `json:"description"` // Optional description
	Order       *int   `json:"order"`       // Optional display order
}

// ListCategoriesHandler returns all active categories ordered for display
func ListCategoriesHandler(db *gorm.DB, rdb *redis.Client, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()   // Use background context for Redis
		cacheKey := "categories:list" // Single public listing, no parameters
		var cached []domain.Category  // Try to get cached response
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			// Return the cached listing
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cached, "count": len(cached), "cached": true})
			return
		}
		var categories []domain.Category // Slice to hold categories
		// Active categories ordered by display order, ties broken by name
		if err := db.Where("is_active = ?", true).Order("`order` asc, name asc").Find(&categories).Error; err != nil {
			internalResponse(c, isProd, "Error fetching categories", err)
			return
		}
		// Cache the listing for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, categories, listCacheTTL)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": categories, "count": len(categories), "cached": false})
	}
}

// GetCategoryHandler returns a single category by ID
func GetCategoryHandler(db *gorm.DB, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse the ID path parameter
		if err != nil {
			errorResponse(c, http.StatusNotFound, "Category not found") // Non-numeric IDs cannot exist
			return
		}
		var category domain.Category // Fetch category from database
		if err := db.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errorResponse(c, http.StatusNotFound, "Category not found")
				return
			}
			internalResponse(c, isProd, "Error fetching category", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": category}) // Return the category
	}
}

// validateCategoryName checks the category name bounds
func validateCategoryName(name string) *FieldError {
	if len(name) < 1 || len(name) > 50 {
		return &FieldError{Field: "name", Message: "Category name must be between 1 and 50 characters"}
	}
	return nil // Within bounds
}

// CreateCategoryHandler creates a new category (admin only)
func CreateCategoryHandler(db *gorm.DB, rdb *redis.Client, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)               // Trim surrounding whitespace
		req.Description = strings.TrimSpace(req.Description) // Trim surrounding whitespace
		var errs []FieldError                                // Collected validation failures
		if fe := validateCategoryName(req.Name); fe != nil {
			errs = append(errs, *fe) // Name out of bounds
		}
		if len(req.Description) > 200 {
			errs = append(errs, FieldError{Field: "description", Message: "Description cannot exceed 200 characters"})
		}
		if len(errs) > 0 {
			validationResponse(c, errs) // Report every violated field
			return
		}
		// Check if category with same name exists (case-insensitive)
		var count int64
		if err := db.Model(&domain.Category{}).Where("name_key = ?", domain.NormalizeName(req.Name)).Count(&count).Error; err != nil {
			internalResponse(c, isProd, "Error creating category", err)
			return
		}
		if count > 0 {
			// Duplicate name, reject with conflict
			errorResponse(c, http.StatusBadRequest, "Category with this name already exists")
			return
		}
		// Create new category
		category := domain.Category{
			Name:        req.Name,                       // Display name
			NameKey:     domain.NormalizeName(req.Name), // Normalized uniqueness key
			Description: req.Description,                // Optional description
			IsActive:    true,                           // New categories start active
		}
		if req.Order != nil {
			category.Order = *req.Order // Explicit display order
		}
		// Attempt to create the category in the database
		if err := db.Create(&category).Error; err != nil {
			internalResponse(c, isProd, "Error creating category", err)
			return
		}
		invalidateCatalogCache(rdb) // Listings are stale now
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Category created successfully", "data": category})
	}
}

// UpdateCategoryHandler applies a partial update to a category (admin only).
// Only allow-listed fields present in the body are overwritten; unknown
// fields are rejected.
func UpdateCategoryHandler(db *gorm.DB, rdb *redis.Client, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse the ID path parameter
		if err != nil {
			errorResponse(c, http.StatusNotFound, "Category not found")
			return
		}
		var category domain.Category // Fetch category from database
		if err := db.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errorResponse(c, http.StatusNotFound, "Category not found")
				return
			}
			internalResponse(c, isProd, "Error updating category", err)
			return
		}
		var body map[string]any // Raw body, field presence matters
		if err := c.ShouldBindJSON(&body); err != nil {
			errorResponse(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		var errs []FieldError // Collected validation failures
		// Reject fields outside the allow-list
		for key := range body {
			switch key {
			case "name", "description", "order", "isActive":
				// Updatable field
			default:
				errs = append(errs, FieldError{Field: key, Message: "Unknown field"})
			}
		}
		// Validate and stage the name change
		if raw, ok := body["name"]; ok {
			name, isStr := raw.(string)
			name = strings.TrimSpace(name)
			if !isStr {
				errs = append(errs, FieldError{Field: "name", Message: "Name must be a string"})
			} else if fe := validateCategoryName(name); fe != nil {
				errs = append(errs, *fe)
			} else {
				category.Name = name                          // New display name
				category.NameKey = domain.NormalizeName(name) // Keep the uniqueness key in sync
			}
		}
		// Validate and stage the description change
		if raw, ok := body["description"]; ok {
			desc, isStr := raw.(string)
			desc = strings.TrimSpace(desc)
			if !isStr {
				errs = append(errs, FieldError{Field: "description", Message: "Description must be a string"})
			} else if len(desc) > 200 {
				errs = append(errs, FieldError{Field: "description", Message: "Description cannot exceed 200 characters"})
			} else {
				category.Description = desc // New description
			}
		}
		// Validate and stage the order change
		if raw, ok := body["order"]; ok {
			order, isNum := raw.(float64) // JSON numbers decode as float64
			if !isNum {
				errs = append(errs, FieldError{Field: "order", Message: "Order must be a number"})
			} else {
				category.Order = int(order) // New display order
			}
		}
		// Validate and stage the active-flag change
		if raw, ok := body["isActive"]; ok {
			active, isBool := raw.(bool)
			if !isBool {
				errs = append(errs, FieldError{Field: "isActive", Message: "isActive must be a boolean"})
			} else {
				category.IsActive = active // New active flag
			}
		}
		if len(errs) > 0 {
			validationResponse(c, errs) // Report every violated field
			return
		}
		// Check if the new name conflicts with another category
		if _, ok := body["name"]; ok {
			var count int64
			if err := db.Model(&domain.Category{}).
				Where("name_key = ? AND id <> ?", category.NameKey, category.ID).
				Count(&count).Error; err != nil {
				internalResponse(c, isProd, "Error updating category", err)
				return
			}
			if count > 0 {
				errorResponse(c, http.StatusBadRequest, "Category with this name already exists")
				return
			}
		}
		// Persist the staged fields, untouched fields keep their stored values
		if err := db.Save(&category).Error; err != nil {
			internalResponse(c, isProd, "Error updating category", err)
			return
		}
		invalidateCatalogCache(rdb) // Listings are stale now
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category updated successfully", "data": category})
	}
}

// DeleteCategoryHandler removes a category unless menu items still reference it (admin only)
func DeleteCategoryHandler(db *gorm.DB, rdb *redis.Client, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse the ID path parameter
		if err != nil {
			errorResponse(c, http.StatusNotFound, "Category not found")
			return
		}
		var category domain.Category // Fetch category from database
		if err := db.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errorResponse(c, http.StatusNotFound, "Category not found")
				return
			}
			internalResponse(c, isProd, "Error deleting category", err)
			return
		}
		// Count menu items still referencing this category
		var itemCount int64
		if err := db.Model(&domain.MenuItem{}).Where("category_id = ?", category.ID).Count(&itemCount).Error; err != nil {
			internalResponse(c, isProd, "Error deleting category", err)
			return
		}
		if itemCount > 0 {
			// Deletion is rejected, never cascaded
			errorResponse(c, http.StatusBadRequest,
				fmt.Sprintf("Cannot delete category. It has %d menu item(s). Please move or delete the menu items first.", itemCount))
			return
		}
		// Remove the category
		if err := db.Delete(&category).Error; err != nil {
			internalResponse(c, isProd, "Error deleting category", err)
			return
		}
		invalidateCatalogCache(rdb) // Listings are stale now
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted successfully"})
	}
}
