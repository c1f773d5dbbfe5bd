package api

import (
	"context"                     // Context for Redis operations
	"encoding/json"               // Field-level bind error detail
	"errors"                      // Error classification
	"fmt"                         // Message formatting
	"menu_system/internal/domain" // Importing domain models
	"menu_system/internal/utils"  // Utility functions
	"net/http"                    // HTTP status codes
	"strconv"                     // String conversion
	"strings"                     // String manipulation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// invalidateMenuCache drops cached menu listings after a menu item mutation
func invalidateMenuCache(rdb *redis.Client) {
	_ = utils.InvalidateCache(context.Background(), rdb, "menu:*")
}

// MenuGroup is one category's slice of the public menu
type MenuGroup struct {
	Category domain.Category   `json:"category"` // Category metadata for the group
	Items    []domain.MenuItem `json:"items"`    // Items belonging to the category
}

// Request struct for menu item creation
type MenuItemRequest struct {
	Name            string                  `json:"name"`            // Item name
	Description     string                  `json:"description"`     // Item description
	Price           *float64                `json:"price"`           // Price, normalized to cents
	Image           string                  `json:"image"`           // Image URL
	CategoryID      *uint                   `json:"category"`        // Owning category reference
	IsAvailable     *bool                   `json:"isAvailable"`     // Availability flag
	PreparationTime *int                    `json:"preparationTime"` // Preparation time in minutes
	Ingredients     []string                `json:"ingredients"`     // Ordered ingredient list
	Allergens       []string                `json:"allergens"`       // Allergen values
	NutritionalInfo *domain.NutritionalInfo `json:"nutritionalInfo"` // Optional nutrition facts
	Order           *int                    `json:"order"`           // Display order
}

// ListMenuHandler returns menu items grouped by category, with optional
// filtering by category and availability and an optional sort key
func ListMenuHandler(db *gorm.DB, rdb *redis.Client, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		categoryParam := c.Query("category")
		availableParam := c.Query("available")
		sortParam := c.Query("sort")
		// Build a cache key from the query parameters
		cacheKey := "menu:list:category=" + categoryParam + ":available=" + availableParam + ":sort=" + sortParam
		var cached struct {
			Groups     []MenuGroup `json:"groups"`     // Grouped menu
			TotalItems int         `json:"totalItems"` // Total item count across groups
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cached.Groups, "totalItems": cached.TotalItems, "cached": true})
			return
		}
		query := db.Model(&domain.MenuItem{}).Preload("Category") // Start building the query
		if categoryParam != "" {
			categoryID, err := strconv.Atoi(categoryParam) // Category filter must be numeric
			if err != nil {
				validationResponse(c, []FieldError{{Field: "category", Message: "Valid category ID is required"}})
				return
			}
			query = query.Where("category_id = ?", categoryID) // Filter by category ID
		}
		if availableParam != "" {
			query = query.Where("is_available = ?", availableParam == "true") // Filter by availability
		}
		// Pick the sort order
		switch sortParam {
		case "price-low":
			query = query.Order("price asc") // Ascending price
		case "price-high":
			query = query.Order("price desc") // Descending price
		case "name":
			query = query.Order("name asc") // Ascending name
		default:
			query = query.Order("`order` asc, name asc") // Display order, ties broken by name
		}
		var items []domain.MenuItem // Slice to hold menu items
		if err := query.Find(&items).Error; err != nil {
			internalResponse(c, isProd, "Error fetching menu items", err)
			return
		}
		// Group by category, preserving the item sort order within each group
		groupIndex := make(map[uint]int) // Category ID to group position
		groups := make([]MenuGroup, 0)
		for _, item := range items {
			if item.Category == nil {
				continue // Dangling reference, skip rather than fail the whole listing
			}
			idx, ok := groupIndex[item.CategoryID]
			if !ok {
				idx = len(groups) // First item of this category
				groupIndex[item.CategoryID] = idx
				groups = append(groups, MenuGroup{Category: *item.Category})
			}
			item.Category = nil // The group already carries the metadata
			groups[idx].Items = append(groups[idx].Items, item)
		}
		// Order groups by category display order, ties broken by name
		for i := 1; i < len(groups); i++ {
			for j := i; j > 0; j-- {
				a, b := groups[j-1].Category, groups[j].Category
				if a.Order < b.Order || (a.Order == b.Order && a.Name <= b.Name) {
					break // Already in order
				}
				groups[j-1], groups[j] = groups[j], groups[j-1] // Swap out-of-order groups
			}
		}
		cached.Groups = groups
		cached.TotalItems = len(items)
		// Cache the listing for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, cached, listCacheTTL)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": groups, "totalItems": len(items), "cached": false})
	}
}

// GetMenuItemHandler returns a single menu item with its category metadata
func GetMenuItemHandler(db *gorm.DB, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse the ID path parameter
		if err != nil {
			errorResponse(c, http.StatusNotFound, "Menu item not found")
			return
		}
		var item domain.MenuItem // Fetch menu item with its category
		if err := db.Preload("Category").First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errorResponse(c, http.StatusNotFound, "Menu item not found")
				return
			}
			internalResponse(c, isProd, "Error fetching menu item", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": item}) // Return the item
	}
}

// validateAllergens checks every allergen value against the fixed enumeration
func validateAllergens(allergens []string) *FieldError {
	for _, a := range allergens {
		if !domain.IsValidAllergen(a) {
			return &FieldError{Field: "allergens", Message: fmt.Sprintf("Invalid allergen: %s", a)}
		}
	}
	return nil // All values accepted
}

// CreateMenuItemHandler creates a new menu item (admin only)
func CreateMenuItemHandler(db *gorm.DB, rdb *redis.Client, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MenuItemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Surface the offending field when the body had a type mismatch
			var ute *json.UnmarshalTypeError
			if errors.As(err, &ute) && ute.Field != "" {
				validationResponse(c, []FieldError{{Field: ute.Field, Message: "Invalid value type"}})
				return
			}
			errorResponse(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.Name = strings.TrimSpace(req.Name)               // Trim surrounding whitespace
		req.Description = strings.TrimSpace(req.Description) // Trim surrounding whitespace
		var errs []FieldError                                // Collected validation failures
		if len(req.Name) < 1 || len(req.Name) > 100 {
			errs = append(errs, FieldError{Field: "name", Message: "Item name must be between 1 and 100 characters"})
		}
		if len(req.Description) < 1 || len(req.Description) > 500 {
			errs = append(errs, FieldError{Field: "description", Message: "Description must be between 1 and 500 characters"})
		}
		if req.Price == nil || *req.Price < 0 {
			errs = append(errs, FieldError{Field: "price", Message: "Price must be a positive number"})
		}
		if req.CategoryID == nil || *req.CategoryID == 0 {
			errs = append(errs, FieldError{Field: "category", Message: "Valid category ID is required"})
		}
		if req.PreparationTime != nil && *req.PreparationTime < 0 {
			errs = append(errs, FieldError{Field: "preparationTime", Message: "Preparation time must be a non-negative integer"})
		}
		if fe := validateAllergens(req.Allergens); fe != nil {
			errs = append(errs, *fe) // Value outside the allergen enumeration
		}
		if len(errs) > 0 {
			validationResponse(c, errs) // Report every violated field
			return
		}
		var category domain.Category // The referenced category must exist
		if err := db.First(&category, *req.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errorResponse(c, http.StatusBadRequest, "Category not found")
				return
			}
			internalResponse(c, isProd, "Error creating menu item", err)
			return
		}
		// Check if item name already exists in this category (case-insensitive)
		var count int64
		if err := db.Model(&domain.MenuItem{}).
			Where("category_id = ? AND name_key = ?", category.ID, domain.NormalizeName(req.Name)).
			Count(&count).Error; err != nil {
			internalResponse(c, isProd, "Error creating menu item", err)
			return
		}
		if count > 0 {
			// Duplicate name within the category, reject with conflict
			errorResponse(c, http.StatusBadRequest, "Menu item with this name already exists in this category")
			return
		}
		// Create the menu item with normalized price and defaults
		item := domain.MenuItem{
			Name:            req.Name,                       // Display name
			NameKey:         domain.NormalizeName(req.Name), // Normalized uniqueness key
			Description:     req.Description,                // Item description
			Price:           utils.RoundPrice(*req.Price),   // Stored rounded to cents
			Image:           req.Image,                      // Image URL
			CategoryID:      category.ID,                    // Owning category
			IsAvailable:     true,                           // New items start available
			Ingredients:     req.Ingredients,                // Ordered ingredient list
			Allergens:       req.Allergens,                  // Validated allergen values
			NutritionalInfo: req.NutritionalInfo,            // Optional nutrition facts
		}
		if req.IsAvailable != nil {
			item.IsAvailable = *req.IsAvailable // Explicit availability
		}
		if req.PreparationTime != nil {
			item.PreparationTime = *req.PreparationTime // Explicit preparation time
		}
		if req.Order != nil {
			item.Order = *req.Order // Explicit display order
		}
		if err := db.Create(&item).Error; err != nil {
			internalResponse(c, isProd, "Error creating menu item", err)
			return
		}
		item.Category = &category // Include category metadata in the response
		invalidateMenuCache(rdb)  // Listings are stale now
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Menu item created successfully", "data": item})
	}
}

// UpdateMenuItemHandler applies a partial update to a menu item (admin only).
// Only allow-listed fields present in the body are overwritten; unknown
// fields are rejected.
func UpdateMenuItemHandler(db *gorm.DB, rdb *redis.Client, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse the ID path parameter
		if err != nil {
			errorResponse(c, http.StatusNotFound, "Menu item not found")
			return
		}
		var item domain.MenuItem // Fetch menu item from database
		if err := db.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errorResponse(c, http.StatusNotFound, "Menu item not found")
				return
			}
			internalResponse(c, isProd, "Error updating menu item", err)
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
			case "name", "description", "price", "image", "category", "isAvailable",
				"preparationTime", "ingredients", "allergens", "nutritionalInfo", "order":
				// Updatable field
			default:
				errs = append(errs, FieldError{Field: key, Message: "Unknown field"})
			}
		}
		// Validate and stage the name change
		if raw, ok := body["name"]; ok {
			name, isStr := raw.(string)
			name = strings.TrimSpace(name)
			if !isStr || len(name) < 1 || len(name) > 100 {
				errs = append(errs, FieldError{Field: "name", Message: "Item name must be between 1 and 100 characters"})
			} else {
				item.Name = name                          // New display name
				item.NameKey = domain.NormalizeName(name) // Keep the uniqueness key in sync
			}
		}
		// Validate and stage the description change
		if raw, ok := body["description"]; ok {
			desc, isStr := raw.(string)
			desc = strings.TrimSpace(desc)
			if !isStr || len(desc) < 1 || len(desc) > 500 {
				errs = append(errs, FieldError{Field: "description", Message: "Description must be between 1 and 500 characters"})
			} else {
				item.Description = desc // New description
			}
		}
		// Validate and stage the price change
		if raw, ok := body["price"]; ok {
			price, isNum := raw.(float64) // JSON numbers decode as float64
			if !isNum || price < 0 {
				errs = append(errs, FieldError{Field: "price", Message: "Price must be a positive number"})
			} else {
				item.Price = utils.RoundPrice(price) // Stored rounded to cents
			}
		}
		// Stage the image change
		if raw, ok := body["image"]; ok {
			image, isStr := raw.(string)
			if !isStr {
				errs = append(errs, FieldError{Field: "image", Message: "Image must be a string"})
			} else {
				item.Image = image // New image URL
			}
		}
		// Validate and stage the category change
		categoryChanged := false
		if raw, ok := body["category"]; ok {
			categoryID, isNum := raw.(float64)
			if !isNum || categoryID <= 0 {
				errs = append(errs, FieldError{Field: "category", Message: "Valid category ID is required"})
			} else {
				item.CategoryID = uint(categoryID) // New owning category
				categoryChanged = true
			}
		}
		// Stage the availability change
		if raw, ok := body["isAvailable"]; ok {
			available, isBool := raw.(bool)
			if !isBool {
				errs = append(errs, FieldError{Field: "isAvailable", Message: "isAvailable must be a boolean"})
			} else {
				item.IsAvailable = available // New availability flag
			}
		}
		// Validate and stage the preparation time change
		if raw, ok := body["preparationTime"]; ok {
			prep, isNum := raw.(float64)
			if !isNum || prep < 0 || prep != float64(int(prep)) {
				errs = append(errs, FieldError{Field: "preparationTime", Message: "Preparation time must be a non-negative integer"})
			} else {
				item.PreparationTime = int(prep) // New preparation time
			}
		}
		// Validate and stage the ingredient list change
		if raw, ok := body["ingredients"]; ok {
			ingredients, fe := toStringSlice(raw, "ingredients", "Ingredients must be an array of strings")
			if fe != nil {
				errs = append(errs, *fe)
			} else {
				item.Ingredients = ingredients // New ingredient list
			}
		}
		// Validate and stage the allergen list change
		if raw, ok := body["allergens"]; ok {
			allergens, fe := toStringSlice(raw, "allergens", "Allergens must be an array of strings")
			if fe != nil {
				errs = append(errs, *fe)
			} else if fe := validateAllergens(allergens); fe != nil {
				errs = append(errs, *fe)
			} else {
				item.Allergens = allergens // New allergen values
			}
		}
		// Validate and stage the nutrition facts change
		if raw, ok := body["nutritionalInfo"]; ok {
			if raw == nil {
				item.NutritionalInfo = nil // Explicitly cleared
			} else {
				b, err := json.Marshal(raw) // Re-encode the raw value
				var info domain.NutritionalInfo
				if err != nil || json.Unmarshal(b, &info) != nil {
					errs = append(errs, FieldError{Field: "nutritionalInfo", Message: "Invalid nutritional info"})
				} else {
					item.NutritionalInfo = &info // New nutrition facts
				}
			}
		}
		// Validate and stage the order change
		if raw, ok := body["order"]; ok {
			order, isNum := raw.(float64)
			if !isNum {
				errs = append(errs, FieldError{Field: "order", Message: "Order must be a number"})
			} else {
				item.Order = int(order) // New display order
			}
		}
		if len(errs) > 0 {
			validationResponse(c, errs) // Report every violated field
			return
		}
		var category domain.Category // The (possibly new) category must exist
		if err := db.First(&category, item.CategoryID).Error; err != nil {
			if categoryChanged && errors.Is(err, gorm.ErrRecordNotFound) {
				errorResponse(c, http.StatusBadRequest, "Category not found")
				return
			}
			internalResponse(c, isProd, "Error updating menu item", err)
			return
		}
		// Check the name against the (possibly new) category, excluding this item
		if _, nameChanged := body["name"]; nameChanged || categoryChanged {
			var count int64
			if err := db.Model(&domain.MenuItem{}).
				Where("category_id = ? AND name_key = ? AND id <> ?", item.CategoryID, item.NameKey, item.ID).
				Count(&count).Error; err != nil {
				internalResponse(c, isProd, "Error updating menu item", err)
				return
			}
			if count > 0 {
				errorResponse(c, http.StatusBadRequest, "Menu item with this name already exists in this category")
				return
			}
		}
		// Persist the staged fields, untouched fields keep their stored values
		if err := db.Save(&item).Error; err != nil {
			internalResponse(c, isProd, "Error updating menu item", err)
			return
		}
		item.Category = &category // Include category metadata in the response
		invalidateMenuCache(rdb)  // Listings are stale now
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Menu item updated successfully", "data": item})
	}
}

// toStringSlice converts a decoded JSON value to a string slice
func toStringSlice(raw any, field, message string) ([]string, *FieldError) {
	values, isSlice := raw.([]any)
	if !isSlice {
		return nil, &FieldError{Field: field, Message: message} // Not a JSON array
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, isStr := v.(string)
		if !isStr {
			return nil, &FieldError{Field: field, Message: message} // Non-string element
		}
		out = append(out, strings.TrimSpace(s)) // Trim each element
	}
	return out, nil
}

// DeleteMenuItemHandler removes a menu item unconditionally (admin only)
func DeleteMenuItemHandler(db *gorm.DB, rdb *redis.Client, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse the ID path parameter
		if err != nil {
			errorResponse(c, http.StatusNotFound, "Menu item not found")
			return
		}
		var item domain.MenuItem // Fetch menu item from database
		if err := db.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errorResponse(c, http.StatusNotFound, "Menu item not found")
				return
			}
			internalResponse(c, isProd, "Error deleting menu item", err)
			return
		}
		// Remove the item, no referential guard unlike category delete
		if err := db.Delete(&item).Error; err != nil {
			internalResponse(c, isProd, "Error deleting menu item", err)
			return
		}
		invalidateMenuCache(rdb) // Listings are stale now
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Menu item deleted successfully"})
	}
}

// ToggleAvailabilityHandler flips a menu item's availability flag (admin only)
func ToggleAvailabilityHandler(db *gorm.DB, rdb *redis.Client, isProd bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse the ID path parameter
		if err != nil {
			errorResponse(c, http.StatusNotFound, "Menu item not found")
			return
		}
		var item domain.MenuItem // Fetch menu item from database
		if err := db.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errorResponse(c, http.StatusNotFound, "Menu item not found")
				return
			}
			internalResponse(c, isProd, "Error updating menu item availability", err)
			return
		}
		item.IsAvailable = !item.IsAvailable // Flip the availability flag
		if err := db.Save(&item).Error; err != nil {
			internalResponse(c, isProd, "Error updating menu item availability", err)
			return
		}
		invalidateMenuCache(rdb) // Listings are stale now
		status := "disabled"
		if item.IsAvailable {
			status = "enabled"
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("Menu item %s successfully", status),
			"data":    gin.H{"isAvailable": item.IsAvailable},
		})
	}
}
