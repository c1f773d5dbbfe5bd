package domain

import "time" // Timestamps

// ValidAllergens is the fixed set of allergen values a menu item may carry
var ValidAllergens = []string{"gluten", "dairy", "nuts", "seafood", "eggs", "soy", "other"}

// IsValidAllergen reports whether v is one of the accepted allergen values
func IsValidAllergen(v string) bool {
	for _, a := range ValidAllergens {
		if v == a {
			return true // Found in the allowed set
		}
	}
	return false // Not an accepted allergen value
}

// NutritionalInfo holds optional per-item nutrition facts
type NutritionalInfo struct {
	Calories float64 `json:"calories"` // Kilocalories per serving
	Protein  float64 `json:"protein"`  // Grams of protein
	Carbs    float64 `json:"carbs"`    // Grams of carbohydrates
	Fat      float64 `json:"fat"`      // Grams of fat
}

// MenuItem Model
type MenuItem struct {
	ID              uint             `gorm:"primaryKey" json:"id"`                                                          // Primary key
	Name            string           `gorm:"size:100;not null" json:"name"`                                                 // Display name
	NameKey         string           `gorm:"not null;uniqueIndex:idx_items_category_name,priority:2" json:"-"`              // Lowercased name, unique within a category
	Description     string           `gorm:"size:500;not null" json:"description"`                                          // Item description
	Price           float64          `gorm:"not null" json:"price"`                                                         // Non-negative, rounded to cents on write
	Image           string           `gorm:"default:''" json:"image"`                                                       // Image URL
	CategoryID      uint             `gorm:"not null;index;uniqueIndex:idx_items_category_name,priority:1" json:"category"` // Owning category reference
	Category        *Category        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"categoryInfo,omitempty"`   // Category metadata when preloaded
	IsAvailable     bool             `json:"isAvailable"`                                                                   // Availability flag
	PreparationTime int              `gorm:"default:0" json:"preparationTime"`                                              // Preparation time in minutes
	Ingredients     []string         `gorm:"serializer:json" json:"ingredients"`                                            // Ordered ingredient list
	Allergens       []string         `gorm:"serializer:json" json:"allergens"`                                              // Allergen values from ValidAllergens
	NutritionalInfo *NutritionalInfo `gorm:"serializer:json" json:"nutritionalInfo,omitempty"`                              // Optional nutrition facts
	Order           int              `gorm:"default:0" json:"order"`                                                        // Display order within its category
	CreatedAt       time.Time        `json:"createdAt"`                                                                     // Creation timestamp
	UpdatedAt       time.Time        `json:"updatedAt"`                                                                     // Last update timestamp
}
