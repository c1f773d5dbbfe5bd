package domain

import (
	"strings" // String normalization
	"time"    // Timestamps
)

// Category Model
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`          // Primary key
	Name        string    `gorm:"size:50;not null" json:"name"`  // Display name
	NameKey     string    `gorm:"uniqueIndex;not null" json:"-"` // Lowercased name for case-insensitive uniqueness
	Description string    `gorm:"size:200" json:"description"`   // Optional description
	Order       int       `gorm:"default:0" json:"order"`        // Display order, ties broken by name
	IsActive    bool      `json:"isActive"`                      // Only active categories are listed publicly
	CreatedAt   time.Time `json:"createdAt"`                     // Creation timestamp
	UpdatedAt   time.Time `json:"updatedAt"`                     // Last update timestamp
}

// NormalizeName normalizes a name for case-insensitive comparison and indexing
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name)) // Lowercase and trim surrounding whitespace
}
