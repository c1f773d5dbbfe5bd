package domain

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`               // Primary key
	Username string `gorm:"unique;not null" json:"username"`    // Unique username
	Password string `gorm:"not null" json:"-"`                  // Bcrypt hash, never serialized
	Role     string `gorm:"default:admin;not null" json:"role"` // Role: admin is the only provisioned role
}
