package main

import (
	"menu_system/internal/config" // Custom import path (Config)
	"menu_system/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// Main entry point for seeding the admin user and starter catalog
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Database Source Name (DSN) for MySQL connection
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	conn, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Fatal error if DB connection fails
	}
	// Seed the admin user and starter catalog
	if err := db.Seed(conn, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
}
