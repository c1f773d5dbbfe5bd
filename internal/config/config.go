package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string // Application port
	DBUser        string // Database user
	DBPassword    string // Database password
	DBHost        string // Database host
	DBPort        string // Database port
	DBName        string // Database name
	JWTSecret     string // JWT secret key, process-wide signing secret
	RedisAddr     string // Redis server address
	RedisPass     string // Redis password
	RedisDB       int    // Redis database number
	UploadDir     string // Directory for uploaded menu images
	AdminUsername string // Seeded admin username
	AdminPassword string // Seeded admin password
	IsProd        bool   // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg := &Config{
		AppPort:       os.Getenv("APP_PORT"),          // Application port
		DBUser:        os.Getenv("DB_USER"),           // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:        os.Getenv("DB_HOST"),           // Database host
		DBPort:        os.Getenv("DB_PORT"),           // Database port
		DBName:        os.Getenv("DB_NAME"),           // Database name
		JWTSecret:     os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:     os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:       redisDB,                        // Redis database number
		UploadDir:     os.Getenv("UPLOAD_DIR"),        // Upload directory
		AdminUsername: os.Getenv("ADMIN_USERNAME"),    // Seed admin username
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),    // Seed admin password
		IsProd:        os.Getenv("IS_PROD") == "true", // Is production environment
	}
	// Fall back to sensible defaults where the environment is silent
	if cfg.AppPort == "" {
		cfg.AppPort = "5000" // Default API port
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads" // Default upload directory
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin" // Default seed admin username
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "restaurant123" // Default seed admin password
	}
	return cfg
}
