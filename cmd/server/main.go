package main

import (
	"context"                         // context package is needed for Redis operations
	"log"                             // log package is needed for logging
	"menu_system/internal/api"        // Custom package for API handlers
	"menu_system/internal/config"     // Custom package for configuration
	"menu_system/internal/middleware" // Custom package for middleware

	// For loading .env files
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Allow the browser client
	origins := []string{"http://localhost:3000"}
	if cfg.IsProd {
		origins = []string{"https://restaurant-menu-app.vercel.app"}
	}
	r.Use(middleware.CORSMiddleware(origins))

	// Serve uploaded images statically
	r.Static("/uploads", cfg.UploadDir)

	// Health check endpoint
	r.GET("/health", api.HealthHandler())
	// Basic API info endpoint
	r.GET("/api", api.InfoHandler())

	// Auth middleware chain protecting admin mutations
	protected := []gin.HandlerFunc{
		middleware.JWTAuthMiddleware(db, cfg.JWTSecret, cfg.IsProd), // Verify token, resolve user
		middleware.AdminOnlyMiddleware(),                            // Require the admin role
	}

	// Auth routes
	authGroup := r.Group("/api/auth")
	authGroup.POST("/login", api.LoginHandler(db, cfg.JWTSecret, cfg.IsProd))                          // Login endpoint
	authGroup.GET("/me", middleware.JWTAuthMiddleware(db, cfg.JWTSecret, cfg.IsProd), api.MeHandler()) // Current user endpoint

	// Category routes (reads public, mutations admin only)
	categoryGroup := r.Group("/api/categories")
	categoryGroup.GET("", api.ListCategoriesHandler(db, redisClient, cfg.IsProd))                              // List categories endpoint
	categoryGroup.GET("/:id", api.GetCategoryHandler(db, cfg.IsProd))                                          // Get category endpoint
	categoryGroup.POST("", append(protected, api.CreateCategoryHandler(db, redisClient, cfg.IsProd))...)       // Create category endpoint
	categoryGroup.PUT("/:id", append(protected, api.UpdateCategoryHandler(db, redisClient, cfg.IsProd))...)    // Update category endpoint
	categoryGroup.DELETE("/:id", append(protected, api.DeleteCategoryHandler(db, redisClient, cfg.IsProd))...) // Delete category endpoint

	// Menu routes (reads public, mutations admin only)
	menuGroup := r.Group("/api/menu")
	menuGroup.GET("", api.ListMenuHandler(db, redisClient, cfg.IsProd))                                                    // List menu endpoint
	menuGroup.GET("/:id", api.GetMenuItemHandler(db, cfg.IsProd))                                                          // Get menu item endpoint
	menuGroup.POST("", append(protected, api.CreateMenuItemHandler(db, redisClient, cfg.IsProd))...)                       // Create menu item endpoint
	menuGroup.PUT("/:id", append(protected, api.UpdateMenuItemHandler(db, redisClient, cfg.IsProd))...)                    // Update menu item endpoint
	menuGroup.DELETE("/:id", append(protected, api.DeleteMenuItemHandler(db, redisClient, cfg.IsProd))...)                 // Delete menu item endpoint
	menuGroup.PATCH("/:id/availability", append(protected, api.ToggleAvailabilityHandler(db, redisClient, cfg.IsProd))...) // Toggle availability endpoint

	// Upload routes (admin only)
	uploadGroup := r.Group("/api/upload")
	uploadGroup.Use(protected...)                                                        // Every upload operation requires the admin role
	uploadGroup.POST("/image", api.UploadImageHandler(cfg.UploadDir, cfg.IsProd))        // Single image upload endpoint
	uploadGroup.POST("/multiple", api.UploadMultipleHandler(cfg.UploadDir, cfg.IsProd))  // Multiple image upload endpoint
	uploadGroup.DELETE("/:filename", api.DeleteUploadHandler(cfg.UploadDir, cfg.IsProd)) // Image delete endpoint
	uploadGroup.GET("/list", api.ListUploadsHandler(cfg.UploadDir, cfg.IsProd))          // Image listing endpoint

	// JSON 404 for unknown routes
	r.NoRoute(api.NotFoundHandler())

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
