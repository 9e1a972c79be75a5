package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"clinic-appointments-server/internal/cache"
	"clinic-appointments-server/internal/config"
	"clinic-appointments-server/internal/logger"
	"clinic-appointments-server/internal/middleware"
	"clinic-appointments-server/internal/models"
	"clinic-appointments-server/internal/routes"
	"clinic-appointments-server/internal/store"
)

func main() {
	// Load environment variables; a missing .env is fine in production.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	zapLogger := logger.New(cfg.Environment)
	defer zapLogger.Sync()

	// Initialize the slot store
	var slotStore store.SlotStore
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		slotStore = store.NewMemoryStore()
	default:
		db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
		if err != nil {
			zapLogger.Fatal("Error connecting to database", zap.Error(err))
		}
		slotStore = store.NewGormStore(db)
	}

	availabilityCache, err := cache.New(cfg.CacheSize, zapLogger)
	if err != nil {
		zapLogger.Fatal("Error creating availability cache", zap.Error(err))
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zapLogger))

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes
	routes.SetupRoutes(router, slotStore, availabilityCache, zapLogger)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	zapLogger.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("store_driver", cfg.StoreDriver),
	)
	if err := router.Run(serverAddr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
