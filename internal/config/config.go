package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port        string
	Origin      string
	Environment string
	StoreDriver string
	CacheSize   int
	Database    DatabaseConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// Store driver values accepted in STORE_DRIVER.
const (
	StoreDriverMySQL  = "mysql"
	StoreDriverMemory = "memory"
)

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clinic"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	storeDriver := getEnv("STORE_DRIVER", StoreDriverMySQL)
	if storeDriver != StoreDriverMySQL && storeDriver != StoreDriverMemory {
		return nil, fmt.Errorf("invalid STORE_DRIVER: %s", storeDriver)
	}

	// CACHE_SIZE bounds the availability cache; 0 disables it.
	cacheSize, err := strconv.Atoi(getEnv("CACHE_SIZE", "256"))
	if err != nil || cacheSize < 0 {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %s", getEnv("CACHE_SIZE", "256"))
	}

	// Return complete configuration
	return &Config{
		Port:        getEnv("PORT", "3001"),
		Origin:      getEnv("ORIGIN", "http://localhost:4200"),
		Environment: getEnv("APP_ENV", "development"),
		StoreDriver: storeDriver,
		CacheSize:   cacheSize,
		Database:    dbConfig,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
