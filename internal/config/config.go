package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is built once at startup and
// passed to the components that need it; nothing reads the environment after
// Load returns.
type Config struct {
	// Server
	Port string
	Env  string

	// Storage
	DBPath string

	// Ledger defaults
	DefaultCurrency string

	// Budget evaluation: percentage at which a budget flips to warning.
	WarningThreshold float64
}

var appConfig *Config

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		DBPath:          getEnv("DB_PATH", "moneta.db"),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "KRW"),
	}

	thresholdStr := getEnv("BUDGET_WARNING_THRESHOLD", "80")
	threshold, err := strconv.ParseFloat(thresholdStr, 64)
	if err != nil || threshold <= 0 || threshold > 100 {
		log.Printf("Warning: invalid BUDGET_WARNING_THRESHOLD value '%s', falling back to 80\n", thresholdStr)
		threshold = 80
	}
	config.WarningThreshold = threshold

	appConfig = config
	return config, nil
}

// Get returns the application configuration.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
