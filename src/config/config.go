package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	DatabasePath       string
	LogLevel           string
	ExchangeRatePath   string
	MaxUploadSizeBytes int64
	UploadStateExpiry  time.Duration // how long staged wizard state survives between steps
	RateCacheExpiry    time.Duration // how long the loaded exchange-rate table is reused
	DBOpTimeout        time.Duration // per-attempt bound on registry/rate collaborator calls
	PreviewRowLimit    int
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	maxUploadSizeMBStr := getEnv("MAX_UPLOAD_SIZE_MB", "10")
	maxUploadSizeMB, err := strconv.ParseInt(maxUploadSizeMBStr, 10, 64)
	if err != nil || maxUploadSizeMB <= 0 {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_MB '%s'. Using default 10MB. Error: %v", maxUploadSizeMBStr, err)
		maxUploadSizeMB = 10
	}

	previewRowsStr := getEnv("PREVIEW_ROW_LIMIT", "50")
	previewRows, err := strconv.Atoi(previewRowsStr)
	if err != nil || previewRows <= 0 {
		log.Printf("WARNING: Invalid PREVIEW_ROW_LIMIT '%s'. Using default 50. Error: %v", previewRowsStr, err)
		previewRows = 50
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		DatabasePath:       getEnv("DATABASE_PATH", "./eximflow.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ExchangeRatePath:   getEnv("EXCHANGE_RATE_PATH", "./ExchangeRate.xlsx"),
		MaxUploadSizeBytes: maxUploadSizeMB * 1024 * 1024,
		UploadStateExpiry:  getEnvAsDuration("UPLOAD_STATE_EXPIRY", 30*time.Minute),
		RateCacheExpiry:    getEnvAsDuration("RATE_CACHE_EXPIRY", 15*time.Minute),
		DBOpTimeout:        getEnvAsDuration("DB_OP_TIMEOUT", 5*time.Second),
		PreviewRowLimit:    previewRows,
	}

	log.Println("Application configuration loaded.")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	d, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("WARNING: Invalid duration for %s: '%s'. Using default %s. Error: %v", key, valueStr, fallback, err)
		return fallback
	}
	return d
}
