package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	OCR      OCRConfig
	Export   ExportConfig
	Batch    BatchConfig
}

// DatabaseConfig holds the embedded store configuration
type DatabaseConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract       string
	TesseractLang   string
	TessdataDir     string
	PSM             int
	OEM             int
	TSVConfidence   bool
	CorrectionsPath string
}

// ExportConfig holds workbook export configuration
type ExportConfig struct {
	OutputPath string
}

// BatchConfig holds worker settings for directory runs
type BatchConfig struct {
	Workers     int
	QueueSize   int
	FileTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        getEnv("FORMSCAN_DB_PATH", "./formscan.db"),
			BusyTimeout: getEnvAsDuration("FORMSCAN_DB_BUSY_TIMEOUT", 5*time.Second),
		},
		OCR: OCRConfig{
			Tesseract:       getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang:   getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:     getEnv("TESSDATA_PREFIX", ""),
			PSM:             getEnvAsInt("TESSERACT_PSM", 6),
			OEM:             getEnvAsInt("TESSERACT_OEM", 0),
			TSVConfidence:   getEnvAsBool("TESSERACT_TSV_CONFIDENCE", true),
			CorrectionsPath: getEnv("FORMSCAN_CORRECTIONS", ""),
		},
		Export: ExportConfig{
			OutputPath: getEnv("FORMSCAN_XLSX_PATH", "./formscan.xlsx"),
		},
		Batch: BatchConfig{
			Workers:     getEnvAsInt("FORMSCAN_WORKERS", 4),
			QueueSize:   getEnvAsInt("FORMSCAN_QUEUE_SIZE", 256),
			FileTimeout: getEnvAsDuration("FORMSCAN_FILE_TIMEOUT", 3*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return NewAppError("CONFIG_ERROR", "FORMSCAN_DB_PATH is required", ErrInvalidInput)
	}
	if c.OCR.Tesseract == "" {
		return NewAppError("CONFIG_ERROR", "TESSERACT_BIN is required", ErrInvalidInput)
	}
	if c.Batch.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "FORMSCAN_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
