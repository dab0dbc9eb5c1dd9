package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR    OCRConfig
	Batch  BatchConfig
	Export ExportConfig
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	Language    string // default "eng"
	DPI         int    // rasterization DPI for scanned PDFs, default 300
	MaxPDFPages int    // 0 = no limit

	TessdataDir      string
	ArtifactCacheDir string
}

// BatchConfig holds batch-processing configuration
type BatchConfig struct {
	Workers    int
	QueueSize  int
	DocTimeout time.Duration
}

// ExportConfig holds export-related configuration
type ExportConfig struct {
	SheetName string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Tesseract:        getEnv("TESSERACT_CMD", "tesseract"),
			Pdftoppm:         getEnv("PDFTOPPM_CMD", "pdftoppm"),
			Language:         getEnv("OCR_LANG", "eng"),
			DPI:              getEnvAsInt("OCR_DPI", 300),
			MaxPDFPages:      getEnvAsInt("OCR_MAX_PDF_PAGES", 10),
			TessdataDir:      getEnv("TESSDATA_PREFIX", ""),
			ArtifactCacheDir: getEnv("ARTIFACT_CACHE_DIR", "./tmp"),
		},
		Batch: BatchConfig{
			Workers:    getEnvAsInt("BATCH_WORKERS", 4),
			QueueSize:  getEnvAsInt("BATCH_QUEUE_SIZE", 256),
			DocTimeout: getEnvAsDuration("BATCH_DOC_TIMEOUT", 3*time.Minute),
		},
		Export: ExportConfig{
			SheetName: getEnv("EXPORT_SHEET_NAME", "Receipts"),
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
	if c.OCR.Language == "" {
		return NewAppError("CONFIG_ERROR", "OCR_LANG must not be empty", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.Batch.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "BATCH_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
