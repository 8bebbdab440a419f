package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR   OCRConfig
	Parse ParseConfig
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftoppm  string
	Tesseract string

	TesseractLang string  // default "chi_sim"
	DPI           int     // rasterization DPI, default 300
	ScaleFactor   float64 // upscale applied before recognition, default 2.0
	MaxPages      int     // 0 = no limit

	TessdataDir string
	PSM         int // 6 works well for the dense invoice grid
	OEM         int // 1 = LSTM; 0 = engine default

	Timeout time.Duration
}

// ParseConfig holds field-extraction configuration
type ParseConfig struct {
	// SplitMiddleZeros selects the 12+8 code/number split when the 11th and
	// 12th digits of a 20-digit invoice number are both zero. The boundary
	// is a heuristic, not a documented numbering rule; keep it overridable.
	SplitMiddleZeros bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "chi_sim"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			ScaleFactor:   getEnvAsFloat64("OCR_SCALE_FACTOR", 2.0),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			PSM:           getEnvAsInt("OCR_PSM", 6),
			OEM:           getEnvAsInt("OCR_OEM", 0),
			Timeout:       getEnvAsDuration("OCR_TIMEOUT", 2*time.Minute),
		},
		Parse: ParseConfig{
			SplitMiddleZeros: getEnvAsBool("SPLIT_MIDDLE_ZEROS", true),
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

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
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
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.OCR.ScaleFactor < 1.0 {
		return NewAppError("CONFIG_ERROR", "OCR_SCALE_FACTOR must be >= 1.0", ErrInvalidInput)
	}
	if c.OCR.TesseractLang == "" {
		return NewAppError("CONFIG_ERROR", "TESSERACT_LANG is required", ErrInvalidInput)
	}
	return nil
}
