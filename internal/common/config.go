package common

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Text layer backends.
const (
	TextBackendPoppler = "poppler"
	TextBackendNative  = "native"
)

// Config holds all application configuration
type Config struct {
	OCR     OCRConfig
	Summary SummaryConfig
	Store   StoreConfig
	Log     LogConfig
	Timeout time.Duration // 0 = no deadline
}

// OCRConfig holds document reading configuration (text layer and OCR layer)
type OCRConfig struct {
	Pdftotext     string
	Pdfimages     string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	TextBackend   string // poppler | native
	Enabled       bool   // run the OCR layer over embedded images
	MinImageSide  int    // skip images narrower or shorter than this (pixels)
	MaxPages      int    // 0 = no limit
}

// SummaryConfig holds summarizer configuration
type SummaryConfig struct {
	MaxSentences int
}

// StoreConfig holds analysis history configuration
type StoreConfig struct {
	DSN         string // empty disables the history store
	DialTimeout time.Duration
}

// LogConfig holds logger configuration
type LogConfig struct {
	Format string // text | json
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return WrapError(err, "load "+p)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdfimages:     getEnv("PDFIMAGES_BIN", "pdfimages"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			TextBackend:   strings.ToLower(getEnv("FINPRO_TEXT_BACKEND", TextBackendPoppler)),
			Enabled:       getEnvAsBool("FINPRO_OCR_ENABLED", true),
			MinImageSide:  getEnvAsInt("FINPRO_OCR_MIN_IMAGE_SIDE", 0),
			MaxPages:      getEnvAsInt("FINPRO_MAX_PAGES", 0),
		},
		Summary: SummaryConfig{
			MaxSentences: getEnvAsInt("FINPRO_SUMMARY_SENTENCES", 5),
		},
		Store: StoreConfig{
			DSN:         getEnv("FINPRO_STORE_DSN", ""),
			DialTimeout: getEnvAsDuration("FINPRO_STORE_DIAL_TIMEOUT", 3*time.Second),
		},
		Log: LogConfig{
			Format: strings.ToLower(getEnv("FINPRO_LOG_FORMAT", "text")),
		},
		Timeout: getEnvAsDuration("FINPRO_TIMEOUT", 0),
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
	v := NewValidator()
	v.Field("FINPRO_TEXT_BACKEND", c.OCR.TextBackend, Required, OneOf(TextBackendPoppler, TextBackendNative))
	v.Field("TESSERACT_LANG", c.OCR.TesseractLang, Required)
	v.Field("FINPRO_OCR_MIN_IMAGE_SIDE", c.OCR.MinImageSide, NonNegative)
	v.Field("FINPRO_MAX_PAGES", c.OCR.MaxPages, NonNegative)
	v.Field("FINPRO_SUMMARY_SENTENCES", c.Summary.MaxSentences, NonNegative)
	v.Field("FINPRO_LOG_FORMAT", c.Log.Format, OneOf("text", "json"))
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
