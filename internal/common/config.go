package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. It is built once and passed
// explicitly into the pipeline at construction time; nothing reads settings
// from globals after startup.
type Config struct {
	OCR     OCRConfig
	Extract ExtractConfig
	History HistoryConfig
}

// OCRConfig holds tesseract-related configuration.
type OCRConfig struct {
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	Languages     string // tesseract -l value, e.g. "eng+ara"
	TessdataDir   string
	HeicConverter string // "heif-convert" | "magick" | "sips"

	PSM int // e.g., 6 for a uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	Timeout    time.Duration // per-image deadline; 0 = no deadline
	Preprocess bool          // grayscale/upscale before OCR
}

// ExtractConfig holds pattern-matching configuration.
type ExtractConfig struct {
	DefaultCountryCode string // prefix substituted for a leading local "0", e.g. "+966"
	ContextLines       int    // max lines of preceding context considered per match
	WithContext        bool   // also extract Name/Timestamp columns
	RulesFile          string // optional JSON rules file; empty -> built-in rules
}

// HistoryConfig holds run-history database configuration.
type HistoryConfig struct {
	Dir     string // directory holding the SQLite file
	Disable bool
}

// Defaults used both by LoadConfig (when env vars are unset) and DefaultConfig.
const (
	DefaultLanguages    = "eng+ara"
	DefaultCountryCode  = "+966"
	DefaultContextLines = 3
	DefaultOCRTimeout   = 30 * time.Second
	DefaultHistoryDir   = ".phonesift"
)

// LoadConfig loads configuration from environment variables, falling back to
// the static defaults for anything unset.
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Tesseract:     getEnv("PHONESIFT_TESSERACT", "tesseract"),
			Languages:     getEnv("PHONESIFT_LANGS", DefaultLanguages),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			HeicConverter: getEnv("HEIC_CONVERTER", "magick"),
			PSM:           getEnvAsInt("PHONESIFT_PSM", 0),
			OEM:           getEnvAsInt("PHONESIFT_OEM", 0),
			Timeout:       getEnvAsDuration("PHONESIFT_OCR_TIMEOUT", DefaultOCRTimeout),
			Preprocess:    getEnvAsBool("PHONESIFT_PREPROCESS", true),
		},
		Extract: ExtractConfig{
			DefaultCountryCode: getEnv("PHONESIFT_DEFAULT_CC", DefaultCountryCode),
			ContextLines:       getEnvAsInt("PHONESIFT_CONTEXT_LINES", DefaultContextLines),
			WithContext:        getEnvAsBool("PHONESIFT_WITH_CONTEXT", true),
			RulesFile:          getEnv("PHONESIFT_RULES", ""),
		},
		History: HistoryConfig{
			Dir: getEnv("PHONESIFT_DB_DIR", DefaultHistoryDir),
		},
	}
}

// DefaultConfig returns the static default configuration without consulting
// the environment.
func DefaultConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Tesseract:     "tesseract",
			Languages:     DefaultLanguages,
			HeicConverter: "magick",
			Timeout:       DefaultOCRTimeout,
			Preprocess:    true,
		},
		Extract: ExtractConfig{
			DefaultCountryCode: DefaultCountryCode,
			ContextLines:       DefaultContextLines,
			WithContext:        true,
		},
		History: HistoryConfig{
			Dir: DefaultHistoryDir,
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

// Validate validates the loaded configuration.
func (c *Config) Validate() error {
	cc := c.Extract.DefaultCountryCode
	if !strings.HasPrefix(cc, "+") || len(cc) < 2 || len(cc) > 4 {
		return NewAppError("CONFIG_ERROR", "default country code must be +<1-3 digits>", ErrInvalidInput)
	}
	for _, r := range cc[1:] {
		if r < '0' || r > '9' {
			return NewAppError("CONFIG_ERROR", "default country code must be +<1-3 digits>", ErrInvalidInput)
		}
	}
	if c.Extract.ContextLines < 0 {
		return NewAppError("CONFIG_ERROR", "context lines must be >= 0", ErrInvalidInput)
	}
	if c.OCR.Languages == "" {
		return NewAppError("CONFIG_ERROR", "OCR languages are required", ErrInvalidInput)
	}
	return nil
}
