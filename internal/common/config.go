package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/RPasch/OCR-tool/constants"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	OCR    OCRConfig
	LLM    LLMConfig
	UI     UIConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr       string
	RequestTimeout time.Duration
	SessionTTL     time.Duration
	MaxUploadBytes int64
}

// OCRConfig holds Document Intelligence configuration
type OCRConfig struct {
	Endpoint     string
	APIKey       string
	APIVersion   string
	PollInterval time.Duration
}

// LLMConfig holds text-generation configuration
type LLMConfig struct {
	Model            string
	APIKey           string
	Temperature      float32
	Timeout          time.Duration
	MaxContentLength int
}

// UIConfig holds display strings surfaced to operators
type UIConfig struct {
	PageTitle   string
	PageIcon    string
	SampleWords int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 5*time.Minute),
			SessionTTL:     getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_MB", 20)) * 1024 * 1024,
		},
		OCR: OCRConfig{
			// Trailing slash breaks the analyze URL; trim it up front.
			Endpoint:     strings.TrimRight(getEnv("AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT", ""), "/"),
			APIKey:       getEnv("AZURE_DOCUMENT_INTELLIGENCE_KEY", ""),
			APIVersion:   getEnv("AZURE_API_VERSION", constants.AzureAPIVersion),
			PollInterval: getEnvAsDuration("AZURE_POLL_INTERVAL", 2*time.Second),
		},
		LLM: LLMConfig{
			Model:            getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:           getEnv("OPENAI_API_KEY", ""),
			Temperature:      getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:          getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			MaxContentLength: getEnvAsInt("MAX_CONTENT_LENGTH", constants.MaxContentLength),
		},
		UI: UIConfig{
			PageTitle:   getEnv("PAGE_TITLE", constants.PageTitle),
			PageIcon:    getEnv("PAGE_ICON", constants.PageIcon),
			SampleWords: getEnvAsInt("SAMPLE_WORDS", constants.SampleWords),
		},
	}
}

// Validate checks the settings without which the process cannot start.
// The text-generation key is deliberately not checked here: its absence
// only disables the normalization stage and is surfaced per request.
func (c *Config) Validate() error {
	if c.OCR.Endpoint == "" {
		return ConfigError("AZURE_DOCUMENT_INTELLIGENCE_ENDPOINT is required")
	}
	if c.OCR.APIKey == "" {
		return ConfigError("AZURE_DOCUMENT_INTELLIGENCE_KEY is required")
	}
	if c.Server.HTTPAddr == "" {
		return ConfigError("HTTP_ADDR is required")
	}
	return nil
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

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
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
