package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joseph-ayodele/form-agent/constants"
)

// Config holds all application configuration
type Config struct {
	OCR   OCRConfig
	LLM   LLMConfig
	Agent AgentConfig
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Enabled     bool
	Language    string
	DPI         int
	MaxPages    int
	Pdftoppm    string
	Tesseract   string
	TessdataDir string
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// AgentConfig holds prompt budgets and related knobs.
type AgentConfig struct {
	DocTextBudget    int
	PreviewBudget    int
	PromptTableLimit int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Enabled:     getEnvAsBool("OCR_ENABLED", true),
			Language:    getEnv("OCR_LANGUAGE", "eng"),
			DPI:         getEnvAsInt("OCR_DPI", constants.DefaultOCRDPI),
			MaxPages:    getEnvAsInt("OCR_MAX_PAGES", 0),
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
		LLM: LLMConfig{
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Agent: AgentConfig{
			DocTextBudget:    getEnvAsInt("AGENT_DOC_TEXT_BUDGET", constants.DocTextBudget),
			PreviewBudget:    getEnvAsInt("AGENT_PREVIEW_BUDGET", constants.AnalysisPreviewBudget),
			PromptTableLimit: getEnvAsInt("AGENT_PROMPT_TABLE_LIMIT", constants.PromptTableLimit),
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

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.LLM.Model == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_MODEL is required", ErrInvalidInput)
	}
	return nil
}
