// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var (
	currentConfig *AppConfig
	configMutex   sync.RWMutex
)

// ProviderConfig holds the settings for one remote provider variant.
// A provider with an empty APIKey is excluded from the chain at startup.
type ProviderConfig struct {
	APIKey string `json:"api_key,omitempty"`
	Model  string `json:"model,omitempty"`
	// ClassifierModel is only used by classification-style backends.
	ClassifierModel string `json:"classifier_model,omitempty"`
	BaseURL         string `json:"base_url,omitempty"`
}

// Configured reports whether the provider has credentials.
func (p ProviderConfig) Configured() bool {
	return p.APIKey != ""
}

// PlatformConfig holds delivery credentials for the external platforms.
type PlatformConfig struct {
	LinkedInToken  string `json:"linkedin_token,omitempty"`
	TwitterToken   string `json:"twitter_token,omitempty"`
	FacebookToken  string `json:"facebook_token,omitempty"`
	FacebookPageID string `json:"facebook_page_id,omitempty"`
	SendGridAPIKey string `json:"sendgrid_api_key,omitempty"`
	EmailFrom      string `json:"email_from,omitempty"`
	EmailTo        string `json:"email_to,omitempty"`
}

// AppConfig contains all application configuration.
type AppConfig struct {
	Port      string `json:"port"`
	DataDir   string `json:"data_dir"`
	LogDir    string `json:"log_dir"`
	DebugMode bool   `json:"debug_mode"`

	// DemoMode makes platform clients simulate posting instead of calling
	// real APIs. Explicit flag: delivery behavior is never inferred from
	// credential formats.
	DemoMode bool `json:"demo_mode"`

	// Provider chain settings
	Gemini      ProviderConfig `json:"gemini"`
	HuggingFace ProviderConfig `json:"huggingface"`

	RequestTimeout time.Duration `json:"request_timeout"`
	MaxRetries     int           `json:"max_retries"`
	RetryBackoff   time.Duration `json:"retry_backoff"`

	// RAG candidate counts per call site
	AnalyzeRAGLimit   int `json:"analyze_rag_limit"`
	RepurposeRAGLimit int `json:"repurpose_rag_limit"`

	Platforms PlatformConfig `json:"platforms"`
}

// Load reads configuration from the environment (an optional .env file is
// honored first).
func Load() (*AppConfig, error) {
	godotenv.Load()

	cfg := &AppConfig{
		Port:      getEnv("PORT", "8080"),
		DataDir:   getEnvPath("DATA_DIR", "data"),
		LogDir:    getEnvPath("LOG_DIR", "logs"),
		DebugMode: getEnvBool("DEBUG_MODE", true),
		DemoMode:  getEnvBool("DEMO_MODE", true),
		Gemini: ProviderConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
		},
		HuggingFace: ProviderConfig{
			APIKey:          getEnv("HUGGINGFACE_API_KEY", ""),
			Model:           getEnv("HUGGINGFACE_TEXT_MODEL", "microsoft/DialoGPT-medium"),
			ClassifierModel: getEnv("HUGGINGFACE_CLASSIFIER_MODEL", "cardiffnlp/twitter-roberta-base-sentiment-latest"),
			BaseURL:         getEnv("HUGGINGFACE_BASE_URL", ""),
		},
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),
		RetryBackoff:      getEnvDuration("RETRY_BACKOFF", 2*time.Second),
		AnalyzeRAGLimit:   getEnvInt("ANALYZE_RAG_LIMIT", 3),
		RepurposeRAGLimit: getEnvInt("REPURPOSE_RAG_LIMIT", 4),
		Platforms: PlatformConfig{
			LinkedInToken:  getEnv("LINKEDIN_ACCESS_TOKEN", ""),
			TwitterToken:   getEnv("TWITTER_BEARER_TOKEN", ""),
			FacebookToken:  getEnv("FACEBOOK_PAGE_ACCESS_TOKEN", ""),
			FacebookPageID: getEnv("FACEBOOK_PAGE_ID", ""),
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			EmailFrom:      getEnv("EMAIL_FROM", ""),
			EmailTo:        getEnv("EMAIL_TO", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations that would misbehave at runtime. Missing
// provider keys are not errors: the chain simply ends at the local engine.
func (c *AppConfig) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff must not be negative, got %s", c.RetryBackoff)
	}
	if c.AnalyzeRAGLimit < 0 || c.RepurposeRAGLimit < 0 {
		return fmt.Errorf("rag limits must not be negative")
	}
	return nil
}

// InitConfig loads the configuration and installs it as the process-wide
// current config.
func InitConfig() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMutex.Lock()
	defer configMutex.Unlock()
	currentConfig = cfg
	return nil
}

// GetCurrentConfig returns a copy of the current configuration.
func GetCurrentConfig() *AppConfig {
	configMutex.RLock()
	defer configMutex.RUnlock()

	if currentConfig == nil {
		cfg, _ := Load()
		return cfg
	}

	configCopy := *currentConfig
	return &configCopy
}

// SetCurrentConfig replaces the current configuration (used by tests).
func SetCurrentConfig(cfg *AppConfig) {
	configMutex.Lock()
	defer configMutex.Unlock()
	currentConfig = cfg
}

// getEnv returns the environment value or the default when unset.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath returns a path from the environment, creating the directory.
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("warning: failed to create directory %s: %v\n", path, err)
		}
	}

	return path
}

// getEnvBool parses a boolean environment value.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt parses an integer environment value.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration parses a duration environment value ("30s", "2m").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
