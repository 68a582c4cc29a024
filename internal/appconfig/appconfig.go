// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the per-call timeout for completion requests.
	defaultRequestTimeout = 120 * time.Second
	// defaultRetryCount defines how many attempts a completion or grading call gets.
	defaultRetryCount = 3
	// defaultRetryBackoff is the base delay between retry attempts; the
	// schedule is linear ((attempt+1) * base).
	defaultRetryBackoff = 2 * time.Second
	// defaultGraderModel is the fixed scorer used for rubric grading.
	defaultGraderModel = "gpt-4.1-2025-04-14"
	// defaultMaxTokens caps completion length for candidate responses.
	defaultMaxTokens = 2048
)

// Config represents the top-level application configuration.
type Config struct {
	ProviderURL     string            `json:"providerUrl"`
	APIKeyEnv       string            `json:"apiKeyEnv,omitempty"`
	Model           string            `json:"model,omitempty"`
	GraderModel     string            `json:"graderModel,omitempty"`
	Temperature     float64           `json:"temperature"`
	MaxTokens       int               `json:"maxTokens,omitempty"`
	GraderMaxTokens int               `json:"graderMaxTokens,omitempty"`
	TimeoutSeconds  int               `json:"timeout,omitempty"`
	RetryCount      int               `json:"retryCount,omitempty"`
	RetryBackoffSec int               `json:"retryBackoff,omitempty"`
	Workers         int               `json:"workers,omitempty"`
	Debug           bool              `json:"debug"`
	LogFile         string            `json:"logFile,omitempty"`
	ModelTypes      map[string]string `json:"modelTypes,omitempty"`
	ConfigPath      string            `json:"-"`
}

// RequestTimeout returns the per-call timeout, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryAttempts returns the configured number of attempts for provider calls.
func (c Config) RetryAttempts() int {
	if c.RetryCount <= 0 {
		return defaultRetryCount
	}
	return c.RetryCount
}

// RetryBackoff returns the base backoff delay between retry attempts.
func (c Config) RetryBackoff() time.Duration {
	if c.RetryBackoffSec <= 0 {
		return defaultRetryBackoff
	}
	return time.Duration(c.RetryBackoffSec) * time.Second
}

// WorkerCount returns the case-level concurrency; 1 means sequential processing.
func (c Config) WorkerCount() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}

// GraderModelName returns the scorer model, applying the fixed default.
func (c Config) GraderModelName() string {
	if m := strings.TrimSpace(c.GraderModel); m != "" {
		return m
	}
	return defaultGraderModel
}

// ResponseMaxTokens returns the completion token cap for candidate responses.
func (c Config) ResponseMaxTokens() int {
	if c.MaxTokens <= 0 {
		return defaultMaxTokens
	}
	return c.MaxTokens
}

// VerdictMaxTokens returns the completion token cap for grader verdicts.
// Verdicts are a single small JSON object, so the cap is deliberately tight.
func (c Config) VerdictMaxTokens() int {
	if c.GraderMaxTokens <= 0 {
		return 256
	}
	return c.GraderMaxTokens
}

// APIKey resolves the provider API key from the configured environment
// variable. Secrets never live in the config file itself.
func (c Config) APIKey() (string, error) {
	envName := strings.TrimSpace(c.APIKeyEnv)
	if envName == "" {
		envName = "OPENAI_API_KEY"
	}
	key := os.Getenv(envName)
	if key == "" {
		return "", fmt.Errorf("%s is not set; export your provider key before running", envName)
	}
	return key, nil
}

// ModelType returns the leaderboard category tag for a model name.
func (c Config) ModelType(model string) string {
	if t, ok := c.ModelTypes[model]; ok && strings.TrimSpace(t) != "" {
		return t
	}
	return "proprietary"
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "medbench.log"
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if strings.TrimSpace(config.ProviderURL) == "" {
			return Config{}, errors.New("config must set providerUrl")
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("no configuration file found at %q: %w", path, os.ErrNotExist)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
