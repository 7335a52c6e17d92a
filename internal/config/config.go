package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/csheth/aidaily/internal/daily"
)

// Config carries the client's runtime settings.
type Config struct {
	BaseURL               string `yaml:"base_url"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	HistoryRange          string `yaml:"default_history_range"`
	CredentialPath        string `yaml:"credential_path"`
	AltScreen             *bool  `yaml:"alt_screen"`
}

// RequestTimeout returns the read-operation budget as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func expandEnvVars(s string) string {
	return envVarRegex.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

func setDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = daily.DefaultBaseURL
	}
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = int(daily.DefaultTimeout / time.Second)
	}
	if cfg.HistoryRange == "" {
		cfg.HistoryRange = string(daily.RangeAll)
	}
	if cfg.AltScreen == nil {
		on := true
		cfg.AltScreen = &on
	}
}

func validate(cfg *Config) error {
	if !daily.Range(cfg.HistoryRange).Valid() {
		return fmt.Errorf("config: unsupported default_history_range %q (supported: 7, 30, all)", cfg.HistoryRange)
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return fmt.Errorf("config: base_url must be an http(s) URL, got %q", cfg.BaseURL)
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("config: request_timeout_seconds must be positive, got %d", cfg.RequestTimeoutSeconds)
	}
	return nil
}

// Load reads the config file, expands environment variables, applies
// defaults, and validates. A missing file is not an error: the client
// runs fine on defaults alone.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// fall through to defaults
	case err != nil:
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	default:
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
