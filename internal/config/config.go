// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment variables that override file values
const (
	EnvServiceURL     = "ANALYSIS_SERVICE_URL"
	EnvAPIKey         = "ANALYSIS_API_KEY"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
	EnvPort           = "PORT"
	EnvAllowedOrigins = "CORS_ALLOWED_ORIGINS"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or come from the environment.
type Config struct {
	// Remote analysis service
	ServiceURL     string `json:"service_url,omitempty" validate:"omitempty,url"`
	APIKey         string `json:"api_key,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" validate:"gte=0"` // Per-request HTTP timeout

	// Caller layer
	DeadlineSeconds int `json:"deadline_seconds,omitempty" validate:"gte=0"` // How long a view waits for a run; 0 waits indefinitely
	Concurrency     int `json:"concurrency,omitempty" validate:"gte=0,lte=32"`

	// Server
	Port           int      `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" validate:"dive,required"`

	// Storage and logging
	DatabaseURL string `json:"database_url,omitempty"`
	LogLevel    string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat   string `json:"log_format,omitempty" validate:"omitempty,oneof=text json"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		ServiceURL:      "http://localhost:3000/api",
		TimeoutSeconds:  300,
		DeadlineSeconds: 0,
		Concurrency:     4,
		Port:            8080,
		AllowedOrigins:  []string{"*"},
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: the file at path (optional), then
// environment overrides, then defaults for anything still unset. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields with any set, non-empty environment variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvServiceURL); ok {
		c.ServiceURL = v
	}
	if v, ok := get(EnvAPIKey); ok {
		c.APIKey = v
	}
	if v, ok := get(EnvDatabaseURL); ok {
		c.DatabaseURL = v
	}
	if v, ok := get(EnvLogLevel); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := get(EnvLogFormat); ok {
		c.LogFormat = strings.ToLower(v)
	}
	if v, ok := get(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be a number: %w", EnvPort, err)
		}
		c.Port = port
	}
	if v, ok := get(EnvAllowedOrigins); ok {
		c.AllowedOrigins = splitList(v)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
// Note: required values are checked by the commands that need them.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("'%s' failed '%s' (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ServiceURL == "" {
		result.ServiceURL = defaults.ServiceURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.DeadlineSeconds == 0 {
		result.DeadlineSeconds = defaults.DeadlineSeconds
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = append([]string(nil), defaults.AllowedOrigins...)
	}

	return result
}

// Timeout returns the per-request HTTP timeout
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Deadline returns how long a view waits for a run; zero waits indefinitely
func (c *Config) Deadline() time.Duration {
	return time.Duration(c.DeadlineSeconds) * time.Second
}

// HasDatabase reports whether the run audit log is enabled
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
