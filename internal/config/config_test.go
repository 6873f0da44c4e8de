package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"service_url": "https://legal.example.com/api",
		"api_key": "k",
		"timeout_seconds": 60,
		"port": 9090,
		"allowed_origins": ["https://console.example.com"],
		"log_format": "json"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://legal.example.com/api", cfg.ServiceURL)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://console.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{name: "defaults are valid", cfg: Defaults()},
		{name: "empty is valid", cfg: Config{}},
		{name: "bad url", cfg: Config{ServiceURL: "not a url"}, wantField: "service_url"},
		{name: "negative timeout", cfg: Config{TimeoutSeconds: -1}, wantField: "timeout_seconds"},
		{name: "port out of range", cfg: Config{Port: 70000}, wantField: "port"},
		{name: "unknown log level", cfg: Config{LogLevel: "trace"}, wantField: "log_level"},
		{name: "unknown log format", cfg: Config{LogFormat: "xml"}, wantField: "log_format"},
		{name: "too much concurrency", cfg: Config{Concurrency: 100}, wantField: "concurrency"},
		{name: "blank origin", cfg: Config{AllowedOrigins: []string{""}}, wantField: "allowed_origins[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error")
			assert.Contains(t, err.Error(), "'"+tt.wantField+"'")
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{ServiceURL: "https://svc.example.com", Port: 9000}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "https://svc.example.com", merged.ServiceURL, "set values win")
	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, 300, merged.TimeoutSeconds)
	assert.Equal(t, "info", merged.LogLevel)
	assert.Equal(t, []string{"*"}, merged.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, merged.Timeout())
	assert.Zero(t, merged.Deadline())

	assert.Equal(t, "", cfg.LogLevel, "receiver is not modified")
}

func TestApplyEnv(t *testing.T) {
	cfg := Config{ServiceURL: "https://file.example.com", LogLevel: "warn"}
	err := cfg.ApplyEnv(envMap(map[string]string{
		EnvServiceURL:     "https://env.example.com",
		EnvAPIKey:         "secret",
		EnvDatabaseURL:    "postgres://localhost/analyses",
		EnvLogLevel:       "",
		EnvLogFormat:      "JSON",
		EnvPort:           "8181",
		EnvAllowedOrigins: "https://a.example.com, ,https://b.example.com",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.ServiceURL)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.True(t, cfg.HasDatabase())
	assert.Equal(t, "warn", cfg.LogLevel, "empty variables do not override")
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestApplyEnv_BadPort(t *testing.T) {
	cfg := Config{}
	err := cfg.ApplyEnv(envMap(map[string]string{EnvPort: "eighty"}))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvServiceURL, "")
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "")
	t.Setenv(EnvPort, "")
	t.Setenv(EnvAllowedOrigins, "")

	cfg, err := Load(writeConfig(t, `{"service_url": "https://svc.example.com", "concurrency": 2}`))
	require.NoError(t, err)

	assert.Equal(t, "https://svc.example.com", cfg.ServiceURL)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.HasDatabase())
}

func TestLoad_InvalidMergedConfig(t *testing.T) {
	t.Setenv(EnvLogLevel, "loud")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
}
