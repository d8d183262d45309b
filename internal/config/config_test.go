package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"

carpay:
  api_key: "test-api-key"
  base_url: "https://api.carpay.example.com"
  timeout_seconds: 45

storage:
  backend: "redis"
  redis_url: "redis://localhost:6379/1"
  data_dir: "./test-data"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Test server config
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Test Carpay config
	assert.Equal(t, "test-api-key", cfg.Carpay.APIKey)
	assert.Equal(t, "https://api.carpay.example.com", cfg.Carpay.BaseURL)
	assert.Equal(t, 45, cfg.Carpay.TimeoutSeconds)

	// Test storage config
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "redis://localhost:6379/1", cfg.Storage.RedisURL)
	assert.Equal(t, "./test-data", cfg.Storage.DataDir)
}

func TestLoadDefaults(t *testing.T) {
	// Create a minimal config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
carpay:
  api_key: "test-key"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Verify defaults are applied
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 30, cfg.Carpay.TimeoutSeconds)
	assert.Equal(t, "memory", cfg.Storage.Backend)
}

func TestLoadStripsTrailingSlash(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
carpay:
  base_url: "https://api.carpay.example.com/"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "https://api.carpay.example.com", cfg.Carpay.BaseURL)
}

func TestLoadFromEnv(t *testing.T) {
	// Create a minimal config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
carpay:
  api_key: "file-key"
  base_url: "https://file-url.com"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	// Set environment variables
	os.Setenv("CARPAY_API_KEY", "env-key")
	os.Setenv("CARPAY_BASE_URL", "https://env-url.com/")
	os.Setenv("PORT", "9191")
	defer func() {
		os.Unsetenv("CARPAY_API_KEY")
		os.Unsetenv("CARPAY_BASE_URL")
		os.Unsetenv("PORT")
	}()

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	// Environment variables should override file values
	assert.Equal(t, "env-key", cfg.Carpay.APIKey)
	assert.Equal(t, "https://env-url.com", cfg.Carpay.BaseURL)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestLoadFromEnvMissingFile(t *testing.T) {
	os.Setenv("CARPAY_BASE_URL", "https://env-only.com")
	defer os.Unsetenv("CARPAY_BASE_URL")

	cfg, err := LoadFromEnv("/nonexistent/path/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "https://env-only.com", cfg.Carpay.BaseURL)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestTimeout(t *testing.T) {
	cfg := CarpayConfig{TimeoutSeconds: 45}
	assert.Equal(t, 45*time.Second, cfg.Timeout())
}
