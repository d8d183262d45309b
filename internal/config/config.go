package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Carpay  CarpayConfig  `yaml:"carpay"`
	Storage StorageConfig `yaml:"storage"`
}

// ServerConfig holds HTTP server configuration for the stub backend
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with environment override
func (c ServerConfig) GetHost() string {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// CarpayConfig holds Carpay Collect API configuration
type CarpayConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c CarpayConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig holds storage configuration for the stub backend
type StorageConfig struct {
	// Backend is "memory" or "redis"
	Backend  string `yaml:"backend"`
	DataDir  string `yaml:"data_dir"`
	RedisURL string `yaml:"redis_url"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Carpay.TimeoutSeconds == 0 {
		cfg.Carpay.TimeoutSeconds = 30
	}
	// Trailing slashes break path joining in the client
	cfg.Carpay.BaseURL = strings.TrimRight(cfg.Carpay.BaseURL, "/")
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in deployment.
// A missing config file is not an error: defaults plus env vars apply.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = &Config{}
		cfg.applyDefaults()
	}

	// Override with environment variables if present
	if baseURL := os.Getenv("CARPAY_BASE_URL"); baseURL != "" {
		cfg.Carpay.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if apiKey := os.Getenv("CARPAY_API_KEY"); apiKey != "" {
		cfg.Carpay.APIKey = apiKey
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if backend := os.Getenv("STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if dataDir := os.Getenv("STORAGE_DATA_DIR"); dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Storage.RedisURL = redisURL
	}

	return cfg, nil
}
