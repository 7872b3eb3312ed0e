package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"londonpark/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Boundary   BoundaryConfig   `yaml:"boundary"`
	Redis      RedisConfig      `yaml:"redis"`
	Journal    JournalConfig    `yaml:"journal"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Admin      AdminConfig      `yaml:"admin"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type BoundaryConfig struct {
	BaseURL        string          `yaml:"base_url"`
	TimeoutSeconds int             `yaml:"timeout_seconds"`
	CacheTTL       int             `yaml:"cache_ttl_seconds"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type AdminConfig struct {
	ConfirmTTLSeconds int `yaml:"confirm_ttl_seconds"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment may already be set by the runtime.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Environment variable substitution inside the YAML.
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Boundary.BaseURL == "" {
		return errors.New("boundary base_url is required")
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return errors.New("journal path is required when journal is enabled")
	}

	if c.Redis.Enabled && c.Redis.Address == "" {
		return errors.New("redis address is required when redis is enabled")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "londonpark"
	}
	if c.Boundary.TimeoutSeconds == 0 {
		c.Boundary.TimeoutSeconds = 10
	}
	if c.Boundary.CacheTTL == 0 {
		c.Boundary.CacheTTL = models.DefaultCacheTTL
	}
	if c.Admin.ConfirmTTLSeconds == 0 {
		c.Admin.ConfirmTTLSeconds = models.DefaultConfirmTTL
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// BoundaryTimeout returns the request timeout as a duration.
func (c *Config) BoundaryTimeout() time.Duration {
	return time.Duration(c.Boundary.TimeoutSeconds) * time.Second
}

// CacheTTL returns the boundary GET cache lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Boundary.CacheTTL) * time.Second
}

// ConfirmTTL returns the delete confirmation lifetime as a duration.
func (c *Config) ConfirmTTL() time.Duration {
	return time.Duration(c.Admin.ConfirmTTLSeconds) * time.Second
}
