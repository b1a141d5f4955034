// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Search    SearchConfig    `mapstructure:"search"`
	History   HistoryConfig   `mapstructure:"history"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// SearchConfig controls URL assembly.
type SearchConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// DefaultTab is appended as f=<tab> when set; empty keeps the canonical URL.
	DefaultTab string `mapstructure:"default_tab"`
}

const (
	HistoryBackendSQLite = "sqlite"
	HistoryBackendRedis  = "redis"
)

type HistoryConfig struct {
	Backend   string `mapstructure:"backend"`
	MaxItems  int    `mapstructure:"max_items"`
	KeyPrefix string `mapstructure:"key_prefix"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
}

type DatabaseConfig struct {
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TemplatesConfig struct {
	RegistryPath string `mapstructure:"registry_path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}

func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
