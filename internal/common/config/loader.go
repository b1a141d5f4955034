package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. XSEARCH_HISTORY_BACKEND.
const EnvPrefix = "XSEARCH"

var validTabs = map[string]bool{
	"": true, "top": true, "live": true, "user": true, "image": true, "video": true,
}

// Load reads configs/config.yaml (plus config.<env>.yaml) from the usual locations.
// A missing config file is not an error: defaults and environment variables still apply.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".xsearch"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = v.GetString("app.environment")
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finalize(v)
}

// LoadFromFile reads exactly one YAML file; unlike Load, the file must exist.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finalize(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finalize(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found walking up to the project root and returns its path.
func loadEnvFile() string {
	possiblePaths := []string{".env", "../.env", "../../.env"}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".xsearch", "history.db")
	}
	return filepath.Join(home, ".xsearch", "history.db")
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "xsearch")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("search.base_url", "https://twitter.com/search")
	v.SetDefault("search.default_tab", "")

	v.SetDefault("history.backend", HistoryBackendSQLite)
	v.SetDefault("history.max_items", 50)
	v.SetDefault("history.key_prefix", "twitterSearch")
	v.SetDefault("history.timeout", 5000)

	v.SetDefault("database.sqlite.path", defaultSQLitePath())
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("templates.registry_path", "")

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("metrics.textfile_path", "")
}

func applyDefaults(cfg *Config) {
	cfg.History.Backend = strings.ToLower(strings.TrimSpace(cfg.History.Backend))
	if cfg.History.Backend == "" {
		cfg.History.Backend = HistoryBackendSQLite
	}
	if cfg.History.MaxItems <= 0 {
		cfg.History.MaxItems = 50
	}
	if cfg.History.Timeout <= 0 {
		cfg.History.Timeout = 5000
	}
	if cfg.History.KeyPrefix == "" {
		cfg.History.KeyPrefix = "twitterSearch"
	}

	cfg.Search.BaseURL = strings.TrimRight(cfg.Search.BaseURL, "?")
	cfg.Search.DefaultTab = strings.ToLower(strings.TrimSpace(cfg.Search.DefaultTab))

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url is required")
	}
	if !validTabs[cfg.Search.DefaultTab] {
		return fmt.Errorf("search.default_tab must be one of top, live, user, image, video")
	}

	switch cfg.History.Backend {
	case HistoryBackendSQLite:
		if cfg.Database.SQLite.Path == "" {
			return fmt.Errorf("database.sqlite.path is required for the sqlite history backend")
		}
	case HistoryBackendRedis:
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required for the redis history backend")
		}
	default:
		return fmt.Errorf("history.backend must be %q or %q, got %q",
			HistoryBackendSQLite, HistoryBackendRedis, cfg.History.Backend)
	}

	return nil
}
