// Package config loads tunebox configuration from an optional YAML file and
// TUNEBOX_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

// Track store drivers.
const (
	StoreSQLite = "sqlite"
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

// Preference store drivers.
const (
	PrefsSQL    = "sql"
	PrefsRedis  = "redis"
	PrefsMemory = "memory"
)

// Config is the root configuration.
type Config struct {
	AppName string `yaml:"app_name" env:"TUNEBOX_APP_NAME" env-default:"tunebox"`

	Assets  AssetsConfig  `yaml:"assets"`
	Store   StoreConfig   `yaml:"store"`
	Prefs   PrefsConfig   `yaml:"preferences"`
	Player  PlayerConfig  `yaml:"player"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// AssetsConfig locates the audio assets.
// An empty Dir means the assets compiled into the binary.
type AssetsConfig struct {
	Dir string `yaml:"dir" env:"TUNEBOX_ASSET_DIR"`
}

// StoreConfig selects and configures the track store.
type StoreConfig struct {
	Driver     string `yaml:"driver" env:"TUNEBOX_STORE_DRIVER" env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite_path" env:"TUNEBOX_SQLITE_PATH" env-default:"tunebox.db"`
	MySQLDSN   string `yaml:"mysql_dsn" env:"TUNEBOX_MYSQL_DSN"`
	LogQueries bool   `yaml:"log_queries" env:"TUNEBOX_STORE_LOG_QUERIES" env-default:"false"`
}

// PrefsConfig selects and configures the preference store.
type PrefsConfig struct {
	Driver        string `yaml:"driver" env:"TUNEBOX_PREFS_DRIVER" env-default:"sql"`
	RedisAddr     string `yaml:"redis_addr" env:"TUNEBOX_REDIS_ADDR" env-default:"127.0.0.1:6379"`
	RedisPassword string `yaml:"redis_password" env:"TUNEBOX_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"TUNEBOX_REDIS_DB" env-default:"0"`
	RedisKey      string `yaml:"redis_key" env:"TUNEBOX_REDIS_KEY" env-default:"tunebox:preferences"`
}

// PlayerConfig tunes the player view-model.
type PlayerConfig struct {
	PollInterval  time.Duration `yaml:"poll_interval" env:"TUNEBOX_POLL_INTERVAL" env-default:"1s"`
	DefaultLength time.Duration `yaml:"default_length" env:"TUNEBOX_DEFAULT_LENGTH" env-default:"3m"`

	// DisableMediaSession skips the OS media session. A zero value keeps it on
	// so a YAML "false" cannot be overridden by an env-default.
	DisableMediaSession bool `yaml:"disable_media_session" env:"TUNEBOX_DISABLE_MEDIA_SESSION"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"TUNEBOX_HTTP_ADDR" env-default:"127.0.0.1:8088"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TUNEBOX_HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// LoggingConfig configures internal/logger.
type LoggingConfig struct {
	Level      string `yaml:"level" env:"TUNEBOX_LOG_LEVEL" env-default:"INFO"`
	Format     string `yaml:"format" env:"TUNEBOX_LOG_FORMAT" env-default:"text"`
	File       string `yaml:"file" env:"TUNEBOX_LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"TUNEBOX_LOG_MAX_SIZE_MB" env-default:"10"`
	MaxBackups int    `yaml:"max_backups" env:"TUNEBOX_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"TUNEBOX_LOG_MAX_AGE_DAYS" env-default:"28"`
}

// Load reads path (if non-empty) and then applies environment overrides.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Default returns the configuration produced by env-default tags alone.
func Default() Config {
	var cfg Config
	// ReadEnv only fails on malformed values; defaults are well-formed.
	_ = cleanenv.ReadEnv(&cfg)
	return cfg
}

// Validate checks driver names and driver-specific settings.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			return domain.NewValidationError("store.sqlite_path", c.Store.SQLitePath, "required for sqlite driver")
		}
	case StoreMySQL:
		if c.Store.MySQLDSN == "" {
			return domain.NewValidationError("store.mysql_dsn", c.Store.MySQLDSN, "required for mysql driver")
		}
	case StoreMemory:
	default:
		return domain.NewValidationError("store.driver", c.Store.Driver, "must be sqlite, mysql or memory")
	}

	switch c.Prefs.Driver {
	case PrefsSQL:
		if c.Store.Driver == StoreMemory {
			return domain.NewValidationError("preferences.driver", c.Prefs.Driver, "sql preferences need a sql track store")
		}
	case PrefsRedis:
		if c.Prefs.RedisAddr == "" {
			return domain.NewValidationError("preferences.redis_addr", c.Prefs.RedisAddr, "required for redis driver")
		}
	case PrefsMemory:
	default:
		return domain.NewValidationError("preferences.driver", c.Prefs.Driver, "must be sql, redis or memory")
	}

	if c.Player.PollInterval <= 0 {
		return domain.NewValidationError("player.poll_interval", c.Player.PollInterval, "must be positive")
	}
	return nil
}
