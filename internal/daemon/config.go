// Package daemon manages the Konekt server lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/konekt-network/konekt/internal/app/gamification"
	"github.com/konekt-network/konekt/internal/domain"
)

// Config holds all server configuration.
type Config struct {
	API           APIConfig                 `toml:"api"`
	Storage       StorageConfig             `toml:"storage"`
	Scoring       gamification.Weights      `toml:"scoring"`
	Challenges    ChallengesConfig          `toml:"challenges"`
	Cache         CacheConfig               `toml:"cache"`
	Notifications domain.NotificationPolicy `toml:"notifications"`
	Logging       LoggingConfig             `toml:"logging"`
	Telemetry     TelemetryConfig           `toml:"telemetry"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// StorageConfig controls where the SQLite database lives.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// ChallengesConfig bounds the number of daily challenges.
type ChallengesConfig struct {
	MinPerDay int `toml:"min_per_day"`
	MaxPerDay int `toml:"max_per_day"`
}

// CacheConfig controls the snapshot cache.
type CacheConfig struct {
	Size int    `toml:"size"`
	TTL  string `toml:"ttl"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

// TelemetryConfig controls metrics exposure.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:        "127.0.0.1",
			Port:        8420,
			CORSOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Dir: konektHome(),
		},
		Scoring: gamification.DefaultWeights(),
		Challenges: ChallengesConfig{
			MinPerDay: 3,
			MaxPerDay: 4,
		},
		Cache: CacheConfig{
			Size: 1024,
			TTL:  "5m",
		},
		Notifications: domain.DefaultNotificationPolicy(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
	}
}

// LoadConfig reads config from $KONEKT_HOME/config.toml, falling back to
// defaults. A .env file in the same directory is loaded first; variables
// already set in the environment win over it.
func LoadConfig() (Config, error) {
	home := konektHome()
	if err := godotenv.Load(filepath.Join(home, ".env")); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()
	path := filepath.Join(konektHome(), "config.toml")

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides selected settings from KONEKT_* variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("KONEKT_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("KONEKT_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("KONEKT_API_PORT: %w", err)
		}
		cfg.API.Port = port
	}
	if v := os.Getenv("KONEKT_DATA_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("KONEKT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("KONEKT_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if c.Challenges.MinPerDay < 0 || c.Challenges.MaxPerDay < c.Challenges.MinPerDay {
		return fmt.Errorf("challenges: invalid range %d..%d", c.Challenges.MinPerDay, c.Challenges.MaxPerDay)
	}
	if _, err := parseTTL(c.Cache.TTL); err != nil {
		return fmt.Errorf("cache.ttl: %w", err)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.Notifications.Validate(); err != nil {
		return fmt.Errorf("notifications: %w", err)
	}
	return nil
}

// SaveConfig writes the config to $KONEKT_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(konektHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// parseTTL parses a duration such as "5m". Empty means the default.
func parseTTL(s string) (time.Duration, error) {
	if s == "" {
		return 5 * time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

// konektHome returns the Konekt data directory.
func konektHome() string {
	if env := os.Getenv("KONEKT_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".konekt")
}

// KonektHome is exported for use by other packages.
func KonektHome() string {
	return konektHome()
}
