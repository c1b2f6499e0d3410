// Package config loads the server configuration from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the TOML file, environment
// variables (DB_PATH, LOG_LEVEL, JWT_SECRET, LESSMO_ADDR).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// devSecret signs tokens when no secret is configured. Never use it in
// production.
const devSecret = "dev-secret-change-me"

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type AuthConfig struct {
	JWTSecret string   `toml:"jwt_secret"`
	TokenTTL  Duration `toml:"token_ttl"`
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// Duration is a time.Duration written as a string ("30s", "24h") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: Duration{10 * time.Second},
			AllowedOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{Path: "./data/lessmo.db"},
		Auth: AuthConfig{
			JWTSecret: devSecret,
			TokenTTL:  Duration{24 * time.Hour},
		},
		Log:     LogConfig{Level: "info"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads the config file at path (skipped when path is empty) over the
// defaults and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	cfg.Database.Path = getEnv("DB_PATH", cfg.Database.Path)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Server.Addr = getEnv("LESSMO_ADDR", cfg.Server.Addr)

	return cfg, cfg.Validate()
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("server.addr is required")
	case c.Server.ShutdownTimeout.Duration <= 0:
		return errors.New("server.shutdown_timeout must be positive")
	case c.Database.Path == "":
		return errors.New("database.path is required")
	case c.Auth.JWTSecret == "":
		return errors.New("auth.jwt_secret is required")
	case c.Auth.TokenTTL.Duration <= 0:
		return errors.New("auth.token_ttl must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}

// InsecureSecret reports whether tokens are signed with the built-in
// development secret.
func (c Config) InsecureSecret() bool {
	return c.Auth.JWTSecret == devSecret
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
