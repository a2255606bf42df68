// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath  = "config.yaml"
	minSecretKeyLength = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port     string `yaml:"port"`
	Timezone string `yaml:"timezone"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	SecretKey    string        `yaml:"secret_key"`
	CookieSecure bool          `yaml:"cookie_secure"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Server:   ServerConfig{Port: "8080", Timezone: "UTC"},
		Database: DatabaseConfig{Path: filepath.Join("data", "circlecare.db")},
		Auth:     AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads path when it exists, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation. Operator commands use it since they only
// need the database path.
func Read(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	overrideString(&cfg.Server.Port, "PORT")
	overrideString(&cfg.Server.Timezone, "TZ")
	overrideString(&cfg.Database.Path, "DB_PATH")
	overrideString(&cfg.Auth.SecretKey, "SECRET_KEY")
	overrideString(&cfg.Log.Level, "LOG_LEVEL")

	if raw := strings.TrimSpace(os.Getenv("COOKIE_SECURE")); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE must be a boolean: %w", err)
		}
		cfg.Auth.CookieSecure = secure
	}
	if raw := strings.TrimSpace(os.Getenv("TOKEN_TTL")); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL must be a duration: %w", err)
		}
		cfg.Auth.TokenTTL = ttl
	}
	return nil
}

func (cfg Config) Validate() error {
	if err := validateSecretKey(cfg.Auth.SecretKey); err != nil {
		return err
	}
	if err := validatePort(cfg.Server.Port); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	return nil
}

// Location falls back to UTC for an unknown timezone name.
func (cfg Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(cfg.Server.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return location, nil
}

func validateSecretKey(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[trimmed]; insecure {
		return errors.New("SECRET_KEY uses a placeholder value")
	}
	if len(trimmed) < minSecretKeyLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return nil
}

func validatePort(raw string) error {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid port %q", raw)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range", port)
	}
	return nil
}

func overrideString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}
