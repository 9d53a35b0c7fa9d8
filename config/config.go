// Package config loads SDK configuration from defaults, an optional
// YAML file, and FERRIS_-prefixed environment variables, in that
// priority order.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the environment variables the loader reads.
const EnvPrefix = "FERRIS_"

// Config holds the SDK configuration.
type Config struct {
	API   APIConfig   `koanf:"api"`
	HTTP  HTTPConfig  `koanf:"http"`
	Cache CacheConfig `koanf:"cache"`
	Log   LogConfig   `koanf:"log"`
}

// APIConfig identifies the API endpoint and the client.
type APIConfig struct {
	BaseURL   string `koanf:"base_url" validate:"required,url"`
	UserAgent string `koanf:"user_agent" validate:"required"`
}

// HTTPConfig tunes the requester.
type HTTPConfig struct {
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxAttempts int           `koanf:"max_attempts" validate:"gte=1"`
	Rate        RateConfig    `koanf:"rate"`
}

// RateConfig paces outbound requests. A zero limit disables pacing.
type RateConfig struct {
	Limit float64 `koanf:"limit" validate:"gte=0"`
	Burst int     `koanf:"burst" validate:"gte=0"`
}

// CacheConfig bounds the in-memory object store.
type CacheConfig struct {
	MaxMessages int `koanf:"max_messages" validate:"gte=0"`
}

// LogConfig configures the SDK logger.
type LogConfig struct {
	Level  string `koanf:"level" validate:"required"`
	Pretty bool   `koanf:"pretty"`
}

// Load reads configuration with priority: environment variables over
// the YAML file at path (optional, may be empty) over built-in
// defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := loadEnv(k); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finish(k)
}

// LoadBytes reads configuration from raw YAML over defaults, without
// touching the environment. Intended for tests and embedded config.
func LoadBytes(raw []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(rawbytes.Provider(raw), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse config bytes: %w", err)
	}

	return finish(k)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"api.base_url":       "https://api.ferris.chat/v0",
		"api.user_agent":     "ferrisgo (https://github.com/ferrischat/ferrisgo)",
		"http.timeout":       "30s",
		"http.max_attempts":  3,
		"http.rate.limit":    0.0,
		"http.rate.burst":    0,
		"cache.max_messages": 1000,
		"log.level":          "info",
		"log.pretty":         false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

// envKeys maps environment variable suffixes to config keys. Leaf keys
// contain underscores of their own, so a mechanical separator rewrite
// cannot work here.
var envKeys = map[string]string{
	"API_BASE_URL":       "api.base_url",
	"API_USER_AGENT":     "api.user_agent",
	"HTTP_TIMEOUT":       "http.timeout",
	"HTTP_MAX_ATTEMPTS":  "http.max_attempts",
	"HTTP_RATE_LIMIT":    "http.rate.limit",
	"HTTP_RATE_BURST":    "http.rate.burst",
	"CACHE_MAX_MESSAGES": "cache.max_messages",
	"LOG_LEVEL":          "log.level",
	"LOG_PRETTY":         "log.pretty",
}

func loadEnv(k *koanf.Koanf) error {
	return k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			mapped, ok := envKeys[strings.TrimPrefix(key, EnvPrefix)]
			if !ok {
				return "", nil
			}
			return mapped, value
		},
	}), nil)
}

func finish(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
}
