package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s"
// or "24h".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Store backends selectable in configuration.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Redis holds the connection settings for the redis blob backend.
type Redis struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Config is the serve-time configuration, loaded from YAML with flag
// overrides applied on top.
type Config struct {
	Listen   string `yaml:"listen"`
	PageFile string `yaml:"page_file"`
	BaseURL  string `yaml:"base_url"`

	// SessionSecret signs preview tokens. Required outside of dev; an empty
	// value is rejected at startup rather than silently defaulted.
	SessionSecret string   `yaml:"session_secret"`
	SessionMaxAge Duration `yaml:"session_max_age"`

	Store        string   `yaml:"store"`
	StoreDir     string   `yaml:"store_dir"`
	StoreTimeout Duration `yaml:"store_timeout"`
	Redis        Redis    `yaml:"redis"`

	// EncryptionKey, when set, enables AES-256-GCM encryption of snapshot
	// blobs at rest. Base64, decodes to 32 bytes. FallbackKeys keeps blobs
	// written under previous keys readable during rotation.
	EncryptionKey string   `yaml:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Listen:   ":8080",
		PageFile: "page.yaml",
		Store:    StoreMemory,
	}
}

// Load reads a YAML config file over the defaults. A missing file is fine:
// the defaults (plus flags) are enough to run.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("session_secret must be set")
	}
	switch c.Store {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address must be set for the redis store")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store)
	}
	if _, _, err := c.EncryptionKeys(); err != nil {
		return err
	}
	return nil
}

// EncryptionKeys decodes the configured blob encryption keys. The active key
// is nil when encryption is disabled.
func (c Config) EncryptionKeys() (active []byte, fallbacks [][]byte, err error) {
	if c.EncryptionKey == "" {
		if len(c.FallbackKeys) > 0 {
			return nil, nil, fmt.Errorf("fallback_keys require encryption_key to be set")
		}
		return nil, nil, nil
	}

	active, err = decodeKey(c.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("encryption_key: %w", err)
	}
	for i, raw := range c.FallbackKeys {
		key, err := decodeKey(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback_keys[%d]: %w", i, err)
		}
		fallbacks = append(fallbacks, key)
	}
	return active, fallbacks, nil
}

func decodeKey(raw string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
