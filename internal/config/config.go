// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all phonebook configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	UI      UI      `yaml:"ui"`
	Log     Log     `yaml:"log"`
}

// Storage holds the contacts file location.
type Storage struct {
	Path string `yaml:"path" env:"PHONEBOOK_FILE" validate:"required"`
}

// UI holds interactive menu settings.
type UI struct {
	Plain bool `yaml:"plain" env:"PHONEBOOK_PLAIN"` // Force the line-based menu even on a TTY
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level" env:"PHONEBOOK_LOG_LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" env:"PHONEBOOK_LOG_FORMAT" validate:"oneof=console json"`
	File   string `yaml:"file" env:"PHONEBOOK_LOG_FILE"` // Empty means stderr
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Path: "contacts.json",
		},
		Log: Log{
			Level:  "warn",
			Format: "console",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	layer, err := loadLayer(path)
	if err != nil {
		return nil, err
	}
	if layer != nil {
		cfg.merge(layer)
	}
	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
}

// describe turns a field error into a yaml-keyed message.
func describe(fe validator.FieldError) string {
	key := yamlKey(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s cannot be empty", key)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", key, fe.Tag())
	}
}

// yamlKey converts "Config.Log.Level" into "log.level".
func yamlKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ToLower(strings.Join(parts, "."))
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: PHONEBOOK_FILE, PHONEBOOK_PLAIN, PHONEBOOK_LOG_LEVEL,
// PHONEBOOK_LOG_FORMAT, PHONEBOOK_LOG_FILE. Unset variables leave values alone.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parsing environment: %w", err)
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	UI      *rawUI      `yaml:"ui"`
	Log     *rawLog     `yaml:"log"`
}

type rawStorage struct {
	Path *string `yaml:"path"`
}

type rawUI struct {
	Plain *bool `yaml:"plain"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
	File   *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil && layer.Storage.Path != nil {
		c.Storage.Path = *layer.Storage.Path
	}
	if layer.UI != nil && layer.UI.Plain != nil {
		c.UI.Plain = *layer.UI.Plain
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.Format != nil {
			c.Log.Format = *layer.Log.Format
		}
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
	}
}
