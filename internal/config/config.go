// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all addrbook configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Display Display `yaml:"display"`
	Log     Log     `yaml:"log"`
}

// Storage holds persistence settings.
type Storage struct {
	Path string `yaml:"path"`
}

// Display holds presentation settings.
type Display struct {
	Language string `yaml:"language"` // "uk" | "en"
	Color    string `yaml:"color"`    // "auto" | "always" | "never"
	Order    string `yaml:"order"`    // "insertion" | "alpha"
}

// Log holds file logging settings.
type Log struct {
	Dir   string `yaml:"dir"`
	Debug bool   `yaml:"debug"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Path: "contacts.json",
		},
		Display: Display{
			Language: "uk",
			Color:    "auto",
			Order:    "insertion",
		},
		Log: Log{
			Dir: ".addrbook/logs",
		},
	}
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
	if c.Storage.Path == "" {
		return errors.New("config: storage.path cannot be empty")
	}
	switch c.Display.Language {
	case "uk", "en":
	default:
		return fmt.Errorf("config: display.language must be \"uk\" or \"en\", got %q", c.Display.Language)
	}
	switch c.Display.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("config: display.color must be \"auto\", \"always\" or \"never\", got %q", c.Display.Color)
	}
	switch c.Display.Order {
	case "insertion", "alpha":
	default:
		return fmt.Errorf("config: display.order must be \"insertion\" or \"alpha\", got %q", c.Display.Order)
	}
	if c.Log.Dir == "" {
		return errors.New("config: log.dir cannot be empty")
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ADDRBOOK_FILE, ADDRBOOK_LANG, ADDRBOOK_COLOR, ADDRBOOK_DEBUG.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ADDRBOOK_FILE"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("ADDRBOOK_LANG"); v != "" {
		c.Display.Language = v
	}
	if v := os.Getenv("ADDRBOOK_COLOR"); v != "" {
		c.Display.Color = v
	}
	if v := os.Getenv("ADDRBOOK_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid ADDRBOOK_DEBUG %q: %w", v, err)
		}
		c.Log.Debug = b
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	Display *rawDisplay `yaml:"display"`
	Log     *rawLog     `yaml:"log"`
}

type rawStorage struct {
	Path *string `yaml:"path"`
}

type rawDisplay struct {
	Language *string `yaml:"language"`
	Color    *string `yaml:"color"`
	Order    *string `yaml:"order"`
}

type rawLog struct {
	Dir   *string `yaml:"dir"`
	Debug *bool   `yaml:"debug"`
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
	if layer.Display != nil {
		if layer.Display.Language != nil {
			c.Display.Language = *layer.Display.Language
		}
		if layer.Display.Color != nil {
			c.Display.Color = *layer.Display.Color
		}
		if layer.Display.Order != nil {
			c.Display.Order = *layer.Display.Order
		}
	}
	if layer.Log != nil {
		if layer.Log.Dir != nil {
			c.Log.Dir = *layer.Log.Dir
		}
		if layer.Log.Debug != nil {
			c.Log.Debug = *layer.Log.Debug
		}
	}
}
