// Package config loads the qrep YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    Server    `yaml:"server"`
	Represent Represent `yaml:"represent"`
	Log       Log       `yaml:"log"`
	Tracing   Tracing   `yaml:"tracing"`
}

type Server struct {
	Port int `yaml:"port" validate:"min=1,max=65535"`
	// RateLimit is the steady number of tool calls per second; 0 disables
	// limiting.
	RateLimit float64 `yaml:"rate_limit" validate:"gte=0"`
	Burst     int     `yaml:"burst" validate:"gte=0"`
	// MaxBodyBytes caps the size of a POST /tool body.
	MaxBodyBytes int64 `yaml:"max_body_bytes" validate:"min=1024"`
}

// Represent holds defaults applied to tool calls that do not set them.
type Represent struct {
	Format string `yaml:"format" validate:"oneof=symbolic sympy dense numpy sparse scipy.sparse"`
}

type Log struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

type Tracing struct {
	Exporter       string `yaml:"exporter" validate:"oneof=stdout none"`
	ServiceName    string `yaml:"service_name" validate:"required"`
	ServiceVersion string `yaml:"service_version"`
	Environment    string `yaml:"environment"`
}

var validate = validator.New()

func Default() Config {
	return Config{
		Server: Server{
			Port:         8080,
			RateLimit:    50,
			Burst:        100,
			MaxBodyBytes: 1 << 20,
		},
		Represent: Represent{Format: "symbolic"},
		Log:       Log{Level: "info"},
		Tracing: Tracing{
			Exporter:       "none",
			ServiceName:    "goquantum",
			ServiceVersion: "0.1.0",
			Environment:    getEnvOr("GOQUANTUM_ENV", "development"),
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, cfg.Validate()
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// Marshal renders c as YAML, for writing a starter file.
func (c Config) Marshal() ([]byte, error) { return yaml.Marshal(c) }

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
