// Package config loads keycalc server settings from a YAML file and the
// environment. Command-line flags are applied on top by the caller.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds server settings.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	GRPCPort int    `yaml:"grpcPort"`

	// DataFile is a bbolt database for themes and history. Empty keeps
	// everything in memory.
	DataFile string `yaml:"dataFile"`

	// CommaAsDecimal maps the keyboard ',' key to '.'.
	CommaAsDecimal *bool `yaml:"commaAsDecimal"`

	// UI enables the HTML keypad under /ui.
	UI *bool `yaml:"ui"`

	// LogRequests writes an access log line per HTTP request.
	LogRequests bool `yaml:"logRequests"`
}

// fileConfig is the YAML file layout. Pointer fields tell an explicit zero
// apart from a missing key.
type fileConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	GRPCPort       *int   `yaml:"grpcPort"`
	DataFile       string `yaml:"dataFile"`
	CommaAsDecimal *bool  `yaml:"commaAsDecimal"`
	UI             *bool  `yaml:"ui"`
	LogRequests    bool   `yaml:"logRequests"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8787,
		GRPCPort:       8788,
		CommaAsDecimal: boolPtr(true),
		UI:             boolPtr(true),
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path is
// not empty) and then with the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := cfg.merge(data); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) merge(data []byte) error {
	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("yaml parse error: %w", err)
	}
	if file.Host != "" {
		c.Host = file.Host
	}
	if file.Port != 0 {
		c.Port = file.Port
	}
	// grpcPort: 0 disables the gRPC listener.
	if file.GRPCPort != nil {
		c.GRPCPort = *file.GRPCPort
	}
	if file.DataFile != "" {
		c.DataFile = file.DataFile
	}
	if file.CommaAsDecimal != nil {
		c.CommaAsDecimal = file.CommaAsDecimal
	}
	if file.UI != nil {
		c.UI = file.UI
	}
	if file.LogRequests {
		c.LogRequests = true
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("HOST"); v != "" {
		c.Host = v
	}
	if v := getenv("PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = n
	}
	if v := getenv("GRPC_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GRPC_PORT: %w", err)
		}
		c.GRPCPort = n
	}
	if v := getenv("DATA_FILE"); v != "" {
		c.DataFile = v
	}
	return nil
}

// Validate checks port ranges.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.GRPCPort < 0 || c.GRPCPort > 65535 {
		return fmt.Errorf("grpc port %d out of range", c.GRPCPort)
	}
	if c.GRPCPort != 0 && c.GRPCPort == c.Port {
		return fmt.Errorf("port and grpc port are both %d", c.Port)
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GRPCAddr returns the gRPC listen address, or "" when gRPC is disabled
// (GRPCPort 0).
func (c Config) GRPCAddr() string {
	if c.GRPCPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Host, c.GRPCPort)
}

// CommaIsDecimal reports the effective CommaAsDecimal setting.
func (c Config) CommaIsDecimal() bool {
	return c.CommaAsDecimal == nil || *c.CommaAsDecimal
}

// UIEnabled reports the effective UI setting.
func (c Config) UIEnabled() bool {
	return c.UI == nil || *c.UI
}

func boolPtr(b bool) *bool { return &b }
