package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "weft.json"

	// DefaultAddr is the default server listen address.
	DefaultAddr = "localhost:3000"

	// DefaultLivePath is the default websocket endpoint path.
	DefaultLivePath = "/weft/live"

	// DefaultMetricsPath is the default Prometheus endpoint path.
	DefaultMetricsPath = "/metrics"
)

// Config represents the complete weft.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Server contains live server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// Export contains static export configuration.
	Export ExportConfig `json:"export,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains live server settings.
type ServerConfig struct {
	// Addr is the listen address (host:port).
	Addr string `json:"addr,omitempty"`

	// Title is the page title served by the default server.
	Title string `json:"title,omitempty"`

	// MountID is the id of the element the app tree mounts at.
	MountID string `json:"mountId,omitempty"`

	// LivePath is the websocket endpoint path.
	LivePath string `json:"livePath,omitempty"`

	// MetricsPath is the Prometheus endpoint path. Empty disables it.
	MetricsPath string `json:"metricsPath,omitempty"`
}

// ExportConfig contains static export settings.
type ExportConfig struct {
	// Bucket is the S3 bucket pages publish to.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every object key.
	Prefix string `json:"prefix,omitempty"`

	// Region overrides the SDK default region.
	Region string `json:"region,omitempty"`

	// CacheControl is set on every published object.
	CacheControl string `json:"cacheControl,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is the handler format: text or json.
	Format string `json:"format,omitempty"`
}

// New returns a config populated with defaults.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        DefaultAddr,
			Title:       "Weft",
			MountID:     "app",
			LivePath:    DefaultLivePath,
			MetricsPath: DefaultMetricsPath,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads weft.json from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// LoadFromWorkingDir searches the working directory and its parents
// for weft.json. When none is found, defaults are returned.
func LoadFromWorkingDir() (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return New(), nil
		}
		dir = parent
	}
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from, or "" for defaults.
func (c *Config) Path() string { return c.configPath }

// applyDefaults fills in zero-valued fields after unmarshal.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.Title == "" {
		c.Server.Title = "Weft"
	}
	if c.Server.MountID == "" {
		c.Server.MountID = "app"
	}
	if c.Server.LivePath == "" {
		c.Server.LivePath = DefaultLivePath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
