// Package config loads xaidash settings.
//
// Precedence, lowest first: built-in defaults, the YAML file
// ($XDG_CONFIG_HOME/xaidash/config.yaml unless a path is given), environment
// variables, then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Environment variable overrides.
const (
	EnvAPIURL       = "XAIDASH_API_URL"
	EnvProjectID    = "XAIDASH_PROJECT"
	EnvConcurrency  = "XAIDASH_CONCURRENCY"
	EnvLogFile      = "XAIDASH_LOG_FILE"
	EnvOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvServiceName  = "OTEL_SERVICE_NAME"
)

const (
	// DefaultProjectID is the project the experiment page shows.
	DefaultProjectID = "test_project"

	// appName names the XDG subdirectories.
	appName = "xaidash"
)

// ErrConfigNotFound is returned when an explicitly given config file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config holds everything needed to run the dashboard.
type Config struct {
	APIURL         string        `yaml:"api_url"`
	ProjectID      string        `yaml:"project_id"`
	Concurrency    int           `yaml:"concurrency"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimit      float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	LogFile        string        `yaml:"log_file"`
	OTLPEndpoint   string        `yaml:"otlp_endpoint"`
	OTLPInsecure   bool          `yaml:"otlp_insecure"`
	ServiceName    string        `yaml:"service_name"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:         "http://localhost:8000",
		ProjectID:      DefaultProjectID,
		Concurrency:    1,
		RequestTimeout: 30 * time.Second,
		ServiceName:    appName,
		OTLPInsecure:   true,
	}
}

// DefaultPath returns the XDG config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// DefaultLogFile returns the XDG state location for the log file.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

// Load reads the config file at path over the defaults and applies env overrides.
// An empty path means DefaultPath, which may be absent. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if err := loadFile(&cfg, path); err != nil {
		if !errors.Is(err, ErrConfigNotFound) || explicit {
			return Config{}, err
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides replaces fields whose environment variable is set.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvProjectID); v != "" {
		c.ProjectID = v
	}
	if v := os.Getenv(EnvConcurrency); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConcurrency, err)
		}
		c.Concurrency = n
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvOTLPEndpoint); v != "" {
		c.OTLPEndpoint = v
	}
	if v := os.Getenv(EnvServiceName); v != "" {
		c.ServiceName = v
	}
	return nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api_url: %q is not an http(s) URL", c.APIURL)
	}
	if c.ProjectID == "" {
		return errors.New("project_id: must not be empty")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency: must be at least 1, got %d", c.Concurrency)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout: must not be negative, got %s", c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit: must not be negative, got %g", c.RateLimit)
	}
	return nil
}

// Save writes c as YAML to path, creating parent directories.
func Save(c Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
