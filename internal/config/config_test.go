package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every override so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIURL, EnvProjectID, EnvConcurrency, EnvLogFile, EnvOTLPEndpoint, EnvServiceName} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
api_url: https://xai.example.com
project_id: mnist
concurrency: 4
request_timeout: 45s
rate_limit: 2.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://xai.example.com", cfg.APIURL)
	assert.Equal(t, "mnist", cfg.ProjectID)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.InDelta(t, 2.5, cfg.RateLimit, 1e-9)
	// Unset keys keep their defaults.
	assert.Equal(t, "xaidash", cfg.ServiceName)
	require.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_DefaultPathMayBeAbsent(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "api_url: [unterminated"))
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "api_url: http://file:8000\nproject_id: from-file\n")
	t.Setenv(EnvAPIURL, "http://env:9000")
	t.Setenv(EnvProjectID, "from-env")
	t.Setenv(EnvConcurrency, "3")
	t.Setenv(EnvOTLPEndpoint, "collector:4318")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:9000", cfg.APIURL)
	assert.Equal(t, "from-env", cfg.ProjectID)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, "collector:4318", cfg.OTLPEndpoint)
}

func TestLoad_BadConcurrencyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConcurrency, "many")
	_, err := Load(writeFile(t, ""))
	assert.ErrorContains(t, err, EnvConcurrency)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "no scheme", mutate: func(c *Config) { c.APIURL = "localhost:8000" }, wantErr: "api_url"},
		{name: "ftp", mutate: func(c *Config) { c.APIURL = "ftp://host" }, wantErr: "api_url"},
		{name: "empty project", mutate: func(c *Config) { c.ProjectID = "" }, wantErr: "project_id"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Concurrency = 0 }, wantErr: "concurrency"},
		{name: "negative timeout", mutate: func(c *Config) { c.RequestTimeout = -time.Second }, wantErr: "request_timeout"},
		{name: "negative rate", mutate: func(c *Config) { c.RateLimit = -1 }, wantErr: "rate_limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := Default()
	want.ProjectID = "cifar"
	want.RequestTimeout = 90 * time.Second

	require.NoError(t, Save(want, path))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
