package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruderly/wallie/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wallie.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, DefaultAddr, c.Server.Addr)
	assert.Equal(t, BackendMemory, c.Site.Cache)
	assert.Equal(t, BackendMemory, c.Leads.Store)
	assert.Equal(t, BackendLocal, c.Leads.Limiter)
	assert.Equal(t, DefaultRetryAttempts, c.Leads.RetryAttempts)
	assert.False(t, c.UsesRedis())
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvConfig, "")
	path := writeConfig(t, `
[server]
addr = "127.0.0.1:9000"
shutdown_timeout = "3s"
metrics = true

[site]
base_url = "https://example.rs/"
cache = "redis"
cache_ttl = "1h"

[leads]
endpoint = "https://forms.example.com/f/abc"
store = "mongo"
limiter = "redis"
rate_burst = 2
rate_per = "30s"

[redis]
addr = "localhost:6379"

[mongo]
uri = "mongodb://localhost:27017"
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", c.Server.Addr)
	assert.Equal(t, 3*time.Second, c.Server.ShutdownTimeout)
	assert.True(t, c.Server.Metrics)
	assert.Equal(t, "https://example.rs", c.Site.BaseURL, "trailing slash trimmed")
	assert.Equal(t, time.Hour, c.Site.CacheTTL)
	assert.Equal(t, 2, c.Leads.RateBurst)
	assert.Equal(t, 30*time.Second, c.Leads.RatePer)
	assert.Equal(t, "wallie", c.Mongo.Database)
	assert.True(t, c.UsesRedis())
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[server]\naddr = \":7000\"\n")
	t.Setenv(EnvConfig, path)
	t.Setenv("WALLIE_LEADS_ENDPOINT", "https://forms.example.com/x")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Server.Addr)
	assert.Equal(t, "https://forms.example.com/x", c.Leads.Endpoint)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvConfig, "")
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[server]\nadress = \":80\"\n", "unknown keys"},
		{"malformed", "[server\n", "load"},
		{"bad cache backend", "[site]\ncache = \"memcached\"\n", "site.cache"},
		{"bad store", "[leads]\nstore = \"postgres\"\n", "leads.store"},
		{"redis without addr", "[leads]\nlimiter = \"redis\"\n", "redis.addr"},
		{"mongo without uri", "[leads]\nstore = \"mongo\"\n", "mongo.uri"},
		{"bad endpoint", "[leads]\nendpoint = \"ftp://x\"\n", "leads.endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestStringMasksSecrets(t *testing.T) {
	c := Default()
	c.Leads.APIKey = "super-secret"
	c.Redis.Password = "hunter2"

	s := c.String()
	assert.NotContains(t, s, "super-secret")
	assert.NotContains(t, s, "hunter2")
	assert.True(t, strings.Contains(s, "[server]"), s)
	assert.Equal(t, "super-secret", c.Leads.APIKey, "String must not modify the config")
}

func TestLoadExampleConfig(t *testing.T) {
	t.Setenv(EnvConfig, "")
	c, err := Load(filepath.Join("..", "..", "wallie.example.toml"))
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, want.Server, c.Server)
	assert.Equal(t, want.Leads, c.Leads)
	assert.Equal(t, want.Redis, c.Redis)
}
