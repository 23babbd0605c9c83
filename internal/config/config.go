// Package config loads the wallie.toml configuration of the site server.
//
// Precedence, lowest first: built-in defaults, the TOML file, WALLIE_*
// environment variables, command-line flags (applied by the CLI).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cruderly/wallie/pkg/errors"
)

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = "WALLIE_CONFIG"

// Backend names.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
	BackendMongo  = "mongo"
	BackendLocal  = "local"
)

// Default values.
const (
	DefaultAddr            = ":8080"
	DefaultBaseURL         = "https://wallie.rs"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultRateBurst       = 5
	DefaultRatePer         = time.Minute
	DefaultRetryAttempts   = 3
	DefaultRetryDelay      = time.Second
	DefaultRedisPrefix     = "wallie:"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Site   SiteConfig   `toml:"site"`
	Leads  LeadsConfig  `toml:"leads"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	Metrics         bool          `toml:"metrics"` // expose /metrics
}

// SiteConfig configures page rendering.
type SiteConfig struct {
	BaseURL  string        `toml:"base_url"`
	Cache    string        `toml:"cache"` // none, memory or redis
	CacheTTL time.Duration `toml:"cache_ttl"`
	Email    string        `toml:"email"`
	Phone    string        `toml:"phone"`
	WhatsApp string        `toml:"whatsapp"`
}

// LeadsConfig configures lead intake.
type LeadsConfig struct {
	Endpoint      string        `toml:"endpoint"` // form backend; empty archives only
	APIKey        string        `toml:"api_key"`
	Store         string        `toml:"store"`   // memory, file or mongo
	Dir           string        `toml:"dir"`     // directory of the file store
	Limiter       string        `toml:"limiter"` // none, local or redis
	RateBurst     int           `toml:"rate_burst"`
	RatePer       time.Duration `toml:"rate_per"`
	RetryAttempts int           `toml:"retry_attempts"`
	RetryDelay    time.Duration `toml:"retry_delay"`
}

// RedisConfig configures the shared Redis client.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the lead archive in MongoDB.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns a configuration that runs without any external service.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills every unset field. It is idempotent.
func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Site.BaseURL == "" {
		c.Site.BaseURL = DefaultBaseURL
	}
	c.Site.BaseURL = strings.TrimSuffix(c.Site.BaseURL, "/")
	if c.Site.Cache == "" {
		c.Site.Cache = BackendMemory
	}

	if c.Leads.Store == "" {
		c.Leads.Store = BackendMemory
	}
	if c.Leads.Limiter == "" {
		c.Leads.Limiter = BackendLocal
	}
	if c.Leads.RateBurst == 0 {
		c.Leads.RateBurst = DefaultRateBurst
	}
	if c.Leads.RatePer == 0 {
		c.Leads.RatePer = DefaultRatePer
	}
	if c.Leads.RetryAttempts == 0 {
		c.Leads.RetryAttempts = DefaultRetryAttempts
	}
	if c.Leads.RetryDelay == 0 {
		c.Leads.RetryDelay = DefaultRetryDelay
	}

	if c.Redis.Prefix == "" {
		c.Redis.Prefix = DefaultRedisPrefix
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "wallie"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "leads"
	}
}

// Load reads the config file at path. An empty path falls back to
// $WALLIE_CONFIG; if that is empty too, only defaults and environment
// overrides apply. Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := &Config{}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	applyEnvOverrides(cfg)
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WALLIE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("WALLIE_BASE_URL"); v != "" {
		cfg.Site.BaseURL = v
	}
	if v := os.Getenv("WALLIE_LEADS_ENDPOINT"); v != "" {
		cfg.Leads.Endpoint = v
	}
	if v := os.Getenv("WALLIE_LEADS_API_KEY"); v != "" {
		cfg.Leads.APIKey = v
	}
	if v := os.Getenv("WALLIE_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("WALLIE_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("WALLIE_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("WALLIE_MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
}

// Validate checks the configuration for contradictions. Call SetDefaults first.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr is required")
	}
	if err := errors.ValidateEndpoint(c.Site.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "site.base_url")
	}
	if err := oneOf("site.cache", c.Site.Cache, BackendNone, BackendMemory, BackendRedis); err != nil {
		return err
	}
	if err := oneOf("leads.store", c.Leads.Store, BackendMemory, BackendFile, BackendMongo); err != nil {
		return err
	}
	if err := oneOf("leads.limiter", c.Leads.Limiter, BackendNone, BackendLocal, BackendRedis); err != nil {
		return err
	}
	if c.Leads.Endpoint != "" {
		if err := errors.ValidateEndpoint(c.Leads.Endpoint); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "leads.endpoint")
		}
	}
	if c.Leads.RateBurst < 0 || c.Leads.RatePer < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "leads.rate_burst and leads.rate_per must be positive")
	}
	if c.Leads.RetryAttempts < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "leads.retry_attempts must be at least 1")
	}
	if c.UsesRedis() && c.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis.addr is required when site.cache or leads.limiter is %q", BackendRedis)
	}
	if c.Leads.Store == BackendMongo && c.Mongo.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "mongo.uri is required when leads.store is %q", BackendMongo)
	}
	return nil
}

// UsesRedis reports whether any component needs the Redis client.
func (c *Config) UsesRedis() bool {
	return c.Site.Cache == BackendRedis || c.Leads.Limiter == BackendRedis
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid %s: %q (valid: %s)", key, value, strings.Join(allowed, ", "))
}

// String renders the config as TOML with secrets masked, for `wallie serve --print-config`.
func (c *Config) String() string {
	masked := *c
	if masked.Leads.APIKey != "" {
		masked.Leads.APIKey = "****"
	}
	if masked.Redis.Password != "" {
		masked.Redis.Password = "****"
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(masked); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
