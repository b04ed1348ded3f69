package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig selects the persistent store and how to reach it.
// For sqlite the URL is a file path or a modernc DSN such as "file:tasks.db".
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL    string `mapstructure:"url" validate:"required"`
}

// CacheConfig selects the task cache backend.
type CacheConfig struct {
	Backend       string   `mapstructure:"backend" validate:"required,oneof=memcache memory none"`
	MemcacheAddrs []string `mapstructure:"memcache_addrs" validate:"required_if=Backend memcache,dive,hostname_port"`
	// TTLSeconds of 0 means entries never expire.
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"gte=0"`
}

// TTL returns the entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RateLimitConfig configures the fixed-window per-IP limiter.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests" validate:"required_if=Enabled true,gte=0"`
	Window   time.Duration `mapstructure:"window" validate:"required_if=Enabled true,gte=0"`
}
