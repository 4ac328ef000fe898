// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config holds every setting of the server process
type Config struct {
	Host string `env:"PLAYMONEY_HOST" envDefault:""`
	Port int    `env:"PLAYMONEY_PORT" envDefault:"8080"`

	// StorageType selects the archive backend
	StorageType string `env:"PLAYMONEY_STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"PLAYMONEY_REDIS_URL"`
	// ArchiveTTL is how long a Redis-archived summary is kept
	ArchiveTTL time.Duration `env:"PLAYMONEY_ARCHIVE_TTL" envDefault:"168h"`
	// ArchiveAdminToken authorises deleting summaries; unset leaves the archive read-only
	ArchiveAdminToken string `env:"PLAYMONEY_ARCHIVE_ADMIN_TOKEN"`

	// AllowedOrigins feeds both the CORS allow-list and the WebSocket origin check
	AllowedOrigins []string `env:"PLAYMONEY_ALLOWED_ORIGINS" envSeparator:","`
	// IdleTimeout closes live connections that send nothing, not even a heartbeat
	IdleTimeout    time.Duration `env:"PLAYMONEY_IDLE_TIMEOUT" envDefault:"2m"`
	SendBufferSize int           `env:"PLAYMONEY_SEND_BUFFER" envDefault:"256"`

	LogLevel slog.Level `env:"PLAYMONEY_LOG_LEVEL" envDefault:"INFO"`
}

// Load reads the configuration from the environment and validates it
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv parses environment variables into target using env tags
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks combinations the tags alone cannot express
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("PLAYMONEY_REDIS_URL required when PLAYMONEY_STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid PLAYMONEY_STORAGE_TYPE %q: must be %q or %q",
			c.StorageType, StorageTypeMemory, StorageTypeRedis)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PLAYMONEY_PORT %d", c.Port)
	}
	if c.SendBufferSize <= 0 {
		return fmt.Errorf("invalid PLAYMONEY_SEND_BUFFER %d", c.SendBufferSize)
	}
	return nil
}

// Addr returns the listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// OriginHosts returns the allowed origins as host patterns for the WebSocket
// origin check. An empty allow-list admits every origin.
func (c Config) OriginHosts() []string {
	if len(c.AllowedOrigins) == 0 {
		return []string{"*"}
	}
	hosts := make([]string, 0, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
			continue
		}
		hosts = append(hosts, origin)
	}
	return hosts
}
