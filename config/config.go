// Package config handles solforge daemon configuration.
//
// Values are resolved in order of increasing precedence:
//   - built-in defaults
//   - the key = value config file
//   - SOLFORGE_* environment variables (a .env file is loaded first)
//   - command-line flags
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds the daemon's runtime configuration.
type Config struct {
	// HTTP server
	Server ServerConfig

	// Logging
	Log LogConfig

	// Request/response journal
	Journal JournalConfig

	// Prometheus metrics
	Metrics MetricsConfig

	// Paths resolved from flags (not persisted in the config file).
	ConfigFile string
	EnvFile    string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `conf:"server.addr"`
	Port         int           `conf:"server.port"`
	AllowedIPs   []string      `conf:"server.allowed"` // Empty = allow all.
	CORSOrigins  []string      `conf:"server.cors"`    // Allowed CORS origins ("*" = all).
	ReadTimeout  time.Duration `conf:"server.read_timeout"`
	WriteTimeout time.Duration `conf:"server.write_timeout"`
}

// ListenAddr returns the host:port the server binds to.
func (s ServerConfig) ListenAddr() string {
	return net.JoinHostPort(s.Addr, strconv.Itoa(s.Port))
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// JournalConfig controls the append-only request/response journal.
type JournalConfig struct {
	Enabled bool   `conf:"journal.enabled"`
	File    string `conf:"journal.file"`
}

// MetricsConfig controls the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `conf:"metrics.enabled"`
}
