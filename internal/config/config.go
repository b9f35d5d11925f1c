// Package config provides centralized configuration management for the
// exporter. It loads configuration from environment variables with sensible
// defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Salesforce SalesforceConfig
	Export     ExportConfig
	Database   DatabaseConfig
	Server     ServerConfig
	Logging    LoggingConfig
}

// SalesforceConfig holds the authenticated session handle. Login itself
// happens elsewhere; the exporter only consumes an instance URL plus a
// bearer token.
type SalesforceConfig struct {
	// InstanceURL is the org's instance base URL, e.g. https://na1.salesforce.com
	InstanceURL string `env:"SF_INSTANCE_URL"`

	// AccessToken is the session bearer credential. SF_SESSION_ID is
	// accepted as an alternative name.
	AccessToken string `env:"SF_ACCESS_TOKEN" envAlt:"SF_SESSION_ID"`

	// APIVersion is the REST API version (default: 65.0)
	APIVersion string `env:"SF_API_VERSION" default:"65.0"`

	// CallTimeout bounds each individual API call (default: 60s)
	CallTimeout time.Duration `env:"SF_CALL_TIMEOUT" default:"60s"`
}

// ExportConfig holds export run settings.
type ExportConfig struct {
	// OutputDir is where server-initiated exports are written (default: exports)
	OutputDir string `env:"EXPORT_OUTPUT_DIR" default:"exports"`

	// Objects is a comma-separated default object list for headless runs.
	Objects []string `env:"EXPORT_OBJECTS"`

	// ManifestPath points at a YAML manifest listing the objects to export.
	ManifestPath string `env:"EXPORT_MANIFEST"`
}

// DatabaseConfig holds the optional run-history database. When URL is
// empty, history recording is disabled entirely.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (optional)
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`
}

// ServerConfig holds HTTP server settings for serve mode.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0 for SSE)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + itoa(c.Port)
	}
	return c.Host + ":" + itoa(c.Port)
}

// HistoryEnabled reports whether a run-history database is configured.
func (c *Config) HistoryEnabled() bool {
	return c.Database.URL != ""
}

// itoa converts an int to string without importing strconv in this file.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var b [20]byte
	n := len(b)
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		n--
		b[n] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		n--
		b[n] = '-'
	}
	return string(b[n:])
}
