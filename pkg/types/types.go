package types

import (
	"fmt"
	"strings"
	"time"
)

// Config holds runtime configuration combining a config file, flags, environment variables, and defaults
type Config struct {
	// PostgreSQL connection
	ConnectionString string // URI or key=value; resolved from DATABASE_URL / env file when empty
	EnvFile          string // .env-style file consulted for DATABASE_URL and SUPABASE_DB_*

	// Execution
	Timeout        time.Duration // Per-statement timeout (0 = none)
	Strict         bool          // Refuse scripts ending inside a literal or comment
	NestedComments bool          // Treat /* */ comments as nesting
	DryRun         bool          // Apply into a scratch database that is dropped afterwards

	// Output
	Verbose bool // Enable debug logging
}

// Validate checks the configuration once the connection string has been resolved
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ConnectionString) == "" {
		return &ConfigError{
			Field:      "connection",
			Value:      c.ConnectionString,
			Message:    "no PostgreSQL connection string configured",
			Suggestion: "Pass --connection, set DATABASE_URL, or add DATABASE_URL to " + c.envFileName(),
		}
	}
	if c.Timeout < 0 {
		return &ConfigError{
			Field:      "timeout",
			Value:      c.Timeout,
			Message:    fmt.Sprintf("invalid timeout: %v", c.Timeout),
			Suggestion: "Use a positive duration such as 30s, or 0 to disable the per-statement timeout.",
		}
	}
	return nil
}

func (c *Config) envFileName() string {
	if c.EnvFile == "" {
		return ".env.local"
	}
	return c.EnvFile
}

// ConfigError represents an invalid or missing configuration value
type ConfigError struct {
	Field      string
	Value      any
	Message    string
	Suggestion string
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("configuration error (%s): %s", e.Field, e.Message)
	if e.Suggestion != "" {
		msg += "\nSuggestion: " + e.Suggestion
	}
	return msg
}
