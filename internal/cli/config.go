package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/cybertec-postgresql/pgscript/internal/database"
	"github.com/cybertec-postgresql/pgscript/internal/splitter"
	"github.com/cybertec-postgresql/pgscript/pkg/types"
	"gopkg.in/yaml.v3"
)

// Config is an alias for the shared Config type
type Config = types.Config

// ConfigError is an alias for the shared ConfigError type
type ConfigError = types.ConfigError

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	ConnectionString: "",
	EnvFile:          database.DefaultEnvFile,
	Timeout:          0,
	Strict:           false,
	NestedComments:   false,
	DryRun:           false,
	Verbose:          false,
}

// NewConfig returns a copy of DefaultConfig
func NewConfig() *Config {
	c := DefaultConfig
	return &c
}

// fileConfig mirrors the YAML config file. Pointers tell "unset" apart
// from false.
type fileConfig struct {
	Connection     string `yaml:"connection"`
	EnvFile        string `yaml:"env_file"`
	Timeout        string `yaml:"timeout"`
	Strict         *bool  `yaml:"strict"`
	NestedComments *bool  `yaml:"nested_comments"`
	Verbose        *bool  `yaml:"verbose"`
}

// LoadConfigFile overlays values from a YAML file onto c
func LoadConfigFile(c *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{
			Field:      "config",
			Value:      path,
			Message:    fmt.Sprintf("failed to read config file: %v", err),
			Suggestion: "Check the --config path.",
		}
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return &ConfigError{
			Field:      "config",
			Value:      path,
			Message:    fmt.Sprintf("invalid config file: %v", err),
			Suggestion: "The config file must be YAML with keys connection, env_file, timeout, strict, nested_comments, verbose.",
		}
	}

	if fc.Connection != "" {
		c.ConnectionString = fc.Connection
	}
	if fc.EnvFile != "" {
		c.EnvFile = fc.EnvFile
	}
	if fc.Timeout != "" {
		timeout, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return &ConfigError{
				Field:      "timeout",
				Value:      fc.Timeout,
				Message:    fmt.Sprintf("invalid timeout in %s: %v", path, err),
				Suggestion: "Use a Go duration such as 30s or 2m.",
			}
		}
		c.Timeout = timeout
	}
	if fc.Strict != nil {
		c.Strict = *fc.Strict
	}
	if fc.NestedComments != nil {
		c.NestedComments = *fc.NestedComments
	}
	if fc.Verbose != nil {
		c.Verbose = *fc.Verbose
	}
	return nil
}

// ApplyFlagsToConfig applies command-line flag values to configuration.
// Boolean flags can only switch features on.
func ApplyFlagsToConfig(c *Config, connection, envFile string, timeout time.Duration,
	strict, nestedComments, dryRun, verbose bool) {

	if connection != "" {
		c.ConnectionString = connection
	}
	if envFile != "" {
		c.EnvFile = envFile
	}
	if timeout != 0 {
		c.Timeout = timeout
	}
	if strict {
		c.Strict = true
	}
	if nestedComments {
		c.NestedComments = true
	}
	if dryRun {
		c.DryRun = true
	}
	if verbose {
		c.Verbose = true
	}
}

// ResolveConnection fills in the connection string from DATABASE_URL or the
// env file when neither a flag nor the config file provided one.
func ResolveConnection(c *Config, lookup func(string) (string, bool)) error {
	if c.ConnectionString != "" {
		return nil
	}
	connString, err := database.ResolveConnectionString(lookup, c.EnvFile)
	if err != nil {
		return err
	}
	c.ConnectionString = connString
	return nil
}

// SplitOptions returns the scanner options selected by the configuration
func SplitOptions(c *Config) []splitter.Option {
	var opts []splitter.Option
	if c.NestedComments {
		opts = append(opts, splitter.WithNestedComments())
	}
	return opts
}
