package app

import (
	"fmt"
	"os"
	"strconv"

	"github.com/raysh454/harplay/internal/config"
	"github.com/raysh454/harplay/internal/filter"
	"github.com/raysh454/harplay/internal/logging"
	"github.com/raysh454/harplay/internal/server"
)

// Environment variables that override file configuration.
const (
	EnvLogLevel   = "HARPLAY_LOG_LEVEL"
	EnvLogFormat  = "HARPLAY_LOG_FORMAT"
	EnvListenAddr = "HARPLAY_LISTEN_ADDR"
	EnvSkipStatic = "HARPLAY_SKIP_STATIC"
)

// Config is the runtime configuration shared by the CLI and the server.
type Config struct {
	Filters FilterConfig  `json:"filters"`
	Logging LoggingConfig `json:"logging"`
	Server  server.Config `json:"server"`
}

// FilterConfig is the declarative form of filter.Rules.
type FilterConfig struct {
	// Allow and Deny are full-match regular expressions over the request URL.
	Allow []string `json:"allow"`
	Deny  []string `json:"deny"`
	Hosts []string `json:"hosts"`

	// SkipStatic drops stylesheets, scripts, images and fonts.
	SkipStatic bool `json:"skip_static"`
}

// BuildRules compiles the filter configuration.
func (f FilterConfig) BuildRules() (filter.Rules, error) {
	return filter.Build(f.Allow, f.Deny, f.Hosts, f.SkipStatic)
}

type LoggingConfig struct {
	Level   string `json:"level"`
	Format  string `json:"format"`
	NoColor bool   `json:"no_color"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
		Server: server.Config{
			ListenAddr:        ":8080",
			MaxBodyBytes:      server.DefaultMaxBodyBytes,
			RequestsPerSecond: 5,
			Burst:             10,
		},
	}
}

// LoadConfig starts from DefaultConfig, merges the JSON5 file at path (and
// its .local override) when present, then applies environment overrides.
// An empty path skips the file step.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := config.MergeInto(cfg, path); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from HARPLAY_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookup(EnvListenAddr); ok && v != "" {
		c.Server.ListenAddr = v
	}
	if v, ok := lookup(EnvSkipStatic); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSkipStatic, err)
		}
		c.Filters.SkipStatic = b
	}
	return nil
}
