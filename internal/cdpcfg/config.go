// Package cdpcfg handles cdpmux configuration loading.
package cdpcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order used when
// FindConfig is given no explicit path: ./cdpmux.yaml,
// ~/.config/cdpmux/config.yaml, /etc/cdpmux/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"cdpmux.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "cdpmux", "config.yaml"))
	}

	paths = append(paths, "/etc/cdpmux/config.yaml")
	return paths
}

// searchPathsFunc is a var so tests can substitute a fixed set of paths
// instead of touching the real machine's config locations.
var searchPathsFunc = DefaultSearchPaths

// FindConfig locates a config file. If explicit is non-empty, it must
// exist. Otherwise, searches searchPathsFunc and returns the first
// that exists.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	paths := searchPathsFunc()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", paths)
}

// Config holds cdpmux's configuration.
type Config struct {
	// DebuggingURL is the browser's remote-debugging endpoint, either
	// an http:// base (resolved via /json/version) or a ws:// URL
	// pointing directly at the browser-level WebSocket.
	DebuggingURL string `yaml:"debugging_url"`

	// EventBufferSize is a BoundedQueue capacity setting (default 64).
	// Listen and WaitFor do not read it; each call takes its own
	// bufferSize argument.
	EventBufferSize int `yaml:"event_buffer_size"`

	// DialRetries and DialRetryDelay default to 10 and 1s when zero.
	// Bootstrap does not read them: it always uses the
	// cdp.DialRetries/cdp.DialRetryDelay constants.
	DialRetries    int           `yaml:"dial_retries"`
	DialRetryDelay time.Duration `yaml:"dial_retry_delay"`

	LogLevel string `yaml:"log_level"`
}

// Load reads configuration from a YAML file, expands environment
// variables, and applies defaults for any unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.EventBufferSize == 0 {
		c.EventBufferSize = 64
	}
	if c.DialRetries == 0 {
		c.DialRetries = 10
	}
	if c.DialRetryDelay == 0 {
		c.DialRetryDelay = time.Second
	}
}

// Validate checks that the configuration is internally consistent. It
// runs after applyDefaults, so it can assume defaults are populated.
func (c *Config) Validate() error {
	if c.DebuggingURL == "" {
		return fmt.Errorf("debugging_url is required")
	}
	if c.EventBufferSize < 1 {
		return fmt.Errorf("event_buffer_size must be at least 1")
	}
	if c.LogLevel != "" {
		if _, err := ParseLogLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// Default returns a default configuration pointed at the conventional
// local debugging port. All defaults are already applied.
func Default() *Config {
	cfg := &Config{DebuggingURL: "http://localhost:9222"}
	cfg.applyDefaults()
	return cfg
}
