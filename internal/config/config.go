package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"lwwset/internal/clock"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the node configuration.
type Config struct {
	NodeID      string `yaml:"node_id"`
	ListenAddr  string `yaml:"listen_addr"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
	// Clock selects the timestamp source: "wall" or "lamport".
	Clock string `yaml:"clock"`
	// Epoch, when set, fixes the set's baseline timestamp. Otherwise the
	// baseline is read from the clock at startup.
	Epoch   *int64        `yaml:"epoch,omitempty"`
	Log     LogConfig     `yaml:"log"`
	Trace   bool          `yaml:"trace,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	// File, when set, receives JSON logs in addition to stderr.
	File string `yaml:"file,omitempty"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML configuration file. Variables from a .env file in the
// working directory are loaded first and ${VAR} references are expanded.
// A missing path yields the defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.NodeID == "" {
		c.NodeID = "node-" + uuid.NewString()[:8]
	}
	if c.ListenAddr == "" {
		c.ListenAddr = "127.0.0.1:50051"
	}
	if c.Clock == "" {
		c.Clock = string(clock.KindWall)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.NodeID) == "" {
		return fmt.Errorf("%w: node_id cannot be empty", ErrInvalid)
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("%w: listen_addr %q: %v", ErrInvalid, c.ListenAddr, err)
	}
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			return fmt.Errorf("%w: metrics_addr %q: %v", ErrInvalid, c.MetricsAddr, err)
		}
	}
	if _, err := clock.ParseKind(c.Clock); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ClockKind returns the parsed clock kind.
func (c *Config) ClockKind() clock.Kind {
	kind, err := clock.ParseKind(c.Clock)
	if err != nil {
		return clock.KindWall
	}
	return kind
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
