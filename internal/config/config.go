// Package config loads saati's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	ModeSQLite = "sqlite"
	ModeGuest  = "guest"
)

type Config struct {
	Storage struct {
		Mode string `yaml:"mode"`
		Path string `yaml:"path"`
	} `yaml:"storage"`

	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`

	Report struct {
		Granularity string `yaml:"granularity"`
	} `yaml:"report"`
}

// Default returns the configuration used when no file exists.
// An empty storage path means store.DefaultDBPath.
func Default() *Config {
	cfg := &Config{}
	cfg.Storage.Mode = ModeSQLite
	cfg.Log.Level = "warn"
	cfg.Report.Granularity = "day"
	return cfg
}

// DefaultPath returns ~/.config/saati/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "saati", "config.yaml"), nil
}

// Load reads path, substituting ${VAR} placeholders from the environment,
// and applies SAATI_* overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal([]byte(expandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func expandEnv(content string) string {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		content = strings.ReplaceAll(content, "${"+pair[0]+"}", pair[1])
	}
	return content
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SAATI_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("SAATI_GUEST"); v != "" {
		guest, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SAATI_GUEST value: %w", err)
		}
		if guest {
			c.Storage.Mode = ModeGuest
		} else {
			c.Storage.Mode = ModeSQLite
		}
	}
	if v := os.Getenv("SAATI_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Storage.Mode {
	case ModeSQLite, ModeGuest:
	case "":
		c.Storage.Mode = ModeSQLite
	default:
		return fmt.Errorf("storage.mode: unknown mode %q", c.Storage.Mode)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

func (c *Config) Guest() bool { return c.Storage.Mode == ModeGuest }

// ParseLevel maps debug, info, warn and error to slog levels. The empty
// string means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level: unknown level %q", s)
}

// Logger builds the text logger described by the log section. When a log
// file is configured it is opened for append and returned as the closer.
// Otherwise output goes to fallback.
func (c *Config) Logger(fallback io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	w := fallback
	var closer io.Closer = nopCloser{}
	if c.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closer = f, f
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
