// Package config loads webiq settings from defaults, an optional YAML file,
// a .env file and WEBIQ_* environment variables, in that order.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// HomeEnv overrides the state directory (~/.webiq). Used by tests.
	HomeEnv = "WEBIQ_HOME"
	// DefaultHomeDir is the state directory relative to the user's home.
	DefaultHomeDir = ".webiq"
	// DefaultBackendURL is the hosted scrape-and-chat backend.
	DefaultBackendURL = "https://schandel08-webiq-backend.hf.space"
	// FileName is the optional YAML config inside the state directory.
	FileName = "config.yaml"
)

// Config holds all runtime settings.
type Config struct {
	Home             string        `yaml:"-"`
	BackendURL       string        `yaml:"backend_url"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	HTTPTimeout      time.Duration `yaml:"http_timeout"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	LogLevel         string        `yaml:"log_level"`
	Particles        bool          `yaml:"particles"`
	ParticleCount    int           `yaml:"particle_count"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BackendURL:       DefaultBackendURL,
		PollInterval:     time.Second,
		HTTPTimeout:      30 * time.Second,
		HandshakeTimeout: 30 * time.Second,
		LogLevel:         "info",
		Particles:        true,
		ParticleCount:    120,
	}
}

// ResolveHome returns $WEBIQ_HOME or ~/.webiq.
func ResolveHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolve home directory")
	}
	return filepath.Join(userHome, DefaultHomeDir), nil
}

// Load builds the effective configuration. Callers apply their own
// overrides and then call Validate.
func Load() (Config, error) {
	cfg := Default()

	home, err := ResolveHome()
	if err != nil {
		return cfg, err
	}
	cfg.Home = home

	if err := cfg.loadFile(filepath.Join(home, FileName)); err != nil {
		return cfg, err
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("WEBIQ_BACKEND_URL")); v != "" {
		c.BackendURL = v
	}
	if v := strings.TrimSpace(os.Getenv("WEBIQ_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	durations := map[string]*time.Duration{
		"WEBIQ_POLL_INTERVAL":     &c.PollInterval,
		"WEBIQ_HTTP_TIMEOUT":      &c.HTTPTimeout,
		"WEBIQ_HANDSHAKE_TIMEOUT": &c.HandshakeTimeout,
	}
	for name, dst := range durations {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", name)
		}
		*dst = d
	}
	if v := strings.TrimSpace(os.Getenv("WEBIQ_PARTICLES")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "invalid WEBIQ_PARTICLES")
		}
		c.Particles = b
	}
	if v := strings.TrimSpace(os.Getenv("WEBIQ_PARTICLE_COUNT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "invalid WEBIQ_PARTICLE_COUNT")
		}
		c.ParticleCount = n
	}
	return nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return errors.Errorf("backend url %q must start with http:// or https://", c.BackendURL)
	}
	if c.PollInterval <= 0 {
		return errors.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.ParticleCount < 0 {
		return errors.Errorf("particle count must not be negative, got %d", c.ParticleCount)
	}
	return nil
}
