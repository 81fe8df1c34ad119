package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/Squwid/squidcodec/bencode"
)

// EnvPath names the environment variable consulted when no --config flag is given
const EnvPath = "SQUIDCODEC_CONFIG"

// Config holds the settings shared by every command
type Config struct {
	MaxDepth  int    `toml:"max_depth"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Default returns the configuration used when no file is present
func Default() Config {
	return Config{
		MaxDepth:  bencode.DefaultMaxDepth,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load parses and validates the configuration at path. An empty path falls back
// to $SQUIDCODEC_CONFIG, where a missing file yields the defaults. A path given
// explicitly must exist. The returned bool reports whether a file was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = strings.TrimSpace(os.Getenv(EnvPath))
	}

	exists := false
	if path != "" {
		file, err := os.Open(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return nil, false, fmt.Errorf("open config: %w", err)
		default:
			defer file.Close()
			exists = true

			decoder := toml.NewDecoder(file)
			decoder.DisallowUnknownFields()
			if err := decoder.Decode(&cfg); err != nil {
				return nil, false, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, exists, nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

// Validate checks that every setting is usable
func (c *Config) Validate() error {
	if c.MaxDepth < 1 || c.MaxDepth > 100000 {
		return fmt.Errorf("max_depth must be between 1 and 100000, got %d", c.MaxDepth)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Decoder returns a bencode decoder honouring MaxDepth
func (c *Config) Decoder() bencode.Decoder {
	return bencode.Decoder{MaxDepth: c.MaxDepth}
}

// Logger builds the logger described by the configuration, writing to stderr
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	// Validate has already checked the level
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger
}
