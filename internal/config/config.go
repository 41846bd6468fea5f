// Package config loads settings for the remix binaries from defaults, an
// optional YAML file and REMIX_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	remix "github.com/tphakala/go-audio-remix"
)

// EnvConfigPath names the variable holding the YAML config path.
const EnvConfigPath = "REMIX_CONFIG"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all runtime configuration.
type Config struct {
	// Server
	ListenAddr     string `yaml:"listen_addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`

	// Output
	ExportFormat string `yaml:"export_format"` // ogg, opus or wav
	OpusBitrate  int    `yaml:"opus_bitrate"`  // bits per second
	OutputDir    string `yaml:"output_dir"`

	// Processing
	Quality     string `yaml:"quality"` // quick, low, medium, high
	Workers     int    `yaml:"workers"` // parallel files in batch mode
	PresetsFile string `yaml:"presets_file"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // text or json
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ListenAddr:     ":8080",
		MaxUploadBytes: 64 << 20,
		ExportFormat:   "ogg",
		OpusBitrate:    remix.DefaultOpusBitrate,
		OutputDir:      ".",
		Quality:        remix.DefaultQuality.String(),
		Workers:        runtime.NumCPU(),
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load builds the configuration. path may be empty, in which case
// REMIX_CONFIG is consulted; a leading ~ is expanded. Environment
// variables override the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	if err := cfg.expandPaths(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("failed to expand config path %q: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, expanded, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ListenAddr = envStr("REMIX_LISTEN_ADDR", c.ListenAddr)
	c.MaxUploadBytes = envInt64("REMIX_MAX_UPLOAD_BYTES", c.MaxUploadBytes)
	c.ExportFormat = envStr("REMIX_EXPORT_FORMAT", c.ExportFormat)
	c.OpusBitrate = envInt("REMIX_OPUS_BITRATE", c.OpusBitrate)
	c.OutputDir = envStr("REMIX_OUTPUT_DIR", c.OutputDir)
	c.Quality = envStr("REMIX_QUALITY", c.Quality)
	c.Workers = envInt("REMIX_WORKERS", c.Workers)
	c.PresetsFile = envStr("REMIX_PRESETS_FILE", c.PresetsFile)
	c.LogLevel = envStr("REMIX_LOG_LEVEL", c.LogLevel)
	c.LogFormat = envStr("REMIX_LOG_FORMAT", c.LogFormat)
}

func (c *Config) expandPaths() error {
	var err error
	if c.OutputDir, err = homedir.Expand(c.OutputDir); err != nil {
		return fmt.Errorf("%w: output_dir: %w", ErrInvalidConfig, err)
	}
	if c.PresetsFile, err = homedir.Expand(c.PresetsFile); err != nil {
		return fmt.Errorf("%w: presets_file: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("%w: listen_addr is empty", ErrInvalidConfig)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: max_upload_bytes must be positive: %d", ErrInvalidConfig, c.MaxUploadBytes)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1: %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := c.Exporter(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json: %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// RemixQuality parses the quality setting.
func (c Config) RemixQuality() (remix.Quality, error) {
	return remix.ParseQuality(c.Quality)
}

// Exporter returns the configured output encoder.
func (c Config) Exporter() (remix.Exporter, error) {
	q, err := c.RemixQuality()
	if err != nil {
		return nil, err
	}
	return remix.ExporterFor(c.ExportFormat, c.OpusBitrate, q)
}

// Presets returns the preset table from PresetsFile, or the built-in one.
func (c Config) Presets() (*remix.Presets, error) {
	if c.PresetsFile == "" {
		return remix.DefaultPresets(), nil
	}
	return remix.LoadPresetsFile(c.PresetsFile)
}

// RemixConfig assembles the library configuration.
func (c Config) RemixConfig(log logrus.FieldLogger) (remix.Config, error) {
	q, err := c.RemixQuality()
	if err != nil {
		return remix.Config{}, err
	}
	exp, err := c.Exporter()
	if err != nil {
		return remix.Config{}, err
	}
	return remix.Config{Quality: q, Exporter: exp, Logger: log}, nil
}

// NewLogger builds a logger from LogLevel and LogFormat.
func (c Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	log := logrus.New()
	log.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
