package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/bsplines/bspline"
	"github.com/katalvlaran/bsplines/encoder"
	"github.com/katalvlaran/bsplines/knots"
)

var (
	errInvalidOutput = errors.New("splinectl: output must be csv or yaml")
	errInvalidLog    = errors.New("splinectl: invalid log setting")
	errInterval      = errors.New("splinectl: interval needs exactly two values lo,hi")
)

// Config is the splinectl configuration. Values are layered: defaults, the
// YAML file given by --config, SPLINECTL_* environment variables, and finally
// command-line flags.
type Config struct {
	Order    int             `yaml:"order"`
	Knots    int             `yaml:"knots"`
	Interval *knots.Interval `yaml:"interval,omitempty"`
	Nullable bool            `yaml:"nullable"`
	Boundary string          `yaml:"boundary"`
	Workers  int             `yaml:"workers"`
	Output   string          `yaml:"output"`
	Log      LogConfig       `yaml:"log"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig mirrors encoder.DefaultConfig with one worker per CPU, CSV
// output and warn-level text logs.
func DefaultConfig() Config {
	enc := encoder.DefaultConfig()
	return Config{
		Order:    enc.Order,
		Knots:    enc.Knots,
		Boundary: enc.Boundary.String(),
		Workers:  runtime.NumCPU(),
		Output:   "csv",
		Log:      LogConfig{Level: "warn", Format: "text"},
	}
}

// LoadConfig reads defaults, then the optional YAML file at path, then the
// environment. Unknown YAML keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Order = getEnvInt("SPLINECTL_ORDER", c.Order)
	c.Knots = getEnvInt("SPLINECTL_KNOTS", c.Knots)
	c.Nullable = getEnvBool("SPLINECTL_NULLABLE", c.Nullable)
	c.Boundary = getEnvStr("SPLINECTL_BOUNDARY", c.Boundary)
	c.Workers = getEnvInt("SPLINECTL_WORKERS", c.Workers)
	c.Output = getEnvStr("SPLINECTL_OUTPUT", c.Output)
	c.Log.Level = getEnvStr("SPLINECTL_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvStr("SPLINECTL_LOG_FORMAT", c.Log.Format)
}

// applyFlags copies every flag the user actually set into cfg. Flags that
// the current command does not define are ignored.
func applyFlags(fs *pflag.FlagSet, cfg *Config) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && fs.Lookup(name) != nil && fs.Changed(name) {
			err = apply()
		}
	}
	set("order", func() (e error) { cfg.Order, e = fs.GetInt("order"); return })
	set("knots", func() (e error) { cfg.Knots, e = fs.GetInt("knots"); return })
	set("nullable", func() (e error) { cfg.Nullable, e = fs.GetBool("nullable"); return })
	set("boundary", func() (e error) { cfg.Boundary, e = fs.GetString("boundary"); return })
	set("workers", func() (e error) { cfg.Workers, e = fs.GetInt("workers"); return })
	set("output", func() (e error) { cfg.Output, e = fs.GetString("output"); return })
	set("log-level", func() (e error) { cfg.Log.Level, e = fs.GetString("log-level"); return })
	set("log-format", func() (e error) { cfg.Log.Format, e = fs.GetString("log-format"); return })
	set("interval", func() error {
		v, e := fs.GetFloat64Slice("interval")
		if e != nil {
			return e
		}
		if len(v) != 2 {
			return fmt.Errorf("--interval %v: %w", v, errInterval)
		}
		cfg.Interval = &knots.Interval{Lo: v[0], Hi: v[1]}
		return nil
	})

	return err
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := bspline.ParseBoundary(c.Boundary); err != nil {
		return err
	}
	switch c.Output {
	case "csv", "yaml":
	default:
		return fmt.Errorf("output %q: %w", c.Output, errInvalidOutput)
	}
	if _, err := newLogger(c.Log, io.Discard); err != nil {
		return err
	}

	return nil
}

// encoderConfig converts the CLI settings for encoder.New.
func (c Config) encoderConfig(logger *slog.Logger) (encoder.Config, error) {
	b, err := bspline.ParseBoundary(c.Boundary)
	if err != nil {
		return encoder.Config{}, err
	}

	return encoder.Config{
		Knots:    c.Knots,
		Order:    c.Order,
		Interval: c.Interval,
		Nullable: c.Nullable,
		Boundary: b,
		Workers:  c.Workers,
		Logger:   logger,
	}, nil
}

// newLogger builds a text or JSON slog logger writing to w.
func newLogger(lc LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", lc.Level, errInvalidLog)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch lc.Format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return nil, fmt.Errorf("log format %q: %w", lc.Format, errInvalidLog)
}

// getEnvStr returns environment variable value or default
func getEnvStr(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns environment variable as int or default
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvBool returns environment variable as bool or default
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultVal
}
