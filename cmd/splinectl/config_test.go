package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/bsplines/bspline"
	"github.com/katalvlaran/bsplines/knots"
)

// writeFile creates name under a temp dir with the given content.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Order)
	assert.Equal(t, 10, cfg.Knots)
	assert.Equal(t, "reject", cfg.Boundary)
	assert.Equal(t, "csv", cfg.Output)
	assert.Positive(t, cfg.Workers)
	assert.Nil(t, cfg.Interval)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeFile(t, "splinectl.yaml", `
order: 2
knots: 5
nullable: true
boundary: clamp
interval: {lo: -1, hi: 60}
log:
  level: debug
  format: json
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Order)
	assert.Equal(t, 5, cfg.Knots)
	assert.True(t, cfg.Nullable)
	assert.Equal(t, "clamp", cfg.Boundary)
	assert.Equal(t, &knots.Interval{Lo: -1, Hi: 60}, cfg.Interval)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, "csv", cfg.Output, "unset keys keep defaults")
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Knots)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeFile(t, "typo.yaml", "ordr: 3\n"))
	assert.Error(t, err, "unknown keys are rejected")
}

// TestConfig_Precedence checks defaults < file < environment < flags.
func TestConfig_Precedence(t *testing.T) {
	path := writeFile(t, "splinectl.yaml", "order: 2\nknots: 5\nboundary: clamp\n")
	t.Setenv("SPLINECTL_KNOTS", "7")
	t.Setenv("SPLINECTL_BOUNDARY", "zero")
	t.Setenv("SPLINECTL_NULLABLE", "yes")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Order, "file")
	assert.Equal(t, 7, cfg.Knots, "env over file")
	assert.Equal(t, "zero", cfg.Boundary, "env over file")
	assert.True(t, cfg.Nullable)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addKnotFlags(fs, DefaultConfig())
	fs.String("boundary", "reject", "")
	require.NoError(t, fs.Parse([]string{"--knots", "4", "--interval=-1,60"}))
	require.NoError(t, applyFlags(fs, &cfg))

	assert.Equal(t, 4, cfg.Knots, "flag over env")
	assert.Equal(t, "zero", cfg.Boundary, "unset flag keeps env value")
	assert.Equal(t, &knots.Interval{Lo: -1, Hi: 60}, cfg.Interval)
}

func TestApplyFlags_BadInterval(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addKnotFlags(fs, DefaultConfig())
	require.NoError(t, fs.Parse([]string{"--interval", "1,2,3"}))

	cfg := DefaultConfig()
	assert.ErrorIs(t, applyFlags(fs, &cfg), errInterval)
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Config)
		want error
	}{
		{"boundary", func(c *Config) { c.Boundary = "wrap" }, bspline.ErrInvalidBoundary},
		{"output", func(c *Config) { c.Output = "xml" }, errInvalidOutput},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, errInvalidLog},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, errInvalidLog},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.edit(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SPLINECTL_TEST_INT", "not-a-number")
	t.Setenv("SPLINECTL_TEST_BOOL", "off")

	assert.Equal(t, 3, getEnvInt("SPLINECTL_TEST_INT", 3))
	assert.False(t, getEnvBool("SPLINECTL_TEST_BOOL", true))
	assert.Equal(t, "x", getEnvStr("SPLINECTL_TEST_UNSET", "x"))
}
