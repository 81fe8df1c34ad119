package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Squwid/squidcodec/bencode"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvPath, "")

	cfg, exists, err := Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, bencode.DefaultMaxDepth, cfg.Decoder().MaxDepth)

	t.Setenv(EnvPath, filepath.Join(t.TempDir(), "missing.toml"))
	cfg, exists, err = Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	cfg, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "open config")
	assert.False(t, exists)
	assert.Nil(t, cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, "max_depth = 64\nlog_level = \"DEBUG\"\nlog_format = \"json\"\n")

	cfg, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 64, cfg.MaxDepth)
	assert.Equal(t, "debug", cfg.LogLevel)

	logger := cfg.Logger()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "max_depth = 8\n")
	t.Setenv(EnvPath, path)

	cfg, exists, err := Load("")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 8, cfg.Decoder().MaxDepth)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]struct {
		contents string
		errText  string
	}{
		"unknown field": {contents: "max_dept = 3\n", errText: "parse config"},
		"bad toml":      {contents: "max_depth = \n", errText: "parse config"},
		"zero depth":    {contents: "max_depth = 0\n", errText: "max_depth"},
		"huge depth":    {contents: "max_depth = 1000000\n", errText: "max_depth"},
		"bad level":     {contents: "log_level = \"loud\"\n", errText: "log_level"},
		"bad format":    {contents: "log_format = \"xml\"\n", errText: "log_format"},
		"wrong type":    {contents: "max_depth = \"deep\"\n", errText: "parse config"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, _, err := Load(writeConfig(t, test.contents))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.errText)
			assert.Nil(t, cfg)
		})
	}
}
