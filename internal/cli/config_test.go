package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/serdescan/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{".serde"}, cfg.Extensions)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, errors.Unlimited, cfg.MaxDiagnostics)
	assert.Equal(t, "json", cfg.Output.Format)

	// no paths yet
	assert.Error(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "serdescan.yaml")
	content := `
paths:
  - ./models/...
workers: 2
failFast: true
output:
  format: yaml
  file: out.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"./models/..."}, cfg.Paths)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.FailFast)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "out.yaml", cfg.Output.File)
	// unset keys keep their defaults
	assert.Equal(t, []string{".serde"}, cfg.Extensions)
	assert.Equal(t, errors.Unlimited, cfg.MaxDiagnostics)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		serr, ok := err.(errors.SerdeError)
		require.True(t, ok)
		assert.Equal(t, errors.FileSystemErrorCode, serr.ErrorCode())
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2"), 0644))

		_, err := LoadConfig(path)
		require.Error(t, err)
		serr, ok := err.(errors.SerdeError)
		require.True(t, ok)
		assert.Equal(t, errors.ConfigurationErrorCode, serr.ErrorCode())
		assert.Equal(t, path, serr.Location().File)
	})

	t.Run("empty path uses defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		count  int
	}{
		{"valid", func(c *Config) {}, 0},
		{"no paths", func(c *Config) { c.Paths = nil }, 1},
		{"zero workers", func(c *Config) { c.Workers = 0 }, 1},
		{"unlimited diagnostics", func(c *Config) { c.MaxDiagnostics = 0 }, 0},
		{"negative diagnostics", func(c *Config) { c.MaxDiagnostics = -1 }, 1},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, 1},
		{"extension without dot", func(c *Config) { c.Extensions = []string{"serde"} }, 1},
		{"no extensions", func(c *Config) { c.Extensions = nil }, 1},
		{"several problems", func(c *Config) {
			c.Paths = nil
			c.Workers = -1
			c.Output.Format = "toml"
		}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Paths = []string{"."}
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.count == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			multi, ok := err.(*errors.MultipleErrors)
			require.True(t, ok)
			assert.Equal(t, tt.count, multi.Count())
			assert.True(t, multi.HasCode(errors.ConfigurationErrorCode))
		})
	}
}
