package cli

import (
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/toyz/serdescan/internal/descriptor"
	"github.com/toyz/serdescan/internal/errors"
)

// DefaultExtension is the declaration file extension scanned by default
const DefaultExtension = ".serde"

// OutputConfig controls where and how descriptors are written
type OutputConfig struct {
	// Format is json or yaml
	Format string `yaml:"format"`

	// File receives the bundle; empty or "-" means stdout
	File string `yaml:"file"`
}

// Config holds the configuration for one analysis run
type Config struct {
	// Paths are files or directories to scan. Supports "./..." patterns.
	Paths []string `yaml:"paths"`

	// Extensions selects declaration files when scanning directories
	Extensions []string `yaml:"extensions"`

	// Workers bounds how many classes are analyzed at once
	Workers int `yaml:"workers"`

	// MaxDiagnostics bounds how many diagnostics are retained and printed; 0 keeps all
	MaxDiagnostics int `yaml:"maxDiagnostics"`

	Output OutputConfig `yaml:"output"`

	// FailFast stops starting new class visits after the first failing class
	FailFast bool `yaml:"failFast"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `yaml:"-"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() Config {
	return Config{
		Extensions:     []string{DefaultExtension},
		Workers:        runtime.NumCPU(),
		MaxDiagnostics: errors.Unlimited,
		Output:         OutputConfig{Format: string(descriptor.FormatJSON)},
	}
}

// LoadConfig reads a YAML configuration file over the defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.WrapFileSystemError("read", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ConfigurationErrorCode, "invalid configuration file "+path, err).
			WithLocation(errors.SourceLocation{File: path})
	}
	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	all := errors.NewMultipleErrors()

	if len(c.Paths) == 0 {
		all.Add(errors.New(errors.ConfigurationErrorCode, "at least one path is required").
			WithSuggestion("Pass paths as arguments or set 'paths' in the configuration file"))
	}
	if c.Workers < 1 {
		all.Add(errors.Newf(errors.ConfigurationErrorCode, "workers must be at least 1, got %d", c.Workers))
	}
	if c.MaxDiagnostics < 0 {
		all.Add(errors.Newf(errors.ConfigurationErrorCode, "maxDiagnostics cannot be negative, got %d", c.MaxDiagnostics))
	}
	if _, err := descriptor.ParseFormat(c.Output.Format); err != nil {
		all.Add(err.(errors.SerdeError))
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			all.Add(errors.Newf(errors.ConfigurationErrorCode, "extension '%s' must start with a dot", ext))
		}
	}
	if len(c.Extensions) == 0 {
		all.Add(errors.New(errors.ConfigurationErrorCode, "at least one extension is required"))
	}

	return all.ErrOrNil()
}
