package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/toyz/serdescan/internal/descriptor"
	"github.com/toyz/serdescan/internal/utils"
)

const accounts = `
package com.bank;

@JsonTypeInfo(use = NAME, include = PROPERTY)
class Account {
  @JsonProperty("account_id") String id;
}

@JsonTypeName("checking")
class Checking extends Account { }
`

const ledger = `
package com.bank;

@JsonRootName("ledger")
class Ledger {
  @JsonFormat(pattern = "yyyy-MM-dd") LocalDate opened;
  @JsonAnyGetter List<String> extras;
}
`

type harness struct {
	runner *Runner
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness() *harness {
	h := &harness{}
	diags := utils.NewDiagnosticSystemWithWriters(utils.DiagnosticInfo, &h.stderr, &h.stderr)
	diags.SetColors(false)
	h.runner = NewRunner(diags, NewDiagnosticReporterWithWriter(false, &h.stderr), nil)
	h.runner.SetStdout(&h.stdout)
	return h
}

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func config(paths ...string) Config {
	cfg := DefaultConfig()
	cfg.Paths = paths
	cfg.Workers = 2
	return cfg
}

func TestRunner_Run(t *testing.T) {
	root := writeSources(t, map[string]string{
		"bank/accounts.serde": accounts,
		"bank/ledger.serde":   ledger,
	})
	h := newHarness()

	err := h.runner.Run(context.Background(), config(root+"/..."))
	require.NoError(t, err)

	summary := h.runner.GetSummary()
	assert.Equal(t, 2, summary.FilesScanned)
	assert.Equal(t, 3, summary.ClassesLoaded)
	assert.Equal(t, 3, summary.ClassesVisited)
	assert.Equal(t, 2, summary.Descriptors)
	assert.Equal(t, 1, summary.Diagnostics)
	assert.True(t, summary.Failed())
	assert.Equal(t, "stdout", summary.Output)
	assert.NotEmpty(t, summary.RunID)

	var bundle descriptor.Bundle
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &bundle))
	assert.Equal(t, summary.RunID, bundle.RunID)
	require.Len(t, bundle.Descriptors, 2)
	assert.Equal(t, "com.bank.Account", bundle.Descriptors[0].Class)
	assert.Equal(t, "com.bank.Checking", bundle.Descriptors[1].Class)
	assert.Equal(t, "checking", bundle.Descriptors[1].TypeName)

	require.Len(t, bundle.Diagnostics, 1)
	assert.Equal(t, "ShapeViolationError", bundle.Diagnostics[0].Code)
	assert.Equal(t, "com.bank.Ledger.extras", bundle.Diagnostics[0].Declaration)

	assert.Contains(t, h.stderr.String(), "[ShapeViolationError]")
}

func TestRunner_WritesYAMLFile(t *testing.T) {
	root := writeSources(t, map[string]string{"accounts.serde": accounts})
	out := filepath.Join(t.TempDir(), "descriptors.yaml")

	cfg := config(root)
	cfg.Output = OutputConfig{Format: "yaml", File: out}

	h := newHarness()
	require.NoError(t, h.runner.Run(context.Background(), cfg))

	summary := h.runner.GetSummary()
	assert.False(t, summary.Failed())
	assert.Equal(t, out, summary.Output)
	assert.Empty(t, h.stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var decoded struct {
		RunID       string `yaml:"runId"`
		Descriptors []struct {
			Class string `yaml:"class"`
		} `yaml:"descriptors"`
	}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, summary.RunID, decoded.RunID)
	require.Len(t, decoded.Descriptors, 2)
	assert.Equal(t, "com.bank.Account", decoded.Descriptors[0].Class)
}

func TestRunner_Errors(t *testing.T) {
	t.Run("invalid config", func(t *testing.T) {
		h := newHarness()
		err := h.runner.Run(context.Background(), DefaultConfig())
		assert.Error(t, err)
		assert.Empty(t, h.stdout.String())
	})

	t.Run("syntax error stops the run", func(t *testing.T) {
		root := writeSources(t, map[string]string{
			"good.serde": accounts,
			"bad.serde":  "package com.bank;\nclass Broken {\n  String ;;\n",
		})
		h := newHarness()

		err := h.runner.Run(context.Background(), config(root))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.serde")
		assert.Empty(t, h.stdout.String())
	})

	t.Run("cancelled", func(t *testing.T) {
		root := writeSources(t, map[string]string{"accounts.serde": accounts})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		h := newHarness()
		err := h.runner.Run(ctx, config(root))
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("no files is not an error", func(t *testing.T) {
		h := newHarness()
		require.NoError(t, h.runner.Run(context.Background(), config(t.TempDir())))

		assert.Equal(t, 0, h.runner.GetSummary().Descriptors)
		assert.Contains(t, h.stderr.String(), "No declaration files found")
	})
}
