package cli

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/toyz/serdescan/internal/errors"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type subject struct {
	name string
	loc  errors.SourceLocation
}

func (s subject) Description() string                   { return s.name }
func (s subject) SourceLocation() errors.SourceLocation { return s.loc }

func TestDiagnosticReporter_ReportDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewDiagnosticReporterWithWriter(false, &buf)

	diags := []*errors.Diagnostic{
		errors.NewDiagnostic(errors.ShapeViolationErrorCode, "a Map is required",
			subject{"com.acme.B.extras", errors.SourceLocation{File: "b.serde", Line: 4, Column: 3}}),
		errors.NewDiagnostic(errors.ExplicitErrorCode, "not supported",
			subject{"com.acme.A", errors.SourceLocation{File: "a.serde", Line: 9}}),
		errors.NewDiagnostic(errors.PatternFormatErrorCode, "bad pattern", subject{"com.acme.C.when", errors.SourceLocation{}}),
	}
	reporter.ReportDiagnostics(diags, 2)

	out := buf.String()
	assert.Contains(t, out, "b.serde:4:3: [ShapeViolationError] a Map is required (com.acme.B.extras)")
	assert.Contains(t, out, "a.serde:9: [ExplicitError] not supported (com.acme.A)")
	assert.Contains(t, out, "com.acme.C.when: [PatternFormatError] bad pattern")
	assert.Contains(t, out, "... and 2 more diagnostics not shown")

	// sorted by location, unlocated ones first
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("com.acme.C.when")), bytes.Index(buf.Bytes(), []byte("a.serde")))
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("a.serde")), bytes.Index(buf.Bytes(), []byte("b.serde")))
}

func TestDiagnosticReporter_ReportError(t *testing.T) {
	loc := errors.SourceLocation{File: "shapes.serde", Line: 3, Column: 7}

	t.Run("single error", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewDiagnosticReporterWithWriter(false, &buf)

		err := errors.New(errors.SyntaxErrorCode, "unexpected token \"}\"").
			WithLocation(loc).
			WithSuggestion("Check for a missing semicolon")
		reporter.ReportError(err)

		out := buf.String()
		assert.Contains(t, out, "SyntaxError")
		assert.Contains(t, out, "Message: unexpected token \"}\"\n")
		assert.Contains(t, out, "shapes.serde:3:7")
		assert.Contains(t, out, "Check for a missing semicolon")
	})

	t.Run("multiple errors", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewDiagnosticReporterWithWriter(false, &buf)

		all := errors.NewMultipleErrors()
		all.Add(errors.New(errors.ConfigurationErrorCode, "at least one path is required"))
		all.Add(errors.New(errors.ConfigurationErrorCode, "workers must be at least 1, got 0"))
		reporter.ReportError(all)

		out := buf.String()
		assert.Contains(t, out, "2 problems found")
		assert.Contains(t, out, "at least one path is required")
		assert.Contains(t, out, "workers must be at least 1")
	})

	t.Run("cause only in verbose mode", func(t *testing.T) {
		cause := fmt.Errorf("permission denied")
		err := errors.WrapFileSystemError("read", "x.serde", cause)

		var quiet, verbose bytes.Buffer
		NewDiagnosticReporterWithWriter(false, &quiet).ReportError(err)
		NewDiagnosticReporterWithWriter(true, &verbose).ReportError(err)

		assert.NotContains(t, quiet.String(), "permission denied")
		assert.Contains(t, verbose.String(), "permission denied")
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		NewDiagnosticReporterWithWriter(false, &buf).ReportError(fmt.Errorf("boom"))
		assert.Contains(t, buf.String(), "boom")
	})
}
