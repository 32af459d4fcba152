package cli

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/toyz/serdescan/internal/descriptor"
	"github.com/toyz/serdescan/internal/engine"
	"github.com/toyz/serdescan/internal/errors"
	"github.com/toyz/serdescan/internal/logging"
	"github.com/toyz/serdescan/internal/metadata"
	"github.com/toyz/serdescan/internal/parser"
	"github.com/toyz/serdescan/internal/utils"
)

// Runner coordinates one analysis run: scan, load, analyze, write
type Runner struct {
	reporter    *DiagnosticReporter
	diagnostics *utils.DiagnosticSystem
	logger      *zap.Logger
	stdout      io.Writer
	summary     RunSummary
}

// RunSummary contains information about a finished run
type RunSummary struct {
	RunID          string
	FilesScanned   int
	ClassesLoaded  int
	ClassesVisited int
	ClassesSkipped int
	Descriptors    int
	Diagnostics    int
	Output         string
	Duration       time.Duration
}

// Failed reports whether any diagnostic was recorded
func (s RunSummary) Failed() bool {
	return s.Diagnostics > 0
}

// NewRunner creates a runner printing through the given systems
func NewRunner(diagnostics *utils.DiagnosticSystem, reporter *DiagnosticReporter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		reporter:    reporter,
		diagnostics: diagnostics,
		logger:      logger,
		stdout:      os.Stdout,
	}
}

// SetStdout redirects bundle output written to "-"
func (r *Runner) SetStdout(w io.Writer) {
	r.stdout = w
}

// GetSummary returns the summary of the last run
func (r *Runner) GetSummary() RunSummary {
	return r.summary
}

// Run executes the complete analysis. Load and output problems are returned
// as errors; marker diagnostics are reported and counted in the summary.
func (r *Runner) Run(ctx context.Context, cfg Config) error {
	start := time.Now()
	r.summary = RunSummary{}
	log := logging.For(r.logger, logging.ComponentCLI)

	if err := cfg.Validate(); err != nil {
		return err
	}
	format, _ := descriptor.ParseFormat(cfg.Output.Format)

	r.diagnostics.StartProgress("Scanning for declaration files")
	files, err := NewFileScanner(cfg.Extensions).Scan(cfg.Paths)
	if err != nil {
		r.diagnostics.EndProgress(false, "")
		return err
	}
	r.summary.FilesScanned = len(files)
	r.diagnostics.EndProgress(true, pluralize(len(files), "file"))
	r.diagnostics.Indent()
	for _, f := range files {
		r.diagnostics.Debug("Found %s", f)
	}
	r.diagnostics.Unindent()
	if len(files) == 0 {
		r.diagnostics.Warn("No declaration files found with extensions %v", cfg.Extensions)
	}

	r.diagnostics.StartProgress("Loading declarations")
	graph, err := parser.NewLoader(parser.WithLogger(r.logger)).LoadFiles(files)
	if err != nil {
		r.diagnostics.EndProgress(false, "")
		return err
	}
	r.summary.ClassesLoaded = len(graph.Classes)
	r.diagnostics.EndProgress(true, pluralize(len(graph.Classes), "class"))

	store := metadata.NewMemoryStore()
	eng := engine.New(store, engine.WithLogger(r.logger))
	analyzer := engine.NewAnalyzer(eng,
		engine.WithWorkers(cfg.Workers),
		engine.WithFailFast(cfg.FailFast),
		engine.WithAnalyzerLogger(r.logger))
	collector := errors.NewCollector(cfg.MaxDiagnostics)

	r.diagnostics.Verbose("Analyzing %d classes with %d workers", len(graph.Classes), cfg.Workers)
	r.diagnostics.StartProgress("Validating markers")
	result, err := analyzer.Run(ctx, graph, collector)
	if err != nil {
		r.diagnostics.EndProgress(false, "cancelled")
		return errors.Wrap(errors.UnknownErrorCode, "analysis interrupted", err)
	}
	r.summary.ClassesVisited = len(result.Results)
	r.summary.ClassesSkipped = result.Skipped
	r.summary.Diagnostics = collector.Count()
	r.diagnostics.EndProgress(collector.Count() == 0, pluralize(collector.Count(), "diagnostic"))

	if collector.Failed() {
		r.reporter.ReportDiagnostics(collector.Diagnostics(), collector.Dropped())
	}

	descriptors := descriptor.NewBuilder(eng.Query()).BuildAll(result)
	bundle := descriptor.NewBundle(descriptors, collector.Diagnostics())
	r.summary.RunID = bundle.RunID
	r.summary.Descriptors = len(descriptors)

	r.diagnostics.StartProgress("Writing descriptors")
	output, err := r.write(bundle, format, cfg.Output.File)
	if err != nil {
		r.diagnostics.EndProgress(false, "")
		return err
	}
	r.summary.Output = output
	r.diagnostics.EndProgress(true, output)

	r.summary.Duration = time.Since(start)
	log.Info("run finished",
		zap.String("runId", bundle.RunID),
		zap.Int("descriptors", len(descriptors)),
		zap.Int("diagnostics", r.summary.Diagnostics),
		zap.Duration("duration", r.summary.Duration))
	return nil
}

func (r *Runner) write(bundle *descriptor.Bundle, format descriptor.Format, path string) (string, error) {
	if path == "" || path == "-" {
		return "stdout", bundle.Encode(r.stdout, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", errors.WrapFileSystemError("create", path, err)
	}
	if err := bundle.Encode(f, format); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.WrapFileSystemError("close", path, err)
	}
	return path, nil
}

func pluralize(n int, noun string) string {
	switch {
	case n == 1:
		return "1 " + noun
	case noun == "class":
		return strconv.Itoa(n) + " classes"
	default:
		return strconv.Itoa(n) + " " + noun + "s"
	}
}
