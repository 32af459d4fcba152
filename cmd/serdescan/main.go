package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/toyz/serdescan/internal/cli"
	"github.com/toyz/serdescan/internal/logging"
	"github.com/toyz/serdescan/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("serdescan", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var (
		configFlag   = flags.String("config", "", "YAML configuration file")
		formatFlag   = flags.String("format", "", "Output format: json or yaml (default json)")
		outFlag      = flags.String("out", "", "Write the descriptor bundle to this file instead of stdout")
		workersFlag  = flags.Int("workers", 0, "Number of classes analyzed concurrently (default number of CPUs)")
		maxDiagsFlag = flags.Int("max-diagnostics", 0, "Maximum number of diagnostics retained and printed (default unlimited)")
		failFastFlag = flags.Bool("fail-fast", false, "Stop starting new classes after the first failing class")
		verboseFlag  = flags.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag    = flags.Bool("quiet", false, "Only show errors")
		debugFlag    = flags.Bool("debug", false, "Enable engine tracing")
		helpFlag     = flags.Bool("help", false, "Show help information")
	)

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: serdescan [options] <paths...>\n\n")
		fmt.Fprintf(stderr, "Validates JSON serialization markers in class declarations and writes serde descriptors.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  paths              Declaration files or directories to scan\n")
		fmt.Fprintf(stderr, "                     Supports patterns like './...' for recursive scanning\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  serdescan ./...                          # Scan everything recursively\n")
		fmt.Fprintf(stderr, "  serdescan -format yaml -out d.yaml ./model # Write YAML descriptors to a file\n")
		fmt.Fprintf(stderr, "  serdescan -config serdescan.yaml         # Read paths and options from a file\n")
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *helpFlag {
		flags.Usage()
		return 0
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewDiagnosticSystemWithWriters(utils.DiagnosticError, stderr, stderr)
	case *debugFlag:
		diagnostics = utils.NewDiagnosticSystemWithWriters(utils.DiagnosticDebug, stderr, stderr)
	case *verboseFlag:
		diagnostics = utils.NewDiagnosticSystemWithWriters(utils.DiagnosticVerbose, stderr, stderr)
	default:
		diagnostics = utils.NewDiagnosticSystemWithWriters(utils.DiagnosticInfo, stderr, stderr)
	}
	reporter := cli.NewDiagnosticReporterWithWriter(*verboseFlag || *debugFlag, stderr)

	cfg, err := cli.LoadConfig(*configFlag)
	if err != nil {
		reporter.ReportError(err)
		return 1
	}

	// flags override the configuration file
	if paths := flags.Args(); len(paths) > 0 {
		cfg.Paths = paths
	}
	if *formatFlag != "" {
		cfg.Output.Format = *formatFlag
	}
	if *outFlag != "" {
		cfg.Output.File = *outFlag
	}
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}
	if *maxDiagsFlag > 0 {
		cfg.MaxDiagnostics = *maxDiagsFlag
	}
	if *failFastFlag {
		cfg.FailFast = true
	}
	cfg.Verbose = *verboseFlag

	if len(cfg.Paths) == 0 {
		fmt.Fprintf(stderr, "Error: At least one path is required\n\n")
		flags.Usage()
		return 1
	}

	logger := logging.Nop()
	switch {
	case *debugFlag:
		logger = logging.NewWithWriter(logging.DebugLevel, stderr)
	case *verboseFlag:
		logger = logging.NewWithWriter(logging.InfoLevel, stderr)
	}
	defer func() { _ = logger.Sync() }()

	diagnostics.Header("marker scan")
	if *configFlag != "" {
		diagnostics.Info("Using configuration %s", *configFlag)
	}
	if *verboseFlag {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Paths: %s", strings.Join(cfg.Paths, ", "))
		diagnostics.List("Extensions: %s", strings.Join(cfg.Extensions, ", "))
		diagnostics.List("Workers: %d", cfg.Workers)
		diagnostics.List("Format: %s", cfg.Output.Format)
	}

	runner := cli.NewRunner(diagnostics, reporter, logger)
	runner.SetStdout(stdout)
	if err := runner.Run(ctx, cfg); err != nil {
		reporter.ReportError(err)
		logging.For(logger, logging.ComponentCLI).Debug("run failed", zap.Error(err))
		return 1
	}

	summary := runner.GetSummary()
	diagnostics.Summary("Scan Complete", map[string]interface{}{
		"Files scanned":       summary.FilesScanned,
		"Classes loaded":      summary.ClassesLoaded,
		"Classes visited":     summary.ClassesVisited,
		"Descriptors":         summary.Descriptors,
		"Diagnostics":         summary.Diagnostics,
		"Classes not started": summary.ClassesSkipped,
	})

	if summary.Failed() {
		diagnostics.Error("%d marker diagnostics reported", summary.Diagnostics)
		return 1
	}
	diagnostics.Success("All markers are valid")
	return 0
}
