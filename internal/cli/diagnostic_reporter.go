package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/serdescan/internal/errors"
)

// DiagnosticReporter prints load errors and marker diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return NewDiagnosticReporterWithWriter(verbose, os.Stderr)
}

// NewDiagnosticReporterWithWriter creates a reporter writing to w
func NewDiagnosticReporterWithWriter(verbose bool, w io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: w}
}

// ReportWarning prints a single warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportDiagnostics prints one line per marker diagnostic, in location order
func (r *DiagnosticReporter) ReportDiagnostics(diagnostics []*errors.Diagnostic, dropped int) {
	sorted := make([]*errors.Diagnostic, len(diagnostics))
	copy(sorted, diagnostics)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Loc, sorted[j].Loc
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	red := color.New(color.FgRed)
	for _, d := range sorted {
		where := d.Declaration
		if !d.Loc.IsEmpty() {
			where = d.Loc.String()
		}
		fmt.Fprintf(r.out, "%s: %s %s", where, red.Sprintf("[%s]", d.Code), d.Message)
		if !d.Loc.IsEmpty() {
			fmt.Fprintf(r.out, " (%s)", d.Declaration)
		}
		fmt.Fprintln(r.out)
	}

	if dropped > 0 {
		fmt.Fprintf(r.out, "... and %d more diagnostics not shown\n", dropped)
	}
}

// ReportError prints a load or configuration error with its context
func (r *DiagnosticReporter) ReportError(err error) {
	if multi, ok := err.(*errors.MultipleErrors); ok {
		fmt.Fprintf(r.out, "\nERROR: %d problems found\n", multi.Count())
		for _, e := range multi.Errors {
			r.reportOne(e)
		}
		return
	}

	fmt.Fprintf(r.out, "\nERROR:\n")
	if serr, ok := err.(errors.SerdeError); ok {
		r.reportOne(serr)
		return
	}
	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
}

func (r *DiagnosticReporter) reportOne(err errors.SerdeError) {
	header := fmt.Sprintf("Type: %s", err.ErrorCode())
	fmt.Fprintf(r.out, "\n%s\n%s\n", header, strings.Repeat("-", len(header)))

	// the location gets its own line
	message := err.Error()
	if loc := err.Location(); !loc.IsEmpty() {
		message = strings.TrimPrefix(message, loc.String()+": ")
	}
	fmt.Fprintf(r.out, "Message: %s\n", message)

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n", loc.String())
	}

	if r.verbose {
		if ctx := err.Context(); len(ctx) > 0 {
			r.printContext(ctx)
		}
		if cause := err.Unwrap(); cause != nil {
			fmt.Fprintf(r.out, "Underlying cause: %s\n", cause.Error())
		}
	}

	if suggestions := err.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}
}

// printContext prints context information in key order
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, suggestion)
	}
}

// Debug prints debug information when verbose mode is enabled
func (r *DiagnosticReporter) Debug(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(r.out, "[DEBUG] "+format+"\n", args...)
	}
}
