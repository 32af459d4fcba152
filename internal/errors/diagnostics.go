package errors

import "fmt"

// Subject is a declaration a diagnostic can be attributed to
type Subject interface {
	Description() string
	SourceLocation() SourceLocation
}

// Diagnostic is a user-facing compile-time failure keyed to one declaration
type Diagnostic struct {
	*BaseError
	Declaration string
}

// NewDiagnostic creates a diagnostic for the given subject
func NewDiagnostic(code ErrorCode, message string, subject Subject) *Diagnostic {
	d := &Diagnostic{BaseError: New(code, message)}
	if subject != nil {
		d.Declaration = subject.Description()
		d.Loc = subject.SourceLocation()
	}
	return d
}

// Error implements the error interface
func (d *Diagnostic) Error() string {
	if d.Loc.IsEmpty() {
		return fmt.Sprintf("%s: %s", d.Declaration, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Loc.String(), d.Message)
}
