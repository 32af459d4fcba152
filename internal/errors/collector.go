package errors

import "sync"

// Unlimited disables the retention limit of a collector
const Unlimited = 0

// Collector accumulates diagnostics from concurrent class visits.
// Failures beyond the retention limit are counted but not kept.
type Collector struct {
	mu          sync.Mutex
	diagnostics []*Diagnostic
	maxErrors   int
	dropped     int
}

// NewCollector creates a collector that retains at most maxErrors
// diagnostics. Zero or less keeps every diagnostic.
func NewCollector(maxErrors int) *Collector {
	return &Collector{
		diagnostics: make([]*Diagnostic, 0),
		maxErrors:   maxErrors,
	}
}

// Fail records a diagnostic against the subject
func (c *Collector) Fail(code ErrorCode, message string, subject Subject) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxErrors > 0 && len(c.diagnostics) >= c.maxErrors {
		c.dropped++
		return
	}
	c.diagnostics = append(c.diagnostics, NewDiagnostic(code, message, subject))
}

// Diagnostics returns a snapshot of the retained diagnostics
func (c *Collector) Diagnostics() []*Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// For returns the retained diagnostics attributed to one declaration
func (c *Collector) For(declaration string) []*Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*Diagnostic
	for _, d := range c.diagnostics {
		if d.Declaration == declaration {
			out = append(out, d)
		}
	}
	return out
}

// Count returns every failure reported, including dropped ones
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diagnostics) + c.dropped
}

// Dropped returns how many failures exceeded the retention limit
func (c *Collector) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Failed reports whether the run must be treated as failed
func (c *Collector) Failed() bool {
	return c.Count() > 0
}

// ToError returns the retained diagnostics as a single error, or nil
func (c *Collector) ToError() error {
	diags := c.Diagnostics()
	if len(diags) == 0 {
		return nil
	}

	all := NewMultipleErrors()
	for _, d := range diags {
		all.Add(d)
	}
	return all
}
