package descriptor

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/toyz/serdescan/internal/errors"
	"github.com/toyz/serdescan/internal/models"
)

// Format is an output encoding for a bundle
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml, and yml in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.Newf(errors.ConfigurationErrorCode, "unsupported output format '%s'", s).
		WithSuggestion("Use 'json' or 'yaml'")
}

// Bundle is the output of one run: every descriptor plus the diagnostics
// that prevented others from being produced
type Bundle struct {
	RunID       string               `json:"runId" yaml:"runId"`
	Descriptors []*models.Descriptor `json:"descriptors" yaml:"descriptors"`
	Diagnostics []Diagnostic         `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Diagnostic is the serialized form of a recorded failure
type Diagnostic struct {
	Code        string                `json:"code" yaml:"code"`
	Declaration string                `json:"declaration" yaml:"declaration"`
	Message     string                `json:"message" yaml:"message"`
	Location    errors.SourceLocation `json:"location,omitempty" yaml:"location,omitempty"`
}

// NewBundle creates a bundle with a fresh run identifier
func NewBundle(descriptors []*models.Descriptor, diagnostics []*errors.Diagnostic) *Bundle {
	b := &Bundle{
		RunID:       uuid.NewString(),
		Descriptors: descriptors,
	}
	if b.Descriptors == nil {
		b.Descriptors = []*models.Descriptor{}
	}
	for _, d := range diagnostics {
		b.Diagnostics = append(b.Diagnostics, Diagnostic{
			Code:        d.Code.String(),
			Declaration: d.Declaration,
			Message:     d.Message,
			Location:    d.Loc,
		})
	}
	return b
}

// Encode writes the bundle in the given format
func (b *Bundle) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(b, "", "  ")
		if err != nil {
			return errors.Wrap(errors.UnknownErrorCode, "failed to encode descriptors as JSON", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return errors.Wrap(errors.FileSystemErrorCode, "failed to write descriptors", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return errors.Wrap(errors.UnknownErrorCode, "failed to encode descriptors as YAML", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format '%s'", format)
}
