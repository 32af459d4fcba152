// Package descriptor assembles the per-class serialization descriptors read
// by the code generator and encodes them for output.
package descriptor

import (
	"sort"

	"github.com/samber/lo"

	"github.com/toyz/serdescan/internal/annotations"
	"github.com/toyz/serdescan/internal/engine"
	"github.com/toyz/serdescan/internal/metadata"
	"github.com/toyz/serdescan/internal/models"
)

// Builder reads markers back out of the store after a run
type Builder struct {
	query metadata.Query
}

// NewBuilder creates a builder over the given query
func NewBuilder(query metadata.Query) *Builder {
	return &Builder{query: query}
}

// Build returns the descriptor of a visited class. Classes that are not
// eligible, were terminated, or reported failures get none.
func (b *Builder) Build(result engine.Result) (*models.Descriptor, bool) {
	if !result.Eligible || result.Terminated || result.Failures > 0 {
		return nil, false
	}

	class := result.Class
	d := &models.Descriptor{
		Class:          class.QualifiedName(),
		Serializable:   b.query.IsSerializable(class),
		Deserializable: b.query.IsDeserializable(class),
		Bootstrapped:   result.Bootstrapped,
	}

	if ignored, ok := b.query.IgnoreProperties(class); ok {
		d.IgnoredProperties = lo.Uniq(ignored.Names)
	}

	if typeName, typeProperty, wrapper, ok := b.query.SerdeConfig(class); ok {
		d.TypeName = typeName
		d.TypePropertyName = typeProperty
		d.WrapperPropertyName = wrapper
	}

	if s, ok := b.query.Subtyped(class); ok {
		d.DiscriminatorInclude = s.DiscriminatorType
		d.DiscriminatorValueKind = s.DiscriminatorValue
		d.DiscriminatorProperty = s.DiscriminatorProp
	}

	for _, m := range b.query.Markers(class, annotations.DefaultImplementationKind) {
		if impl, ok := m.GetClass("value"); ok {
			d.DefaultImplementation = impl
			break
		}
	}

	for _, member := range class.Members {
		if md, ok := b.member(member, result.Bindings); ok {
			d.Members = append(d.Members, md)
		}
	}
	return d, true
}

func (b *Builder) member(m *models.Declaration, bindings engine.Bindings) (models.MemberDescriptor, bool) {
	property, role := models.PropertyOf(m)
	md := models.MemberDescriptor{
		Name:      m.Name,
		Kind:      m.Kind.String(),
		Property:  property,
		Ignored:   b.query.IsIgnored(m),
		AnyGetter: m == bindings.AnyGetter(),
		AnySetter: m == bindings.AnySetter(),
	}

	if renamed, ok := b.query.PropertyName(m); ok {
		md.Property = renamed
		md.Renamed = true
	}
	if marker, ok := b.query.Declared(m, annotations.UnwrappedKind); ok {
		md.Unwrapped = marker.GetBool("enabled", true)
	}
	if pattern, ok := b.query.Pattern(m); ok {
		md.Pattern = pattern
	}

	relevant := role != models.NoRole || md.Renamed || md.Ignored || md.AnyGetter || md.AnySetter || md.Unwrapped || md.Pattern != ""
	return md, relevant
}

// BuildAll returns the descriptors of a run, sorted by class name
func (b *Builder) BuildAll(summary *engine.Summary) []*models.Descriptor {
	var out []*models.Descriptor
	for _, r := range summary.Results {
		if d, ok := b.Build(r); ok {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Class < out[j].Class
	})
	return out
}
