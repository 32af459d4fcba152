package engine

import (
	"github.com/toyz/serdescan/internal/annotations"
	"github.com/toyz/serdescan/internal/metadata"
	"github.com/toyz/serdescan/internal/models"
)

// Default discriminator property names by value kind
const (
	DefaultClassProperty = "@class"
	DefaultNameProperty  = "@type"
)

// Discriminator is the inherited discriminator view of a class
type Discriminator struct {
	Root            *models.Declaration // declaration holding the type-info marker
	ValueKind       string              // annotations.IdClass or annotations.IdName
	TypeName        string
	TypeProperty    string // set when included as a property
	WrapperProperty string // set when included as a wrapper object
	Include         string
}

// SubtypeResolver derives discriminator naming from type-info markers found
// on a class's superclass chain
type SubtypeResolver struct {
	query metadata.Query
}

// NewSubtypeResolver creates a resolver over the given query
func NewSubtypeResolver(query metadata.Query) *SubtypeResolver {
	return &SubtypeResolver{query: query}
}

// chain returns the class followed by its ancestors, stopping at a repeat
func chain(class *models.Declaration) []*models.Declaration {
	return append([]*models.Declaration{class}, class.Ancestors()...)
}

// FindTypeInfo returns the nearest ancestor that declares a type-info marker.
// A class whose own type-info marker is supported is its own root.
func (r *SubtypeResolver) FindTypeInfo(class *models.Declaration) (*models.Declaration, bool) {
	if info, ok := r.query.TypeInfo(class); ok && SupportedTypeInfo(info) {
		return class, true
	}
	for _, ancestor := range class.Ancestors() {
		if r.query.Has(ancestor, annotations.TypeInfoKind) {
			return ancestor, true
		}
	}
	return nil, false
}

// SupportedTypeInfo reports whether the own-class processing would accept info
func SupportedTypeInfo(info metadata.TypeInfo) bool {
	switch info.Include {
	case "", annotations.AsProperty, annotations.AsWrapperObject:
	default:
		return false
	}
	return info.Use == annotations.IdClass || info.Use == annotations.IdName
}

// ValueKind reads the discriminator value kind configured on root: a declared
// discriminator marker wins, then the type-info use, then by-class
func (r *SubtypeResolver) ValueKind(root *models.Declaration) string {
	if s, ok := r.query.DeclaredSubtyped(root); ok && s.DiscriminatorValue != "" {
		return s.DiscriminatorValue
	}
	if info, ok := r.query.TypeInfo(root); ok && info.Use == annotations.IdName {
		return annotations.IdName
	}
	return annotations.IdClass
}

// TypeProperty walks up from root for an explicit property, falling back to
// the default for the value kind
func (r *SubtypeResolver) TypeProperty(root *models.Declaration, valueKind string) string {
	for _, d := range chain(root) {
		if info, ok := r.query.TypeInfo(d); ok && info.Property != "" {
			return info.Property
		}
	}
	return defaultProperty(valueKind)
}

func defaultProperty(valueKind string) string {
	if valueKind == annotations.IdName {
		return DefaultNameProperty
	}
	return DefaultClassProperty
}

// Include walks up from root for an explicit include strategy, defaulting to
// a wrapper object
func (r *SubtypeResolver) Include(root *models.Declaration) string {
	for _, d := range chain(root) {
		if info, ok := r.query.TypeInfo(d); ok && info.Include != "" {
			return info.Include
		}
	}
	return annotations.AsWrapperObject
}

// Resolve produces the inherited discriminator view of class
func (r *SubtypeResolver) Resolve(class *models.Declaration) (*Discriminator, bool) {
	root, ok := r.FindTypeInfo(class)
	if !ok {
		return nil, false
	}

	d := &Discriminator{
		Root:      root,
		ValueKind: r.ValueKind(root),
	}

	// A class that is its own root reads only its own marker, with the same
	// defaults the own type-info processing applies.
	own, isOwn := metadata.TypeInfo{}, root == class
	if isOwn {
		own, _ = r.query.TypeInfo(class)
		d.Include = own.Include
		if d.Include == "" {
			d.Include = annotations.AsWrapperObject
		}
	} else {
		d.Include = r.Include(root)
	}

	if name, ok := r.query.TypeName(class); ok {
		d.TypeName = name
	} else if d.ValueKind == annotations.IdClass {
		d.TypeName = class.QualifiedName()
	} else {
		d.TypeName = class.Name
	}

	if d.Include == annotations.AsWrapperObject {
		d.WrapperProperty = d.TypeName
	} else if isOwn && own.Property != "" {
		d.TypeProperty = own.Property
	} else if isOwn {
		d.TypeProperty = defaultProperty(d.ValueKind)
	} else {
		d.TypeProperty = r.TypeProperty(root, d.ValueKind)
	}

	return d, true
}
