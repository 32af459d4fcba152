package metadata

import (
	"github.com/toyz/serdescan/internal/annotations"
	"github.com/toyz/serdescan/internal/models"
)

// TypeInfo is the content of a type-discrimination marker. Absent
// parameters are left empty.
type TypeInfo struct {
	Use         string
	Include     string
	Property    string
	DefaultImpl string
}

// IgnoreProperties is the content of an ignore-properties marker
type IgnoreProperties struct {
	Names        []string
	AllowGetters bool
	AllowSetters bool
}

// Subtyped is the content of a discriminator marker
type Subtyped struct {
	DiscriminatorType  string
	DiscriminatorValue string
	DiscriminatorProp  string
}

// Query is a typed view over a Reader
type Query struct {
	reader Reader
}

// NewQuery wraps a reader
func NewQuery(reader Reader) Query {
	return Query{reader: reader}
}

// Declared returns the first declared marker of the kind
func (q Query) Declared(d *models.Declaration, kind annotations.Kind) (*annotations.Marker, bool) {
	return q.reader.Declared(d, kind)
}

// Has reports whether a marker of the kind is declared
func (q Query) Has(d *models.Declaration, kind annotations.Kind) bool {
	_, ok := q.reader.Declared(d, kind)
	return ok
}

// HasAny reports whether any of the kinds is declared
func (q Query) HasAny(d *models.Declaration, kinds ...annotations.Kind) bool {
	for _, kind := range kinds {
		if q.Has(d, kind) {
			return true
		}
	}
	return false
}

// Markers returns declared then attached markers of the kind
func (q Query) Markers(d *models.Declaration, kind annotations.Kind) []*annotations.Marker {
	var out []*annotations.Marker
	for _, m := range d.Markers {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return append(out, q.reader.Attached(d, kind)...)
}

// HasMarker reports whether a marker of the kind is declared or attached
func (q Query) HasMarker(d *models.Declaration, kind annotations.Kind) bool {
	return len(q.Markers(d, kind)) > 0
}

// ErrorMessage returns the message of an explicit-error marker. A marker
// without a message does not count.
func (q Query) ErrorMessage(d *models.Declaration) (string, bool) {
	m, ok := q.reader.Declared(d, annotations.ErrorKind)
	if !ok {
		return "", false
	}
	message := m.GetString("value")
	return message, message != ""
}

// Pattern returns the pattern member of a format marker, if present.
// Library formats use "pattern"; the JSON-B formats use "value".
func (q Query) Pattern(d *models.Declaration) (string, bool) {
	m, ok := q.reader.Declared(d, annotations.FormatKind)
	if !ok {
		return "", false
	}
	for _, member := range []string{"pattern", "value"} {
		if m.Has(member) {
			return m.GetString(member), true
		}
	}
	return "", false
}

// TypeInfo returns the declared type-discrimination marker
func (q Query) TypeInfo(d *models.Declaration) (TypeInfo, bool) {
	m, ok := q.reader.Declared(d, annotations.TypeInfoKind)
	if !ok {
		return TypeInfo{}, false
	}
	return TypeInfo{
		Use:         m.GetString("use"),
		Include:     m.GetString("include"),
		Property:    m.GetString("property"),
		DefaultImpl: m.GetString("defaultImpl"),
	}, true
}

// TypeName returns an explicit, non-empty type name
func (q Query) TypeName(d *models.Declaration) (string, bool) {
	m, ok := q.reader.Declared(d, annotations.TypeNameKind)
	if !ok {
		return "", false
	}
	name := m.GetString("value")
	return name, name != ""
}

// IgnoreProperties returns the declared ignore-properties marker
func (q Query) IgnoreProperties(d *models.Declaration) (IgnoreProperties, bool) {
	m, ok := q.reader.Declared(d, annotations.IgnorePropertiesKind)
	if !ok {
		return IgnoreProperties{}, false
	}
	return IgnoreProperties{
		Names:        m.GetStringSlice("value"),
		AllowGetters: m.GetBool("allowGetters"),
		AllowSetters: m.GetBool("allowSetters"),
	}, true
}

// Subtyped merges the discriminator markers, declared before attached
func (q Query) Subtyped(d *models.Declaration) (Subtyped, bool) {
	markers := q.Markers(d, annotations.SubtypedKind)
	if len(markers) == 0 {
		return Subtyped{}, false
	}
	var s Subtyped
	for _, m := range markers {
		if v := m.GetString("discriminatorType"); v != "" && s.DiscriminatorType == "" {
			s.DiscriminatorType = v
		}
		if v := m.GetString("discriminatorValue"); v != "" && s.DiscriminatorValue == "" {
			s.DiscriminatorValue = v
		}
		if v := m.GetString("discriminatorProp"); v != "" && s.DiscriminatorProp == "" {
			s.DiscriminatorProp = v
		}
	}
	return s, true
}

// DeclaredSubtyped returns the discriminator marker written on the declaration
func (q Query) DeclaredSubtyped(d *models.Declaration) (Subtyped, bool) {
	m, ok := q.reader.Declared(d, annotations.SubtypedKind)
	if !ok {
		return Subtyped{}, false
	}
	return Subtyped{
		DiscriminatorType:  m.GetString("discriminatorType"),
		DiscriminatorValue: m.GetString("discriminatorValue"),
		DiscriminatorProp:  m.GetString("discriminatorProp"),
	}, true
}

// PropertyName returns an explicit rename from a property or accessor marker
func (q Query) PropertyName(d *models.Declaration) (string, bool) {
	for _, kind := range []annotations.Kind{annotations.PropertyKind, annotations.GetterKind, annotations.SetterKind} {
		if m, ok := q.reader.Declared(d, kind); ok {
			if name := m.GetString("value"); name != "" {
				return name, true
			}
		}
	}
	return "", false
}

// IsIgnored reports a declared ignore marker that is not switched off, or an
// attached one
func (q Query) IsIgnored(d *models.Declaration) bool {
	if m, ok := q.reader.Declared(d, annotations.IgnoredKind); ok && m.GetBool("value", true) {
		return true
	}
	return len(q.reader.Attached(d, annotations.IgnoredKind)) > 0
}

// IsSerializable reports the serializable stereotype, declared or attached
func (q Query) IsSerializable(d *models.Declaration) bool {
	return q.HasMarker(d, annotations.SerdeableKind) || q.HasMarker(d, annotations.SerializableKind)
}

// IsDeserializable reports the deserializable stereotype, declared or attached
func (q Query) IsDeserializable(d *models.Declaration) bool {
	return q.HasMarker(d, annotations.SerdeableKind) || q.HasMarker(d, annotations.DeserializableKind)
}

// HasStereotype reports whether either stereotype is present
func (q Query) HasStereotype(d *models.Declaration) bool {
	return q.IsSerializable(d) || q.IsDeserializable(d)
}

// Mixin returns the target class named by a mixin marker
func (q Query) Mixin(d *models.Declaration) (string, bool) {
	m, ok := q.reader.Declared(d, annotations.MixinKind)
	if !ok {
		return "", false
	}
	return m.GetClass("value")
}

// SerdeConfig returns the attached discriminator naming
func (q Query) SerdeConfig(d *models.Declaration) (typeName, typeProperty, wrapperProperty string, ok bool) {
	markers := q.Markers(d, annotations.SerdeConfigKind)
	for _, m := range markers {
		if typeName == "" {
			typeName = m.GetString("typeName")
		}
		if typeProperty == "" {
			typeProperty = m.GetString("typeProperty")
		}
		if wrapperProperty == "" {
			wrapperProperty = m.GetString("wrapperProperty")
		}
	}
	return typeName, typeProperty, wrapperProperty, len(markers) > 0
}
