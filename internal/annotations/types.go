package annotations

import (
	"fmt"
	"strings"
)

// Kind identifies the semantic role of a marker, independent of the
// namespace it was declared in
type Kind int

const (
	UnknownKind Kind = iota

	// Stereotypes and engine-attached markers
	SerdeableKind
	SerializableKind
	DeserializableKind
	IntrospectedKind
	SerdeConfigKind
	SubtypedKind
	DefaultImplementationKind
	MixinKind

	// Member markers
	GetterKind
	SetterKind
	AnyGetterKind
	AnySetterKind
	UnwrappedKind
	IgnoredKind
	PropertyKind
	FormatKind
	ErrorKind
	CreatorKind
	ValueKind
	AliasKind

	// Class markers
	IgnorePropertiesKind
	TypeInfoKind
	TypeNameKind
	TypeIdKind
	ClassDescriptionKind
	RootNameKind
	IncludeKind
	PropertyOrderKind

	// Markers the engine refuses
	AutoDetectKind
	FilterKind
	BackReferenceKind
	MergeKind
)

var kindNames = map[Kind]string{
	SerdeableKind:             "serdeable",
	SerializableKind:          "serializable",
	DeserializableKind:        "deserializable",
	IntrospectedKind:          "introspected",
	SerdeConfigKind:           "serde-config",
	SubtypedKind:              "subtyped",
	DefaultImplementationKind: "default-implementation",
	MixinKind:                 "mixin",
	GetterKind:                "getter",
	SetterKind:                "setter",
	AnyGetterKind:             "any-getter",
	AnySetterKind:             "any-setter",
	UnwrappedKind:             "unwrapped",
	IgnoredKind:               "ignored",
	PropertyKind:              "property",
	FormatKind:                "format",
	ErrorKind:                 "error",
	CreatorKind:               "creator",
	ValueKind:                 "value",
	AliasKind:                 "alias",
	IgnorePropertiesKind:      "ignore-properties",
	TypeInfoKind:              "type-info",
	TypeNameKind:              "type-name",
	TypeIdKind:                "type-id",
	ClassDescriptionKind:      "class-description",
	RootNameKind:              "root-name",
	IncludeKind:               "include",
	PropertyOrderKind:         "property-order",
	AutoDetectKind:            "auto-detect",
	FilterKind:                "filter",
	BackReferenceKind:         "back-reference",
	MergeKind:                 "merge",
}

// String returns the string representation of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind converts string to Kind
func ParseKind(s string) (Kind, error) {
	for kind, name := range kindNames {
		if name == s {
			return kind, nil
		}
	}
	return UnknownKind, fmt.Errorf("unknown marker kind: %s", s)
}

// Enum is an enumerated marker value such as NAME or WRAPPER_OBJECT
type Enum string

// ClassRef is a marker value naming a class, written Foo.class in declarations
type ClassRef string

// Params holds marker parameter values keyed by parameter name.
// Values are string, bool, int, []string, Enum or ClassRef.
type Params map[string]interface{}

// Marker is one annotation applied to a declaration
type Marker struct {
	Name   string // qualified marker name
	Kind   Kind
	Params Params
}

// NewMarker creates a marker, resolving its kind from the default registry
func NewMarker(name string, params Params) *Marker {
	if params == nil {
		params = Params{}
	}
	return &Marker{
		Name:   name,
		Kind:   DefaultRegistry().KindOf(name),
		Params: params,
	}
}

// SimpleName returns the marker name without its namespace
func (m *Marker) SimpleName() string {
	return SimpleName(m.Name)
}

// Has reports whether the parameter was given explicitly
func (m *Marker) Has(paramName string) bool {
	_, ok := m.Params[paramName]
	return ok
}

// GetString returns a string parameter value with optional default.
// Enum and ClassRef values are returned as their string form.
func (m *Marker) GetString(paramName string, defaultValue ...string) string {
	if value, exists := m.Params[paramName]; exists {
		switch v := value.(type) {
		case string:
			return v
		case Enum:
			return string(v)
		case ClassRef:
			return string(v)
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetBool returns a boolean parameter value with optional default
func (m *Marker) GetBool(paramName string, defaultValue ...bool) bool {
	if value, exists := m.Params[paramName]; exists {
		if boolValue, ok := value.(bool); ok {
			return boolValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// GetInt returns an integer parameter value with optional default
func (m *Marker) GetInt(paramName string, defaultValue ...int) int {
	if value, exists := m.Params[paramName]; exists {
		if intValue, ok := value.(int); ok {
			return intValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

// GetStringSlice returns a string slice parameter value with optional default.
// A single string is treated as a one-element slice.
func (m *Marker) GetStringSlice(paramName string, defaultValue ...[]string) []string {
	if value, exists := m.Params[paramName]; exists {
		switch v := value.(type) {
		case []string:
			return v
		case string:
			return []string{v}
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return nil
}

// GetEnum returns an enumerated parameter value
func (m *Marker) GetEnum(paramName string) (string, bool) {
	value, exists := m.Params[paramName]
	if !exists {
		return "", false
	}
	switch v := value.(type) {
	case Enum:
		return string(v), true
	case string:
		return v, true
	}
	return "", false
}

// GetClass returns a class reference parameter value
func (m *Marker) GetClass(paramName string) (string, bool) {
	value, exists := m.Params[paramName]
	if !exists {
		return "", false
	}
	switch v := value.(type) {
	case ClassRef:
		return string(v), true
	case string:
		return v, true
	}
	return "", false
}

// String renders the marker the way it would be written in a declaration file
func (m *Marker) String() string {
	if len(m.Params) == 0 {
		return "@" + m.Name
	}
	parts := make([]string, 0, len(m.Params))
	for _, key := range sortedKeys(m.Params) {
		parts = append(parts, fmt.Sprintf("%s=%s", key, formatValue(m.Params[key])))
	}
	return fmt.Sprintf("@%s(%s)", m.Name, strings.Join(parts, ", "))
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case ClassRef:
		return string(v) + ".class"
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		return "{" + strings.Join(quoted, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}
