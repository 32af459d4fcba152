package annotations

import (
	"fmt"
	"strings"
)

// ParameterType represents the type of a marker parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
	IntType
	StringSliceType
	EnumType
	ClassType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case StringSliceType:
		return "[]string"
	case EnumType:
		return "enum"
	case ClassType:
		return "class"
	default:
		return "unknown"
	}
}

// ParameterSpec describes one marker parameter
type ParameterSpec struct {
	Type         ParameterType
	Required     bool
	DefaultValue interface{}
	Description  string
	Values       []string // allowed values for EnumType
}

// CustomValidator checks relationships between the parameters of one marker
type CustomValidator func(*Marker) error

// MarkerSchema defines a recognized marker and its parameters
type MarkerSchema struct {
	Name        string // qualified marker name
	Kind        Kind
	Description string
	Parameters  map[string]ParameterSpec
	Validators  []CustomValidator
	Examples    []string
}

// Enumerated values used by the type-discrimination markers
const (
	IdClass        = "CLASS"
	IdMinimalClass = "MINIMAL_CLASS"
	IdName         = "NAME"
	IdSimpleName   = "SIMPLE_NAME"
	IdDeduction    = "DEDUCTION"
	IdCustom       = "CUSTOM"
	IdNone         = "NONE"

	AsProperty         = "PROPERTY"
	AsWrapperObject    = "WRAPPER_OBJECT"
	AsWrapperArray     = "WRAPPER_ARRAY"
	AsExternalProperty = "EXTERNAL_PROPERTY"
	AsExistingProperty = "EXISTING_PROPERTY"
)

var (
	typeIds        = []string{IdClass, IdMinimalClass, IdName, IdSimpleName, IdDeduction, IdCustom, IdNone}
	typeInclusions = []string{AsProperty, AsWrapperObject, AsWrapperArray, AsExternalProperty, AsExistingProperty}
	visibilities   = []string{"ANY", "NON_PRIVATE", "PROTECTED_AND_PUBLIC", "PUBLIC_ONLY", "NONE", "DEFAULT"}
)

func str(desc string) ParameterSpec     { return ParameterSpec{Type: StringType, Description: desc} }
func strs(desc string) ParameterSpec    { return ParameterSpec{Type: StringSliceType, Description: desc} }
func integer(desc string) ParameterSpec { return ParameterSpec{Type: IntType, Description: desc} }
func class(desc string) ParameterSpec   { return ParameterSpec{Type: ClassType, Description: desc} }

func flag(desc string, def bool) ParameterSpec {
	return ParameterSpec{Type: BoolType, DefaultValue: def, Description: desc}
}

func enum(desc string, values ...string) ParameterSpec {
	return ParameterSpec{Type: EnumType, Description: desc, Values: values}
}

// Library vocabulary. Engine-attached markers use these names.
var serdeSchemas = []MarkerSchema{
	{
		Name:        SerdeNamespace + "Serdeable",
		Kind:        SerdeableKind,
		Description: "Marks a class as both serializable and deserializable",
		Examples:    []string{"@Serdeable"},
	},
	{
		Name:        SerdeNamespace + "Serdeable.Serializable",
		Kind:        SerializableKind,
		Description: "Marks a class as serializable",
	},
	{
		Name:        SerdeNamespace + "Serdeable.Deserializable",
		Kind:        DeserializableKind,
		Description: "Marks a class as deserializable",
	},
	{
		Name:        SerdeNamespace + "Introspected",
		Kind:        IntrospectedKind,
		Description: "Requests build-time introspection of the class",
		Parameters: map[string]ParameterSpec{
			"accessKind": strs("Member kinds the introspection reads: METHOD, FIELD"),
			"visibility": strs("Visibility levels included in the introspection"),
		},
	},
	{
		Name:        SerdeNamespace + "SerdeConfig",
		Kind:        SerdeConfigKind,
		Description: "Carries the resolved discriminator naming of a subtype",
		Parameters: map[string]ParameterSpec{
			"typeName":        str("Discriminator value of this class"),
			"typeProperty":    str("Property holding the discriminator when included as a property"),
			"wrapperProperty": str("Wrapper key when included as a wrapper object"),
		},
	},
	{
		Name:        SerdeNamespace + "SerdeConfig.Subtyped",
		Kind:        SubtypedKind,
		Description: "Carries the discriminator strategy of a polymorphic root",
		Parameters: map[string]ParameterSpec{
			"discriminatorType":  enum("How the discriminator is included", AsProperty, AsWrapperObject),
			"discriminatorValue": enum("How the discriminator value is derived", IdClass, IdName),
			"discriminatorProp":  str("Discriminator property name"),
		},
	},
	{
		Name:        SerdeNamespace + "DefaultImplementation",
		Kind:        DefaultImplementationKind,
		Description: "Names the class to use when no discriminator is present",
		Parameters: map[string]ParameterSpec{
			"value": {Type: ClassType, Required: true, Description: "Default implementation class"},
		},
	},
	{
		Name:        SerdeNamespace + "SerdeMixin",
		Kind:        MixinKind,
		Description: "Applies this class's markers to another class",
		Parameters: map[string]ParameterSpec{
			"value": {Type: ClassType, Required: true, Description: "Target class"},
		},
		Examples: []string{"@SerdeMixin(Point.class)"},
	},
	{Name: SerdeNamespace + "SerdeConfig.Getter", Kind: GetterKind, Description: "Marks a method as a property getter",
		Parameters: map[string]ParameterSpec{"value": str("Property name override")}},
	{Name: SerdeNamespace + "SerdeConfig.Setter", Kind: SetterKind, Description: "Marks a method as a property setter",
		Parameters: map[string]ParameterSpec{"value": str("Property name override")}},
	{Name: SerdeNamespace + "SerdeConfig.AnyGetter", Kind: AnyGetterKind, Description: "Catch-all source of extra properties"},
	{Name: SerdeNamespace + "SerdeConfig.AnySetter", Kind: AnySetterKind, Description: "Catch-all sink for unknown properties"},
	{Name: SerdeNamespace + "SerdeConfig.Unwrapped", Kind: UnwrappedKind, Description: "Flattens a nested object into its owner",
		Parameters: map[string]ParameterSpec{"prefix": str("Prefix for flattened names"), "suffix": str("Suffix for flattened names")}},
	{Name: SerdeNamespace + "SerdeConfig.Ignored", Kind: IgnoredKind, Description: "Excludes a member from serialization"},
	{Name: SerdeNamespace + "SerdeConfig.Property", Kind: PropertyKind, Description: "Renames a property",
		Parameters: map[string]ParameterSpec{"value": str("Serialized property name")}},
	{Name: SerdeNamespace + "SerdeConfig.Format", Kind: FormatKind, Description: "Declares a number or date-time format",
		Parameters: map[string]ParameterSpec{"pattern": str("Format pattern"), "locale": str("Locale tag")}},
	{
		Name:        SerdeNamespace + "SerdeConfig.Error",
		Kind:        ErrorKind,
		Description: "Fails processing of the declaration with the given message",
		Parameters: map[string]ParameterSpec{
			"value": {Type: StringType, Required: true, Description: "Diagnostic message"},
		},
		Examples: []string{`@SerdeConfig.Error("Type not supported")`},
	},
}

var jacksonSchemas = []MarkerSchema{
	{Name: JacksonNamespace + "JsonGetter", Kind: GetterKind, Description: "Marks a method as a property getter",
		Parameters: map[string]ParameterSpec{"value": str("Property name override")}},
	{Name: JacksonNamespace + "JsonSetter", Kind: SetterKind, Description: "Marks a method as a property setter",
		Parameters: map[string]ParameterSpec{
			"value":        str("Property name override"),
			"nulls":        enum("Null handling", "SET", "SKIP", "FAIL", "AS_EMPTY", "DEFAULT"),
			"contentNulls": enum("Null handling for content", "SET", "SKIP", "FAIL", "AS_EMPTY", "DEFAULT"),
		}},
	{Name: JacksonNamespace + "JsonAnyGetter", Kind: AnyGetterKind, Description: "Catch-all source of extra properties",
		Parameters: map[string]ParameterSpec{"enabled": flag("Whether the marker is active", true)}},
	{Name: JacksonNamespace + "JsonAnySetter", Kind: AnySetterKind, Description: "Catch-all sink for unknown properties",
		Parameters: map[string]ParameterSpec{"enabled": flag("Whether the marker is active", true)}},
	{Name: JacksonNamespace + "JsonUnwrapped", Kind: UnwrappedKind, Description: "Flattens a nested object into its owner",
		Parameters: map[string]ParameterSpec{
			"enabled": flag("Whether the marker is active", true),
			"prefix":  str("Prefix for flattened names"),
			"suffix":  str("Suffix for flattened names"),
		}},
	{Name: JacksonNamespace + "JsonIgnore", Kind: IgnoredKind, Description: "Excludes a member from serialization",
		Parameters: map[string]ParameterSpec{"value": flag("Whether the member is ignored", true)}},
	{
		Name:        JacksonNamespace + "JsonIgnoreProperties",
		Kind:        IgnorePropertiesKind,
		Description: "Excludes named properties of the class",
		Parameters: map[string]ParameterSpec{
			"value":         strs("Property names to ignore"),
			"ignoreUnknown": flag("Skip unknown properties on read", false),
			"allowGetters":  flag("Keep the getter side of ignored properties", false),
			"allowSetters":  flag("Keep the setter side of ignored properties", false),
		},
		Validators: []CustomValidator{ValidateIgnoreProperties},
		Examples:   []string{`@JsonIgnoreProperties({"password", "token"})`},
	},
	{Name: JacksonNamespace + "JsonProperty", Kind: PropertyKind, Description: "Renames a property",
		Parameters: map[string]ParameterSpec{
			"value":        str("Serialized property name"),
			"required":     flag("Whether the property must be present", false),
			"index":        integer("Property index"),
			"defaultValue": str("Textual default value"),
			"access":       enum("Access restriction", "AUTO", "READ_ONLY", "WRITE_ONLY", "READ_WRITE"),
		}},
	{
		Name:        JacksonNamespace + "JsonFormat",
		Kind:        FormatKind,
		Description: "Declares a number or date-time format",
		Parameters: map[string]ParameterSpec{
			"pattern":  str("Format pattern"),
			"shape":    enum("Serialized shape", "ANY", "NATURAL", "SCALAR", "ARRAY", "OBJECT", "NUMBER", "NUMBER_FLOAT", "NUMBER_INT", "STRING", "BOOLEAN", "BINARY"),
			"locale":   str("Locale tag"),
			"timezone": str("Time zone id"),
			"lenient":  enum("Leniency", "TRUE", "FALSE", "DEFAULT"),
		},
		Examples: []string{`@JsonFormat(pattern = "yyyy-MM-dd")`, `@JsonFormat(pattern = "#,##0.00")`},
	},
	{
		Name:        JacksonNamespace + "JsonTypeInfo",
		Kind:        TypeInfoKind,
		Description: "Declares how subtypes of this class are discriminated",
		Parameters: map[string]ParameterSpec{
			"use":         enum("Discriminator value derivation", typeIds...),
			"include":     enum("Discriminator inclusion", typeInclusions...),
			"property":    str("Discriminator property name"),
			"defaultImpl": class("Class used when no discriminator is present"),
			"visible":     flag("Expose the discriminator as a regular property", false),
		},
		Examples: []string{`@JsonTypeInfo(use = JsonTypeInfo.Id.NAME, include = JsonTypeInfo.As.PROPERTY, property = "kind")`},
	},
	{Name: JacksonNamespace + "JsonTypeName", Kind: TypeNameKind, Description: "Explicit discriminator value of a subtype",
		Parameters: map[string]ParameterSpec{"value": str("Discriminator value")}},
	{Name: JacksonNamespace + "JsonTypeId", Kind: TypeIdKind, Description: "Marks the member holding the type id"},
	{Name: JacksonNamespace + "JsonClassDescription", Kind: ClassDescriptionKind, Description: "Schema description of the class",
		Parameters: map[string]ParameterSpec{"value": str("Description")}},
	{Name: JacksonNamespace + "JsonRootName", Kind: RootNameKind, Description: "Root wrapper name of the class",
		Parameters: map[string]ParameterSpec{"value": str("Root name"), "namespace": str("XML namespace")}},
	{Name: JacksonNamespace + "JsonInclude", Kind: IncludeKind, Description: "Inclusion rule for values",
		Parameters: map[string]ParameterSpec{
			"value":   enum("Inclusion rule", "ALWAYS", "NON_NULL", "NON_ABSENT", "NON_EMPTY", "NON_DEFAULT", "CUSTOM", "USE_DEFAULTS"),
			"content": enum("Inclusion rule for content", "ALWAYS", "NON_NULL", "NON_ABSENT", "NON_EMPTY", "NON_DEFAULT", "CUSTOM", "USE_DEFAULTS"),
		}},
	{Name: JacksonNamespace + "JsonCreator", Kind: CreatorKind, Description: "Marks the constructor used for deserialization",
		Parameters: map[string]ParameterSpec{"mode": enum("Creator mode", "DEFAULT", "DELEGATING", "PROPERTIES", "DISABLED")}},
	{Name: JacksonNamespace + "JsonValue", Kind: ValueKind, Description: "Serializes the class as the value of this member",
		Parameters: map[string]ParameterSpec{"value": flag("Whether the marker is active", true)}},
	{Name: JacksonNamespace + "JsonAlias", Kind: AliasKind, Description: "Alternative names accepted on read",
		Parameters: map[string]ParameterSpec{"value": strs("Accepted aliases")}},
	{Name: JacksonNamespace + "JsonPropertyOrder", Kind: PropertyOrderKind, Description: "Serialization order of properties",
		Parameters: map[string]ParameterSpec{"value": strs("Ordered property names"), "alphabetic": flag("Sort remaining properties", false)}},
	{Name: JacksonNamespace + "JsonAutoDetect", Kind: AutoDetectKind, Description: "Member visibility rules",
		Parameters: map[string]ParameterSpec{
			"getterVisibility":   enum("Getter visibility", visibilities...),
			"isGetterVisibility": enum("Is-getter visibility", visibilities...),
			"setterVisibility":   enum("Setter visibility", visibilities...),
			"creatorVisibility":  enum("Creator visibility", visibilities...),
			"fieldVisibility":    enum("Field visibility", visibilities...),
		}},
	{Name: JacksonNamespace + "JsonFilter", Kind: FilterKind, Description: "Named property filter",
		Parameters: map[string]ParameterSpec{"value": str("Filter id")}},
	{Name: JacksonNamespace + "JsonBackReference", Kind: BackReferenceKind, Description: "Back link of a managed reference",
		Parameters: map[string]ParameterSpec{"value": str("Reference name")}},
	{Name: JacksonNamespace + "JsonMerge", Kind: MergeKind, Description: "Merge into existing values on read",
		Parameters: map[string]ParameterSpec{"value": enum("Merge toggle", "TRUE", "FALSE", "DEFAULT")}},
}

var jsonbSchemas = []MarkerSchema{
	{Name: JsonbNamespace + "JsonbTransient", Kind: IgnoredKind, Description: "Excludes a member from serialization"},
	{Name: JsonbNamespace + "JsonbProperty", Kind: PropertyKind, Description: "Renames a property",
		Parameters: map[string]ParameterSpec{"value": str("Serialized property name"), "nillable": flag("Serialize null values", false)}},
	{Name: JsonbNamespace + "JsonbDateFormat", Kind: FormatKind, Description: "Declares a date-time format",
		Parameters: map[string]ParameterSpec{"value": str("Date-time pattern"), "locale": str("Locale tag")}},
	{Name: JsonbNamespace + "JsonbNumberFormat", Kind: FormatKind, Description: "Declares a number format",
		Parameters: map[string]ParameterSpec{"value": str("Decimal pattern"), "locale": str("Locale tag")}},
	{Name: JsonbNamespace + "JsonbCreator", Kind: CreatorKind, Description: "Marks the constructor used for deserialization"},
	{Name: JsonbNamespace + "JsonbPropertyOrder", Kind: PropertyOrderKind, Description: "Serialization order of properties",
		Parameters: map[string]ParameterSpec{"value": strs("Ordered property names")}},
}

var bsonSchemas = []MarkerSchema{
	{Name: BsonNamespace + "BsonIgnore", Kind: IgnoredKind, Description: "Excludes a member from serialization"},
	{Name: BsonNamespace + "BsonProperty", Kind: PropertyKind, Description: "Renames a property",
		Parameters: map[string]ParameterSpec{"value": str("Serialized property name"), "useDiscriminator": flag("Encode the discriminator", false)}},
	{Name: BsonNamespace + "BsonCreator", Kind: CreatorKind, Description: "Marks the constructor used for deserialization"},
}

// GetBuiltinSchemas returns the whole catalog, own vocabulary first
func GetBuiltinSchemas() []MarkerSchema {
	all := make([]MarkerSchema, 0, len(serdeSchemas)+len(jacksonSchemas)+len(jsonbSchemas)+len(bsonSchemas))
	all = append(all, serdeSchemas...)
	all = append(all, jacksonSchemas...)
	all = append(all, jsonbSchemas...)
	all = append(all, bsonSchemas...)
	return all
}

// RegisterBuiltinSchemas registers the built-in catalog with a registry
func RegisterBuiltinSchemas(registry MarkerRegistry) error {
	for _, schema := range GetBuiltinSchemas() {
		if err := registry.Register(schema); err != nil {
			return fmt.Errorf("failed to register %s: %w", schema.Name, err)
		}
	}
	return nil
}

// ValidateIgnoreProperties rejects blank property names
func ValidateIgnoreProperties(marker *Marker) error {
	for _, name := range marker.GetStringSlice("value") {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("ignored property names cannot be blank")
		}
	}
	return nil
}
