package models

// Descriptor is the serialization metadata synthesized for one eligible class
type Descriptor struct {
	Class             string   `json:"class" yaml:"class"`
	Serializable      bool     `json:"serializable" yaml:"serializable"`
	Deserializable    bool     `json:"deserializable" yaml:"deserializable"`
	Bootstrapped      bool     `json:"bootstrapped,omitempty" yaml:"bootstrapped,omitempty"`
	IgnoredProperties []string `json:"ignoredProperties,omitempty" yaml:"ignoredProperties,omitempty"`

	// Inherited discriminator naming
	TypeName            string `json:"typeName,omitempty" yaml:"typeName,omitempty"`
	TypePropertyName    string `json:"typePropertyName,omitempty" yaml:"typePropertyName,omitempty"`
	WrapperPropertyName string `json:"wrapperPropertyName,omitempty" yaml:"wrapperPropertyName,omitempty"`

	// The class's own discriminator strategy
	DiscriminatorValueKind string `json:"discriminatorValueKind,omitempty" yaml:"discriminatorValueKind,omitempty"`
	DiscriminatorInclude   string `json:"discriminatorInclude,omitempty" yaml:"discriminatorInclude,omitempty"`
	DiscriminatorProperty  string `json:"discriminatorProperty,omitempty" yaml:"discriminatorProperty,omitempty"`
	DefaultImplementation  string `json:"defaultImplementation,omitempty" yaml:"defaultImplementation,omitempty"`

	Members []MemberDescriptor `json:"members,omitempty" yaml:"members,omitempty"`
}

// MemberDescriptor records the per-member outcome of marker processing
type MemberDescriptor struct {
	Name      string `json:"name" yaml:"name"`
	Kind      string `json:"kind" yaml:"kind"`
	Property  string `json:"property,omitempty" yaml:"property,omitempty"`
	Ignored   bool   `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Renamed   bool   `json:"renamed,omitempty" yaml:"renamed,omitempty"`
	Unwrapped bool   `json:"unwrapped,omitempty" yaml:"unwrapped,omitempty"`
	AnyGetter bool   `json:"anyGetter,omitempty" yaml:"anyGetter,omitempty"`
	AnySetter bool   `json:"anySetter,omitempty" yaml:"anySetter,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}
