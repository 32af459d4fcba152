package annotations

import (
	"fmt"
	"sync"
)

// MarkerRegistry defines the interface for managing marker schemas
type MarkerRegistry interface {
	// Register a marker with its schema
	Register(schema MarkerSchema) error

	// GetSchema retrieves the schema for a qualified marker name
	GetSchema(name string) (MarkerSchema, error)

	// ListNames returns all registered marker names in registration order
	ListNames() []string

	// IsRegistered checks if a qualified marker name is registered
	IsRegistered(name string) bool

	// KindOf returns the kind of a qualified marker name
	KindOf(name string) Kind

	// NameOf returns the canonical qualified name for a kind
	NameOf(kind Kind) (string, bool)

	// Lookup resolves a name relative to the recognized namespaces
	Lookup(relative string) (string, bool)
}

// registry is the concrete implementation of MarkerRegistry
type registry struct {
	mu      sync.RWMutex
	schemas map[string]MarkerSchema
	order   []string
}

// NewRegistry creates a new, empty marker registry
func NewRegistry() MarkerRegistry {
	return &registry{
		schemas: make(map[string]MarkerSchema),
	}
}

var (
	defaultRegistry     MarkerRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global registry holding the built-in catalog
func DefaultRegistry() MarkerRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		if err := RegisterBuiltinSchemas(defaultRegistry); err != nil {
			panic(fmt.Sprintf("invalid built-in marker catalog: %v", err))
		}
	})
	return defaultRegistry
}

// Register adds a marker schema to the registry
func (r *registry) Register(schema MarkerSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Name == "" {
		return fmt.Errorf("marker schema must have a name")
	}
	if schema.Kind == UnknownKind {
		return fmt.Errorf("marker %s must declare a kind", schema.Name)
	}
	if _, ok := NamespaceOf(schema.Name); !ok {
		return fmt.Errorf("marker %s is outside the recognized namespaces", schema.Name)
	}

	if _, exists := r.schemas[schema.Name]; exists {
		return fmt.Errorf("marker %s is already registered", schema.Name)
	}

	if err := r.validateSchema(schema); err != nil {
		return fmt.Errorf("invalid schema for %s: %w", schema.Name, err)
	}

	r.schemas[schema.Name] = schema
	r.order = append(r.order, schema.Name)
	return nil
}

// GetSchema retrieves the schema for a qualified marker name
func (r *registry) GetSchema(name string) (MarkerSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[name]
	if !exists {
		return MarkerSchema{}, fmt.Errorf("marker %s is not registered", name)
	}

	return schema, nil
}

// ListNames returns all registered marker names
func (r *registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// IsRegistered checks if a marker name is registered
func (r *registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[name]
	return exists
}

// KindOf returns the kind of a qualified marker name, or UnknownKind
func (r *registry) KindOf(name string) Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if schema, exists := r.schemas[name]; exists {
		return schema.Kind
	}
	return UnknownKind
}

// NameOf prefers the library's own namespace, then the others in order
func (r *registry) NameOf(kind Kind) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ns := range Namespaces {
		for _, name := range r.order {
			if r.schemas[name].Kind == kind && len(name) > len(ns) && name[:len(ns)] == ns {
				return name, true
			}
		}
	}
	return "", false
}

// Lookup tries the relative name under every namespace in order
func (r *registry) Lookup(relative string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ns := range Namespaces {
		if _, exists := r.schemas[ns+relative]; exists {
			return ns + relative, true
		}
	}
	return "", false
}

// validateSchema performs basic validation on a schema
func (r *registry) validateSchema(schema MarkerSchema) error {
	for paramName, paramSpec := range schema.Parameters {
		if paramName == "" {
			return fmt.Errorf("parameter name cannot be empty")
		}

		if paramSpec.Type < StringType || paramSpec.Type > ClassType {
			return fmt.Errorf("invalid parameter type for %s: %d", paramName, paramSpec.Type)
		}

		if paramSpec.Type == EnumType && len(paramSpec.Values) == 0 {
			return fmt.Errorf("enum parameter %s must list its values", paramName)
		}

		if paramSpec.DefaultValue != nil {
			if err := r.validateDefaultValue(paramName, paramSpec.Type, paramSpec.DefaultValue); err != nil {
				return err
			}
		}
	}

	return nil
}

// validateDefaultValue checks if the default value matches the parameter type
func (r *registry) validateDefaultValue(paramName string, paramType ParameterType, defaultValue interface{}) error {
	var ok bool
	switch paramType {
	case StringType:
		_, ok = defaultValue.(string)
	case BoolType:
		_, ok = defaultValue.(bool)
	case IntType:
		_, ok = defaultValue.(int)
	case StringSliceType:
		_, ok = defaultValue.([]string)
	case EnumType:
		_, ok = defaultValue.(Enum)
	case ClassType:
		_, ok = defaultValue.(ClassRef)
	}
	if !ok {
		return fmt.Errorf("default value for %s parameter %s has type %T", paramType.String(), paramName, defaultValue)
	}
	return nil
}
