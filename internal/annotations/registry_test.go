package annotations

import (
	"fmt"
	"sync"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry()
	if registry == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	if names := registry.ListNames(); len(names) != 0 {
		t.Errorf("Expected empty registry, got %d names", len(names))
	}
}

func TestDefaultRegistry(t *testing.T) {
	registry1 := DefaultRegistry()
	registry2 := DefaultRegistry()

	if registry1 != registry2 {
		t.Error("DefaultRegistry() should return the same instance")
	}

	if len(registry1.ListNames()) != len(GetBuiltinSchemas()) {
		t.Errorf("Expected %d built-in markers, got %d", len(GetBuiltinSchemas()), len(registry1.ListNames()))
	}
}

func TestRegister(t *testing.T) {
	registry := NewRegistry()

	schema := MarkerSchema{
		Name:        JacksonNamespace + "JsonTypeName",
		Kind:        TypeNameKind,
		Description: "test",
		Parameters: map[string]ParameterSpec{
			"value": {Type: StringType},
		},
	}

	if err := registry.Register(schema); err != nil {
		t.Errorf("Failed to register schema: %v", err)
	}

	if !registry.IsRegistered(schema.Name) {
		t.Error("Schema should be registered")
	}

	if err := registry.Register(schema); err == nil {
		t.Error("Expected error when registering duplicate schema")
	}
}

func TestRegisterInvalidSchema(t *testing.T) {
	tests := []struct {
		name   string
		schema MarkerSchema
	}{
		{
			name:   "missing name",
			schema: MarkerSchema{Kind: TypeNameKind},
		},
		{
			name:   "missing kind",
			schema: MarkerSchema{Name: SerdeNamespace + "Thing"},
		},
		{
			name:   "foreign namespace",
			schema: MarkerSchema{Name: "org.example.Thing", Kind: TypeNameKind},
		},
		{
			name: "empty parameter name",
			schema: MarkerSchema{
				Name:       SerdeNamespace + "Thing",
				Kind:       TypeNameKind,
				Parameters: map[string]ParameterSpec{"": {Type: StringType}},
			},
		},
		{
			name: "enum without values",
			schema: MarkerSchema{
				Name:       SerdeNamespace + "Thing",
				Kind:       TypeNameKind,
				Parameters: map[string]ParameterSpec{"mode": {Type: EnumType}},
			},
		},
		{
			name: "default value type mismatch",
			schema: MarkerSchema{
				Name:       SerdeNamespace + "Thing",
				Kind:       TypeNameKind,
				Parameters: map[string]ParameterSpec{"enabled": {Type: BoolType, DefaultValue: "yes"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewRegistry().Register(tt.schema); err == nil {
				t.Errorf("Expected registration of %q to fail", tt.name)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	registry := DefaultRegistry()

	tests := []struct {
		name string
		want Kind
	}{
		{JacksonNamespace + "JsonAnyGetter", AnyGetterKind},
		{SerdeNamespace + "SerdeConfig.AnyGetter", AnyGetterKind},
		{JsonbNamespace + "JsonbTransient", IgnoredKind},
		{BsonNamespace + "BsonIgnore", IgnoredKind},
		{JsonbNamespace + "JsonbNumberFormat", FormatKind},
		{JacksonNamespace + "JsonFilter", FilterKind},
		{"org.example.Custom", UnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registry.KindOf(tt.name); got != tt.want {
				t.Errorf("KindOf(%s) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestNameOfPrefersOwnNamespace(t *testing.T) {
	registry := DefaultRegistry()

	tests := []struct {
		kind Kind
		want string
	}{
		{IgnoredKind, SerdeNamespace + "SerdeConfig.Ignored"},
		{SerdeableKind, SerdeNamespace + "Serdeable"},
		{SubtypedKind, SerdeNamespace + "SerdeConfig.Subtyped"},
		{TypeInfoKind, JacksonNamespace + "JsonTypeInfo"},
	}

	for _, tt := range tests {
		got, ok := registry.NameOf(tt.kind)
		if !ok || got != tt.want {
			t.Errorf("NameOf(%s) = %q, %v; want %q", tt.kind, got, ok, tt.want)
		}
	}

	if _, ok := registry.NameOf(UnknownKind); ok {
		t.Error("NameOf(UnknownKind) should not resolve")
	}
}

func TestLookup(t *testing.T) {
	registry := DefaultRegistry()

	if got, ok := registry.Lookup("JsonTypeInfo"); !ok || got != JacksonNamespace+"JsonTypeInfo" {
		t.Errorf("Lookup(JsonTypeInfo) = %q, %v", got, ok)
	}
	if got, ok := registry.Lookup("SerdeConfig.Error"); !ok || got != SerdeNamespace+"SerdeConfig.Error" {
		t.Errorf("Lookup(SerdeConfig.Error) = %q, %v", got, ok)
	}
	if _, ok := registry.Lookup("Nonexistent"); ok {
		t.Error("Lookup(Nonexistent) should fail")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("%sMarker%d", SerdeNamespace, i)
			if err := registry.Register(MarkerSchema{Name: name, Kind: TypeNameKind}); err != nil {
				t.Errorf("Register(%s) failed: %v", name, err)
			}
			_ = registry.KindOf(name)
			_, _ = registry.Lookup(fmt.Sprintf("Marker%d", i))
		}(i)
	}
	wg.Wait()

	if got := len(registry.ListNames()); got != 20 {
		t.Errorf("Expected 20 registered markers, got %d", got)
	}
}
