package metadata

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/serdescan/internal/annotations"
	"github.com/toyz/serdescan/internal/models"
)

func marker(name string, params annotations.Params) *annotations.Marker {
	return annotations.NewMarker(name, params)
}

func jackson(simple string, params annotations.Params) *annotations.Marker {
	return marker(annotations.JacksonNamespace+simple, params)
}

func TestMemoryStoreAnnotate(t *testing.T) {
	store := NewMemoryStore()
	class := &models.Declaration{Kind: models.ClassDeclaration, Name: "Dog"}

	store.Annotate(class, annotations.SerdeableKind, nil)
	store.Annotate(class, annotations.IntrospectedKind, annotations.Params{"visibility": []string{"PUBLIC"}})

	attached := store.AttachedAll(class)
	require.Len(t, attached, 2)
	assert.Equal(t, annotations.SerdeNamespace+"Serdeable", attached[0].Name)
	assert.NotNil(t, attached[0].Params)
	assert.Equal(t, []string{"PUBLIC"}, attached[1].GetStringSlice("visibility"))

	assert.Len(t, store.Attached(class, annotations.SerdeableKind), 1)
	assert.Empty(t, store.Attached(class, annotations.SubtypedKind))

	_, declared := store.Declared(class, annotations.SerdeableKind)
	assert.False(t, declared, "attached markers must not appear as declared")
}

func TestMemoryStoreConcurrentAnnotate(t *testing.T) {
	store := NewMemoryStore()
	classes := make([]*models.Declaration, 10)
	for i := range classes {
		classes[i] = &models.Declaration{Kind: models.ClassDeclaration, Name: "C"}
	}

	var wg sync.WaitGroup
	for _, c := range classes {
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(c *models.Declaration) {
				defer wg.Done()
				store.Annotate(c, annotations.IgnoredKind, nil)
				_ = store.Attached(c, annotations.IgnoredKind)
			}(c)
		}
	}
	wg.Wait()

	for _, c := range classes {
		assert.Len(t, store.Attached(c, annotations.IgnoredKind), 5)
	}
}

func TestQueryTypeInfo(t *testing.T) {
	q := NewQuery(NewMemoryStore())
	class := &models.Declaration{
		Kind: models.ClassDeclaration,
		Name: "Animal",
		Markers: []*annotations.Marker{
			jackson("JsonTypeInfo", annotations.Params{
				"use":         annotations.Enum("NAME"),
				"property":    "kind",
				"defaultImpl": annotations.ClassRef("com.example.Dog"),
			}),
		},
	}

	info, ok := q.TypeInfo(class)
	require.True(t, ok)
	assert.Equal(t, TypeInfo{Use: "NAME", Property: "kind", DefaultImpl: "com.example.Dog"}, info)

	_, ok = q.TypeInfo(&models.Declaration{})
	assert.False(t, ok)
}

func TestQueryPattern(t *testing.T) {
	q := NewQuery(NewMemoryStore())

	jacksonFormat := &models.Declaration{Markers: []*annotations.Marker{jackson("JsonFormat", annotations.Params{"pattern": "#,##0.00"})}}
	jsonbFormat := &models.Declaration{Markers: []*annotations.Marker{
		marker(annotations.JsonbNamespace+"JsonbDateFormat", annotations.Params{"value": "yyyy-MM-dd"}),
	}}
	shapeOnly := &models.Declaration{Markers: []*annotations.Marker{jackson("JsonFormat", annotations.Params{"shape": annotations.Enum("STRING")})}}

	p, ok := q.Pattern(jacksonFormat)
	assert.True(t, ok)
	assert.Equal(t, "#,##0.00", p)

	p, ok = q.Pattern(jsonbFormat)
	assert.True(t, ok)
	assert.Equal(t, "yyyy-MM-dd", p)

	_, ok = q.Pattern(shapeOnly)
	assert.False(t, ok)
}

func TestQueryPropertyNameAndIgnored(t *testing.T) {
	store := NewMemoryStore()
	q := NewQuery(store)

	renamed := &models.Declaration{Markers: []*annotations.Marker{marker(annotations.BsonNamespace+"BsonProperty", annotations.Params{"value": "_id"})}}
	getter := &models.Declaration{Markers: []*annotations.Marker{jackson("JsonGetter", annotations.Params{"value": "full_name"})}}
	plain := &models.Declaration{}
	switchedOff := &models.Declaration{Markers: []*annotations.Marker{jackson("JsonIgnore", annotations.Params{"value": false})}}
	transient := &models.Declaration{Markers: []*annotations.Marker{marker(annotations.JsonbNamespace+"JsonbTransient", nil)}}

	name, ok := q.PropertyName(renamed)
	assert.True(t, ok)
	assert.Equal(t, "_id", name)

	name, ok = q.PropertyName(getter)
	assert.True(t, ok)
	assert.Equal(t, "full_name", name)

	_, ok = q.PropertyName(plain)
	assert.False(t, ok)

	assert.False(t, q.IsIgnored(switchedOff))
	assert.True(t, q.IsIgnored(transient))
	assert.False(t, q.IsIgnored(plain))

	store.Annotate(plain, annotations.IgnoredKind, nil)
	assert.True(t, q.IsIgnored(plain))
}

func TestQueryStereotypes(t *testing.T) {
	store := NewMemoryStore()
	q := NewQuery(store)

	serOnly := &models.Declaration{Markers: []*annotations.Marker{marker(annotations.SerdeNamespace+"Serdeable.Serializable", nil)}}
	assert.True(t, q.IsSerializable(serOnly))
	assert.False(t, q.IsDeserializable(serOnly))
	assert.True(t, q.HasStereotype(serOnly))

	bare := &models.Declaration{}
	assert.False(t, q.HasStereotype(bare))
	store.Annotate(bare, annotations.SerdeableKind, nil)
	assert.True(t, q.IsSerializable(bare))
	assert.True(t, q.IsDeserializable(bare))
}

func TestQuerySubtypedMerge(t *testing.T) {
	store := NewMemoryStore()
	q := NewQuery(store)
	class := &models.Declaration{}

	_, ok := q.Subtyped(class)
	assert.False(t, ok)

	store.Annotate(class, annotations.SubtypedKind, annotations.Params{"discriminatorType": annotations.Enum("PROPERTY")})
	store.Annotate(class, annotations.SubtypedKind, annotations.Params{
		"discriminatorValue": annotations.Enum("NAME"),
		"discriminatorProp":  "@type",
	})

	s, ok := q.Subtyped(class)
	require.True(t, ok)
	assert.Equal(t, Subtyped{DiscriminatorType: "PROPERTY", DiscriminatorValue: "NAME", DiscriminatorProp: "@type"}, s)

	_, ok = q.DeclaredSubtyped(class)
	assert.False(t, ok)
}

func TestQueryIgnorePropertiesAndMixin(t *testing.T) {
	q := NewQuery(NewMemoryStore())
	class := &models.Declaration{Markers: []*annotations.Marker{
		jackson("JsonIgnoreProperties", annotations.Params{"value": []string{"secret"}, "allowSetters": true}),
		marker(annotations.SerdeNamespace+"SerdeMixin", annotations.Params{"value": annotations.ClassRef("com.example.Point")}),
		marker(annotations.SerdeNamespace+"SerdeConfig.Error", annotations.Params{"value": "nope"}),
	}}

	ip, ok := q.IgnoreProperties(class)
	require.True(t, ok)
	assert.Equal(t, IgnoreProperties{Names: []string{"secret"}, AllowSetters: true}, ip)

	target, ok := q.Mixin(class)
	assert.True(t, ok)
	assert.Equal(t, "com.example.Point", target)

	msg, ok := q.ErrorMessage(class)
	assert.True(t, ok)
	assert.Equal(t, "nope", msg)
}

func TestQueryErrorMessageRequiresText(t *testing.T) {
	q := NewQuery(NewMemoryStore())

	empty := &models.Declaration{Markers: []*annotations.Marker{
		marker(annotations.SerdeNamespace+"SerdeConfig.Error", annotations.Params{"value": ""}),
	}}
	_, ok := q.ErrorMessage(empty)
	assert.False(t, ok)

	bare := &models.Declaration{Markers: []*annotations.Marker{
		marker(annotations.SerdeNamespace+"SerdeConfig.Error", nil),
	}}
	_, ok = q.ErrorMessage(bare)
	assert.False(t, ok)

	_, ok = q.ErrorMessage(&models.Declaration{})
	assert.False(t, ok)
}
