package annotations

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Marker namespaces the catalog recognizes, in resolution order
const (
	SerdeNamespace   = "serde.annotation."
	JacksonNamespace = "com.fasterxml.jackson.annotation."
	JsonbNamespace   = "jakarta.json.bind.annotation."
	BsonNamespace    = "org.bson.codecs.pojo.annotations."
)

// Namespaces lists the recognized namespaces; the first one is the
// library's own vocabulary and is used for attached markers.
var Namespaces = []string{
	SerdeNamespace,
	JacksonNamespace,
	JsonbNamespace,
	BsonNamespace,
}

var forbiddenKinds = map[Kind]bool{
	FilterKind:        true,
	BackReferenceKind: true,
	AutoDetectKind:    true,
	MergeKind:         true,
}

// IsForbidden reports whether markers of this kind are rejected outright
func IsForbidden(kind Kind) bool {
	return forbiddenKinds[kind]
}

// ForbiddenKinds returns the refused kinds in a stable order
func ForbiddenKinds() []Kind {
	kinds := lo.Keys(forbiddenKinds)
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// EligibilityKinds are the class markers that opt a class into serialization
var EligibilityKinds = []Kind{
	ClassDescriptionKind,
	TypeInfoKind,
	RootNameKind,
	TypeNameKind,
	TypeIdKind,
	AutoDetectKind,
}

// NamespaceOf returns the recognized namespace a qualified name belongs to
func NamespaceOf(name string) (string, bool) {
	return lo.Find(Namespaces, func(ns string) bool {
		return strings.HasPrefix(name, ns)
	})
}

// SimpleName strips a recognized namespace, or everything up to the last
// dot for names outside the catalog
func SimpleName(name string) string {
	if ns, ok := NamespaceOf(name); ok {
		return strings.TrimPrefix(name, ns)
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func sortedKeys(params Params) []string {
	keys := lo.Keys(params)
	sort.Strings(keys)
	return keys
}
