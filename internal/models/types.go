package models

import (
	"strings"
)

// TypeRef is a type as written in a declaration, optionally linked to a
// loaded class
type TypeRef struct {
	Name string // as written, simple or qualified
	Args []TypeRef
	Dims int          // array dimensions
	Decl *Declaration // set when Name resolves to a loaded class
}

// String renders the type the way it was written
func (t TypeRef) String() string {
	var b strings.Builder
	b.WriteString(t.Name)
	if len(t.Args) > 0 {
		b.WriteString("<")
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteString(">")
	}
	for i := 0; i < t.Dims; i++ {
		b.WriteString("[]")
	}
	return b.String()
}

// SimpleName returns the last segment of the type name
func (t TypeRef) SimpleName() string {
	if idx := strings.LastIndex(t.Name, "."); idx >= 0 {
		return t.Name[idx+1:]
	}
	return t.Name
}

// IsVoid reports whether the type is void
func (t TypeRef) IsVoid() bool {
	return t.Name == "void" && t.Dims == 0
}

// IsPrimitive reports whether the type is a primitive value type
func (t TypeRef) IsPrimitive() bool {
	_, ok := primitiveWrappers[t.Name]
	return ok && t.Dims == 0
}

// Category is a well-known supertype a declared type may be assignable to
type Category int

const (
	NumberCategory Category = iota
	TemporalCategory
	MapCategory
	StringCategory
)

var primitiveWrappers = map[string]string{
	"byte":    "java.lang.Byte",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
	"char":    "java.lang.Character",
	"boolean": "java.lang.Boolean",
}

// Well-known library types by qualified name
var categoryMembers = map[Category][]string{
	NumberCategory: {
		"java.lang.Number", "java.lang.Byte", "java.lang.Short", "java.lang.Integer",
		"java.lang.Long", "java.lang.Float", "java.lang.Double",
		"java.math.BigDecimal", "java.math.BigInteger",
		"java.util.concurrent.atomic.AtomicInteger", "java.util.concurrent.atomic.AtomicLong",
		"java.util.concurrent.atomic.DoubleAdder", "java.util.concurrent.atomic.LongAdder",
	},
	TemporalCategory: {
		"java.time.temporal.Temporal", "java.time.Instant", "java.time.LocalDate",
		"java.time.LocalDateTime", "java.time.LocalTime", "java.time.OffsetDateTime",
		"java.time.OffsetTime", "java.time.ZonedDateTime", "java.time.Year", "java.time.YearMonth",
		"java.time.chrono.ChronoLocalDate", "java.time.chrono.ChronoLocalDateTime",
		"java.time.chrono.ChronoZonedDateTime", "java.time.chrono.HijrahDate",
		"java.time.chrono.JapaneseDate", "java.time.chrono.MinguoDate", "java.time.chrono.ThaiBuddhistDate",
	},
	MapCategory: {
		"java.util.Map", "java.util.HashMap", "java.util.LinkedHashMap", "java.util.TreeMap",
		"java.util.SortedMap", "java.util.NavigableMap", "java.util.Hashtable", "java.util.Properties",
		"java.util.EnumMap", "java.util.WeakHashMap", "java.util.IdentityHashMap",
		"java.util.concurrent.ConcurrentMap", "java.util.concurrent.ConcurrentHashMap",
		"java.util.concurrent.ConcurrentNavigableMap", "java.util.concurrent.ConcurrentSkipListMap",
	},
	StringCategory: {
		"java.lang.String",
	},
}

var (
	qualifiedCategory = map[string]Category{}
	simpleCategory    = map[string]Category{}
)

func init() {
	for cat, names := range categoryMembers {
		for _, name := range names {
			qualifiedCategory[name] = cat
			simpleCategory[name[strings.LastIndex(name, ".")+1:]] = cat
		}
	}
}

// IsAssignableTo reports whether a value of this type can be assigned to the
// category's root type. Primitives count as their wrappers; loaded classes
// are followed up their superclass chain.
func (t TypeRef) IsAssignableTo(cat Category) bool {
	if t.Dims > 0 {
		return false
	}
	if wrapper, ok := primitiveWrappers[t.Name]; ok {
		return isMember(wrapper, cat)
	}

	seen := map[*Declaration]bool{}
	current := t
	for {
		if current.Decl == nil {
			return current.knownAs(cat)
		}
		decl := current.Decl
		if seen[decl] || decl.SuperType == nil {
			return false
		}
		seen[decl] = true
		current = *decl.SuperType
	}
}

// knownAs checks a type that is not a loaded class against the library tables
func (t TypeRef) knownAs(cat Category) bool {
	if strings.Contains(t.Name, ".") {
		return isMember(t.Name, cat)
	}
	got, ok := simpleCategory[t.Name]
	return ok && got == cat
}

func isMember(name string, cat Category) bool {
	got, ok := qualifiedCategory[name]
	return ok && got == cat
}

// IsNumber reports whether the type is numeric
func (t TypeRef) IsNumber() bool { return t.IsAssignableTo(NumberCategory) }

// IsTemporal reports whether the type is a date-time type
func (t TypeRef) IsTemporal() bool { return t.IsAssignableTo(TemporalCategory) }

// IsMap reports whether the type is a map
func (t TypeRef) IsMap() bool { return t.IsAssignableTo(MapCategory) }

// IsString reports whether the type is a string
func (t TypeRef) IsString() bool { return t.IsAssignableTo(StringCategory) }
