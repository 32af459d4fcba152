package models

import (
	"strings"
	"unicode"
)

// BeanProperty groups the field and accessor methods that share a property name
type BeanProperty struct {
	Name   string
	Field  *Declaration
	Getter *Declaration
	Setter *Declaration
}

// Elements returns the declarations backing the property
func (p *BeanProperty) Elements() []*Declaration {
	var out []*Declaration
	for _, d := range []*Declaration{p.Field, p.Getter, p.Setter} {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// AccessorRole tells how a member participates in a bean property
type AccessorRole int

const (
	NoRole AccessorRole = iota
	FieldRole
	GetterRole
	SetterRole
)

// PropertyOf derives the bean property name and role of a member.
// Static members never back a property.
func PropertyOf(member *Declaration) (string, AccessorRole) {
	if member.Static {
		return "", NoRole
	}

	switch member.Kind {
	case FieldDeclaration:
		return member.Name, FieldRole
	case MethodDeclaration:
		name := member.Name
		switch {
		case len(member.Parameters) == 0 && !member.Type.IsVoid():
			if rest, ok := accessorSuffix(name, "get"); ok {
				return Decapitalize(rest), GetterRole
			}
			if rest, ok := accessorSuffix(name, "is"); ok && isBoolean(member.Type) {
				return Decapitalize(rest), GetterRole
			}
		case len(member.Parameters) == 1:
			if rest, ok := accessorSuffix(name, "set"); ok {
				return Decapitalize(rest), SetterRole
			}
		}
	}

	return "", NoRole
}

// BeanProperties derives the class's properties in first-seen order
func BeanProperties(class *Declaration) []*BeanProperty {
	var ordered []*BeanProperty
	byName := map[string]*BeanProperty{}

	for _, member := range class.Members {
		name, role := PropertyOf(member)
		if role == NoRole {
			continue
		}

		prop, ok := byName[name]
		if !ok {
			prop = &BeanProperty{Name: name}
			byName[name] = prop
			ordered = append(ordered, prop)
		}

		switch role {
		case FieldRole:
			prop.Field = member
		case GetterRole:
			if prop.Getter == nil {
				prop.Getter = member
			}
		case SetterRole:
			if prop.Setter == nil {
				prop.Setter = member
			}
		}
	}

	return ordered
}

// Decapitalize lowercases the first letter unless the first two letters are
// both upper case, so "URL" stays "URL" and "Name" becomes "name"
func Decapitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	if len(runes) > 1 && unicode.IsUpper(runes[0]) && unicode.IsUpper(runes[1]) {
		return s
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func accessorSuffix(name, prefix string) (string, bool) {
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return "", false
	}
	rest := name[len(prefix):]
	if !unicode.IsUpper([]rune(rest)[0]) {
		return "", false
	}
	return rest, true
}

func isBoolean(t TypeRef) bool {
	return t.Dims == 0 && (t.Name == "boolean" || t.Name == "Boolean" || t.Name == "java.lang.Boolean")
}
