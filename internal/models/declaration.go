package models

import (
	"strings"

	"github.com/toyz/serdescan/internal/annotations"
	"github.com/toyz/serdescan/internal/errors"
)

// DeclarationKind distinguishes the program elements markers can be placed on
type DeclarationKind int

const (
	ClassDeclaration DeclarationKind = iota
	FieldDeclaration
	MethodDeclaration
	ConstructorDeclaration
)

// String returns the string representation of the declaration kind
func (k DeclarationKind) String() string {
	switch k {
	case ClassDeclaration:
		return "class"
	case FieldDeclaration:
		return "field"
	case MethodDeclaration:
		return "method"
	case ConstructorDeclaration:
		return "constructor"
	default:
		return "unknown"
	}
}

// Parameter is one formal parameter of a method or constructor
type Parameter struct {
	Name string
	Type TypeRef
}

// Declaration is a class or one of its members as loaded from a declaration file
type Declaration struct {
	Kind       DeclarationKind
	Name       string
	Package    string       // classes only
	Owner      *Declaration // members only
	Type       TypeRef      // field type, or method return type
	Static     bool
	Parameters []Parameter
	Markers    []*annotations.Marker // declared markers, read-only after loading
	Super      *Declaration          // resolved superclass, nil when external or absent
	SuperType  *TypeRef              // superclass as written
	Members    []*Declaration
	Location   errors.SourceLocation
}

// QualifiedName returns the package-qualified class name, or the owner's
// qualified name joined with the member name
func (d *Declaration) QualifiedName() string {
	if d.Kind != ClassDeclaration {
		if d.Owner == nil {
			return d.Name
		}
		return d.Owner.QualifiedName() + "." + d.Name
	}
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

// Description renders the declaration for diagnostics
func (d *Declaration) Description() string {
	switch d.Kind {
	case MethodDeclaration:
		return d.QualifiedName() + "(" + d.parameterTypes() + ")"
	case ConstructorDeclaration:
		owner := d.Name
		if d.Owner != nil {
			owner = d.Owner.QualifiedName()
		}
		return owner + "(" + d.parameterTypes() + ")"
	default:
		return d.QualifiedName()
	}
}

// SourceLocation returns where the declaration was written
func (d *Declaration) SourceLocation() errors.SourceLocation {
	return d.Location
}

func (d *Declaration) parameterTypes() string {
	types := make([]string, len(d.Parameters))
	for i, p := range d.Parameters {
		types[i] = p.Type.String()
	}
	return strings.Join(types, ", ")
}

// Fields returns the field members in declaration order
func (d *Declaration) Fields() []*Declaration {
	return d.membersOf(FieldDeclaration)
}

// Methods returns the method members in declaration order
func (d *Declaration) Methods() []*Declaration {
	return d.membersOf(MethodDeclaration)
}

// Constructors returns the constructor members in declaration order
func (d *Declaration) Constructors() []*Declaration {
	return d.membersOf(ConstructorDeclaration)
}

func (d *Declaration) membersOf(kind DeclarationKind) []*Declaration {
	var out []*Declaration
	for _, m := range d.Members {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// Ancestors returns the resolved superclass chain, nearest first.
// The walk stops at the first repeated class.
func (d *Declaration) Ancestors() []*Declaration {
	var chain []*Declaration
	seen := map[*Declaration]bool{d: true}
	for c := d.Super; c != nil && !seen[c]; c = c.Super {
		seen[c] = true
		chain = append(chain, c)
	}
	return chain
}
