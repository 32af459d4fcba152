// Package pattern checks formatting patterns against the grammar implied by
// the property type they are attached to.
package pattern

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/serdescan/internal/models"
)

// Failure reasons
const (
	InvalidDecimalFormat = "invalid decimal format"
	InvalidDateFormat    = "invalid date format"
)

// Error reports a pattern that does not parse under the expected grammar
type Error struct {
	Reason  string
	Pattern string
	Detail  string
}

func (e *Error) Error() string {
	kind := "decimal format"
	if e.Reason == InvalidDateFormat {
		kind = "date format"
	}
	return fmt.Sprintf("Specified pattern [%s] is not a valid %s: %s", e.Pattern, kind, e.Detail)
}

// Validate checks pattern against the grammar for propertyType. Numeric
// types use the decimal grammar, temporal types the date-time grammar; any
// other type is accepted unchecked.
func Validate(propertyType models.TypeRef, pattern string) error {
	switch {
	case propertyType.IsNumber():
		return ValidateDecimal(pattern)
	case propertyType.IsTemporal():
		return ValidateDateTime(pattern)
	}
	return nil
}

// PropertyType resolves the type a pattern on the declaration applies to:
// a field's type, a getter's return type, or a setter's first parameter.
// Classes and constructors have none.
func PropertyType(d *models.Declaration) (models.TypeRef, bool) {
	switch d.Kind {
	case models.FieldDeclaration:
		return d.Type, true
	case models.MethodDeclaration:
		if len(d.Parameters) == 0 {
			return d.Type, true
		}
		return d.Parameters[0].Type, true
	}
	return models.TypeRef{}, false
}

func tokenize(def *lexer.StatefulDefinition, pattern string) ([]lexer.Token, error) {
	lex, err := def.LexString("", pattern)
	if err != nil {
		return nil, err
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, err
	}
	out := tokens[:0]
	for _, t := range tokens {
		if !t.EOF() {
			out = append(out, t)
		}
	}
	return out, nil
}
