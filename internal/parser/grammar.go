package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// declarationLexer tokenizes declaration files. Dotted names, class
// literals and wildcard imports lex as a single Ident.
var declarationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*|/\*([^*]|\*+[^*/])*\*+/`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*(\.[a-zA-Z_$][a-zA-Z0-9_$]*)*(\.\*)?`},
	{Name: "Punct", Pattern: `[@(){}<>\[\],;=?]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type fileAST struct {
	Pos     lexer.Position
	Package string       `parser:"('package' @Ident ';')?"`
	Imports []*importAST `parser:"@@*"`
	Classes []*classAST  `parser:"@@*"`
}

type importAST struct {
	Pos  lexer.Position
	Path string `parser:"'import' @Ident ';'"`
}

type classAST struct {
	Pos      lexer.Position
	Prefixes []*prefixAST `parser:"@@*"`
	Name     string       `parser:"'class' @Ident"`
	Extends  *typeAST     `parser:"('extends' @@)?"`
	Members  []*memberAST `parser:"'{' @@* '}'"`
}

// prefixAST is a marker or a modifier written before a declaration
type prefixAST struct {
	Marker   *markerAST `parser:"  @@"`
	Static   bool       `parser:"| @'static'"`
	Modifier string     `parser:"| @('public' | 'protected' | 'private' | 'final' | 'abstract' | 'transient')"`
}

type markerAST struct {
	Pos  lexer.Position
	Name string    `parser:"'@' @Ident"`
	Args []*argAST `parser:"('(' (@@ (',' @@)*)? ')')?"`
}

type argAST struct {
	Name  string    `parser:"(@Ident '=')?"`
	Value *valueAST `parser:"@@"`
}

type valueAST struct {
	String *string   `parser:"  @String"`
	Number *float64  `parser:"| @Number"`
	Ident  *string   `parser:"| @Ident"`
	Array  *arrayAST `parser:"| @@"`
}

type arrayAST struct {
	Elements []*valueAST `parser:"'{' (@@ (',' @@)*)? '}'"`
}

// memberAST is a field, a method, or a constructor. Constructors have no
// name; methods and constructors have a parameter list.
type memberAST struct {
	Pos      lexer.Position
	Prefixes []*prefixAST `parser:"@@*"`
	Type     *typeAST     `parser:"@@"`
	Name     string       `parser:"@Ident?"`
	Call     *callAST     `parser:"@@? ';'"`
}

type callAST struct {
	Params []*paramAST `parser:"'(' (@@ (',' @@)*)? ')'"`
}

type paramAST struct {
	Prefixes []*prefixAST `parser:"@@*"`
	Type     *typeAST     `parser:"@@"`
	Name     string       `parser:"@Ident"`
}

type typeAST struct {
	Name string        `parser:"@Ident"`
	Args []*typeArgAST `parser:"('<' @@ (',' @@)* '>')?"`
	Dims []string      `parser:"@('[' ']')*"`
}

type typeArgAST struct {
	Wildcard *wildcardAST `parser:"  @@"`
	Type     *typeAST     `parser:"| @@"`
}

type wildcardAST struct {
	Bound *typeAST `parser:"'?' (('extends' | 'super') @@)?"`
}

func newFileParser() *participle.Parser[fileAST] {
	return participle.MustBuild[fileAST](
		participle.Lexer(declarationLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
}
