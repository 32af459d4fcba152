// Package parser loads declaration files into a linked declaration graph.
package parser

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"go.uber.org/zap"

	"github.com/toyz/serdescan/internal/annotations"
	"github.com/toyz/serdescan/internal/errors"
	"github.com/toyz/serdescan/internal/logging"
	"github.com/toyz/serdescan/internal/models"
	"github.com/toyz/serdescan/internal/utils"
)

// Source is one declaration file's content
type Source struct {
	Path    string
	Content string
}

// Loader parses declaration files and links the classes they declare
type Loader struct {
	parser    *participle.Parser[fileAST]
	registry  annotations.MarkerRegistry
	validator annotations.SchemaValidator
	reader    *utils.SourceReader
	logger    *zap.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithRegistry sets the marker catalog used to resolve and validate markers
func WithRegistry(registry annotations.MarkerRegistry) Option {
	return func(l *Loader) {
		l.registry = registry
	}
}

// WithReader shares a source reader, and its cache, between loaders
func WithReader(reader *utils.SourceReader) Option {
	return func(l *Loader) {
		if reader != nil {
			l.reader = reader
		}
	}
}

// WithLogger sets the logger used for load tracing
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader backed by the default catalog
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		parser:    newFileParser(),
		registry:  annotations.DefaultRegistry(),
		validator: annotations.NewValidator(),
		reader:    utils.NewSourceReader(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = logging.For(l.logger, logging.ComponentLoader)
	return l
}

// LoadFiles reads and loads the given files
func (l *Loader) LoadFiles(paths []string) (*models.Graph, error) {
	all := errors.NewMultipleErrors()
	sources := make([]Source, 0, len(paths))

	for _, path := range paths {
		content, err := l.reader.ReadFile(path)
		if err != nil {
			addAll(all, err)
			continue
		}
		sources = append(sources, Source{Path: path, Content: content})
	}

	graph, err := l.LoadSources(sources)
	if err != nil {
		addAll(all, err)
	}
	return graph, all.ErrOrNil()
}

// LoadSources parses and links in-memory sources. A graph is returned even
// when some sources fail; it holds every class that could be loaded.
func (l *Loader) LoadSources(sources []Source) (*models.Graph, error) {
	all := errors.NewMultipleErrors()

	var units []*unit
	for _, src := range sources {
		ast, err := l.parser.ParseString(src.Path, src.Content)
		if err != nil {
			all.Add(syntaxError(src.Path, err))
			continue
		}
		units = append(units, newUnit(src.Path, ast))
	}

	index := make(map[string]*models.Declaration)
	var classes []*models.Declaration
	for _, u := range units {
		for _, c := range u.declare() {
			name := c.QualifiedName()
			if previous, exists := index[name]; exists {
				all.Add(errors.NewDuplicateClassError(name, c.Location, previous.Location))
				continue
			}
			index[name] = c
			classes = append(classes, c)
		}
	}

	linker := &linker{loader: l, index: index, errs: all}
	for _, u := range units {
		linker.link(u)
	}

	l.logger.Debug("loaded declarations",
		zap.Int("files", len(sources)),
		zap.Int("classes", len(classes)),
		zap.Int("errors", all.Count()))

	return models.NewGraph(classes), all.ErrOrNil()
}

func syntaxError(path string, err error) errors.SerdeError {
	loc := errors.SourceLocation{File: path}
	message := err.Error()
	if perr, ok := err.(participle.Error); ok {
		pos := perr.Position()
		loc.Line, loc.Column = pos.Line, pos.Column
		message = perr.Message()
	}
	return errors.NewSyntaxError(message).WithLocation(loc)
}

func addAll(all *errors.MultipleErrors, err error) {
	if multi, ok := err.(*errors.MultipleErrors); ok {
		for _, e := range multi.Errors {
			all.Add(e)
		}
		return
	}
	if serr, ok := err.(errors.SerdeError); ok {
		all.Add(serr)
		return
	}
	all.Add(errors.Wrap(errors.UnknownErrorCode, err.Error(), err))
}

// unit is one parsed file and the classes it declares
type unit struct {
	path     string
	ast      *fileAST
	imports  []string // single-type imports
	wildcard []string // wildcard import prefixes, without the trailing ".*"
	classes  map[*classAST]*models.Declaration
}

func newUnit(path string, ast *fileAST) *unit {
	u := &unit{path: path, ast: ast, classes: make(map[*classAST]*models.Declaration)}
	for _, imp := range ast.Imports {
		if prefix, ok := strings.CutSuffix(imp.Path, ".*"); ok {
			u.wildcard = append(u.wildcard, prefix)
		} else {
			u.imports = append(u.imports, imp.Path)
		}
	}
	return u
}

func (u *unit) location(line, column int) errors.SourceLocation {
	return errors.SourceLocation{File: u.path, Line: line, Column: column}
}

// declare creates the class declarations and their members, unlinked
func (u *unit) declare() []*models.Declaration {
	var out []*models.Declaration
	for _, c := range u.ast.Classes {
		class := &models.Declaration{
			Kind:     models.ClassDeclaration,
			Name:     c.Name,
			Package:  u.ast.Package,
			Location: u.location(c.Pos.Line, c.Pos.Column),
		}
		for _, m := range c.Members {
			class.Members = append(class.Members, u.declareMember(class, m))
		}
		u.classes[c] = class
		out = append(out, class)
	}
	return out
}

func (u *unit) declareMember(owner *models.Declaration, m *memberAST) *models.Declaration {
	d := &models.Declaration{
		Owner:    owner,
		Name:     m.Name,
		Location: u.location(m.Pos.Line, m.Pos.Column),
	}
	for _, p := range m.Prefixes {
		if p.Static {
			d.Static = true
		}
	}

	switch {
	case m.Call == nil:
		d.Kind = models.FieldDeclaration
	case m.Name == "":
		d.Kind = models.ConstructorDeclaration
		d.Name = m.Type.Name
	default:
		d.Kind = models.MethodDeclaration
	}
	return d
}

// linker resolves names against every loaded class
type linker struct {
	loader *Loader
	index  map[string]*models.Declaration
	errs   *errors.MultipleErrors
}

func (k *linker) link(u *unit) {
	for _, c := range u.ast.Classes {
		class := u.classes[c]
		if class == nil {
			continue
		}
		if k.index[class.QualifiedName()] != class {
			continue // duplicate, already reported
		}

		class.Markers = k.markers(u, c.Prefixes)
		if c.Extends != nil {
			super := k.typeRef(u, c.Extends)
			class.SuperType = &super
			class.Super = super.Decl
		}

		for i, m := range c.Members {
			member := class.Members[i]
			member.Markers = k.markers(u, m.Prefixes)

			switch member.Kind {
			case models.FieldDeclaration, models.MethodDeclaration:
				member.Type = k.typeRef(u, m.Type)
			case models.ConstructorDeclaration:
				if m.Type.Name != c.Name {
					k.errs.Add(errors.NewSyntaxError(
						fmt.Sprintf("method %s in class %s has no return type", m.Type.Name, c.Name)).
						WithToken(m.Type.Name).
						WithLocation(member.Location))
				}
			}

			if m.Call != nil {
				for _, p := range m.Call.Params {
					member.Parameters = append(member.Parameters, models.Parameter{
						Name: p.Name,
						Type: k.typeRef(u, p.Type),
					})
				}
			}
		}
	}
}

func (k *linker) typeRef(u *unit, t *typeAST) models.TypeRef {
	ref := models.TypeRef{Name: t.Name, Dims: len(t.Dims) / 2}
	if decl, ok := k.class(u, t.Name); ok {
		ref.Decl = decl
	}
	for _, arg := range t.Args {
		switch {
		case arg.Type != nil:
			ref.Args = append(ref.Args, k.typeRef(u, arg.Type))
		case arg.Wildcard != nil && arg.Wildcard.Bound != nil:
			ref.Args = append(ref.Args, k.typeRef(u, arg.Wildcard.Bound))
		default:
			ref.Args = append(ref.Args, models.TypeRef{Name: "?"})
		}
	}
	return ref
}

// class resolves a written class name: fully qualified, same package,
// single-type imports, then wildcard imports
func (k *linker) class(u *unit, name string) (*models.Declaration, bool) {
	for _, candidate := range k.classCandidates(u, name) {
		if decl, ok := k.index[candidate]; ok {
			return decl, true
		}
	}
	return nil, false
}

func (k *linker) classCandidates(u *unit, name string) []string {
	candidates := []string{name}
	if u.ast.Package != "" {
		candidates = append(candidates, u.ast.Package+"."+name)
	}
	first, rest, _ := strings.Cut(name, ".")
	for _, imp := range u.imports {
		if lastSegment(imp) == first {
			if rest == "" {
				candidates = append(candidates, imp)
			} else {
				candidates = append(candidates, imp+"."+rest)
			}
		}
	}
	for _, prefix := range u.wildcard {
		candidates = append(candidates, prefix+"."+name)
	}
	return candidates
}

// qualifiedClass returns the qualified name of a loaded class, or the name
// as written when it does not resolve
func (k *linker) qualifiedClass(u *unit, name string) string {
	if decl, ok := k.class(u, name); ok {
		return decl.QualifiedName()
	}
	for _, imp := range u.imports {
		if lastSegment(imp) == name {
			return imp
		}
	}
	return name
}

// markerName resolves a written marker name against the catalog: exact,
// single-type imports, wildcard imports, then every known namespace
func (k *linker) markerName(u *unit, written string) string {
	registry := k.loader.registry
	if registry.IsRegistered(written) {
		return written
	}

	first, rest, nested := strings.Cut(written, ".")
	for _, imp := range u.imports {
		if lastSegment(imp) != first {
			continue
		}
		candidate := imp
		if nested {
			candidate = imp + "." + rest
		}
		if registry.IsRegistered(candidate) {
			return candidate
		}
	}

	for _, prefix := range u.wildcard {
		if candidate := prefix + "." + written; registry.IsRegistered(candidate) {
			return candidate
		}
	}

	if name, ok := registry.Lookup(written); ok {
		return name
	}

	// outside the catalog: keep the imported name when there is one
	for _, imp := range u.imports {
		if lastSegment(imp) == first {
			if nested {
				return imp + "." + rest
			}
			return imp
		}
	}
	return written
}

func (k *linker) markers(u *unit, prefixes []*prefixAST) []*annotations.Marker {
	var out []*annotations.Marker
	for _, p := range prefixes {
		if p.Marker != nil {
			if m := k.marker(u, p.Marker); m != nil {
				out = append(out, m)
			}
		}
	}
	return out
}

func (k *linker) marker(u *unit, m *markerAST) *annotations.Marker {
	loc := u.location(m.Pos.Line, m.Pos.Column)
	name := k.markerName(u, m.Name)

	params := annotations.Params{}
	for i, arg := range m.Args {
		key := arg.Name
		if key == "" {
			if len(m.Args) > 1 || i > 0 {
				k.errs.Add(errors.NewSyntaxError(
					fmt.Sprintf("@%s: unnamed argument must be the only argument", m.Name)).
					WithLocation(loc))
				continue
			}
			key = "value"
		}
		if _, exists := params[key]; exists {
			k.errs.Add(errors.NewSyntaxError(
				fmt.Sprintf("@%s: duplicate argument '%s'", m.Name, key)).
				WithToken(key).
				WithLocation(loc))
			continue
		}
		params[key] = k.value(u, arg.Value)
	}

	marker := &annotations.Marker{
		Name:   name,
		Kind:   k.loader.registry.KindOf(name),
		Params: params,
	}

	schema, err := k.loader.registry.GetSchema(name)
	if err != nil {
		if _, recognized := annotations.NamespaceOf(name); recognized {
			k.loader.logger.Debug("marker outside the catalog",
				zap.String("marker", name),
				zap.String("location", loc.String()))
		}
		return marker
	}

	if err := k.loader.validator.TransformParameters(marker, schema, loc); err != nil {
		addAll(k.errs, err)
		return nil
	}
	if err := k.loader.validator.Validate(marker, schema, loc); err != nil {
		addAll(k.errs, err)
		return nil
	}
	return marker
}

// value converts a parsed argument. Class literals become class references,
// true and false become booleans, and other identifiers are enum constants
// named by their last segment.
func (k *linker) value(u *unit, v *valueAST) interface{} {
	switch {
	case v.String != nil:
		return *v.String
	case v.Number != nil:
		return *v.Number
	case v.Array != nil:
		out := make([]interface{}, 0, len(v.Array.Elements))
		for _, e := range v.Array.Elements {
			out = append(out, k.value(u, e))
		}
		return out
	case v.Ident != nil:
		ident := *v.Ident
		switch ident {
		case "true":
			return true
		case "false":
			return false
		}
		if class, ok := strings.CutSuffix(ident, ".class"); ok {
			return annotations.ClassRef(k.qualifiedClass(u, class))
		}
		return annotations.Enum(lastSegment(ident))
	}
	return nil
}

// lastSegment returns the text after the final dot
func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
