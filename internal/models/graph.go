package models

import "sort"

// Graph is the set of classes loaded for one run
type Graph struct {
	Classes []*Declaration
	byName  map[string]*Declaration
}

// NewGraph indexes classes by qualified name. Later duplicates are ignored;
// the loader reports them before a graph is built.
func NewGraph(classes []*Declaration) *Graph {
	g := &Graph{byName: make(map[string]*Declaration, len(classes))}
	for _, c := range classes {
		name := c.QualifiedName()
		if _, exists := g.byName[name]; exists {
			continue
		}
		g.byName[name] = c
		g.Classes = append(g.Classes, c)
	}
	return g
}

// Class returns the class with the given qualified name
func (g *Graph) Class(name string) (*Declaration, bool) {
	c, ok := g.byName[name]
	return c, ok
}

// Names returns the qualified class names in sorted order
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.byName))
	for name := range g.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
