// Package symbols implements the GlobalMap: the process-local,
// per-compilation-unit mapping from fully-qualified name to symbol
// record, with namespace-fallback lookup and import merging.
package symbols

import (
	"fmt"
	"strings"

	"chtl/internal/ast"
	"chtl/internal/diagnostics"
)

// Category distinguishes which of the four parallel maps a name lives in.
type Category int

const (
	CategoryTemplate Category = iota
	CategoryCustom
	CategoryOrigin
	CategoryConfiguration
)

func (c Category) String() string {
	switch c {
	case CategoryTemplate:
		return "Template"
	case CategoryCustom:
		return "Custom"
	case CategoryOrigin:
		return "Origin"
	case CategoryConfiguration:
		return "Configuration"
	default:
		return "Unknown"
	}
}

// Record is one entry in the GlobalMap: the namespace it was declared
// in, its bare name, and the defining AST node.
type Record struct {
	Namespace string // dot-separated, "" is the default namespace
	Name      string
	Node      ast.Node
}

// GlobalMap holds the four parallel symbol tables: templates, customs,
// origins, and the configuration record. Keys are "namespace\x00name"
// (built by key() on every insert and lookup), so lookups within a
// namespace are O(1); namespace fallback is implemented by walking the dot-separated
// namespace path from most to least specific, then the default "".
type GlobalMap struct {
	templates map[string]Record
	customs   map[string]Record
	origins   map[string]Record
	configs   map[string]Record
}

// New creates an empty GlobalMap, one per compilation unit per // Lifecycles note.
func New() *GlobalMap {
	return &GlobalMap{
		templates: map[string]Record{},
		customs:   map[string]Record{},
		origins:   map[string]Record{},
		configs:   map[string]Record{},
	}
}

func key(namespace, name string) string { return namespace + "\x00" + name }

func (g *GlobalMap) tableFor(cat Category) map[string]Record {
	switch cat {
	case CategoryTemplate:
		return g.templates
	case CategoryCustom:
		return g.customs
	case CategoryOrigin:
		return g.origins
	case CategoryConfiguration:
		return g.configs
	default:
		return nil
	}
}

// Insert adds a record, failing with a DuplicateSymbol diagnostic if the
// namespace already holds an entry of the same category and name.
func (g *GlobalMap) Insert(cat Category, namespace, name string, node ast.Node) *diagnostics.Diagnostic {
	table := g.tableFor(cat)
	k := key(namespace, name)
	if _, exists := table[k]; exists {
		pos := node.Pos()
		d := diagnostics.New(diagnostics.DuplicateSymbol, pos.File, pos.Line, pos.Column,
			"duplicate %s %q in namespace %q", cat, name, displayNamespace(namespace))
		return &d
	}
	table[k] = Record{Namespace: namespace, Name: name, Node: node}
	return nil
}

// Lookup resolves name in cat, trying the given namespace, then each
// ancestor namespace (splitting on '.'), then the default namespace.
func (g *GlobalMap) Lookup(cat Category, namespace, name string) (Record, bool) {
	table := g.tableFor(cat)
	ns := namespace
	for {
		if rec, ok := table[key(ns, name)]; ok {
			return rec, true
		}
		if ns == "" {
			break
		}
		if idx := strings.LastIndexByte(ns, '.'); idx >= 0 {
			ns = ns[:idx]
		} else {
			ns = ""
		}
	}
	return Record{}, false
}

// Merge bulk-copies every entry of cat from src's given namespace into
// dst's destNamespace, applying rename via alias (alias == "" keeps the
// original bare name). Used by the import resolver for File/Category/
// Specific-item import forms. except lists names to skip.
func (g *GlobalMap) Merge(src *GlobalMap, cat Category, srcNamespace, destNamespace string, alias string, only string, except map[string]bool) []diagnostics.Diagnostic {
	var diags []diagnostics.Diagnostic
	table := src.tableFor(cat)
	for k, rec := range table {
		if rec.Namespace != srcNamespace {
			continue
		}
		name := nameFromKey(k)
		if only != "" && name != only {
			continue
		}
		if except[name] {
			continue
		}
		destName := name
		if alias != "" && only != "" {
			destName = alias
		}
		if d := g.Insert(cat, destNamespace, destName, rec.Node); d != nil {
			diags = append(diags, *d)
		}
	}
	return diags
}

func nameFromKey(k string) string {
	idx := strings.IndexByte(k, 0)
	if idx < 0 {
		return k
	}
	return k[idx+1:]
}

func displayNamespace(ns string) string {
	if ns == "" {
		return "(default)"
	}
	return ns
}

// QualifiedName joins a namespace path and bare name for diagnostic text.
func QualifiedName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return fmt.Sprintf("%s.%s", namespace, name)
}
