// Package resolver implements template/custom expansion (with
// inherit/delete/insert), `@Var` substitution, and selector-block
// flattening, producing an AST the generator can walk without ever
// encountering a TemplateUsageNode, VarUsageNode, or InheritNode again.
//
// Name lookup happens against a registry with recursive expand-then-cache
// semantics, extended from single-level partial substitution to full
// inherit chains with delete/insert overrides.
package resolver

import (
	"strings"

	"chtl/internal/ast"
	"chtl/internal/diagnostics"
	"chtl/internal/symbols"
)

// Resolve walks prog, expanding every template/custom usage it finds
// and returning a new, fully-resolved program. gm must already have
// every import merged into it (see the imports subpackage / Resolver's
// companion ResolveImports step run first by the compiler package).
func Resolve(prog *ast.ProgramNode, gm *symbols.GlobalMap) (*ast.ProgramNode, []diagnostics.Diagnostic) {
	r := &Resolver{
		gm:         gm,
		styleCache: map[string][]ast.Declaration{},
		elemCache:  map[string][]ast.Node{},
		varCache:   map[string]map[string]string{},
		inProgress: map[string]bool{},
	}
	out := &ast.ProgramNode{Position: prog.Position, UseHTML5: prog.UseHTML5}
	out.Declarations = r.resolveDeclarations(prog.Declarations, "")
	return out, r.diags
}

// Resolver holds expansion caches (keyed by namespace+name, for
// deterministic, cache-by-fully-qualified-name expansion) across one
// compilation unit.
type Resolver struct {
	gm         *symbols.GlobalMap
	styleCache map[string][]ast.Declaration
	elemCache  map[string][]ast.Node
	varCache   map[string]map[string]string
	// inProgress tracks the expand calls currently on the stack, keyed the
	// same way as the result caches, so an inherit chain that loops back
	// on itself is caught as a CyclicInherit diagnostic instead of
	// recursing until the process runs out of stack.
	inProgress map[string]bool
	diags      []diagnostics.Diagnostic
}

func (r *Resolver) errorf(pos ast.Position, kind diagnostics.Kind, format string, args ...any) {
	r.diags = append(r.diags, diagnostics.New(kind, pos.File, pos.Line, pos.Column, format, args...))
}

func cacheKey(namespace, name string) string { return namespace + "\x00" + name }

// resolveDeclarations resolves a list of sibling top-level/namespace
// declarations, expanding any top-level TemplateUsageNode and recursing
// into ElementNode/NamespaceNode bodies. Definitions (template/custom/
// origin/import/config) pass through unchanged — they're metadata the
// GlobalMap already owns, not output-producing nodes; the generator
// skips them when walking the resolved tree.
func (r *Resolver) resolveDeclarations(decls []ast.Node, namespace string) []ast.Node {
	var out []ast.Node
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.ElementNode:
			out = append(out, r.resolveElement(n, namespace))
		case *ast.NamespaceNode:
			resolved := &ast.NamespaceNode{Position: n.Position, Name: n.Name}
			childNS := n.Name
			if namespace != "" {
				childNS = namespace + "." + n.Name
			}
			resolved.Declarations = r.resolveDeclarations(n.Declarations, childNS)
			out = append(out, resolved)
		case *ast.TemplateUsageNode:
			out = append(out, r.expandUsage(n, namespace)...)
		case *ast.StyleNode:
			out = append(out, r.resolveStyleNode(n, namespace))
		case *ast.ScriptNode:
			out = append(out, n)
		default:
			out = append(out, d)
		}
	}
	return out
}

// resolveElement resolves one ElementNode in place-producing fashion:
// children, style, and script are each replaced by their resolved form,
// matching the "new value, not in-place mutation" design note.
func (r *Resolver) resolveElement(el *ast.ElementNode, namespace string) *ast.ElementNode {
	out := &ast.ElementNode{
		Position:   el.Position,
		Tag:        el.Tag,
		Attributes: make([]*ast.AttributeNode, len(el.Attributes)),
	}
	for i, a := range el.Attributes {
		out.Attributes[i] = &ast.AttributeNode{
			Position: a.Position, Key: a.Key,
			Value:       substituteVars(r, a.Value, namespace, a.Position),
			Synthesized: a.Synthesized,
		}
	}
	out.Children = r.resolveDeclarations(el.Children, namespace)
	if el.Style != nil {
		out.Style = r.resolveStyleNode(el.Style, namespace)
	}
	if el.Script != nil {
		out.Script = el.Script // CHTL-JS lowering happens in the generator stage
	}
	return out
}

// resolveStyleNode expands `@Style Name;` usages into InlineRules and
// flattens nested SelectorBlockNodes into a flat StyleRuleNode list.
func (r *Resolver) resolveStyleNode(sn *ast.StyleNode, namespace string) *ast.StyleNode {
	out := &ast.StyleNode{Position: sn.Position}
	out.InlineRules = append(out.InlineRules, sn.InlineRules...)

	for _, usage := range sn.Usages {
		decls := r.expandStyleUsage(usage, namespace)
		out.InlineRules = append(out.InlineRules, &ast.InlineStyleRuleNode{
			Position:     usage.Position,
			Declarations: decls,
		})
	}
	out.Rules = flattenBlocks(sn.Blocks, "")
	return out
}

func (r *Resolver) expandStyleUsage(usage *ast.TemplateUsageNode, namespace string) []ast.Declaration {
	def, ok := r.lookupDef(usage.Category, namespace, usage.Name)
	if !ok {
		r.errorf(usage.Position, diagnostics.UnresolvedTemplate, "unresolved style template %q", usage.Name)
		return nil
	}
	if def.Category != ast.CategoryStyle {
		r.errorf(usage.Position, diagnostics.TypeMismatch, "%q is not a @Style template", usage.Name)
		return nil
	}
	decls := cloneDeclarations(r.expandStyleDef(def, namespace))
	for _, ov := range usage.Overrides {
		switch o := ov.(type) {
		case *ast.AttributeNode:
			decls = upsertDeclaration(decls, o.Key, o.Value)
		case *ast.DeleteNode:
			decls = removeDeclaration(decls, o.TargetSelector)
		}
	}
	return decls
}

// expandStyleDef computes (and caches) the flattened declaration list
// for an @Style template/custom definition, applying its inherit chain
// depth-first before its own declarations/deletes/nested usages.
func (r *Resolver) expandStyleDef(def *ast.TemplateDefinitionNode, namespace string) []ast.Declaration {
	key := cacheKey(namespace, "style:"+def.Name)
	if cached, ok := r.styleCache[key]; ok {
		return cached
	}
	if r.inProgress[key] {
		r.errorf(def.Position, diagnostics.CyclicInherit, "cyclic inherit chain involving @Style %q", def.Name)
		return nil
	}
	r.inProgress[key] = true
	defer delete(r.inProgress, key)

	var decls []ast.Declaration
	for _, inh := range def.Inherits {
		parent, ok := r.lookupDef(ast.CategoryStyle, namespace, inh.Referent)
		if !ok {
			r.errorf(inh.Position, diagnostics.UnresolvedTemplate, "unresolved inherit target %q", inh.Referent)
			continue
		}
		if parent.Category != ast.CategoryStyle {
			r.errorf(inh.Position, diagnostics.TypeMismatch, "%q is not a @Style definition", inh.Referent)
			continue
		}
		decls = append(decls, r.expandStyleDef(parent, namespace)...)
	}
	for _, item := range def.Body {
		switch n := item.(type) {
		case *ast.AttributeNode:
			decls = upsertDeclaration(decls, n.Key, n.Value)
		case *ast.DeleteNode:
			decls = removeDeclaration(decls, n.TargetSelector)
		case *ast.TemplateUsageNode:
			decls = append(decls, r.expandStyleUsage(n, namespace)...)
		}
	}
	r.styleCache[key] = decls
	return decls
}

// expandUsage expands a TemplateUsageNode appearing as an element child
// (category @Element) into the nodes it stands for.
func (r *Resolver) expandUsage(usage *ast.TemplateUsageNode, namespace string) []ast.Node {
	switch usage.Category {
	case ast.CategoryElement:
		def, ok := r.lookupDef(ast.CategoryElement, namespace, usage.Name)
		if !ok {
			r.errorf(usage.Position, diagnostics.UnresolvedTemplate, "unresolved element template %q", usage.Name)
			return nil
		}
		expanded := cloneNodes(r.expandElementDef(def, namespace))
		for _, ov := range usage.Overrides {
			switch o := ov.(type) {
			case *ast.DeleteNode:
				var found bool
				expanded, found = deleteFromBody(expanded, o.TargetSelector)
				if !found {
					r.errorf(o.Position, diagnostics.InvalidDelete, "delete target %q not found", o.TargetSelector)
				}
			case *ast.InsertNode:
				var found bool
				expanded, found = applyInsert(expanded, o)
				if !found {
					r.errorf(o.Position, diagnostics.InvalidInsertTarget, "insert target %q not found", o.Target)
				}
			case *ast.AttributeNode:
				expanded = applyAttributeOverride(expanded, o)
			}
		}
		return r.resolveDeclarations(expanded, namespace)
	case ast.CategoryStyle, ast.CategoryVar:
		// Style/Var usages are only meaningful inside a style block or a
		// @Var reference respectively; encountering one as a bare element
		// child is a misuse the parser should already have rejected
		// grammatically, but defensively produce nothing rather than panic.
		return nil
	default:
		return nil
	}
}

func (r *Resolver) expandElementDef(def *ast.TemplateDefinitionNode, namespace string) []ast.Node {
	key := cacheKey(namespace, "element:"+def.Name)
	if cached, ok := r.elemCache[key]; ok {
		return cached
	}
	if r.inProgress[key] {
		r.errorf(def.Position, diagnostics.CyclicInherit, "cyclic inherit chain involving @Element %q", def.Name)
		return nil
	}
	r.inProgress[key] = true
	defer delete(r.inProgress, key)

	var body []ast.Node
	for _, inh := range def.Inherits {
		parent, ok := r.lookupDef(ast.CategoryElement, namespace, inh.Referent)
		if !ok {
			r.errorf(inh.Position, diagnostics.UnresolvedTemplate, "unresolved inherit target %q", inh.Referent)
			continue
		}
		if parent.Category != ast.CategoryElement {
			r.errorf(inh.Position, diagnostics.TypeMismatch, "%q is not an @Element definition", inh.Referent)
			continue
		}
		body = append(body, r.expandElementDef(parent, namespace)...)
	}
	for _, item := range def.Body {
		switch n := item.(type) {
		case *ast.DeleteNode:
			var found bool
			body, found = deleteFromBody(body, n.TargetSelector)
			if !found {
				r.errorf(n.Position, diagnostics.InvalidDelete, "delete target %q not found", n.TargetSelector)
			}
		case *ast.InsertNode:
			var found bool
			body, found = applyInsert(body, n)
			if !found {
				r.errorf(n.Position, diagnostics.InvalidInsertTarget, "insert target %q not found", n.Target)
			}
		case *ast.TemplateUsageNode:
			body = append(body, r.expandUsage(n, namespace)...)
		default:
			body = append(body, n)
		}
	}
	r.elemCache[key] = body
	return body
}

// lookupDef finds a template definition by name, trying the Template
// table first, then Custom — usage sites don't distinguish which table
// backs a name.
func (r *Resolver) lookupDef(_ ast.DefinitionCategory, namespace, name string) (*ast.TemplateDefinitionNode, bool) {
	if rec, ok := r.gm.Lookup(symbols.CategoryTemplate, namespace, name); ok {
		if def := defNodeOf(rec.Node); def != nil {
			return def, true
		}
	}
	if rec, ok := r.gm.Lookup(symbols.CategoryCustom, namespace, name); ok {
		if def := defNodeOf(rec.Node); def != nil {
			return def, true
		}
	}
	return nil, false
}

func defNodeOf(n ast.Node) *ast.TemplateDefinitionNode {
	switch v := n.(type) {
	case *ast.TemplateDefinitionNode:
		return v
	case *ast.CustomDefinitionNode:
		return &v.TemplateDefinitionNode
	default:
		return nil
	}
}

func upsertDeclaration(decls []ast.Declaration, prop, value string) []ast.Declaration {
	for i, d := range decls {
		if d.Property == prop {
			decls[i].Value = value
			return decls
		}
	}
	return append(decls, ast.Declaration{Property: prop, Value: value})
}

func removeDeclaration(decls []ast.Declaration, prop string) []ast.Declaration {
	prop = strings.TrimSuffix(strings.TrimSpace(prop), ";")
	out := decls[:0]
	for _, d := range decls {
		if d.Property != prop {
			out = append(out, d)
		}
	}
	return out
}

func cloneDeclarations(in []ast.Declaration) []ast.Declaration {
	out := make([]ast.Declaration, len(in))
	copy(out, in)
	return out
}
