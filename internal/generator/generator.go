// Package generator implements HTML/CSS/JS emission from a fully
// resolved AST, including selector automation (the first class/id
// selector inside an element's style block is promoted to a
// `class`/`id` attribute) and CHTL-JS lowering via the chtljs package.
//
// It accumulates into one strings.Builder per output component while
// walking the resolved tree, one write call per node kind, keeping the
// HTML buffer and the five CSS/JS component buffers independent until
// the dispatcher assembles them.
package generator

import (
	"fmt"
	"strings"

	"chtl/internal/ast"
	"chtl/internal/chtlconfig"
	"chtl/internal/chtljs"
	"chtl/internal/diagnostics"
)

// voidElements is the self-closing tag set names.
var voidElements = map[string]bool{
	"br": true, "img": true, "input": true, "meta": true, "link": true, "hr": true,
}

// Result holds both the component buffers the dispatcher's
// IntermediateCompilationResult needs (stage 7) and
// three merged convenience fields (HTML, CSS, JS) for callers that don't
// care about the split.
type Result struct {
	InitialHTML      string
	EmitHTML5Doctype bool
	ChtlGeneratedCSS string // CSS from style blocks / selector automation
	ChtlGeneratedJS  string // verbatim JS written inside script { } blocks
	ChtlJSGeneratedJS string // CHTL-JS constructs lowered to plain JS
	RawCSS           string // [Origin] @Style passthrough
	RawJS            string // [Origin] @JavaScript passthrough

	HTML string // InitialHTML with the doctype prepended when applicable
	CSS  string // ChtlGeneratedCSS + RawCSS
	JS   string // ChtlGeneratedJS + ChtlJSGeneratedJS + RawJS

	Diagnostics []diagnostics.Diagnostic
}

// Generate walks a resolved program and produces HTML/CSS/JS text.
func Generate(prog *ast.ProgramNode, settings chtlconfig.Settings) Result {
	g := &Generator{settings: settings, autoCounter: settings.IndexInitialCount}
	var html strings.Builder
	for _, n := range prog.Declarations {
		g.genTopLevel(n, &html)
	}

	res := Result{
		InitialHTML:       html.String(),
		EmitHTML5Doctype:  prog.UseHTML5,
		ChtlGeneratedCSS:  g.chtlCSS.String(),
		ChtlGeneratedJS:   g.chtlJS.String(),
		ChtlJSGeneratedJS: g.chtljsJS.String(),
		RawCSS:            g.rawCSS.String(),
		RawJS:             g.rawJS.String(),
		Diagnostics:       g.diags,
	}
	res.HTML = res.InitialHTML
	if res.EmitHTML5Doctype {
		res.HTML = "<!DOCTYPE html>" + res.HTML
	}
	res.CSS = res.ChtlGeneratedCSS + res.RawCSS
	res.JS = res.ChtlGeneratedJS + res.ChtlJSGeneratedJS + res.RawJS
	return res
}

// Generator holds the five component output buffers (// stage 7's split) and the synthesized-class counter, which must be
// shared document-wide so generated names never collide.
type Generator struct {
	settings chtlconfig.Settings
	chtlCSS  strings.Builder
	chtlJS   strings.Builder
	chtljsJS strings.Builder
	rawCSS   strings.Builder
	rawJS    strings.Builder

	autoCounter       int
	chtljsShimWritten bool
	diags             []diagnostics.Diagnostic
}

func (g *Generator) errorf(pos ast.Position, kind diagnostics.Kind, format string, args ...any) {
	g.diags = append(g.diags, diagnostics.New(kind, pos.File, pos.Line, pos.Column, format, args...))
}

func (g *Generator) genTopLevel(n ast.Node, html *strings.Builder) {
	switch v := n.(type) {
	case *ast.ElementNode:
		g.genElement(v, html)
	case *ast.StyleNode:
		g.genGlobalStyle(v)
	case *ast.ScriptNode:
		g.genScript(v)
	case *ast.OriginNode:
		g.genOrigin(v, html)
	case *ast.NamespaceNode:
		for _, d := range v.Declarations {
			g.genTopLevel(d, html)
		}
	case *ast.TextNode:
		html.WriteString(htmlEscape(v.Value))
	case *ast.CommentNode:
		if v.CommentKind == ast.CommentNormal {
			fmt.Fprintf(html, "<!--%s-->", v.Content)
		}
		// CommentGenerator never reaches any output buffer.
	default:
		// TemplateDefinitionNode / CustomDefinitionNode / ImportNode /
		// ConfigNode / OriginUsageNode / leftover usage nodes: metadata the
		// GlobalMap already owns, or a construct the resolver should have
		// already expanded away. Nothing to emit.
	}
}

// genElement emits one element's opening tag (with selector automation
// applied), its children, and its closing tag — or a self-closing tag
// for a void element, whose children (if any; malformed input) are
// silently dropped as void elements cannot have content.
func (g *Generator) genElement(el *ast.ElementNode, html *strings.Builder) {
	attrs := g.resolveAttributes(el)

	html.WriteString("<")
	html.WriteString(el.Tag)
	for _, a := range attrs {
		fmt.Fprintf(html, ` %s="%s"`, a.Key, htmlAttrEscape(a.Value))
	}
	if voidElements[el.Tag] {
		html.WriteString(">")
		return
	}
	html.WriteString(">")
	for _, c := range el.Children {
		g.genTopLevel(c, html)
	}
	if el.Style != nil {
		g.genElementStyle(el, attrs)
	}
	if el.Script != nil {
		g.genScript(el.Script)
	}
	fmt.Fprintf(html, "</%s>", el.Tag)
}

// resolveAttributes applies selector automation (inserting a synthesized
// class/id before the manual attributes) and attribute dedup
// (last-write-wins, diagnosed). A style-block selector is tried first;
// a script-block enhanced selector (`{{.foo}}`/`{{#bar}}`) only gets a
// turn when the style block didn't already produce one, mirroring the
// single synthesized class/id an element carries.
func (g *Generator) resolveAttributes(el *ast.ElementNode) []*ast.AttributeNode {
	deduped := dedupAttributes(el, g)

	kind, name, fromScript, ok := "", "", false, false
	if el.Style != nil {
		kind, name, ok = g.autoSelectorFor(el)
	}
	if !ok && el.Script != nil {
		kind, name, ok = g.autoSelectorForScript(el)
		fromScript = true
	}
	if !ok {
		return deduped
	}
	if kind == "class" {
		if !fromScript && g.settings.DisableStyleAutoAddClass {
			return deduped
		}
		if fromScript && g.settings.DisableScriptAutoAddClass {
			return deduped
		}
	}
	if kind == "id" {
		if !fromScript && g.settings.DisableStyleAutoAddID {
			return deduped
		}
		if fromScript && g.settings.DisableScriptAutoAddID {
			return deduped
		}
	}
	for _, a := range deduped {
		if a.Key == kind {
			return deduped // author already set class/id manually; don't override
		}
	}
	synth := &ast.AttributeNode{Key: kind, Value: name, Synthesized: true}
	return append([]*ast.AttributeNode{synth}, deduped...)
}

func dedupAttributes(el *ast.ElementNode, g *Generator) []*ast.AttributeNode {
	seen := map[string]int{}
	var out []*ast.AttributeNode
	for _, a := range el.Attributes {
		if idx, ok := seen[a.Key]; ok {
			out[idx] = a
			g.errorf(a.Position, diagnostics.TypeMismatch, "duplicate attribute %q on <%s>, last value wins", a.Key, el.Tag)
			continue
		}
		seen[a.Key] = len(out)
		out = append(out, a)
	}
	return out
}

// autoSelectorFor determines which attribute (class/id) selector
// automation would synthesize for el, returning ok=false if el's style
// produces nothing selector-shaped to promote.
func (g *Generator) autoSelectorFor(el *ast.ElementNode) (kind, name string, ok bool) {
	if len(el.Style.Rules) > 0 {
		sel := el.Style.Rules[0].Selector
		switch {
		case strings.HasPrefix(sel, "."):
			return "class", sel[1:], true
		case strings.HasPrefix(sel, "#"):
			return "id", sel[1:], true
		}
	}
	if len(el.Style.InlineRules) > 0 {
		return "class", g.nextAutoClassName(), true
	}
	return "", "", false
}

// autoSelectorForScript mirrors autoSelectorFor for the symmetric
// script-block rule: the first `{{.foo}}`/`{{#bar}}` enhanced selector
// referenced inside el's script is promoted the same way a style
// block's first class/id selector is, so `listen`/`animate`/`vir`
// targeting the element still resolves once the element reaches the
// DOM.
func (g *Generator) autoSelectorForScript(el *ast.ElementNode) (kind, name string, ok bool) {
	for _, expr := range el.Script.Expressions {
		if expr.Kind != ast.CHTLJSSelector {
			continue
		}
		switch {
		case strings.HasPrefix(expr.Name, "."):
			return "class", expr.Name[1:], true
		case strings.HasPrefix(expr.Name, "#"):
			return "id", expr.Name[1:], true
		}
	}
	return "", "", false
}

func (g *Generator) nextAutoClassName() string {
	name := fmt.Sprintf("chtl-gen-%d", g.autoCounter)
	g.autoCounter++
	return name
}

// genElementStyle emits the CSS produced by one element's style block:
// InlineRules (bare `@Style Name;` expansions, with no selector of their
// own) are folded into the rule at attrs[0]'s synthesized/explicit
// selector; explicit SelectorBlockNode-derived Rules are emitted as-is.
func (g *Generator) genElementStyle(el *ast.ElementNode, attrs []*ast.AttributeNode) {
	sn := el.Style
	var inlineDecls []ast.Declaration
	for _, ir := range sn.InlineRules {
		inlineDecls = append(inlineDecls, ir.Declarations...)
	}

	rules := append([]*ast.StyleRuleNode(nil), sn.Rules...)
	if len(inlineDecls) > 0 {
		if len(rules) > 0 && isClassOrIDSelector(rules[0].Selector) {
			rules[0] = &ast.StyleRuleNode{
				Position:     rules[0].Position,
				Selector:     rules[0].Selector,
				Declarations: append(append([]ast.Declaration(nil), inlineDecls...), rules[0].Declarations...),
			}
		} else {
			selector := autoSelectorText(attrs)
			rules = append([]*ast.StyleRuleNode{{Selector: selector, Declarations: inlineDecls}}, rules...)
		}
	}
	for _, r := range rules {
		g.writeCSSRule(r.Selector, r.Declarations)
	}
}

func isClassOrIDSelector(sel string) bool {
	return strings.HasPrefix(sel, ".") || strings.HasPrefix(sel, "#")
}

func autoSelectorText(attrs []*ast.AttributeNode) string {
	for _, a := range attrs {
		if a.Key == "class" {
			return "." + strings.Fields(a.Value)[0]
		}
		if a.Key == "id" {
			return "#" + a.Value
		}
	}
	return ""
}

func (g *Generator) writeCSSRule(selector string, decls []ast.Declaration) {
	if selector == "" || len(decls) == 0 {
		return
	}
	fmt.Fprintf(&g.chtlCSS, "%s { ", selector)
	for _, d := range decls {
		fmt.Fprintf(&g.chtlCSS, "%s: %s; ", d.Property, d.Value)
	}
	g.chtlCSS.WriteString("}\n")
}

func (g *Generator) genGlobalStyle(sn *ast.StyleNode) {
	for _, ir := range sn.InlineRules {
		// A bare declaration in a global style block with no enclosing
		// element has nothing to attach a selector to; doesn't
		// define this case, so it's dropped with a diagnostic hint rather
		// than guessed at.
		if len(ir.Declarations) > 0 {
			g.errorf(ir.Position, diagnostics.TypeMismatch, "bare style declarations outside any element have no selector to attach to")
		}
	}
	for _, r := range sn.Rules {
		g.writeCSSRule(r.Selector, r.Declarations)
	}
}

func (g *Generator) genScript(sn *ast.ScriptNode) {
	if sn.Lang == ast.LangCHTLJS {
		lowered := chtljs.Lower(sn)
		if strings.TrimSpace(lowered) != "" {
			if !g.chtljsShimWritten {
				g.chtljsJS.WriteString(chtljs.RuntimePrologue)
				g.chtljsShimWritten = true
			}
			fmt.Fprintf(&g.chtljsJS, "/* %s:%d */\n%s\n", sn.File, sn.Line, lowered)
		}
		return
	}
	if strings.TrimSpace(sn.Body) == "" {
		return
	}
	fmt.Fprintf(&g.chtlJS, "/* %s:%d */\n%s\n", sn.File, sn.Line, sn.Body)
}

func (g *Generator) genOrigin(o *ast.OriginNode, html *strings.Builder) {
	switch o.OriginType {
	case "@Html":
		html.WriteString(o.Body)
	case "@Style":
		g.rawCSS.WriteString(o.Body)
		g.rawCSS.WriteString("\n")
	case "@JavaScript":
		g.rawJS.WriteString(o.Body)
		g.rawJS.WriteString("\n")
	default:
		// A registered custom origin type with no built-in buffer: pass
		// through to the raw JS buffer, the most permissive destination.
		g.rawJS.WriteString(o.Body)
		g.rawJS.WriteString("\n")
	}
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func htmlAttrEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "\"", "&quot;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
