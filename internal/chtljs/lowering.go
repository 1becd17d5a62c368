// Package chtljs implements lowering: the CHTL-JS constructs the parser
// already classified (enhanced selectors, listen, animate, vir, state
// markers) into plain JavaScript text, emitted into the generator's JS
// buffer.
//
// A list of located sub-expressions is walked and the surrounding text
// rebuilt with each one replaced by its rendered form — a "locate, then
// splice" pass across CHTL-JS's five construct kinds.
package chtljs

import (
	"fmt"
	"sort"
	"strings"

	"chtl/internal/ast"
)

// Lower rewrites script.Body, replacing every embedded CHTL-JS
// expression with its plain-JS equivalent. Scripts with Lang == LangJS
// are returned unchanged — there is nothing to lower.
func Lower(script *ast.ScriptNode) string {
	if script == nil || script.Lang != ast.LangCHTLJS {
		if script == nil {
			return ""
		}
		return script.Body
	}

	virs := collectVirs(script.Expressions)
	stateGroups := groupStateBlocks(script.Expressions)
	emittedState := map[string]bool{}

	var b strings.Builder
	cursor := 0
	for _, e := range script.Expressions {
		if e.Start > cursor {
			b.WriteString(substituteVirRefs(script.Body[cursor:e.Start], virs))
		}
		switch e.Kind {
		case ast.CHTLJSSelector:
			b.WriteString(lowerSelector(e.Name))
		case ast.CHTLJSListen:
			b.WriteString(lowerListen(e.Raw))
		case ast.CHTLJSAnimate:
			b.WriteString(lowerAnimate(e.Raw))
		case ast.CHTLJSVir:
			// Compile-time only: produces no direct output: its properties
			// were already captured into virs for reference substitution.
		case ast.CHTLJSStateBlock:
			if !emittedState[e.Name] {
				emittedState[e.Name] = true
				b.WriteString(lowerStateGroup(e.Name, stateGroups[e.Name]))
			}
		}
		cursor = e.End
	}
	if cursor < len(script.Body) {
		b.WriteString(substituteVirRefs(script.Body[cursor:], virs))
	}
	return b.String()
}

// lowerSelector rewrites `{{a b}}` into chained runtime-select calls,
// splitting nested selectors on whitespace.
func lowerSelector(selector string) string {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return `CHTLJS_SELECT("")`
	}
	expr := fmt.Sprintf("CHTLJS_SELECT(%q)", parts[0])
	for _, p := range parts[1:] {
		expr = fmt.Sprintf("%s.chtljsQuery(%q)", expr, p)
	}
	return expr
}

// lowerListen rewrites `listen { event: handler, ... }` into a call to
// the runtime shim's event-registration method (CHTLJS_LISTEN, defined
// by RuntimePrologue on Element.prototype); the brace body is already
// JS-object-literal shaped so it passes through verbatim. The method is
// invoked chained onto a preceding CHTLJS_SELECT(...) call — the literal
// "." between the two expressions survives untouched in script.Body.
func lowerListen(raw string) string {
	body := extractBraceBody(raw)
	return fmt.Sprintf("CHTLJS_LISTEN({%s})", body)
}

// lowerAnimate rewrites `animate { props }` into a call to the runtime
// shim's CHTLJS_ANIMATE method, chained the same way as lowerListen.
func lowerAnimate(raw string) string {
	body := extractBraceBody(raw)
	return fmt.Sprintf("CHTLJS_ANIMATE({%s})", body)
}

// extractBraceBody returns the text between the first '{' and its
// matching '}' in raw.
func extractBraceBody(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start+1 : i]
			}
		}
	}
	return raw[start+1:]
}

// ---- vir: compile-time virtual objects ----

type virProps map[string]string

func collectVirs(exprs []ast.CHTLJSExpr) map[string]virProps {
	virs := map[string]virProps{}
	for _, e := range exprs {
		if e.Kind != ast.CHTLJSVir || e.Name == "" {
			continue
		}
		virs[e.Name] = parseProps(extractBraceBody(e.Raw))
	}
	return virs
}

func parseProps(body string) virProps {
	props := virProps{}
	for _, part := range strings.Split(body, ",") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		if key != "" {
			props[key] = val
		}
	}
	return props
}

// substituteVirRefs replaces every `name.key` occurrence of a known vir
// object with its literal property value, implementing the "references
// ... are inlined" rule for plain-JS text surrounding a vir declaration.
func substituteVirRefs(text string, virs map[string]virProps) string {
	if len(virs) == 0 {
		return text
	}
	var b strings.Builder
	i := 0
	for i < len(text) {
		if isIdentStart(text[i]) {
			j := i
			for j < len(text) && isIdentByte(text[j]) {
				j++
			}
			name := text[i:j]
			if props, ok := virs[name]; ok && j < len(text) && text[j] == '.' {
				k := j + 1
				for k < len(text) && isIdentByte(text[k]) {
					k++
				}
				key := text[j+1 : k]
				if val, ok := props[key]; ok {
					b.WriteString(val)
					i = k
					continue
				}
			}
			b.WriteString(name)
			i = j
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// ---- state markers: Name<A>{...} Name<B>{...} -> one dispatch function ----

func groupStateBlocks(exprs []ast.CHTLJSExpr) map[string][]ast.CHTLJSExpr {
	groups := map[string][]ast.CHTLJSExpr{}
	for _, e := range exprs {
		if e.Kind == ast.CHTLJSStateBlock {
			groups[e.Name] = append(groups[e.Name], e)
		}
	}
	return groups
}

// lowerStateGroup merges every `Name<Tag>{ body }` occurrence for one
// name into a single exported dispatch function plus a generated state
// setter, per last bullet.
func lowerStateGroup(name string, blocks []ast.CHTLJSExpr) string {
	if len(blocks) == 0 {
		return ""
	}
	tags := make([]string, 0, len(blocks))
	bodies := map[string]string{}
	for _, e := range blocks {
		tags = append(tags, e.StateTag)
		bodies[e.StateTag] = extractBraceBody(e.Raw)
	}
	sort.Strings(tags)

	var b strings.Builder
	fmt.Fprintf(&b, "let __%sState = %q;\n", name, tags[0])
	fmt.Fprintf(&b, "function %s() {\n  switch (__%sState) {\n", name, name)
	for _, tag := range tags {
		fmt.Fprintf(&b, "    case %q: {%s} break;\n", tag, bodies[tag])
	}
	b.WriteString("  }\n}\n")
	fmt.Fprintf(&b, "function set%sState(state) { __%sState = state; CHTLJS_STATE_DISPATCH(%q, state); }", name, name, name)
	return b.String()
}
