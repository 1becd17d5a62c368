package resolver

import (
	"strings"

	"chtl/internal/ast"
	"chtl/internal/diagnostics"
)

// substituteVars scans an attribute value for `Group(key)` references —
// the syntax that pulls a value out of an `@Var` group — and replaces
// each with the resolved string. Spaces between the group name and '('
// are allowed, since the parser hands the reference over as
// "Group ( key )". A value with no such reference is returned unchanged,
// which is the common case. Text block contents are not passed through
// here, so a `Group(key)` inside `text { }` stays as written.
func substituteVars(r *Resolver, value, namespace string, pos ast.Position) string {
	if !strings.ContainsRune(value, '(') {
		return value
	}
	var b strings.Builder
	i := 0
	for i < len(value) {
		start := i
		for i < len(value) && isVarIdentByte(value[i]) {
			i++
		}
		j := i
		for j < len(value) && value[j] == ' ' {
			j++
		}
		if i > start && j < len(value) && value[j] == '(' {
			group := value[start:i]
			close := strings.IndexByte(value[j:], ')')
			if close >= 0 {
				key := strings.TrimSpace(value[j+1 : j+close])
				if resolved, ok := r.resolveVar(group, key, namespace, pos); ok {
					b.WriteString(resolved)
					i = j + close + 1
					continue
				}
			}
		}
		if start == i {
			b.WriteByte(value[i])
			i++
		} else {
			b.WriteString(value[start:i])
		}
	}
	return b.String()
}

func isVarIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (r *Resolver) resolveVar(group, key, namespace string, pos ast.Position) (string, bool) {
	def, ok := r.lookupDef(ast.CategoryVar, namespace, group)
	if !ok {
		r.errorf(pos, diagnostics.UnresolvedVariable, "unresolved @Var group %q", group)
		return "", false
	}
	bindings := r.expandVarDef(def, namespace)
	val, ok := bindings[key]
	if !ok {
		r.errorf(pos, diagnostics.UnresolvedVariable, "no key %q in @Var group %q", key, group)
		return "", false
	}
	return val, true
}

func (r *Resolver) expandVarDef(def *ast.TemplateDefinitionNode, namespace string) map[string]string {
	key := cacheKey(namespace, "var:"+def.Name)
	if cached, ok := r.varCache[key]; ok {
		return cached
	}
	if r.inProgress[key] {
		r.errorf(def.Position, diagnostics.CyclicInherit, "cyclic inherit chain involving @Var %q", def.Name)
		return map[string]string{}
	}
	r.inProgress[key] = true
	defer delete(r.inProgress, key)

	bindings := map[string]string{}
	for _, inh := range def.Inherits {
		parent, ok := r.lookupDef(ast.CategoryVar, namespace, inh.Referent)
		if !ok {
			r.errorf(inh.Position, diagnostics.UnresolvedTemplate, "unresolved inherit target %q", inh.Referent)
			continue
		}
		for k, v := range r.expandVarDef(parent, namespace) {
			bindings[k] = v
		}
	}
	for k, v := range def.VarBindings {
		bindings[k] = v
	}
	r.varCache[key] = bindings
	return bindings
}
