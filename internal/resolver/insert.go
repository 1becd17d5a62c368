package resolver

import "chtl/internal/ast"

// deleteFromBody removes the first child matching target: an ElementNode
// whose tag equals target, or (failing that) an AttributeNode whose key
// equals target — covering both "delete div;" and "delete id;" forms a
// custom's override block can use. found reports whether target matched
// anything; the caller reports InvalidDelete against its own position
// context when it didn't.
func deleteFromBody(body []ast.Node, target string) (out []ast.Node, found bool) {
	for i, n := range body {
		if el, ok := n.(*ast.ElementNode); ok && el.Tag == target {
			return append(append([]ast.Node{}, body[:i]...), body[i+1:]...), true
		}
	}
	out = make([]ast.Node, 0, len(body))
	for _, n := range body {
		if a, ok := n.(*ast.AttributeNode); ok && a.Key == target {
			found = true
			continue
		}
		out = append(out, n)
	}
	return out, found
}

// applyInsert splices an InsertNode's payload into body relative to the
// first ElementNode whose tag equals n.Target (before/after/replace/
// at-top/at-bottom insert forms). found is always true for at-top/
// at-bottom, since those never need a target; otherwise it reports
// whether n.Target matched an element, so the caller can report
// InvalidInsertTarget against its own position context when it didn't.
func applyInsert(body []ast.Node, n *ast.InsertNode) (out []ast.Node, found bool) {
	switch n.At {
	case ast.InsertAtTop:
		return append(append([]ast.Node{}, n.Payload...), body...), true
	case ast.InsertAtBottom:
		return append(append([]ast.Node{}, body...), n.Payload...), true
	}

	idx := -1
	for i, c := range body {
		if el, ok := c.(*ast.ElementNode); ok && el.Tag == n.Target {
			idx = i
			break
		}
	}
	if idx < 0 {
		return body, false
	}

	switch n.At {
	case ast.InsertBefore:
		out = append(out, body[:idx]...)
		out = append(out, n.Payload...)
		out = append(out, body[idx:]...)
	case ast.InsertAfter:
		out = append(out, body[:idx+1]...)
		out = append(out, n.Payload...)
		out = append(out, body[idx+1:]...)
	case ast.InsertReplace:
		out = append(out, body[:idx]...)
		out = append(out, n.Payload...)
		out = append(out, body[idx+1:]...)
	default:
		out = body
	}
	return out, true
}

// applyAttributeOverride applies a bare `key: value;` override line from a
// custom usage's body to the first top-level ElementNode in body.
func applyAttributeOverride(body []ast.Node, attr *ast.AttributeNode) []ast.Node {
	for _, n := range body {
		if el, ok := n.(*ast.ElementNode); ok {
			for _, a := range el.Attributes {
				if a.Key == attr.Key {
					a.Value = attr.Value
					return body
				}
			}
			el.Attributes = append(el.Attributes, &ast.AttributeNode{
				Position: attr.Position, Key: attr.Key, Value: attr.Value,
			})
			return body
		}
	}
	return body
}
