package resolver

import "chtl/internal/ast"

// cloneNodes deep-copies a []ast.Node so that two usage sites of the same
// cached template expansion never alias the same underlying nodes —
// applying an override (delete/insert/attribute) at one usage site must
// never be visible at another.
func cloneNodes(in []ast.Node) []ast.Node {
	out := make([]ast.Node, len(in))
	for i, n := range in {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.ElementNode:
		c := &ast.ElementNode{Position: v.Position, Tag: v.Tag}
		for _, a := range v.Attributes {
			ac := *a
			c.Attributes = append(c.Attributes, &ac)
		}
		c.Children = cloneNodes(v.Children)
		if v.Style != nil {
			c.Style = cloneStyleNode(v.Style)
		}
		if v.Script != nil {
			sc := *v.Script
			sc.Expressions = append([]ast.CHTLJSExpr(nil), v.Script.Expressions...)
			c.Script = &sc
		}
		return c
	case *ast.TextNode:
		c := *v
		return &c
	case *ast.CommentNode:
		c := *v
		return &c
	case *ast.StyleNode:
		return cloneStyleNode(v)
	case *ast.ScriptNode:
		c := *v
		c.Expressions = append([]ast.CHTLJSExpr(nil), v.Expressions...)
		return &c
	case *ast.TemplateUsageNode:
		c := *v
		c.Overrides = cloneNodes(v.Overrides)
		return &c
	case *ast.DeleteNode:
		c := *v
		return &c
	case *ast.InsertNode:
		c := *v
		c.Payload = cloneNodes(v.Payload)
		return &c
	case *ast.AttributeNode:
		c := *v
		return &c
	case *ast.OriginUsageNode:
		c := *v
		return &c
	default:
		return n
	}
}

func cloneStyleNode(sn *ast.StyleNode) *ast.StyleNode {
	c := &ast.StyleNode{Position: sn.Position}
	for _, r := range sn.Rules {
		rc := *r
		rc.Declarations = append([]ast.Declaration(nil), r.Declarations...)
		c.Rules = append(c.Rules, &rc)
	}
	for _, ir := range sn.InlineRules {
		irc := *ir
		irc.Declarations = append([]ast.Declaration(nil), ir.Declarations...)
		c.InlineRules = append(c.InlineRules, &irc)
	}
	for _, b := range sn.Blocks {
		c.Blocks = append(c.Blocks, cloneSelectorBlock(b))
	}
	for _, u := range sn.Usages {
		uc := *u
		uc.Overrides = cloneNodes(u.Overrides)
		c.Usages = append(c.Usages, &uc)
	}
	return c
}

func cloneSelectorBlock(b *ast.SelectorBlockNode) *ast.SelectorBlockNode {
	c := &ast.SelectorBlockNode{Position: b.Position, Selector: b.Selector}
	c.Declarations = append([]ast.Declaration(nil), b.Declarations...)
	for _, n := range b.Nested {
		c.Nested = append(c.Nested, cloneSelectorBlock(n))
	}
	return c
}
