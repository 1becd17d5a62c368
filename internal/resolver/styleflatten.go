package resolver

import (
	"strings"

	"chtl/internal/ast"
)

// flattenBlocks turns a tree of nested SelectorBlockNodes into a flat list
// of StyleRuleNodes, resolving `&` against the immediately enclosing
// block's own selector at each nesting level (not the owning element) —
// "&:hover" under ".card" becomes ".card:hover"; a nested block with no
// "&" is joined as a descendant combinator, ".card .inner".
func flattenBlocks(blocks []*ast.SelectorBlockNode, parentSelector string) []*ast.StyleRuleNode {
	var rules []*ast.StyleRuleNode
	for _, b := range blocks {
		sel := combineSelector(parentSelector, b.Selector)
		if len(b.Declarations) > 0 {
			rules = append(rules, &ast.StyleRuleNode{
				Position:     b.Position,
				Selector:     sel,
				Declarations: append([]ast.Declaration(nil), b.Declarations...),
			})
		}
		rules = append(rules, flattenBlocks(b.Nested, sel)...)
	}
	return rules
}

func combineSelector(parent, sel string) string {
	if parent == "" {
		return sel
	}
	if strings.HasPrefix(sel, "&") {
		return parent + strings.TrimPrefix(sel, "&")
	}
	return parent + " " + sel
}
