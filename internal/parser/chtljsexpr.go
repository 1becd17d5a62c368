package parser

import (
	"strings"

	"chtl/internal/ast"
)

// classifyCHTLJSExpr tags one already-isolated CHTL_JS slice (the
// scanner's secondary slicing already found its boundaries) with its
// construct kind, extracting the selector text or vir/state name where
// relevant. The actual lowering to plain JS happens later, in the
// chtljs package.
func classifyCHTLJSExpr(raw string, start, end int) ast.CHTLJSExpr {
	trimmed := strings.TrimSpace(raw)
	e := ast.CHTLJSExpr{Start: start, End: end, Raw: raw}

	switch {
	case strings.HasPrefix(trimmed, "{{"):
		e.Kind = ast.CHTLJSSelector
		inner := trimmed
		if i := strings.Index(inner, "{{"); i >= 0 {
			inner = inner[i+2:]
		}
		if j := strings.Index(inner, "}}"); j >= 0 {
			inner = inner[:j]
		}
		e.Name = strings.TrimSpace(inner)
	case strings.HasPrefix(trimmed, "listen"):
		e.Kind = ast.CHTLJSListen
	case strings.HasPrefix(trimmed, "animate"):
		e.Kind = ast.CHTLJSAnimate
	case strings.HasPrefix(trimmed, "vir"):
		e.Kind = ast.CHTLJSVir
		rest := strings.TrimSpace(trimmed[len("vir"):])
		e.Name = headIdent(rest)
	default:
		if name, state, ok := splitStateHead(trimmed); ok {
			e.Kind = ast.CHTLJSStateBlock
			e.Name = name
			e.StateTag = state
		} else {
			e.Kind = ast.CHTLJSListen // unrecognized call head defaults to a plain registration form
		}
	}
	return e
}

func headIdent(s string) string {
	i := 0
	for i < len(s) && (isIdentRune(s[i])) {
		i++
	}
	return s[:i]
}

func isIdentRune(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func splitStateHead(s string) (name, state string, ok bool) {
	name = headIdent(s)
	if name == "" || len(s) <= len(name) || s[len(name)] != '<' {
		return "", "", false
	}
	rest := s[len(name)+1:]
	end := strings.IndexByte(rest, '>')
	if end < 0 {
		return "", "", false
	}
	return name, rest[:end], true
}
