package parser

import (
	"strings"

	"chtl/internal/ast"
	"chtl/internal/diagnostics"
)

// parseStyleSlice parses one CSS CodeSlice's raw text — the body of a
// style{} block — into bare declarations, nested selector blocks, and
// `@Style Name;` template usages. It's a small hand-rolled CSS-subset
// parser rather than a full CSS grammar: CHTL style bodies are either
// flat declaration lists, `selector { declarations }` blocks (optionally
// nested, with `&` standing for the enclosing block's selector; a `&` in
// a top-level rule is not replaced by the owning element's class/id and
// is emitted as written), or template
// usage statements — never full CSS3 (that's the collaborator
// validator's job once the generator has assembled the stylesheet).
func parseStyleSlice(file, content string, startLine, startCol int) (inline []ast.Declaration, blocks []*ast.SelectorBlockNode, usages []*ast.TemplateUsageNode, diags []diagnostics.Diagnostic) {
	c := &miniCursor{src: content, line: startLine, col: startCol}
	inline, blocks, usages, diags = parseStyleItems(file, c)
	return
}

func parseStyleItems(file string, c *miniCursor) (inline []ast.Declaration, blocks []*ast.SelectorBlockNode, usages []*ast.TemplateUsageNode, diags []diagnostics.Diagnostic) {
	for {
		c.skipSpace()
		if c.eof() {
			return
		}
		startLine, startCol := c.line, c.col

		if c.peek() == '@' {
			usage, d := parseInlineTemplateUsage(file, c, startLine, startCol)
			if d != nil {
				diags = append(diags, *d)
			}
			if usage != nil {
				usages = append(usages, usage)
			}
			continue
		}

		head, sep := c.readUntil('{', ';')
		head = strings.TrimSpace(head)
		if sep == '{' {
			c.advance() // consume '{'
			body := c.readBalancedBody()
			nestedInline, nestedBlocks, _, nestedDiags := parseStyleItems(file, &miniCursor{src: body, line: startLine, col: startCol})
			diags = append(diags, nestedDiags...)
			blocks = append(blocks, &ast.SelectorBlockNode{
				Position:     ast.Position{File: file, Line: startLine, Column: startCol},
				Selector:     head,
				Declarations: nestedInline,
				Nested:       nestedBlocks,
			})
			continue
		}
		if head == "" {
			if sep == 0 {
				return
			}
			c.advance() // stray ';'
			continue
		}
		prop, val, ok := splitDeclaration(head)
		if !ok {
			diags = append(diags, diagnostics.New(diagnostics.SyntaxError, file, startLine, startCol,
				"malformed style declaration %q", head))
		} else {
			inline = append(inline, ast.Declaration{Property: prop, Value: val})
		}
		if sep == ';' {
			c.advance()
		}
	}
}

func splitDeclaration(s string) (prop, val string, ok bool) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:]), true
}

// parseInlineTemplateUsage parses `@Style Name;` appearing directly in
// a style block body.
func parseInlineTemplateUsage(file string, c *miniCursor, line, col int) (*ast.TemplateUsageNode, *diagnostics.Diagnostic) {
	c.advance() // '@'
	typeName := c.readWord()
	cat, ok := categoryFromTypeName(typeName)
	c.skipSpace()
	name := c.readWord()
	c.skipSpace()
	if c.peek() == ';' {
		c.advance()
	}
	if !ok {
		d := diagnostics.New(diagnostics.SyntaxError, file, line, col, "unknown template category @%s in style block", typeName)
		return nil, &d
	}
	return &ast.TemplateUsageNode{
		Position: ast.Position{File: file, Line: line, Column: col},
		Category: cat,
		Name:     strings.TrimSpace(name),
	}, nil
}

// miniCursor is a minimal string-aware byte cursor for the CSS-subset
// parser, independent of scanner.cursor since it needs no brace-depth
// stack of its own (callers manage nesting via recursion).
type miniCursor struct {
	src  string
	pos  int
	line int
	col  int
}

func (c *miniCursor) eof() bool { return c.pos >= len(c.src) }
func (c *miniCursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.pos]
}

func (c *miniCursor) advance() byte {
	ch := c.src[c.pos]
	c.pos++
	if ch == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	return ch
}

func (c *miniCursor) skipSpace() {
	for !c.eof() {
		switch c.peek() {
		case ' ', '\t', '\n', '\r':
			c.advance()
		default:
			return
		}
	}
}

func (c *miniCursor) readWord() string {
	start := c.pos
	for !c.eof() && isCSSIdentByte(c.peek()) {
		c.advance()
	}
	return c.src[start:c.pos]
}

func isCSSIdentByte(b byte) bool {
	return b == '-' || b == '_' || b == '&' || b == '.' || b == '#' || b == '%' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// readUntil scans, string-aware, until one of the stop bytes or EOF,
// returning the text read (not including the stop byte) and which stop
// byte was hit (0 on EOF).
func (c *miniCursor) readUntil(stops ...byte) (string, byte) {
	start := c.pos
	for !c.eof() {
		ch := c.peek()
		if ch == '"' || ch == '\'' {
			c.advance()
			for !c.eof() && c.peek() != ch {
				if c.peek() == '\\' {
					c.advance()
				}
				c.advance()
			}
			if !c.eof() {
				c.advance()
			}
			continue
		}
		for _, s := range stops {
			if ch == s {
				return c.src[start:c.pos], s
			}
		}
		c.advance()
	}
	return c.src[start:c.pos], 0
}

// readBalancedBody consumes up to and including the matching '}' for a
// '{' already consumed, returning the content strictly between the
// braces.
func (c *miniCursor) readBalancedBody() string {
	start := c.pos
	depth := 1
	for !c.eof() {
		ch := c.peek()
		if ch == '"' || ch == '\'' {
			c.advance()
			for !c.eof() && c.peek() != ch {
				if c.peek() == '\\' {
					c.advance()
				}
				c.advance()
			}
			if !c.eof() {
				c.advance()
			}
			continue
		}
		if ch == '{' {
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 {
				body := c.src[start:c.pos]
				c.advance()
				return body
			}
		}
		c.advance()
	}
	return c.src[start:c.pos]
}
