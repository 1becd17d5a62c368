package parser

import (
	"strings"

	"chtl/internal/ast"
	"chtl/internal/lexer"
	"chtl/internal/scanner"
	"chtl/internal/token"
)

// parseElement parses `tag { body* }`.
func (p *Parser) parseElement() ast.Node {
	tagTok := p.advance()
	el := &ast.ElementNode{Position: posOf(p.file, tagTok), Tag: tagTok.Lexeme}
	if !p.check(token.LBrace) {
		p.errorf("expected '{' after element tag %q", tagTok.Lexeme)
		p.synchronize()
		return el
	}
	p.advance() // '{'

	for {
		if p.check(token.RBrace) {
			p.advance()
			return el
		}
		t := p.cur()
		if t.Kind == token.EndOfFile {
			if p.pendingNonCHTLBlock() {
				p.errorf("style/script content must follow a style/script keyword")
				p.si++
				continue
			}
			p.errorf("unterminated element %q body", tagTok.Lexeme)
			return el
		}
		switch t.Kind {
		case token.KwStyle:
			p.advance()
			p.expect(token.LBrace, "style block")
			el.Style = p.consumeStyleBody()
			el.Style.Position = posOf(p.file, t)
		case token.KwScript:
			p.advance()
			p.expect(token.LBrace, "script block")
			el.Script = p.consumeScriptBody()
			el.Script.Position = posOf(p.file, t)
		case token.KwText:
			el.Children = append(el.Children, p.parseTextBlock())
		case token.GeneratorComment:
			tok := p.advance()
			el.Children = append(el.Children, &ast.CommentNode{
				Position: posOf(p.file, tok), CommentKind: ast.CommentGenerator, Content: tok.Lexeme,
			})
		case token.KwInsert:
			el.Children = append(el.Children, p.parseInsert())
		case token.TypeIdentifier:
			el.Children = append(el.Children, p.parseTemplateUsageStatement())
		case token.Identifier:
			if p.isAttribute() {
				el.Attributes = append(el.Attributes, p.parseAttribute())
			} else {
				el.Children = append(el.Children, p.parseElement())
			}
		default:
			p.errorf("unexpected token %s %q in element body", t.Kind, t.Lexeme)
			p.synchronize()
		}
	}
}

// isAttribute distinguishes `key: value;` from a nested element tag: an
// attribute's identifier is followed by ':' (one token of extra
// lookahead beyond the grammar's normal single-token budget, needed
// because both forms start with a bare Identifier).
func (p *Parser) isAttribute() bool {
	if p.ti+1 < len(p.toks) {
		return p.toks[p.ti+1].Kind == token.Colon
	}
	// Identifier is the last token of its slice; an attribute's ':' would
	// have to be in the same slice, so this can only be an element tag
	// (whose '{' starts the next slice) or a malformed trailing token.
	return false
}

func (p *Parser) parseAttribute() *ast.AttributeNode {
	keyTok := p.advance()
	p.expect(token.Colon, "attribute")
	value := p.parseValueLiteral()
	p.expect(token.Semicolon, "attribute")
	return &ast.AttributeNode{Position: posOf(p.file, keyTok), Key: keyTok.Lexeme, Value: value}
}

// parseValueLiteral reads a quoted string or an unquoted run of tokens
// up to the terminating ';', joining the tokens' lexemes with single
// spaces. A `Group(key)` variable reference is recorded this way as
// plain text ("Group ( key )"); the resolver substitutes it later, and
// no VarUsageNode is built here.
func (p *Parser) parseValueLiteral() string {
	if t, ok := p.match(token.StringLiteral); ok {
		return t.Lexeme
	}
	var parts []string
	for !p.check(token.Semicolon) && !p.check(token.RBrace) && p.cur().Kind != token.EndOfFile {
		parts = append(parts, p.advance().Lexeme)
	}
	return strings.Join(parts, " ")
}

// parseTextBlock parses `text { ... }`, reconstructing the literal from
// token lexemes joined with single spaces. The original spacing and the
// quote characters of string tokens are not kept.
func (p *Parser) parseTextBlock() *ast.TextNode {
	tok := p.advance() // 'text'
	p.expect(token.LBrace, "text block")
	var parts []string
	for !p.check(token.RBrace) && p.cur().Kind != token.EndOfFile {
		if t, ok := p.match(token.StringLiteral); ok {
			parts = append(parts, t.Lexeme)
			continue
		}
		parts = append(parts, p.advance().Lexeme)
	}
	p.expect(token.RBrace, "text block")
	return &ast.TextNode{Position: posOf(p.file, tok), Value: strings.Join(parts, " ")}
}

// parseInsert parses `insert before|after|replace|at top|at bottom
// <target> { payload }`.
func (p *Parser) parseInsert() ast.Node {
	tok := p.advance() // 'insert'
	node := &ast.InsertNode{Position: posOf(p.file, tok)}
	switch {
	case p.check(token.KwBefore):
		p.advance()
		node.At = ast.InsertBefore
		node.Target = p.parseInsertTarget()
	case p.check(token.KwAfter):
		p.advance()
		node.At = ast.InsertAfter
		node.Target = p.parseInsertTarget()
	case p.check(token.KwReplace):
		p.advance()
		node.At = ast.InsertReplace
		node.Target = p.parseInsertTarget()
	case p.check(token.Identifier) && p.cur().Lexeme == "at":
		p.advance()
		switch {
		case p.check(token.Identifier) && p.cur().Lexeme == "top":
			p.advance()
			node.At = ast.InsertAtTop
		case p.check(token.Identifier) && p.cur().Lexeme == "bottom":
			p.advance()
			node.At = ast.InsertAtBottom
		default:
			p.errorf("expected 'top' or 'bottom' after 'at' in insert")
		}
	default:
		p.errorf("expected before/after/replace/at top/at bottom after 'insert'")
	}
	p.expect(token.LBrace, "insert block")
	for !p.check(token.RBrace) && p.cur().Kind != token.EndOfFile {
		node.Payload = append(node.Payload, p.parseElement())
	}
	p.expect(token.RBrace, "insert block")
	return node
}

func (p *Parser) parseInsertTarget() string {
	var parts []string
	for !p.check(token.LBrace) && p.cur().Kind != token.EndOfFile {
		parts = append(parts, p.advance().Lexeme)
	}
	return strings.Join(parts, "")
}

// parseTemplateUsageStatement parses `@Category Name;` or
// `@Category Name { overrides }`, used both as an element child and a
// top-level declaration.
func (p *Parser) parseTemplateUsageStatement() ast.Node {
	catTok := p.advance() // TypeIdentifier
	cat, ok := categoryFromTypeName(catTok.Lexeme)
	if !ok {
		p.errorf("unknown template category @%s", catTok.Lexeme)
	}
	nameTok, _ := p.expect(token.Identifier, "template usage")
	usage := &ast.TemplateUsageNode{Position: posOf(p.file, catTok), Category: cat, Name: nameTok.Lexeme}

	if p.check(token.LBrace) {
		p.advance()
		for !p.check(token.RBrace) && p.cur().Kind != token.EndOfFile {
			switch p.cur().Kind {
			case token.KwDelete:
				usage.Overrides = append(usage.Overrides, p.parseDelete())
			case token.KwInsert:
				usage.Overrides = append(usage.Overrides, p.parseInsert())
			case token.Identifier:
				if p.isAttribute() {
					usage.Overrides = append(usage.Overrides, p.parseAttribute())
				} else {
					p.errorf("unexpected token in template usage override block")
					p.synchronize()
				}
			default:
				p.errorf("unexpected token in template usage override block")
				p.synchronize()
			}
		}
		p.expect(token.RBrace, "template usage overrides")
	} else {
		p.expect(token.Semicolon, "template usage")
	}
	return usage
}

func (p *Parser) parseDelete() ast.Node {
	tok := p.advance() // 'delete'
	var parts []string
	for !p.check(token.Semicolon) && p.cur().Kind != token.EndOfFile {
		parts = append(parts, p.advance().Lexeme)
	}
	p.expect(token.Semicolon, "delete")
	return &ast.DeleteNode{Position: posOf(p.file, tok), TargetSelector: strings.Join(parts, "")}
}

func categoryFromTypeName(name string) (ast.DefinitionCategory, bool) {
	switch name {
	case "Style":
		return ast.CategoryStyle, true
	case "Element":
		return ast.CategoryElement, true
	case "Var":
		return ast.CategoryVar, true
	default:
		return ast.CategoryElement, false
	}
}

// consumeStyleBody pulls every consecutive CSS CodeSlice following the
// just-consumed `style {` and parses each as a sequence of declarations,
// nested selector blocks, and `@Style Name;` template usages, then
// loads the next CHTL slice (expected to start with the closing `}`).
func (p *Parser) consumeStyleBody() *ast.StyleNode {
	node := &ast.StyleNode{}
	for p.si < len(p.slices) && p.slices[p.si].Kind == scanner.CSS {
		sl := p.slices[p.si]
		p.si++
		inline, blocks, usages, diags := parseStyleSlice(p.file, sl.Content, sl.StartLine, sl.StartColumn)
		p.diags = append(p.diags, diags...)
		if len(inline) > 0 {
			node.InlineRules = append(node.InlineRules, &ast.InlineStyleRuleNode{
				Position:     ast.Position{File: p.file, Line: sl.StartLine, Column: sl.StartColumn},
				Declarations: inline,
			})
		}
		node.Blocks = append(node.Blocks, blocks...)
		node.Usages = append(node.Usages, usages...)
	}
	p.loadCHTLSlice()
	p.expect(token.RBrace, "style block")
	return node
}

// consumeScriptBody pulls every consecutive JS/CHTL_JS CodeSlice
// following the just-consumed `script {`, concatenating their raw text
// into ScriptNode.Body (in source order) and recording each CHTL_JS
// slice's byte range as a CHTLJSExpr, then loads the next CHTL slice
// (expected to start with the closing `}`).
func (p *Parser) consumeScriptBody() *ast.ScriptNode {
	node := &ast.ScriptNode{Lang: ast.LangJS}
	var body strings.Builder
	for p.si < len(p.slices) {
		kind := p.slices[p.si].Kind
		if kind != scanner.JS && kind != scanner.CHTLJS {
			break
		}
		sl := p.slices[p.si]
		p.si++
		start := body.Len()
		body.WriteString(sl.Content)
		end := body.Len()
		if kind == scanner.CHTLJS {
			node.Lang = ast.LangCHTLJS
			node.Expressions = append(node.Expressions, classifyCHTLJSExpr(sl.Content, start, end))
		}
	}
	node.Body = body.String()
	p.loadCHTLSlice()
	p.expect(token.RBrace, "script block")
	return node
}

// lexStandalone tokenizes a short CHTL-ish fragment without going
// through the slice machinery. No other parser file calls it.
func lexStandalone(file, src string, line, col int) []token.Token {
	toks, _ := lexer.Lex(file, src, line, col)
	return toks
}
