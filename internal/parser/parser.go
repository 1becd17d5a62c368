// Package parser implements the CHTL recursive-descent parser: one token
// of lookahead, a NamespaceStack so every definition lands under the
// right prefix, and error recovery that synchronizes to the next
// statement boundary instead of aborting on the first mistake. It
// drives directly off the scanner's CodeSlice list rather than a single
// flattened token stream, because CSS/JS/CHTL-JS slices (style/script
// bodies) need their own sub-grammars and never pass through the CHTL
// lexer at all.
package parser

import (
	"strings"

	"chtl/internal/ast"
	"chtl/internal/diagnostics"
	"chtl/internal/lexer"
	"chtl/internal/scanner"
	"chtl/internal/symbols"
	"chtl/internal/token"
)

// Parse runs the full lex+parse stage over one file's CodeSlices,
// returning the program AST and the GlobalMap populated with every
// template/custom/origin/configuration definition seen (not yet
// import-merged or resolved — that's the next two pipeline stages).
func Parse(file string, slices []scanner.CodeSlice) (*ast.ProgramNode, *symbols.GlobalMap, []diagnostics.Diagnostic) {
	p := &Parser{
		file:    file,
		slices:  slices,
		globals: symbols.New(),
	}
	prog := p.parseProgram()
	return prog, p.globals, p.diags
}

// Parser holds all mutable parse state. Code outside this package
// reaches it only through Parse or ParseInto.
type Parser struct {
	file   string
	slices []scanner.CodeSlice
	si     int // index of the next slice not yet consumed

	toks []token.Token
	ti   int

	globals *symbols.GlobalMap
	nsStack []string // dot-path segments of the current namespace

	diags []diagnostics.Diagnostic
}

// ParseInto parses file's slices using an already-existing GlobalMap
// instead of a fresh one. The import resolver does not use it: it calls
// Parse on each imported file and merges via GlobalMap.Merge.
func ParseInto(file string, slices []scanner.CodeSlice, gm *symbols.GlobalMap) (*ast.ProgramNode, []diagnostics.Diagnostic) {
	p := &Parser{file: file, slices: slices, globals: gm}
	prog := p.parseProgram()
	return prog, p.diags
}

func (p *Parser) errorf(format string, args ...any) {
	t := p.cur()
	p.diags = append(p.diags, diagnostics.New(diagnostics.SyntaxError, p.file, t.Line, t.Column, format, args...))
}

func (p *Parser) currentNamespace() string {
	return strings.Join(p.nsStack, ".")
}

// loadCHTLSlice advances si past the next CHTL slice, lexes it, and
// installs it as the active token buffer. Returns false if there is no
// next CHTL slice (either input is exhausted, or the next slice is a
// pending non-CHTL block the caller must consume explicitly).
func (p *Parser) loadCHTLSlice() bool {
	if p.si >= len(p.slices) || p.slices[p.si].Kind != scanner.CHTL {
		p.toks = nil
		p.ti = 0
		return false
	}
	sl := p.slices[p.si]
	p.si++
	toks, diags := lexer.Lex(p.file, sl.Content, sl.StartLine, sl.StartColumn)
	p.diags = append(p.diags, diags...)
	p.toks = toks
	p.ti = 0
	return true
}

// cur returns the current lookahead token. When the active CHTL token
// buffer is exhausted it transparently advances to the next CHTL slice,
// UNLESS the next slice is non-CHTL (a pending style/script body), in
// which case it returns a synthetic EndOfFile — grammar rules that can
// legally be followed by such a body (style/script block entry) check
// for and consume it explicitly via consumeStyleBody/consumeScriptBody
// before ever calling cur() again.
func (p *Parser) cur() token.Token {
	for p.ti >= len(p.toks) {
		if p.si >= len(p.slices) {
			return token.Token{Kind: token.EndOfFile}
		}
		if p.slices[p.si].Kind != scanner.CHTL {
			return token.Token{Kind: token.EndOfFile}
		}
		if !p.loadCHTLSlice() {
			return token.Token{Kind: token.EndOfFile}
		}
	}
	return p.toks[p.ti]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.ti < len(p.toks) {
		p.ti++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) match(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind, context string) (token.Token, bool) {
	if t, ok := p.match(k); ok {
		return t, true
	}
	t := p.cur()
	p.errorf("expected %s in %s, got %s %q", k, context, t.Kind, t.Lexeme)
	return token.Token{}, false
}

// pendingNonCHTLBlock reports whether the slice list's next unconsumed
// entry is a style/script body waiting to be pulled in by
// consumeStyleBody/consumeScriptBody.
func (p *Parser) pendingNonCHTLBlock() bool {
	return p.ti >= len(p.toks) && p.si < len(p.slices) && p.slices[p.si].Kind != scanner.CHTL
}

// synchronize recovers from a syntax error by discarding tokens until
// the next ';' or a '}' reached at brace depth 0, relative to the point
// synchronize was called (error-recovery rule).
func (p *Parser) synchronize() {
	depth := 0
	for {
		t := p.cur()
		if t.Kind == token.EndOfFile {
			if p.pendingNonCHTLBlock() {
				// Treat a stray pending block as consumed noise; skip past it.
				p.si++
				continue
			}
			return
		}
		switch t.Kind {
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

func (p *Parser) parseProgram() *ast.ProgramNode {
	prog := &ast.ProgramNode{Position: ast.Position{File: p.file, Line: 1, Column: 1}}

	for {
		t := p.cur()
		if t.Kind == token.EndOfFile {
			if p.pendingNonCHTLBlock() {
				p.errorf("unexpected style/script content outside any element")
				p.si++
				continue
			}
			break
		}
		decl := p.parseTopLevelDecl(&prog.UseHTML5)
		if decl != nil {
			prog.Declarations = append(prog.Declarations, decl)
		}
	}
	return prog
}

// parseTopLevelDecl parses one top-level declaration. useHTML5 is set
// true in place when a `use html5;` statement is seen.
func (p *Parser) parseTopLevelDecl(useHTML5 *bool) ast.Node {
	t := p.cur()
	switch t.Kind {
	case token.KwUse:
		p.advance()
		if _, ok := p.match(token.KwHtml5); ok {
			*useHTML5 = true
		} else {
			p.errorf("expected 'html5' after 'use'")
		}
		p.expect(token.Semicolon, "use declaration")
		return nil
	case token.GeneratorComment:
		tok := p.advance()
		return &ast.CommentNode{Position: posOf(p.file, tok), CommentKind: ast.CommentGenerator, Content: tok.Lexeme}
	case token.SectionImport:
		return p.parseImport()
	case token.SectionNamespace:
		return p.parseNamespace()
	case token.SectionConfiguration:
		return p.parseConfig()
	case token.SectionTemplate:
		return p.parseDefinition(false)
	case token.SectionCustom:
		return p.parseDefinition(true)
	case token.SectionOrigin:
		return p.parseOriginDef()
	case token.KwStyle:
		return p.parseGlobalStyleBlock()
	case token.KwScript:
		return p.parseGlobalScriptBlock()
	case token.TypeIdentifier:
		return p.parseTemplateUsageStatement()
	case token.Identifier:
		return p.parseElement()
	default:
		p.errorf("unexpected token %s %q at top level", t.Kind, t.Lexeme)
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseGlobalStyleBlock() ast.Node {
	tok := p.advance() // 'style'
	p.expect(token.LBrace, "style block")
	node := p.consumeStyleBody()
	node.Position = posOf(p.file, tok)
	return node
}

func (p *Parser) parseGlobalScriptBlock() ast.Node {
	tok := p.advance() // 'script'
	p.expect(token.LBrace, "script block")
	node := p.consumeScriptBody()
	node.Position = posOf(p.file, tok)
	return node
}

func posOf(file string, t token.Token) ast.Position {
	return ast.Position{File: file, Line: t.Line, Column: t.Column}
}
