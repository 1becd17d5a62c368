package parser

import (
	"strings"

	"chtl/internal/ast"
	"chtl/internal/chtlconfig"
	"chtl/internal/diagnostics"
	"chtl/internal/token"
)

// parseDefinition parses `[Template]`/`[Custom]` definitions: `@Style
// Name { decls }`, `@Element Name { children }`, or `@Var Name { key:
// value; ... }`, with optional `inherit Name;` lines in any category's
// body.
func (p *Parser) parseDefinition(isCustom bool) ast.Node {
	secTok := p.advance() // [Template] or [Custom]
	catTok, _ := p.expect(token.TypeIdentifier, "definition category")
	cat, catOK := categoryFromTypeName(catTok.Lexeme)
	if !catOK {
		p.errorf("unknown definition category @%s", catTok.Lexeme)
	}
	nameTok, _ := p.expect(token.Identifier, "definition name")

	def := ast.TemplateDefinitionNode{
		Position: posOf(p.file, secTok),
		Category: cat,
		Name:     nameTok.Lexeme,
	}
	p.expect(token.LBrace, "definition body")

	switch cat {
	case ast.CategoryVar:
		def.VarBindings = map[string]string{}
		for !p.check(token.RBrace) && p.cur().Kind != token.EndOfFile {
			if p.check(token.KwInherit) {
				def.Inherits = append(def.Inherits, p.parseInherit())
				continue
			}
			keyTok, ok := p.expect(token.Identifier, "@Var binding")
			if !ok {
				p.synchronize()
				continue
			}
			p.expect(token.Colon, "@Var binding")
			val := p.parseValueLiteral()
			p.expect(token.Semicolon, "@Var binding")
			def.VarBindings[keyTok.Lexeme] = val
		}
	case ast.CategoryStyle:
		for !p.check(token.RBrace) && p.cur().Kind != token.EndOfFile {
			switch {
			case p.check(token.KwInherit):
				def.Inherits = append(def.Inherits, p.parseInherit())
			case p.check(token.KwDelete):
				def.Body = append(def.Body, p.parseDelete())
			case p.check(token.TypeIdentifier):
				def.Body = append(def.Body, p.parseTemplateUsageStatement())
			case p.check(token.Identifier) && p.isAttribute():
				def.Body = append(def.Body, p.parseAttribute())
			default:
				p.errorf("unexpected token in @Style template body")
				p.synchronize()
			}
		}
	default: // CategoryElement
		for !p.check(token.RBrace) {
			t := p.cur()
			if t.Kind == token.EndOfFile {
				if p.pendingNonCHTLBlock() {
					p.errorf("style/script content must follow a style/script keyword")
					p.si++
					continue
				}
				p.errorf("unterminated @Element template body")
				break
			}
			switch t.Kind {
			case token.KwInherit:
				def.Inherits = append(def.Inherits, p.parseInherit())
			case token.KwDelete:
				def.Body = append(def.Body, p.parseDelete())
			case token.KwInsert:
				def.Body = append(def.Body, p.parseInsert())
			case token.KwText:
				def.Body = append(def.Body, p.parseTextBlock())
			case token.GeneratorComment:
				tok := p.advance()
				def.Body = append(def.Body, &ast.CommentNode{Position: posOf(p.file, tok), CommentKind: ast.CommentGenerator, Content: tok.Lexeme})
			case token.TypeIdentifier:
				def.Body = append(def.Body, p.parseTemplateUsageStatement())
			case token.Identifier:
				if p.isAttribute() {
					def.Body = append(def.Body, p.parseAttribute())
				} else {
					def.Body = append(def.Body, p.parseElement())
				}
			default:
				p.errorf("unexpected token in @Element template body")
				p.synchronize()
			}
		}
	}
	p.expect(token.RBrace, "definition body")

	var node ast.Node
	if isCustom {
		node = &ast.CustomDefinitionNode{TemplateDefinitionNode: def}
	} else {
		node = &def
	}

	if d := p.globals.Insert(categoryToSymbolCat(cat, isCustom), p.currentNamespace(), def.Name, node); d != nil {
		p.diags = append(p.diags, *d)
	}
	return node
}

func (p *Parser) parseInherit() *ast.InheritNode {
	tok := p.advance() // 'inherit'
	nameTok, _ := p.expect(token.Identifier, "inherit")
	p.expect(token.Semicolon, "inherit")
	return &ast.InheritNode{Position: posOf(p.file, tok), Referent: nameTok.Lexeme}
}

// parseOriginDef parses `[Origin] @Html Name { ...verbatim... }` or the
// anonymous form `[Origin] @Html { ... }`. Since the body is opaque, the
// scanner does not slice it separately — it arrives as ordinary CHTL
// text between the braces, so it's captured here by source-span
// reconstruction over the remaining CHTL slice content rather than by
// re-lexing it as CHTL tokens.
func (p *Parser) parseOriginDef() ast.Node {
	secTok := p.advance() // [Origin]
	typeTok, _ := p.expect(token.TypeIdentifier, "origin type")
	name := ""
	if p.check(token.Identifier) {
		name = p.advance().Lexeme
	}
	p.expect(token.LBrace, "origin body")

	var parts []string
	depth := 0
	for {
		t := p.cur()
		if t.Kind == token.EndOfFile {
			if p.pendingNonCHTLBlock() {
				p.si++
				continue
			}
			break
		}
		if t.Kind == token.RBrace && depth == 0 {
			p.advance()
			break
		}
		if t.Kind == token.LBrace {
			depth++
		} else if t.Kind == token.RBrace {
			depth--
		}
		parts = append(parts, p.advance().Lexeme)
	}

	node := &ast.OriginNode{
		Position:   posOf(p.file, secTok),
		OriginType: "@" + typeTok.Lexeme,
		Name:       name,
		Body:       strings.Join(parts, " "),
	}
	if name != "" {
		if d := p.globals.Insert(symbolsCategoryOrigin, p.currentNamespace(), name, node); d != nil {
			p.diags = append(p.diags, *d)
		}
	}
	return node
}

// parseImport parses all four import forms.
func (p *Parser) parseImport() ast.Node {
	secTok := p.advance() // [Import]

	imp := &ast.ImportNode{Position: posOf(p.file, secTok), Category: ast.ImportFile}

	switch {
	case p.check(token.TypeIdentifier) && p.cur().Lexeme == "Chtl":
		p.advance()
	case p.check(token.SectionTemplate), p.check(token.SectionCustom), p.check(token.SectionOrigin):
		switch p.cur().Kind {
		case token.SectionTemplate:
			imp.Category = ast.ImportCategoryTemplate
		case token.SectionCustom:
			imp.Category = ast.ImportCategoryCustom
		case token.SectionOrigin:
			imp.Category = ast.ImportCategoryOrigin
		}
		p.advance()
		if p.check(token.TypeIdentifier) {
			typeTok := p.advance()
			if cat, ok := categoryFromTypeName(typeTok.Lexeme); ok {
				imp.SpecificType = cat
			}
			if p.check(token.Identifier) {
				imp.ItemName = p.advance().Lexeme
			}
		}
	default:
		p.errorf("expected @Chtl, [Template], [Custom], or [Origin] after [Import]")
	}

	p.expect(token.KwFrom, "import")
	pathTok, _ := p.expect(token.StringLiteral, "import path")
	imp.Path = pathTok.Lexeme

	if p.check(token.KwAs) {
		p.advance()
		aliasTok, _ := p.expect(token.Identifier, "import alias")
		imp.Alias = aliasTok.Lexeme
	}
	if p.check(token.KwExcept) {
		p.advance()
		imp.Except = append(imp.Except, p.advance().Lexeme)
		for p.check(token.Comma) {
			p.advance()
			imp.Except = append(imp.Except, p.advance().Lexeme)
		}
	}
	p.expect(token.Semicolon, "import")
	return imp
}

// parseNamespace parses `[Namespace] Name { decls }`, concatenating
// nested namespace names with '.' while the body is parsed.
func (p *Parser) parseNamespace() ast.Node {
	secTok := p.advance() // [Namespace]
	nameTok, _ := p.expect(token.Identifier, "namespace name")
	p.expect(token.LBrace, "namespace body")

	p.nsStack = append(p.nsStack, nameTok.Lexeme)
	ns := &ast.NamespaceNode{Position: posOf(p.file, secTok), Name: nameTok.Lexeme}

	for !p.check(token.RBrace) {
		t := p.cur()
		if t.Kind == token.EndOfFile {
			if p.pendingNonCHTLBlock() {
				p.si++
				continue
			}
			p.errorf("unterminated namespace %q", nameTok.Lexeme)
			break
		}
		var unused bool
		decl := p.parseTopLevelDecl(&unused)
		if decl != nil {
			ns.Declarations = append(ns.Declarations, decl)
		}
	}
	p.expect(token.RBrace, "namespace body")
	p.nsStack = p.nsStack[:len(p.nsStack)-1]
	return ns
}

// parseConfig parses `[Configuration] { KEY = value; ... [Name] { }
// [OriginType] { } }`.
func (p *Parser) parseConfig() ast.Node {
	secTok := p.advance() // [Configuration]
	p.expect(token.LBrace, "configuration body")

	node := &ast.ConfigNode{
		Position:     posOf(p.file, secTok),
		BoolSettings: map[string]bool{},
		IntSettings:  map[string]int{},
		Names:        map[string]string{},
	}

	for !p.check(token.RBrace) && p.cur().Kind != token.EndOfFile {
		if p.check(token.SectionTemplate) || p.check(token.SectionCustom) || p.check(token.SectionOrigin) {
			// Not expected here; guard against infinite loop on malformed input.
			p.errorf("unexpected section inside [Configuration]")
			p.synchronize()
			continue
		}
		if p.check(token.Identifier) && p.cur().Lexeme == "Name" {
			p.advance()
			p.parseConfigSubBlock(func(key, val string) { node.Names[key] = val })
			continue
		}
		if p.check(token.Identifier) && p.cur().Lexeme == "OriginType" {
			p.advance()
			p.expect(token.LBrace, "[OriginType] block")
			for !p.check(token.RBrace) && p.cur().Kind != token.EndOfFile {
				tok := p.advance()
				node.OriginTypes = append(node.OriginTypes, tok.Lexeme)
				p.match(token.Semicolon)
				p.match(token.Comma)
			}
			p.expect(token.RBrace, "[OriginType] block")
			continue
		}

		keyTok, ok := p.expect(token.Identifier, "configuration key")
		if !ok {
			p.synchronize()
			continue
		}
		p.expect(token.Equals, "configuration assignment")
		valTok := p.advance()
		p.expect(token.Semicolon, "configuration assignment")
		if !chtlconfig.IsRecognizedKey(keyTok.Lexeme) {
			p.diags = append(p.diags, diagnostics.New(diagnostics.ConfigValueInvalid, p.file, keyTok.Line, keyTok.Column,
				"unrecognized configuration key %q", keyTok.Lexeme))
			continue
		}

		switch valTok.Kind {
		case token.Number:
			node.IntSettings[keyTok.Lexeme] = atoiBest(valTok.Lexeme)
		case token.Identifier:
			node.BoolSettings[keyTok.Lexeme] = strings.EqualFold(valTok.Lexeme, "true")
		}
	}
	p.expect(token.RBrace, "configuration body")

	if d := p.globals.Insert(symbolsCategoryConfiguration, p.currentNamespace(), "", node); d != nil {
		p.diags = append(p.diags, *d)
	}
	return node
}

func (p *Parser) parseConfigSubBlock(assign func(key, val string)) {
	p.expect(token.LBrace, "[Name] block")
	for !p.check(token.RBrace) && p.cur().Kind != token.EndOfFile {
		keyTok := p.advance()
		p.expect(token.Equals, "[Name] binding")
		valTok := p.advance()
		assign(keyTok.Lexeme, valTok.Lexeme)
		p.match(token.Semicolon)
	}
	p.expect(token.RBrace, "[Name] block")
}

func atoiBest(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			break
		}
		n = n*10 + int(s[i]-'0')
	}
	return n
}
