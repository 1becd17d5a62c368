package lexer

import (
	"testing"

	"chtl/internal/token"
	"github.com/stretchr/testify/require"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexIdentifierAndBrace(t *testing.T) {
	toks, diags := Lex("test.chtl", `div { }`, 1, 1)
	require.Empty(t, diags)
	require.Equal(t, []token.Kind{
		token.Identifier, token.LBrace, token.RBrace, token.EndOfFile,
	}, kinds(toks))
}

func TestLexStringLiteral(t *testing.T) {
	toks, diags := Lex("test.chtl", `"hello world"`, 1, 1)
	require.Empty(t, diags)
	require.Equal(t, token.StringLiteral, toks[0].Kind)
	require.Equal(t, "hello world", toks[0].Lexeme)
}

func TestLexUnterminatedString(t *testing.T) {
	_, diags := Lex("test.chtl", `"hello`, 1, 1)
	require.NotEmpty(t, diags)
}

func TestLexGeneratorComment(t *testing.T) {
	toks, diags := Lex("test.chtl", "-- a note\ndiv", 1, 1)
	require.Empty(t, diags)
	require.Equal(t, token.GeneratorComment, toks[0].Kind)
	require.Equal(t, " a note", toks[0].Lexeme)
	require.Equal(t, token.Identifier, toks[1].Kind)
}

func TestLexBracketedSections(t *testing.T) {
	toks, diags := Lex("test.chtl", `[Template] [Custom] [Origin] [Import] [Namespace] [Configuration]`, 1, 1)
	require.Empty(t, diags)
	require.Equal(t, []token.Kind{
		token.SectionTemplate, token.SectionCustom, token.SectionOrigin,
		token.SectionImport, token.SectionNamespace, token.SectionConfiguration,
		token.EndOfFile,
	}, kinds(toks))
}

func TestLexUnknownBracketSection(t *testing.T) {
	_, diags := Lex("test.chtl", `[Bogus]`, 1, 1)
	require.NotEmpty(t, diags)
}

func TestLexTypeIdentifier(t *testing.T) {
	toks, diags := Lex("test.chtl", `@Style @Html @MyOrigin`, 1, 1)
	require.Empty(t, diags)
	require.Equal(t, token.TypeIdentifier, toks[0].Kind)
	require.Equal(t, "Style", toks[0].Lexeme)
	require.Equal(t, "Html", toks[1].Lexeme)
	require.Equal(t, "MyOrigin", toks[2].Lexeme)
}

func TestLexKeywords(t *testing.T) {
	toks, diags := Lex("test.chtl", `inherit delete insert after before replace from as except text style script use html5`, 1, 1)
	require.Empty(t, diags)
	want := []token.Kind{
		token.KwInherit, token.KwDelete, token.KwInsert, token.KwAfter, token.KwBefore,
		token.KwReplace, token.KwFrom, token.KwAs, token.KwExcept, token.KwText,
		token.KwStyle, token.KwScript, token.KwUse, token.KwHtml5, token.EndOfFile,
	}
	require.Equal(t, want, kinds(toks))
}

func TestLexAtKeywordNotReserved(t *testing.T) {
	// "at" and "top" each lex as plain Identifiers; the parser recognizes
	// the "at top"/"at bottom" compound from two consecutive tokens.
	toks, diags := Lex("test.chtl", `at top`, 1, 1)
	require.Empty(t, diags)
	require.Equal(t, token.Identifier, toks[0].Kind)
	require.Equal(t, "at", toks[0].Lexeme)
	require.Equal(t, token.Identifier, toks[1].Kind)
	require.Equal(t, "top", toks[1].Lexeme)
}

func TestHandleUnquotedLiteral(t *testing.T) {
	value, next := HandleUnquotedLiteral(`red solid 1px;`, 0)
	require.Equal(t, "red solid 1px", value)
	require.Equal(t, len(`red solid 1px`), next)
}

func TestLexPositionsAreMonotonic(t *testing.T) {
	toks, _ := Lex("test.chtl", "div {\n  text { hi }\n}", 1, 1)
	prevLine := 0
	for _, tok := range toks {
		if tok.Kind == token.EndOfFile {
			continue
		}
		require.GreaterOrEqual(t, tok.Line, prevLine)
		prevLine = tok.Line
	}
}
