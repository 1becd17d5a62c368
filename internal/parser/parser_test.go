package parser

import (
	"testing"

	"chtl/internal/ast"
	"chtl/internal/scanner"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string) (*ast.ProgramNode, []string) {
	t.Helper()
	slices, scanDiags := scanner.Scan("test.chtl", src)
	require.Empty(t, scanDiags)
	prog, _, diags := Parse("test.chtl", slices)
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Error())
	}
	return prog, msgs
}

func TestParseHelloElement(t *testing.T) {
	prog, diags := parseSource(t, `use html5; div { text { Hello } }`)
	require.Empty(t, diags)
	require.True(t, prog.UseHTML5)
	require.Len(t, prog.Declarations, 1)

	el, ok := prog.Declarations[0].(*ast.ElementNode)
	require.True(t, ok)
	require.Equal(t, "div", el.Tag)
	require.Len(t, el.Children, 1)

	text, ok := el.Children[0].(*ast.TextNode)
	require.True(t, ok)
	require.Equal(t, "Hello", text.Value)
}

func TestParseLocalStyleWithSelectorBlock(t *testing.T) {
	prog, diags := parseSource(t, `div { style { .card { color: red; } } text { hi } }`)
	require.Empty(t, diags)
	el := prog.Declarations[0].(*ast.ElementNode)
	require.NotNil(t, el.Style)
	require.Len(t, el.Style.Blocks, 1)
	require.Equal(t, ".card", el.Style.Blocks[0].Selector)
	require.Equal(t, []ast.Declaration{{Property: "color", Value: "red"}}, el.Style.Blocks[0].Declarations)
}

func TestParseTemplateDefinitionAndUsage(t *testing.T) {
	prog, diags := parseSource(t, `[Template] @Style Btn { color: blue; } div { style { @Style Btn; } }`)
	require.Empty(t, diags)
	require.Len(t, prog.Declarations, 2)

	tmpl, ok := prog.Declarations[0].(*ast.TemplateDefinitionNode)
	require.True(t, ok)
	require.Equal(t, "Btn", tmpl.Name)
	require.Equal(t, ast.CategoryStyle, tmpl.Category)

	el := prog.Declarations[1].(*ast.ElementNode)
	require.Len(t, el.Style.Usages, 1)
	require.Equal(t, "Btn", el.Style.Usages[0].Name)
}

func TestParseInheritAndDelete(t *testing.T) {
	prog, diags := parseSource(t, `[Template] @Style A { color: red; background: white; } [Template] @Style B { inherit A; delete background; }`)
	require.Empty(t, diags)
	b := prog.Declarations[1].(*ast.TemplateDefinitionNode)
	require.Len(t, b.Inherits, 1)
	require.Equal(t, "A", b.Inherits[0].Referent)
	require.Len(t, b.Body, 1)
	del, ok := b.Body[0].(*ast.DeleteNode)
	require.True(t, ok)
	require.Equal(t, "background", del.TargetSelector)
}

func TestParseImportWithAlias(t *testing.T) {
	prog, diags := parseSource(t, `[Import] [Template] @Style Btn from "a" as Red;`)
	require.Empty(t, diags)
	imp := prog.Declarations[0].(*ast.ImportNode)
	require.Equal(t, ast.ImportCategoryTemplate, imp.Category)
	require.Equal(t, "Btn", imp.ItemName)
	require.Equal(t, "a", imp.Path)
	require.Equal(t, "Red", imp.Alias)
}

func TestParseNamespace(t *testing.T) {
	prog, diags := parseSource(t, `[Namespace] ui { [Template] @Style Btn { color: red; } }`)
	require.Empty(t, diags)
	ns := prog.Declarations[0].(*ast.NamespaceNode)
	require.Equal(t, "ui", ns.Name)
	require.Len(t, ns.Declarations, 1)
}

func TestParseDuplicateTemplateIsDiagnosed(t *testing.T) {
	_, diags := parseSource(t, `[Template] @Style Btn { color: red; } [Template] @Style Btn { color: blue; }`)
	require.NotEmpty(t, diags)
}

func TestParseChtlJsScript(t *testing.T) {
	prog, diags := parseSource(t, `div { script { {{.x}}.listen { click: fn } } }`)
	require.Empty(t, diags)
	el := prog.Declarations[0].(*ast.ElementNode)
	require.NotNil(t, el.Script)
	require.Equal(t, ast.LangCHTLJS, el.Script.Lang)
	require.NotEmpty(t, el.Script.Expressions)
}
