package resolver

import (
	"strings"
	"testing"

	"chtl/internal/ast"
	"chtl/internal/parser"
	"chtl/internal/scanner"
	"github.com/stretchr/testify/require"
)

func resolveSource(t *testing.T, src string) (*ast.ProgramNode, []string) {
	t.Helper()
	slices, scanDiags := scanner.Scan("test.chtl", src)
	require.Empty(t, scanDiags)
	prog, gm, parseDiags := parser.Parse("test.chtl", slices)
	require.Empty(t, parseDiags)
	resolved, diags := Resolve(prog, gm)
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Error())
	}
	return resolved, msgs
}

func TestResolveStyleTemplateUsage(t *testing.T) {
	prog, diags := resolveSource(t, `[Template] @Style Btn { color: blue; } div { style { @Style Btn; } }`)
	require.Empty(t, diags)
	el := prog.Declarations[1].(*ast.ElementNode)
	require.Empty(t, el.Style.Usages)
	require.Len(t, el.Style.InlineRules, 1)
	require.Equal(t, []ast.Declaration{{Property: "color", Value: "blue"}}, el.Style.InlineRules[0].Declarations)
}

func TestResolveStyleInheritAndDelete(t *testing.T) {
	prog, diags := resolveSource(t, `[Template] @Style A { color: red; background: white; } [Template] @Style B { inherit A; delete background; } div { style { @Style B; } }`)
	require.Empty(t, diags)
	el := prog.Declarations[2].(*ast.ElementNode)
	require.Len(t, el.Style.InlineRules, 1)
	require.Equal(t, []ast.Declaration{{Property: "color", Value: "red"}}, el.Style.InlineRules[0].Declarations)
}

func TestResolveElementTemplateUsage(t *testing.T) {
	prog, diags := resolveSource(t, `[Template] @Element Row { span { text { hi } } } div { @Element Row; }`)
	require.Empty(t, diags)
	el := prog.Declarations[1].(*ast.ElementNode)
	require.Len(t, el.Children, 1)
	span, ok := el.Children[0].(*ast.ElementNode)
	require.True(t, ok)
	require.Equal(t, "span", span.Tag)
}

func TestResolveCustomDeleteOverride(t *testing.T) {
	prog, diags := resolveSource(t, `[Custom] @Element Row { span { text { a } } p { text { b } } } div { @Element Row { delete span; } }`)
	require.Empty(t, diags)
	el := prog.Declarations[1].(*ast.ElementNode)
	require.Len(t, el.Children, 1)
	p, ok := el.Children[0].(*ast.ElementNode)
	require.True(t, ok)
	require.Equal(t, "p", p.Tag)
}

func TestResolveNestedSelectorBlockFlatten(t *testing.T) {
	prog, diags := resolveSource(t, `div { style { .card { color: red; &:hover { color: blue; } } } }`)
	require.Empty(t, diags)
	el := prog.Declarations[0].(*ast.ElementNode)
	require.Len(t, el.Style.Rules, 2)
	require.Equal(t, ".card", el.Style.Rules[0].Selector)
	require.Equal(t, ".card:hover", el.Style.Rules[1].Selector)
}

func TestResolveVarSubstitution(t *testing.T) {
	prog, diags := resolveSource(t, `[Template] @Var Theme { main: blue; } div { id: Theme(main); }`)
	require.Empty(t, diags)
	el := prog.Declarations[1].(*ast.ElementNode)
	require.Equal(t, "blue", el.Attributes[0].Value)
}

func TestResolveUnresolvedVariableDiagnosed(t *testing.T) {
	_, diags := resolveSource(t, `[Template] @Var Theme { main: blue; } div { id: Theme(missing); }`)
	require.NotEmpty(t, diags)
}

func TestResolveUnresolvedVariableGroupDiagnosed(t *testing.T) {
	_, diags := resolveSource(t, `div { id: Missing(main); }`)
	require.NotEmpty(t, diags)
}

func TestResolveCyclicStyleInheritDiagnosed(t *testing.T) {
	_, diags := resolveSource(t, `[Template] @Style A { inherit B; } [Template] @Style B { inherit A; } div { style { @Style A; } }`)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if strings.Contains(d, "cyclic inherit") {
			found = true
		}
	}
	require.True(t, found, "expected a cyclic inherit diagnostic, got %v", diags)
}

func TestResolveCyclicElementInheritDiagnosed(t *testing.T) {
	_, diags := resolveSource(t, `[Template] @Element A { inherit B; } [Template] @Element B { inherit A; } div { @Element A; }`)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if strings.Contains(d, "cyclic inherit") {
			found = true
		}
	}
	require.True(t, found, "expected a cyclic inherit diagnostic, got %v", diags)
}

func TestResolveCyclicVarInheritDiagnosed(t *testing.T) {
	_, diags := resolveSource(t, `[Template] @Var A { inherit B; } [Template] @Var B { inherit A; } div { id: A(main); }`)
	require.NotEmpty(t, diags)
	found := false
	for _, d := range diags {
		if strings.Contains(d, "cyclic inherit") {
			found = true
		}
	}
	require.True(t, found, "expected a cyclic inherit diagnostic, got %v", diags)
}

func TestResolveMissingDeleteTargetDiagnosed(t *testing.T) {
	_, diags := resolveSource(t, `[Custom] @Element Row { span { text { a } } } div { @Element Row { delete p; } }`)
	require.NotEmpty(t, diags)
}

func TestResolveMissingInsertTargetDiagnosed(t *testing.T) {
	_, diags := resolveSource(t, `[Custom] @Element Row { span { text { a } } } div { @Element Row { insert after p { em { text { b } } } } }`)
	require.NotEmpty(t, diags)
}
