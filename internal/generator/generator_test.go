package generator

import (
	"strings"
	"testing"

	"chtl/internal/chtlconfig"
	"chtl/internal/parser"
	"chtl/internal/resolver"
	"chtl/internal/scanner"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, src string) Result {
	t.Helper()
	slices, scanDiags := scanner.Scan("test.chtl", src)
	require.Empty(t, scanDiags)
	prog, gm, parseDiags := parser.Parse("test.chtl", slices)
	require.Empty(t, parseDiags)
	resolved, resolveDiags := resolver.Resolve(prog, gm)
	require.Empty(t, resolveDiags)
	return Generate(resolved, chtlconfig.DefaultSettings())
}

func TestGenerateHelloElement(t *testing.T) {
	res := generate(t, `use html5; div { text { Hello } }`)
	require.Equal(t, "<!DOCTYPE html><div>Hello</div>", res.HTML)
	require.Empty(t, res.CSS)
	require.Empty(t, res.JS)
}

func TestGenerateLocalStyleAutoClass(t *testing.T) {
	res := generate(t, `div { style { .card { color: red; } } text { hi } }`)
	require.Equal(t, `<div class="card">hi</div>`, res.HTML)
	require.Equal(t, ".card { color: red; }\n", res.CSS)
}

func TestGenerateTemplateExpansionSynthesizesClass(t *testing.T) {
	res := generate(t, `[Template] @Style Btn { color: blue; } div { style { @Style Btn; } }`)
	require.Contains(t, res.HTML, `class="chtl-gen-0"`)
	require.Contains(t, res.CSS, "color: blue;")
}

func TestGenerateInheritAndDelete(t *testing.T) {
	res := generate(t, `[Template] @Style A { color: red; background: white; } [Template] @Style B { inherit A; delete background; } div { style { @Style B; } }`)
	require.Contains(t, res.CSS, "color: red;")
	require.NotContains(t, res.CSS, "background")
}

func TestGenerateVoidElementSelfCloses(t *testing.T) {
	res := generate(t, `img { src: "a.png"; }`)
	require.Equal(t, `<img src="a.png">`, res.HTML)
}

func TestGenerateDuplicateAttributeLastWins(t *testing.T) {
	res := generate(t, `div { id: "a"; id: "b"; }`)
	require.Equal(t, `<div id="b"></div>`, res.HTML)
	require.NotEmpty(t, res.Diagnostics)
}

func TestGenerateScriptSelectorAutoClass(t *testing.T) {
	res := generate(t, `div { script { {{.card}}.listen { click: fn } } }`)
	require.Contains(t, res.HTML, `class="card"`)
}

func TestGenerateScriptSelectorAutoID(t *testing.T) {
	res := generate(t, `div { script { {{#panel}}.listen { click: fn } } }`)
	require.Contains(t, res.HTML, `id="panel"`)
}

func TestGenerateScriptSelectorAutoClassDisabled(t *testing.T) {
	settings := chtlconfig.DefaultSettings()
	settings.DisableScriptAutoAddClass = true
	slices, scanDiags := scanner.Scan("test.chtl", `div { script { {{.card}}.listen { click: fn } } }`)
	require.Empty(t, scanDiags)
	prog, gm, parseDiags := parser.Parse("test.chtl", slices)
	require.Empty(t, parseDiags)
	resolved, resolveDiags := resolver.Resolve(prog, gm)
	require.Empty(t, resolveDiags)
	res := Generate(resolved, settings)
	require.NotContains(t, res.HTML, `class="card"`)
}

func TestGenerateStyleSelectorTakesPrecedenceOverScript(t *testing.T) {
	res := generate(t, `div { style { .card { color: red; } } script { {{#panel}}.listen { click: fn } } }`)
	require.Contains(t, res.HTML, `class="card"`)
	require.NotContains(t, res.HTML, `id="panel"`)
}

func TestGenerateChtlJSRuntimeShimEmittedOnce(t *testing.T) {
	res := generate(t, `div { script { {{.a}}.listen { click: f } } } span { script { {{.b}}.listen { click: g } } }`)
	require.Equal(t, 1, strings.Count(res.JS, "function CHTLJS_SELECT"))
	require.Contains(t, res.JS, "CHTLJS_LISTEN({ click: f })")
	require.Contains(t, res.JS, "CHTLJS_LISTEN({ click: g })")
}

func TestGenerateChtlJSRuntimeShimAbsentWithoutCHTLJS(t *testing.T) {
	res := generate(t, `div { script { console.log(1); } }`)
	require.NotContains(t, res.JS, "CHTLJS_SELECT")
}
