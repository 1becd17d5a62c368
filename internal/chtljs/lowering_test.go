package chtljs

import (
	"testing"

	"chtl/internal/ast"
	"github.com/stretchr/testify/require"
)

func TestLowerSelectorAndListen(t *testing.T) {
	body := `{{.x}}.listen { click: fn }`
	script := &ast.ScriptNode{
		Lang: ast.LangCHTLJS,
		Body: body,
		Expressions: []ast.CHTLJSExpr{
			{Kind: ast.CHTLJSSelector, Start: 0, End: len("{{.x}}"), Raw: "{{.x}}", Name: ".x"},
			{Kind: ast.CHTLJSListen, Start: len("{{.x}}."), End: len(body), Raw: "listen { click: fn }"},
		},
	}
	out := Lower(script)
	require.Contains(t, out, `CHTLJS_SELECT(".x")`)
	require.Contains(t, out, "CHTLJS_LISTEN({ click: fn })")
}

func TestLowerPlainJSUnchanged(t *testing.T) {
	script := &ast.ScriptNode{Lang: ast.LangJS, Body: "console.log(1);"}
	require.Equal(t, "console.log(1);", Lower(script))
}

func TestLowerStateBlocksMergeIntoDispatcher(t *testing.T) {
	bodyA := "x.classList.add('on')"
	bodyB := "x.classList.remove('on')"
	body := "Btn<A>{" + bodyA + "} Btn<B>{" + bodyB + "}"
	aStart := 0
	aEnd := len("Btn<A>{" + bodyA + "}")
	bStart := aEnd + 1
	bEnd := len(body)
	script := &ast.ScriptNode{
		Lang: ast.LangCHTLJS,
		Body: body,
		Expressions: []ast.CHTLJSExpr{
			{Kind: ast.CHTLJSStateBlock, Start: aStart, End: aEnd, Raw: body[aStart:aEnd], Name: "Btn", StateTag: "A"},
			{Kind: ast.CHTLJSStateBlock, Start: bStart, End: bEnd, Raw: body[bStart:bEnd], Name: "Btn", StateTag: "B"},
		},
	}
	out := Lower(script)
	require.Contains(t, out, "function Btn()")
	require.Contains(t, out, "function setBtnState(state)")
	require.Contains(t, out, "CHTLJS_STATE_DISPATCH(\"Btn\", state)")
	require.Contains(t, out, bodyA)
	require.Contains(t, out, bodyB)
}

func TestLowerVirReferenceInlining(t *testing.T) {
	virBody := "vir cfg { timeout: 500 }"
	rest := " setTimeout(fn, cfg.timeout);"
	body := virBody + rest
	script := &ast.ScriptNode{
		Lang: ast.LangCHTLJS,
		Body: body,
		Expressions: []ast.CHTLJSExpr{
			{Kind: ast.CHTLJSVir, Start: 0, End: len(virBody), Raw: virBody, Name: "cfg"},
		},
	}
	out := Lower(script)
	require.Contains(t, out, "setTimeout(fn, 500);")
}
