package dispatcher

import (
	"testing"

	"chtl/internal/ast"
	"chtl/internal/generator"
	"github.com/stretchr/testify/require"
)

func TestDispatchAssemblesOutputs(t *testing.T) {
	res := generator.Result{
		InitialHTML:      "<div>hi</div>",
		EmitHTML5Doctype: true,
		ChtlGeneratedCSS: ".card { color: red; }\n",
		RawCSS:           "body { margin: 0; }\n",
		ChtlGeneratedJS:  "console.log(1);\n",
	}
	prog := &ast.ProgramNode{}
	icr, out := Dispatch(res, prog)

	require.Equal(t, "<!DOCTYPE html><div>hi</div>", out.HTML)
	require.Equal(t, ".card { color: red; }\nbody { margin: 0; }\n", out.CSS)
	require.Equal(t, "console.log(1);\n", out.JS)
	require.Same(t, prog, icr.AST)
}

func TestDispatchSuppressesEmptyOutputs(t *testing.T) {
	res := generator.Result{InitialHTML: "<div></div>"}
	_, out := Dispatch(res, &ast.ProgramNode{})
	require.Empty(t, out.CSS)
	require.Empty(t, out.JS)
}
