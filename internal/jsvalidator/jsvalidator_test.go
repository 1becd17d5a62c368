package jsvalidator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chtl/internal/diagnostics"
)

func TestValidateAcceptsPlainScript(t *testing.T) {
	out, diags := Validate("script.js", "console.log('hi');")
	require.Empty(t, diags)
	require.Contains(t, out, "console.log")
}

func TestValidateAcceptsModernSyntax(t *testing.T) {
	src := `
const obj = { a: 1, ...{ b: 2 } };
const f = (x) => x?.a ?? 0;
class Widget { #count = 0; inc() { this.#count++; } }
`
	_, diags := Validate("script.js", src)
	require.Empty(t, diags)
}

func TestValidateReportsSyntaxError(t *testing.T) {
	_, diags := Validate("bad.js", "function ( { ")
	require.NotEmpty(t, diags)
	require.Equal(t, diagnostics.SyntaxError, diags[0].Kind)
	require.Equal(t, "bad.js", diags[0].File)
}
