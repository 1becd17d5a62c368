package cssvalidator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chtl/internal/diagnostics"
)

func TestValidateAcceptsPlainRule(t *testing.T) {
	out, diags := Validate("style.css", ".card { color: red; }")
	require.Empty(t, diags)
	require.Contains(t, out, "color")
}

func TestValidateAcceptsCSS3Features(t *testing.T) {
	src := `
@media (min-width: 600px) {
  .grid { display: grid; grid-template-columns: repeat(3, 1fr); }
}
:root { --accent: #336699; }
.card { color: var(--accent); }
`
	_, diags := Validate("style.css", src)
	require.Empty(t, diags)
}

func TestValidateReportsSyntaxError(t *testing.T) {
	_, diags := Validate("bad.css", ".card { color: ; }")
	require.NotEmpty(t, diags)
	require.Equal(t, diagnostics.SyntaxError, diags[0].Kind)
	require.Equal(t, "bad.css", diags[0].File)
}
