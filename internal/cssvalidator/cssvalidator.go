// Package cssvalidator implements the CssValidator collaborator
// interface: the generator's raw/CHTL-generated CSS text is round-
// tripped through esbuild's CSS transform so any syntactically invalid
// rule surfaces as a Diagnostic before it reaches disk, in support of
// accepting the full breadth of CSS3 syntax.
//
// api.Transform is called with the source text and a Loader, and
// errors are re-surfaced to the caller as structured messages, the
// same call shape used for JS/TS transforms, retargeted to CSS with
// api.LoaderCSS.
package cssvalidator

import (
	"github.com/evanw/esbuild/pkg/api"

	"chtl/internal/diagnostics"
)

// Validate runs source through esbuild's CSS parser. A syntactically
// valid stylesheet is returned exactly as given (esbuild's reprinted
// output is discarded); any parse errors are converted to Diagnostics.
func Validate(file, source string) (string, []diagnostics.Diagnostic) {
	result := api.Transform(source, api.TransformOptions{
		Loader:     api.LoaderCSS,
		Sourcefile: file,
	})

	var diags []diagnostics.Diagnostic
	for _, e := range result.Errors {
		line, col := 0, 0
		if e.Location != nil {
			line, col = e.Location.Line, e.Location.Column
		}
		diags = append(diags, diagnostics.New(diagnostics.SyntaxError, file, line, col, "%s", e.Text))
	}
	if len(diags) > 0 {
		return source, diags
	}
	return source, nil
}
