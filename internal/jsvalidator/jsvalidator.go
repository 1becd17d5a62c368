// Package jsvalidator implements the JsValidator collaborator interface:
// the generator's raw/CHTL-JS-lowered JS text is parsed (not transpiled
// down) through esbuild so a malformed script is caught as a Diagnostic
// instead of shipping broken JS to the browser.
//
// Uses the same api.Transform call this package's sibling cssvalidator
// uses, retargeted to api.LoaderJS with ESNext kept as the target so no
// down-leveling changes the author's code.
package jsvalidator

import (
	"github.com/evanw/esbuild/pkg/api"

	"chtl/internal/diagnostics"
)

// Validate parses source as JavaScript. On success it returns source
// exactly as given (esbuild's reprinted output is discarded); on failure
// it returns the original source unchanged alongside the collected
// diagnostics.
func Validate(file, source string) (string, []diagnostics.Diagnostic) {
	result := api.Transform(source, api.TransformOptions{
		Loader:     api.LoaderJS,
		Target:     api.ESNext,
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
