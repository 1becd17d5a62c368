// Package dispatcher implements the final assembly stage: collecting
// the generator's component buffers into an IntermediateCompilationResult
// and, from it, the three final output buffers the CLI writes to disk,
// each independently suppressible when empty.
package dispatcher

import (
	"chtl/internal/ast"
	"chtl/internal/generator"
)

// IntermediateCompilationResult mirrors stage 7's
// named struct verbatim, so a caller that wants the unmerged pieces
// (e.g. to run CSS/JS validators over the CHTL-generated text only,
// leaving a raw origin block's verbatim contents untouched) can use it
// directly instead of the merged Dispatch output.
type IntermediateCompilationResult struct {
	InitialHTML       string
	ChtlGeneratedCSS  string
	ChtlGeneratedJS   string
	ChtlJSGeneratedJS string
	RawCSS            string
	RawJS             string
	EmitHTML5Doctype  bool
	AST               *ast.ProgramNode
}

// Output holds the three final, ready-to-write buffers. An empty CSS or
// JS string means that output file should be suppressed entirely.
type Output struct {
	HTML string
	CSS  string
	JS   string
}

// Dispatch builds the IntermediateCompilationResult from a generator.Result
// and the resolved AST, then assembles the final Output.
func Dispatch(res generator.Result, resolved *ast.ProgramNode) (IntermediateCompilationResult, Output) {
	icr := IntermediateCompilationResult{
		InitialHTML:       res.InitialHTML,
		ChtlGeneratedCSS:  res.ChtlGeneratedCSS,
		ChtlGeneratedJS:   res.ChtlGeneratedJS,
		ChtlJSGeneratedJS: res.ChtlJSGeneratedJS,
		RawCSS:            res.RawCSS,
		RawJS:             res.RawJS,
		EmitHTML5Doctype:  res.EmitHTML5Doctype,
		AST:               resolved,
	}

	html := icr.InitialHTML
	if icr.EmitHTML5Doctype {
		html = "<!DOCTYPE html>" + html
	}
	css := icr.ChtlGeneratedCSS + icr.RawCSS
	js := icr.ChtlGeneratedJS + icr.ChtlJSGeneratedJS + icr.RawJS

	return icr, Output{HTML: html, CSS: css, JS: js}
}
