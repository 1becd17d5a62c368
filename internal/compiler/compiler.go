// Package compiler wires the full pipeline together for one input file:
// read, scan, lex, parse, resolve imports, resolve templates/customs/
// vars, generate, dispatch, and validate the generated
// CSS/JS. It is the single entry point cmd/chtl calls per input, with
// the watchdog armed around the whole call.
//
// A single input threads through the same kind of stage pipeline
// (parse, resolve includes, render) and returns a collected list of
// problems rather than aborting on the first one.
package compiler

import (
	"fmt"
	"io"
	"os"
	"strings"

	"chtl/internal/ast"
	"chtl/internal/chtlconfig"
	"chtl/internal/compileunit"
	"chtl/internal/cssvalidator"
	"chtl/internal/diagnostics"
	"chtl/internal/dispatcher"
	"chtl/internal/generator"
	"chtl/internal/jsvalidator"
	"chtl/internal/parser"
	"chtl/internal/resolver"
	"chtl/internal/scanner"
)

// MaxSourceBytes is the fatal size ceiling for a single input file.
const MaxSourceBytes = 16 * 1024 * 1024

// Result is everything CompileFile produces for one input: the
// dispatcher's final output buffers plus every diagnostic collected
// across every stage, already in report order.
type Result struct {
	Unit        compileunit.ID
	Output      dispatcher.Output
	ICR         dispatcher.IntermediateCompilationResult
	Diagnostics []diagnostics.Diagnostic
}

// HasErrors reports whether any collected diagnostic is Error severity,
// the condition the CLI uses to choose exit code 1 over 0.
func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diagnostics.Error {
			return true
		}
	}
	return false
}

// CompileFile runs the full pipeline over one input file, always
// round-tripping the generated CSS/JS through cssvalidator/jsvalidator
// before returning, since the collaborator interfaces exist precisely to
// catch a malformed emission before it reaches disk.
func CompileFile(file string, paths resolver.ModulePaths) Result {
	unit := compileunit.New()

	src, err := readSource(file)
	if err != nil {
		return Result{Unit: unit, Diagnostics: []diagnostics.Diagnostic{
			diagnostics.New(diagnostics.IoError, file, 0, 0, "%s", err),
		}}
	}

	slices, diags := scanner.Scan(file, src)
	if hasFatal(diags) {
		return Result{Unit: unit, Diagnostics: diags}
	}

	prog, gm, parseDiags := parser.Parse(file, slices)
	diags = append(diags, parseDiags...)

	importDiags := resolver.ResolveImports(prog, gm, file, paths)
	diags = append(diags, importDiags...)
	if hasFatal(diags) {
		return Result{Unit: unit, Diagnostics: diags}
	}

	settings := settingsFromProgram(prog)

	resolved, resolveDiags := resolver.Resolve(prog, gm)
	diags = append(diags, resolveDiags...)
	if hasFatal(diags) {
		return Result{Unit: unit, Diagnostics: diags}
	}

	genResult := generator.Generate(resolved, settings)
	diags = append(diags, genResult.Diagnostics...)

	icr, output := dispatcher.Dispatch(genResult, resolved)

	if strings.TrimSpace(output.CSS) != "" {
		if cleaned, vdiags := cssvalidator.Validate(file, output.CSS); len(vdiags) > 0 {
			diags = append(diags, vdiags...)
		} else {
			output.CSS = cleaned
		}
	}
	if strings.TrimSpace(output.JS) != "" {
		if cleaned, vdiags := jsvalidator.Validate(file, output.JS); len(vdiags) > 0 {
			diags = append(diags, vdiags...)
		} else {
			output.JS = cleaned
		}
	}

	return Result{Unit: unit, Output: output, ICR: icr, Diagnostics: diags}
}

// settingsFromProgram finds the first top-level ConfigNode (there is at
// most one per program) and converts it into a chtlconfig.Settings,
// applying the block's explicit keys over chtlconfig.DefaultSettings().
func settingsFromProgram(prog *ast.ProgramNode) chtlconfig.Settings {
	settings := chtlconfig.DefaultSettings()
	for _, d := range prog.Declarations {
		cfg, ok := d.(*ast.ConfigNode)
		if !ok {
			continue
		}
		for k, v := range cfg.BoolSettings {
			settings.ApplyBool(k, v)
		}
		for k, v := range cfg.IntSettings {
			settings.ApplyInt(k, v)
		}
		if len(cfg.Names) > 0 {
			for k, v := range cfg.Names {
				settings.NameOverrides[k] = v
			}
		}
		settings.OriginTypes = append(settings.OriginTypes, cfg.OriginTypes...)
		break
	}
	return settings
}

// readSource reads file, enforcing the 16 MiB ceiling and normalizing
// line endings to LF, per input-file-format rules.
func readSource(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", file, err)
	}
	if info.Size() > MaxSourceBytes {
		return "", fmt.Errorf("%s exceeds the %d byte maximum source size", file, MaxSourceBytes)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}

	normalized := strings.ReplaceAll(string(data), "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return normalized, nil
}

func hasFatal(diags []diagnostics.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diagnostics.Error {
			return true
		}
	}
	return false
}
