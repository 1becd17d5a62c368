package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"chtl/internal/ast"
	"chtl/internal/parser"
	"chtl/internal/scanner"
	"chtl/internal/symbols"
	"github.com/stretchr/testify/require"
)

func writeModule(t *testing.T, root, name, body string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".chtl"), []byte(body), 0o644))
}

func TestResolveImportsMergesWholeFile(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "buttons", `[Template] @Style Btn { color: blue; }`)

	src := `[Import] @Chtl from "buttons";`
	slices, sdiags := scanner.Scan("main.chtl", src)
	require.Empty(t, sdiags)
	prog, gm, pdiags := parser.Parse("main.chtl", slices)
	require.Empty(t, pdiags)

	diags := ResolveImports(prog, gm, "main.chtl", ModulePaths{Local: []string{root}})
	require.Empty(t, diags)

	_, ok := gm.Lookup(symbols.CategoryTemplate, "", "Btn")
	require.True(t, ok)
}

func TestResolveImportsSpecificItemWithAlias(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "buttons", `[Template] @Style Btn { color: blue; } [Template] @Style Card { color: green; }`)

	src := `[Import] [Template] @Style Btn from "buttons" as PrimaryBtn;`
	slices, sdiags := scanner.Scan("main.chtl", src)
	require.Empty(t, sdiags)
	prog, gm, pdiags := parser.Parse("main.chtl", slices)
	require.Empty(t, pdiags)

	diags := ResolveImports(prog, gm, "main.chtl", ModulePaths{Local: []string{root}})
	require.Empty(t, diags)

	_, ok := gm.Lookup(symbols.CategoryTemplate, "", "PrimaryBtn")
	require.True(t, ok)
	_, ok = gm.Lookup(symbols.CategoryTemplate, "", "Card")
	require.False(t, ok)
}

func TestResolveImportsExceptExcludesNames(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "buttons", `[Template] @Style Btn { color: blue; } [Template] @Style Card { color: green; }`)

	src := `[Import] @Chtl from "buttons" except Card;`
	slices, sdiags := scanner.Scan("main.chtl", src)
	require.Empty(t, sdiags)
	prog, gm, pdiags := parser.Parse("main.chtl", slices)
	require.Empty(t, pdiags)

	diags := ResolveImports(prog, gm, "main.chtl", ModulePaths{Local: []string{root}})
	require.Empty(t, diags)

	_, ok := gm.Lookup(symbols.CategoryTemplate, "", "Btn")
	require.True(t, ok)
	_, ok = gm.Lookup(symbols.CategoryTemplate, "", "Card")
	require.False(t, ok)
}

func TestResolveImportsUnresolvedPathReportsDiagnostic(t *testing.T) {
	src := `[Import] @Chtl from "nowhere";`
	slices, sdiags := scanner.Scan("main.chtl", src)
	require.Empty(t, sdiags)
	prog, gm, pdiags := parser.Parse("main.chtl", slices)
	require.Empty(t, pdiags)

	diags := ResolveImports(prog, gm, "main.chtl", ModulePaths{Local: []string{t.TempDir()}})
	require.Len(t, diags, 1)
	require.Equal(t, "UnresolvedImport", string(diags[0].Kind))
}

func TestResolveImportsChtlPrefixRestrictedToOfficial(t *testing.T) {
	localRoot := t.TempDir()
	officialRoot := t.TempDir()
	writeModule(t, localRoot, "buttons", `[Template] @Style Btn { color: blue; }`)
	writeModule(t, officialRoot, "buttons", `[Template] @Style Btn { color: red; }`)

	src := `[Import] @Chtl from "chtl::buttons";`
	slices, sdiags := scanner.Scan("main.chtl", src)
	require.Empty(t, sdiags)
	prog, gm, pdiags := parser.Parse("main.chtl", slices)
	require.Empty(t, pdiags)

	diags := ResolveImports(prog, gm, "main.chtl", ModulePaths{Official: []string{officialRoot}, Local: []string{localRoot}})
	require.Empty(t, diags)

	rec, ok := gm.Lookup(symbols.CategoryTemplate, "", "Btn")
	require.True(t, ok)
	def := defNodeOf(rec.Node)
	require.NotNil(t, def)
	attr := def.Body[0].(*ast.AttributeNode)
	require.Equal(t, "red", attr.Value)
}
