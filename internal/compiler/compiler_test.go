package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chtl/internal/resolver"
)

func writeSource(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCompileFileHelloElement(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "page.chtl", `div { id: greeting; text { "hello" } }`)

	res := CompileFile(file, resolver.ModulePaths{})
	require.False(t, res.HasErrors(), "%v", res.Diagnostics)
	require.Contains(t, res.Output.HTML, `id="greeting"`)
	require.Contains(t, res.Output.HTML, "hello")
	require.Empty(t, res.Output.CSS)
	require.Empty(t, res.Output.JS)
}

func TestCompileFileWithLocalStyleAndImport(t *testing.T) {
	dir := t.TempDir()
	moduleRoot := filepath.Join(dir, "modules")
	require.NoError(t, os.MkdirAll(filepath.Join(moduleRoot, "buttons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(moduleRoot, "buttons", "buttons.chtl"),
		[]byte(`[Template] @Style Btn { color: blue; }`), 0o644))

	src := `[Import] @Chtl from "buttons";
div { style { @Style Btn; .card { color: red; } } }`
	file := writeSource(t, dir, "page.chtl", src)

	res := CompileFile(file, resolver.ModulePaths{Local: []string{moduleRoot}})
	require.False(t, res.HasErrors(), "%v", res.Diagnostics)
	require.Contains(t, res.Output.CSS, "card")
	require.Contains(t, res.Output.HTML, `class="card"`)
}

func TestCompileFileReportsSourceTooLarge(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "huge.chtl")
	f, err := os.Create(file)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(MaxSourceBytes+1))
	require.NoError(t, f.Close())

	res := CompileFile(file, resolver.ModulePaths{})
	require.True(t, res.HasErrors())
	require.Equal(t, "IoError", string(res.Diagnostics[0].Kind))
}

func TestCompileFileUnresolvedImportIsFatal(t *testing.T) {
	dir := t.TempDir()
	file := writeSource(t, dir, "page.chtl", `[Import] @Chtl from "nowhere"; div {}`)

	res := CompileFile(file, resolver.ModulePaths{Local: []string{t.TempDir()}})
	require.True(t, res.HasErrors())
}
