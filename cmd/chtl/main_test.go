package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCompilesAndWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "page.chtl")
	require.NoError(t, os.WriteFile(input, []byte(`div { id: box; style { .box { color: blue; } } }`), 0o644))

	code := run([]string{input, "--out-dir", dir})
	require.Equal(t, 0, code)

	html, err := os.ReadFile(filepath.Join(dir, "page.html"))
	require.NoError(t, err)
	require.Contains(t, string(html), `id="box"`)

	css, err := os.ReadFile(filepath.Join(dir, "page.css"))
	require.NoError(t, err)
	require.Contains(t, string(css), "color")

	_, err = os.Stat(filepath.Join(dir, "page.js"))
	require.True(t, os.IsNotExist(err), "empty JS output should be suppressed")
}

func TestRunReturnsExitCodeTwoForMissingArgs(t *testing.T) {
	code := run([]string{})
	require.Equal(t, 2, code)
}

func TestRunReturnsExitCodeOneForUnresolvedImport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "page.chtl")
	require.NoError(t, os.WriteFile(input, []byte(`[Import] @Chtl from "nowhere"; div {}`), 0o644))

	code := run([]string{input, "--out-dir", dir})
	require.Equal(t, 1, code)
}
