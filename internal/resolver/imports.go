// Import resolution: for every ImportNode recorded by the parser,
// locate the target file on disk, recursively parse it into a fresh
// GlobalMap, then merge the requested symbols into the importing
// file's GlobalMap under the requested alias/except rules.
//
// A reference is resolved against a configured search path, the file is
// read, its own imports are recursively resolved, and the result is
// merged into the caller's registry — with CHTL's official/local module
// path pair and chtl:: prefix restriction layered on top.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"chtl/internal/ast"
	"chtl/internal/diagnostics"
	"chtl/internal/parser"
	"chtl/internal/scanner"
	"chtl/internal/symbols"
)

// ModulePaths carries the two search-path lists: the official module
// directories (the only ones a chtl::-prefixed path may resolve
// against) and the local/project module directories.
type ModulePaths struct {
	Official []string
	Local    []string
}

// importResolver tracks the state needed across one file's recursive
// import walk: the in-progress set for cycle detection and a cache of
// already-loaded files so a diamond-shaped import graph parses each file
// only once.
type importResolver struct {
	paths      ModulePaths
	inProgress map[string]bool
	loaded     map[string]*symbols.GlobalMap
	diags      []diagnostics.Diagnostic
}

// ResolveImports walks prog's ImportNodes (including those nested inside
// namespaces) and merges the symbols they name into gm. file is the
// absolute or caller-relative path of prog's own source, seeded into the
// in-progress set so a file that (directly or transitively) imports
// itself is caught as a cycle rather than recursing forever.
func ResolveImports(prog *ast.ProgramNode, gm *symbols.GlobalMap, file string, paths ModulePaths) []diagnostics.Diagnostic {
	ir := &importResolver{
		paths:      paths,
		inProgress: map[string]bool{absOrSelf(file): true},
		loaded:     map[string]*symbols.GlobalMap{},
	}
	ir.walkDecls(prog.Declarations, gm, "")
	return ir.diags
}

func absOrSelf(file string) string {
	if abs, err := filepath.Abs(file); err == nil {
		return abs
	}
	return file
}

func (ir *importResolver) errorf(file string, pos ast.Position, kind diagnostics.Kind, format string, args ...any) {
	ir.diags = append(ir.diags, diagnostics.New(kind, file, pos.Line, pos.Column, format, args...))
}

func (ir *importResolver) walkDecls(decls []ast.Node, gm *symbols.GlobalMap, namespace string) {
	for _, d := range decls {
		switch v := d.(type) {
		case *ast.ImportNode:
			ir.resolveOne(v, gm, namespace)
		case *ast.NamespaceNode:
			ns := v.Name
			if namespace != "" {
				ns = namespace + "." + v.Name
			}
			ir.walkDecls(v.Declarations, gm, ns)
		}
	}
}

func (ir *importResolver) resolveOne(imp *ast.ImportNode, gm *symbols.GlobalMap, destNamespace string) {
	target, err := ir.locate(imp.Path, strings.HasPrefix(imp.Path, "chtl::"))
	if err != nil {
		ir.errorf(imp.File, imp.Position, diagnostics.UnresolvedImport, "cannot resolve import %q: %s", imp.Path, err)
		return
	}

	if ir.inProgress[target] {
		ir.errorf(imp.File, imp.Position, diagnostics.CyclicImport, "import cycle detected at %q", target)
		return
	}

	srcMap, ok := ir.loaded[target]
	if !ok {
		var diags []diagnostics.Diagnostic
		srcMap, diags = ir.loadFile(target)
		ir.diags = append(ir.diags, diags...)
		if srcMap == nil {
			return
		}
		ir.loaded[target] = srcMap
	}

	ir.merge(imp, srcMap, gm, destNamespace)
}

// loadFile reads, scans, and parses target into a fresh GlobalMap,
// recursively resolving its own imports before returning — so a
// transitively-imported file's symbols are fully populated by the time
// the caller merges from it.
func (ir *importResolver) loadFile(target string) (*symbols.GlobalMap, []diagnostics.Diagnostic) {
	ir.inProgress[target] = true
	defer delete(ir.inProgress, target)

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, []diagnostics.Diagnostic{diagnostics.New(diagnostics.IoError, target, 0, 0, "reading import: %s", err)}
	}

	slices, diags := scanner.Scan(target, string(data))
	if hasFatal(diags) {
		return nil, diags
	}

	prog, gm, pdiags := parser.Parse(target, slices)
	diags = append(diags, pdiags...)

	sub := ResolveImports(prog, gm, target, ir.paths)
	diags = append(diags, sub...)

	return gm, diags
}

func hasFatal(diags []diagnostics.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == diagnostics.Error {
			return true
		}
	}
	return false
}

// merge applies one ImportNode's form (file/category/specific-item,
// with alias and except) by delegating to GlobalMap.Merge for each of
// the four symbol categories the import form touches.
func (ir *importResolver) merge(imp *ast.ImportNode, src, dst *symbols.GlobalMap, destNamespace string) {
	except := map[string]bool{}
	for _, n := range imp.Except {
		except[n] = true
	}

	only := imp.ItemName

	cats := categoriesFor(imp.Category)
	for _, cat := range cats {
		diags := dst.Merge(src, cat, "", destNamespace, imp.Alias, only, except)
		ir.diags = append(ir.diags, diags...)
	}
}

func categoriesFor(cat ast.ImportCategory) []symbols.Category {
	switch cat {
	case ast.ImportCategoryTemplate:
		return []symbols.Category{symbols.CategoryTemplate}
	case ast.ImportCategoryCustom:
		return []symbols.Category{symbols.CategoryCustom}
	case ast.ImportCategoryOrigin:
		return []symbols.Category{symbols.CategoryOrigin}
	default: // ast.ImportFile: whole-file import merges everything public
		return []symbols.Category{
			symbols.CategoryTemplate,
			symbols.CategoryCustom,
			symbols.CategoryOrigin,
			symbols.CategoryConfiguration,
		}
	}
}

// locate resolves a module reference: official-only
// when chtl::-prefixed, else official then local. A reference that
// already names a .chtl file is checked verbatim under each root; a bare
// module name is expanded to the <name>/<name>.chtl layout.
func (ir *importResolver) locate(path string, officialOnly bool) (string, error) {
	name := strings.TrimPrefix(path, "chtl::")

	roots := ir.paths.Official
	if !officialOnly {
		roots = append(append([]string{}, ir.paths.Official...), ir.paths.Local...)
	}

	candidates := modulePathCandidates(name)
	for _, root := range roots {
		fsys := os.DirFS(root)
		for _, c := range candidates {
			matches, err := doublestar.Glob(fsys, filepath.ToSlash(c))
			if err != nil || len(matches) == 0 {
				continue
			}
			return filepath.Join(root, filepath.FromSlash(matches[0])), nil
		}
	}

	return "", fmt.Errorf("not found in %d search root(s)", len(roots))
}

func modulePathCandidates(name string) []string {
	if strings.HasSuffix(name, ".chtl") {
		return []string{filepath.FromSlash(name)}
	}
	base := filepath.Base(name)
	return []string{
		filepath.Join(filepath.FromSlash(name), base+".chtl"),
		filepath.FromSlash(name) + ".chtl",
	}
}
