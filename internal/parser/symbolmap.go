package parser

import (
	"chtl/internal/ast"
	"chtl/internal/symbols"
)

const (
	symbolsCategoryOrigin        = symbols.CategoryOrigin
	symbolsCategoryConfiguration = symbols.CategoryConfiguration
)

// categoryToSymbolCat maps a definition's ast.DefinitionCategory plus
// whether it's a [Custom] block to the GlobalMap table it's inserted
// into: templates and customs are separate tables even though they
// share the same ast.DefinitionCategory space (@Style/@Element/@Var).
func categoryToSymbolCat(_ ast.DefinitionCategory, isCustom bool) symbols.Category {
	if isCustom {
		return symbols.CategoryCustom
	}
	return symbols.CategoryTemplate
}
