// Package ast defines the CHTL abstract syntax tree. Every node kind is
// a concrete Go struct; there is no class hierarchy or dynamic-cast
// pattern. A single Node interface ties them together so the parser,
// resolver, and generator can walk a tree with exhaustive type
// switches, the same "flat sum type" shape Go's own go/ast package
// uses to express heterogeneous trees.
package ast

// Node is implemented by every AST node kind. Kind() identifies the
// concrete type without a type assertion, which keeps debug-printing and
// coarse-grained walks cheap; callers that need the payload still type
// switch on the concrete type.
type Node interface {
	Kind() NodeKind
	Pos() Position
}

// Position records where a node began in its source file, propagated
// from the token that introduced it.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) Pos() Position { return p }

// NodeKind is the closed tag set from AST table.
type NodeKind int

const (
	KindProgram NodeKind = iota
	KindElement
	KindAttribute
	KindText
	KindComment
	KindStyle
	KindStyleRule
	KindInlineStyleRule
	KindSelectorBlock
	KindScript
	KindOrigin
	KindOriginUsage
	KindTemplateDefinition
	KindTemplateUsage
	KindCustomDefinition
	KindInherit
	KindDelete
	KindInsert
	KindVarUsage
	KindImport
	KindNamespace
	KindConfig
)

// ---- Program ----

// ProgramNode is the AST root: an ordered list of top-level declarations
// plus the `use html5;` flag.
type ProgramNode struct {
	Position
	UseHTML5     bool
	Declarations []Node
}

func (*ProgramNode) Kind() NodeKind { return KindProgram }

// ---- Elements, attributes, text, comments ----

// ElementNode is a tag with attributes, children, and optional inline
// style/script blocks.
type ElementNode struct {
	Position
	Tag        string
	Attributes []*AttributeNode
	Children   []Node
	Style      *StyleNode  // nil if the element has no style { } block
	Script     *ScriptNode // nil if the element has no script { } block
}

func (*ElementNode) Kind() NodeKind { return KindElement }

// synthesized marks an AttributeNode created by selector automation
// rather than written by the author, so the generator can still tell
// them apart for diagnostics/tests.
type AttributeNode struct {
	Position
	Key         string
	Value       string
	Synthesized bool
}

func (*AttributeNode) Kind() NodeKind { return KindAttribute }

type TextNode struct {
	Position
	Value string
}

func (*TextNode) Kind() NodeKind { return KindText }

// CommentKind distinguishes a generator comment (`-- ...`, emitted into
// no output buffer at all) from a normal HTML comment.
type CommentKind int

const (
	CommentNormal CommentKind = iota
	CommentGenerator
)

type CommentNode struct {
	Position
	CommentKind CommentKind
	Content     string
}

func (*CommentNode) Kind() NodeKind { return KindComment }

// ---- Style ----

// StyleNode is the content of a `style { }` block: zero or more
// selector-qualified rules and/or bare declarations applying to the
// enclosing element.
type StyleNode struct {
	Position
	Rules       []*StyleRuleNode
	InlineRules []*InlineStyleRuleNode
	Blocks      []*SelectorBlockNode
	// Usages holds `@Style Name;` template/custom references written
	// directly in the style block body; the resolver expands each into
	// InlineRules declarations.
	Usages []*TemplateUsageNode
}

func (*StyleNode) Kind() NodeKind { return KindStyle }

type Declaration struct {
	Property string
	Value    string
}

type StyleRuleNode struct {
	Position
	Selector     string
	Declarations []Declaration
}

func (*StyleRuleNode) Kind() NodeKind { return KindStyleRule }

type InlineStyleRuleNode struct {
	Position
	Declarations []Declaration
}

func (*InlineStyleRuleNode) Kind() NodeKind { return KindInlineStyleRule }

// SelectorBlockNode supports nested selectors with `&` parent reference,
// flattened by the resolver (step 4).
type SelectorBlockNode struct {
	Position
	Selector     string
	Declarations []Declaration
	Nested       []*SelectorBlockNode
}

func (*SelectorBlockNode) Kind() NodeKind { return KindSelectorBlock }

// ---- Script ----

type ScriptLang int

const (
	LangJS ScriptLang = iota
	LangCHTLJS
)

type ScriptNode struct {
	Position
	Lang Lang
	Body string
	// Expressions holds the CHTL-JS expressions embedded in Body, in
	// source order, to be lowered by the chtljs package (4.7).
	Expressions []CHTLJSExpr
}

func (*ScriptNode) Kind() NodeKind { return KindScript }

// Lang mirrors ScriptLang; kept as a distinct exported alias so callers
// can read `ast.Lang` without the stutter of `ast.ScriptLang`.
type Lang = ScriptLang

// CHTLJSExprKind tags the embedded CHTL-JS construct kinds.
type CHTLJSExprKind int

const (
	CHTLJSSelector CHTLJSExprKind = iota
	CHTLJSListen
	CHTLJSAnimate
	CHTLJSVir
	CHTLJSStateBlock
)

// CHTLJSExpr is a single embedded CHTL-JS construct located by byte
// offsets into its owning ScriptNode.Body.
type CHTLJSExpr struct {
	Kind       CHTLJSExprKind
	Start, End int
	Raw        string
	// Name is the selector text (for CHTLJSSelector), the vir/state name
	// (for CHTLJSVir/CHTLJSStateBlock), or empty otherwise.
	Name string
	// StateTag is the `<State>` marker text for CHTLJSStateBlock.
	StateTag string
}

// ---- Origins ----

type OriginNode struct {
	Position
	OriginType string // "@Html", "@Style", "@JavaScript", or a custom-registered name
	Name       string // optional; empty for an anonymous/global origin
	Body       string // verbatim, opaque to the compiler
}

func (*OriginNode) Kind() NodeKind { return KindOrigin }

type OriginUsageNode struct {
	Position
	Name string
}

func (*OriginUsageNode) Kind() NodeKind { return KindOriginUsage }

// ---- Templates & customs ----

type DefinitionCategory int

const (
	CategoryStyle DefinitionCategory = iota
	CategoryElement
	CategoryVar
)

func (c DefinitionCategory) String() string {
	switch c {
	case CategoryStyle:
		return "@Style"
	case CategoryElement:
		return "@Element"
	case CategoryVar:
		return "@Var"
	default:
		return "?"
	}
}

// TemplateDefinitionNode backs both `[Template]` and `[Custom]`
// definitions; CustomDefinitionNode simply wraps one, and its own Kind
// (KindCustomDefinition) is what tells a custom apart from a template.
type TemplateDefinitionNode struct {
	Position
	Category DefinitionCategory
	Name     string
	// Body holds the AST fragment for @Style/@Element categories (style
	// declarations or element children, respectively).
	Body []Node
	// VarBindings holds the key->value map for @Var categories.
	VarBindings map[string]string
	Inherits    []*InheritNode
}

func (*TemplateDefinitionNode) Kind() NodeKind { return KindTemplateDefinition }

type CustomDefinitionNode struct {
	TemplateDefinitionNode
}

func (*CustomDefinitionNode) Kind() NodeKind { return KindCustomDefinition }

// TemplateUsageNode references a template/custom by name at a use site.
// The resolver applies Overrides (delete/insert/attribute overrides)
// whichever table, [Template] or [Custom], backs the name; overrides on a
// [Template] referent are not rejected.
type TemplateUsageNode struct {
	Position
	Category  DefinitionCategory
	Name      string
	Arguments map[string]string // optional @Var-style argument block
	Overrides []Node            // DeleteNode / InsertNode / AttributeNode overrides
}

func (*TemplateUsageNode) Kind() NodeKind { return KindTemplateUsage }

type InheritNode struct {
	Position
	Referent string
}

func (*InheritNode) Kind() NodeKind { return KindInherit }

type DeleteNode struct {
	Position
	TargetSelector string
}

func (*DeleteNode) Kind() NodeKind { return KindDelete }

type InsertPosition int

const (
	InsertBefore InsertPosition = iota
	InsertAfter
	InsertReplace
	InsertAtTop
	InsertAtBottom
)

type InsertNode struct {
	Position
	At      InsertPosition
	Target  string // selector/tag the insert is relative to; empty for at-top/at-bottom
	Payload []Node
}

func (*InsertNode) Kind() NodeKind { return KindInsert }

// ---- Variables ----

type VarUsageNode struct {
	Position
	Group string
	Key   string
}

func (*VarUsageNode) Kind() NodeKind { return KindVarUsage }

// ---- Imports ----

type ImportCategory int

const (
	ImportFile ImportCategory = iota
	ImportCategoryTemplate
	ImportCategoryCustom
	ImportCategoryOrigin
)

type ImportNode struct {
	Position
	Category     ImportCategory
	SpecificType DefinitionCategory // meaningful when ItemName != ""
	ItemName     string             // empty for whole-category/whole-file imports
	Alias        string
	Path         string
	Except       []string
}

func (*ImportNode) Kind() NodeKind { return KindImport }

// ---- Namespaces & configuration ----

type NamespaceNode struct {
	Position
	Name         string
	Declarations []Node
}

func (*NamespaceNode) Kind() NodeKind { return KindNamespace }

type ConfigNode struct {
	Position
	// BoolSettings and IntSettings hold the flat keys the parser kept —
	// only keys chtlconfig.IsRecognizedKey accepts; any other key is
	// reported as ConfigValueInvalid and dropped — split by the value
	// token's kind (a number goes to IntSettings, a word to BoolSettings).
	BoolSettings map[string]bool
	IntSettings  map[string]int
	Names        map[string]string // nested [Name] block
	OriginTypes  []string          // nested [OriginType] block
}

func (*ConfigNode) Kind() NodeKind { return KindConfig }
