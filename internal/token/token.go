// Package token defines the lexical token kinds produced by the CHTL
// lexer and consumed by the parser.
package token

import "fmt"

// Kind identifies the syntactic category of a Token. The set is closed:
// the lexer never emits a Kind outside this list.
type Kind int

const (
	Invalid Kind = iota
	EndOfFile

	Identifier     // bare_word, kebab-case-ish unquoted identifiers
	StringLiteral  // "quoted" or 'quoted'
	UnquotedString // unquoted-literal value (attribute/text position)
	Number

	// Punctuation
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	LParen    // (
	RParen    // )
	Colon     // :
	Semicolon // ;
	Comma     // ,
	Hash      // #
	Amp       // &
	At        // @
	Equals    // =
	Arrow     // ->
	Dot       // .

	GeneratorComment // -- comment text to end of line
	CommentOpen      // /* */ style not used in CHTL but reserved

	// Keywords
	KwUse
	KwHtml5
	KwText
	KwStyle
	KwScript
	KwInherit
	KwDelete
	KwInsert
	KwAfter
	KwBefore
	KwReplace
	KwAtTop
	KwAtBottom
	KwFrom
	KwAs
	KwExcept

	// Bracketed section markers
	SectionTemplate
	SectionCustom
	SectionOrigin
	SectionImport
	SectionNamespace
	SectionConfiguration

	// Type identifiers: @Html, @Style, @JavaScript, @Var, @Element, @Chtl, or a
	// custom-registered origin type. The lexeme carries the sub-name
	// (without the leading '@').
	TypeIdentifier
)

var kindNames = map[Kind]string{
	Invalid:              "Invalid",
	EndOfFile:            "EndOfFile",
	Identifier:           "Identifier",
	StringLiteral:        "StringLiteral",
	UnquotedString:       "UnquotedString",
	Number:               "Number",
	LBrace:               "{",
	RBrace:               "}",
	LBracket:             "[",
	RBracket:             "]",
	LParen:               "(",
	RParen:               ")",
	Colon:                ":",
	Semicolon:            ";",
	Comma:                ",",
	Hash:                 "#",
	Amp:                  "&",
	At:                   "@",
	Equals:               "=",
	Arrow:                "->",
	Dot:                  ".",
	GeneratorComment:     "GeneratorComment",
	KwUse:                "use",
	KwHtml5:              "html5",
	KwText:               "text",
	KwStyle:              "style",
	KwScript:             "script",
	KwInherit:            "inherit",
	KwDelete:             "delete",
	KwInsert:             "insert",
	KwAfter:              "after",
	KwBefore:             "before",
	KwReplace:            "replace",
	KwAtTop:              "at top",
	KwAtBottom:           "at bottom",
	KwFrom:               "from",
	KwAs:                 "as",
	KwExcept:             "except",
	SectionTemplate:      "[Template]",
	SectionCustom:        "[Custom]",
	SectionOrigin:        "[Origin]",
	SectionImport:        "[Import]",
	SectionNamespace:     "[Namespace]",
	SectionConfiguration: "[Configuration]",
	TypeIdentifier:       "TypeIdentifier",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps the reserved bare-word lexemes to their Kind. "at top" and
// "at bottom" are handled as two-token compounds by the parser (per
// 4.2) and are not present here.
var Keywords = map[string]Kind{
	"use":      KwUse,
	"html5":    KwHtml5,
	"text":     KwText,
	"style":    KwStyle,
	"script":   KwScript,
	"inherit":  KwInherit,
	"delete":   KwDelete,
	"insert":   KwInsert,
	"after":    KwAfter,
	"before":   KwBefore,
	"replace":  KwReplace,
	"from":     KwFrom,
	"as":       KwAs,
	"except":   KwExcept,
	"at":       Invalid, // "at" alone is not a keyword; "at top"/"at bottom" are recognized by the parser
}

// Sections maps a bracketed section name (without brackets) to its Kind.
var Sections = map[string]Kind{
	"Template":      SectionTemplate,
	"Custom":        SectionCustom,
	"Origin":        SectionOrigin,
	"Import":        SectionImport,
	"Namespace":     SectionNamespace,
	"Configuration": SectionConfiguration,
}

// Token is a single lexical unit with its source position.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}

func (t Token) Is(k Kind) bool { return t.Kind == k }
