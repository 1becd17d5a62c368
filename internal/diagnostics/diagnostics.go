// Package diagnostics implements the compiler's error-reporting model:
// a closed set of error kinds, a per-diagnostic position, and a
// buffering Reporter that lets later stages keep running so a single
// pass surfaces as many problems as possible.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"
)

// Severity is one of the three reporting levels.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Kind is the closed set of error kinds the compiler can report.
type Kind string

const (
	LexicalError       Kind = "LexicalError"
	SyntaxError        Kind = "SyntaxError"
	UnresolvedImport    Kind = "UnresolvedImport"
	UnresolvedTemplate  Kind = "UnresolvedTemplate"
	UnresolvedVariable  Kind = "UnresolvedVariable"
	DuplicateSymbol     Kind = "DuplicateSymbol"
	CyclicInherit       Kind = "CyclicInherit"
	CyclicImport        Kind = "CyclicImport"
	InvalidDelete       Kind = "InvalidDelete"
	InvalidInsertTarget Kind = "InvalidInsertTarget"
	TypeMismatch        Kind = "TypeMismatch"
	ConfigValueInvalid  Kind = "ConfigValueInvalid"
	IoError             Kind = "IoError"
	Timeout             Kind = "Timeout"
)

// Diagnostic carries everything needed to locate and explain a problem.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	File     string
	Line     int
	Column   int
	Hint     string
}

func (d Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s: %s", d.File, d.Line, d.Column, d.Kind, d.Message)
	if d.Hint != "" {
		fmt.Fprintf(&b, " (hint: %s)", d.Hint)
	}
	return b.String()
}

// New builds an Error-severity diagnostic; the common case every stage reaches for.
func New(kind Kind, file string, line, column int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		File:     file,
		Line:     line,
		Column:   column,
	}
}

// Newf is an alias of New kept for call sites that read better with the "f" suffix.
func Newf(kind Kind, file string, line, column int, format string, args ...any) Diagnostic {
	return New(kind, file, line, column, format, args...)
}

// WithHint returns a copy of d carrying a hint string.
func (d Diagnostic) WithHint(hint string) Diagnostic {
	d.Hint = hint
	return d
}

// Reporter buffers diagnostics across pipeline stages. It never raises;
// callers consult HasErrors to decide when to stop.
type Reporter struct {
	entries []Diagnostic
}

// NewReporter creates an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Add appends one or more diagnostics to the buffer.
func (r *Reporter) Add(ds ...Diagnostic) {
	r.entries = append(r.entries, ds...)
}

// HasErrors reports whether any buffered diagnostic is Error severity.
func (r *Reporter) HasErrors() bool {
	for _, d := range r.entries {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// All returns every buffered diagnostic, grouped by file then by line,
// the order requires for the final report.
func (r *Reporter) All() []Diagnostic {
	sorted := make([]Diagnostic, len(r.entries))
	copy(sorted, r.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}
		return sorted[i].Line < sorted[j].Line
	})
	return sorted
}

// Format renders every diagnostic as one line per entry, grouped by file.
func (r *Reporter) Format() string {
	var b strings.Builder
	currentFile := ""
	for _, d := range r.All() {
		if d.File != currentFile {
			if currentFile != "" {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%s:\n", d.File)
			currentFile = d.File
		}
		fmt.Fprintf(&b, "  %d:%d %s %s: %s", d.Line, d.Column, d.Severity, d.Kind, d.Message)
		if d.Hint != "" {
			fmt.Fprintf(&b, " (hint: %s)", d.Hint)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Count returns the number of buffered diagnostics at or above the given severity.
func (r *Reporter) Count(min Severity) int {
	n := 0
	for _, d := range r.entries {
		if d.Severity >= min {
			n++
		}
	}
	return n
}
