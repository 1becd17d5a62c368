package scanner

import "strings"

// chtljsFunctionNames are the registered CHTL-JS call heads the chtljs
// package lowers: listen, animate, vir, plus the state-overload marker
// form `Name<State> { ... }` which IsCHTLJSPattern also detects.
var chtljsFunctionNames = map[string]bool{
	"listen":  true,
	"animate": true,
	"vir":     true,
}

// IsCHTLJSPattern reports whether s (typically a line or call head already
// isolated by the caller) looks like CHTL-JS: it contains the enhanced
// selector brackets, or its first word is a registered CHTL-JS function
// name, or it matches the `Name<State>` state-marker shape.
func IsCHTLJSPattern(s string) bool {
	trimmed := strings.TrimSpace(s)
	if strings.Contains(trimmed, "{{") && strings.Contains(trimmed, "}}") {
		return true
	}
	head := headWord(trimmed)
	if chtljsFunctionNames[head] {
		return true
	}
	if _, _, ok := splitStateMarker(trimmed); ok {
		return true
	}
	return false
}

// IsCHTLPattern reports whether s looks like the start of a CHTL
// declaration: a bracketed section tag, or `identifier {`.
func IsCHTLPattern(s string) bool {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") {
		for name := range sectionNames {
			if strings.HasPrefix(trimmed, "["+name+"]") {
				return true
			}
		}
	}
	head := headWord(trimmed)
	rest := strings.TrimSpace(trimmed[len(head):])
	return head != "" && strings.HasPrefix(rest, "{")
}

var sectionNames = map[string]bool{
	"Template": true, "Custom": true, "Origin": true,
	"Import": true, "Namespace": true, "Configuration": true,
}

func headWord(s string) string {
	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	return s[:i]
}

// splitStateMarker recognizes `Name<State>` at the start of s, returning
// the name, the state tag, and true on a match.
func splitStateMarker(s string) (name, state string, ok bool) {
	name = headWord(s)
	if name == "" || len(s) <= len(name) || s[len(name)] != '<' {
		return "", "", false
	}
	rest := s[len(name)+1:]
	end := strings.IndexByte(rest, '>')
	if end == -1 {
		return "", "", false
	}
	state = rest[:end]
	if state == "" {
		return "", "", false
	}
	return name, state, true
}
