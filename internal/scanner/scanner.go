package scanner

import (
	"chtl/internal/diagnostics"
)

// Scan partitions src into CodeSlices covering it exactly once each
// (slice-coverage invariant: concatenating every
// slice's Content reproduces src byte for byte). It never returns a
// partial slice set silently — an unbalanced-brace or unterminated
// string is reported as an Error-severity SyntaxError and scanning stops
// at that point, with whatever was scanned so far still returned so
// callers can decide whether to keep going.
func Scan(file, src string) ([]CodeSlice, []diagnostics.Diagnostic) {
	s := &scanState{
		file: file,
		c:    newCursor(src),
	}
	s.run()
	return s.slices, s.diags
}

type scanState struct {
	file  string
	c     *cursor
	stack []struct{} // element/block nesting depth, one entry per open CHTL `{`

	slices []CodeSlice
	diags  []diagnostics.Diagnostic

	segStart       int
	segStartLine   int
	segStartColumn int
}

func (s *scanState) fatalf(format string, args ...any) {
	s.diags = append(s.diags, diagnostics.New(diagnostics.SyntaxError, s.file, s.c.line, s.c.column, format, args...))
}

func (s *scanState) run() {
	s.segStart, s.segStartLine, s.segStartColumn = 0, 1, 1

	for !s.c.eof() {
		if s.c.skipStringOrComment(false) {
			continue
		}

		if kw, ok := s.matchBlockKeyword("style"); ok {
			s.enterBlock(kw, CSS, false)
			continue
		}
		if kw, ok := s.matchBlockKeyword("script"); ok {
			s.enterBlock(kw, JS, true)
			continue
		}

		switch s.c.peek() {
		case '{':
			s.stack = append(s.stack, struct{}{})
			s.c.advance()
		case '}':
			if len(s.stack) == 0 {
				s.fatalf("unbalanced braces: unexpected '}'")
				s.flushCHTL(s.c.pos)
				return
			}
			s.stack = s.stack[:len(s.stack)-1]
			s.c.advance()
		default:
			s.c.advance()
		}
	}

	if len(s.stack) != 0 {
		s.fatalf("unbalanced braces: %d block(s) never closed", len(s.stack))
	}
	s.flushCHTL(s.c.pos)
}

// matchBlockKeyword checks whether the cursor sits at a standalone
// `style` or `script` word immediately (modulo whitespace) followed by
// `{`. On match it advances the cursor past the keyword, whitespace, and
// opening brace, returning the keyword; it does not advance on a
// mismatch.
func (s *scanState) matchBlockKeyword(kw string) (string, bool) {
	c := s.c
	if !c.hasPrefix(kw) {
		return "", false
	}
	// Preceding byte (if any) must not be an identifier byte, else this
	// is a suffix of some longer identifier (e.g. "mystyle").
	if c.pos > 0 && isIdentByte(c.src[c.pos-1]) {
		return "", false
	}
	after := c.pos + len(kw)
	if after < len(c.src) && isIdentByte(c.src[after]) {
		return "", false
	}
	// Look ahead past whitespace for '{'.
	i := after
	for i < len(c.src) && isSpace(c.src[i]) {
		i++
	}
	if i >= len(c.src) || c.src[i] != '{' {
		return "", false
	}
	for c.pos < i+1 {
		c.advance()
	}
	return kw, true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// enterBlock flushes the pending CHTL segment (which, since
// matchBlockKeyword already advanced the cursor through `keyword ws {`,
// naturally ends with that text — the keyword and opening brace are
// CHTL syntax, not CSS/JS), consumes the balanced body that follows, and
// emits CSS or JS slice(s) for just the body. The matching closing brace
// is CHTL syntax too, so it's left as the start of the next CHTL
// segment rather than folded into the body slice — this is what keeps
// the slice list an exact, gapless, non-overlapping partition of src.
// regexHeuristic is true for script blocks needing the JS regex heuristic
// enabled while scanning the body for its own nested braces.
func (s *scanState) enterBlock(keyword string, kind SliceKind, regexHeuristic bool) {
	s.flushCHTL(s.c.pos) // includes "keyword ws {" in the CHTL segment

	bodyStartOffset := s.c.pos
	bodyStartLine, bodyStartCol := s.c.line, s.c.column

	local := len(s.stack) > 0

	body, closeLine, closeCol, ok := s.consumeBalancedBody(regexHeuristic)
	if !ok {
		s.fatalf("unbalanced braces in %s block starting at line %d", keyword, bodyStartLine)
		s.segStart, s.segStartLine, s.segStartColumn = s.c.pos, s.c.line, s.c.column
		return
	}

	switch kind {
	case CSS:
		sl := CodeSlice{
			Kind: CSS, Content: body, File: s.file,
			StartOffset: bodyStartOffset, EndOffset: bodyStartOffset + len(body),
			StartLine: bodyStartLine, StartColumn: bodyStartCol,
			Keyword: keyword, Local: local,
		}
		s.slices = append(s.slices, sl)
	case JS:
		for _, sub := range secondarySlice(s.file, body, bodyStartLine, bodyStartCol) {
			sub.Keyword = keyword
			sub.Local = local
			s.slices = append(s.slices, sub)
		}
	}

	// s.c.pos now sits just past the closing brace; rewind the next CHTL
	// segment's start to the brace itself so it isn't lost.
	s.segStart, s.segStartLine, s.segStartColumn = s.c.pos-1, closeLine, closeCol
}

// consumeBalancedBody consumes source up to and including the matching
// '}' for the '{' just passed, returning the content strictly between
// the braces plus the line/column of that closing brace.
func (s *scanState) consumeBalancedBody(regexHeuristic bool) (body string, closeLine, closeCol int, ok bool) {
	start := s.c.pos
	depth := 1
	for !s.c.eof() {
		if s.c.skipStringOrComment(regexHeuristic) {
			continue
		}
		switch s.c.peek() {
		case '{':
			depth++
			s.c.advance()
		case '}':
			depth--
			if depth == 0 {
				body = s.c.src[start:s.c.pos]
				closeLine, closeCol = s.c.line, s.c.column
				s.c.advance() // consume the closing brace
				return body, closeLine, closeCol, true
			}
			s.c.advance()
		default:
			s.c.advance()
		}
	}
	return "", 0, 0, false
}

func (s *scanState) flushCHTL(endOffset int) {
	if endOffset <= s.segStart {
		return
	}
	content := s.c.src[s.segStart:endOffset]
	s.slices = append(s.slices, CodeSlice{
		Kind:        CHTL,
		Content:     content,
		File:        s.file,
		StartOffset: s.segStart,
		EndOffset:   endOffset,
		StartLine:   s.segStartLine,
		StartColumn: s.segStartColumn,
	})
}

