package scanner

// secondarySlice subdivides a script block's body into interleaved
// CHTL_JS and JS CodeSlices ("secondary slicing"), scanning for
// `{{selector}}`, `listen { }`, `animate { }`, `vir name { }`, and
// `Name<State> { }` state markers. bodyLine/bodyCol are the absolute
// source position of body[0].
func secondarySlice(file, body string, bodyLine, bodyCol int) []CodeSlice {
	bc := newCursor(body)
	var out []CodeSlice

	jsStart := 0
	jsStartLine, jsStartCol := bodyLine, bodyCol

	flushJS := func(end int) {
		if end > jsStart {
			out = append(out, CodeSlice{
				Kind:        JS,
				Content:     body[jsStart:end],
				File:        file,
				StartOffset: jsStart,
				EndOffset:   end,
				StartLine:   jsStartLine,
				StartColumn: jsStartCol,
			})
		}
	}

	absPos := func(offset int) (int, int) {
		// Count newlines between the start of body and offset to
		// compose an absolute line/column from the body-relative cursor.
		line, col := bodyLine, bodyCol
		i := 0
		for i < offset {
			if body[i] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
			i++
		}
		return line, col
	}

	for !bc.eof() {
		if bc.skipStringOrComment(true) {
			continue
		}

		if bc.hasPrefix("{{") {
			end := indexFrom(body, "}}", bc.pos+2)
			if end == -1 {
				bc.advance()
				continue
			}
			end += 2
			flushJS(bc.pos)
			line, col := absPos(bc.pos)
			out = append(out, CodeSlice{
				Kind: CHTLJS, Content: body[bc.pos:end], File: file,
				StartOffset: bc.pos, EndOffset: end, StartLine: line, StartColumn: col,
			})
			advanceCursorTo(bc, end)
			jsStart, jsStartLine, jsStartCol = end, line, col
			continue
		}

		if isWordStart(bc) {
			word := readWord(body, bc.pos)
			if chtljsFunctionNames[word] {
				callStart := bc.pos
				i := bc.pos + len(word)
				if word == "vir" {
					// vir <name> { ... } — skip the name before the brace.
					for i < len(body) && isSpace(body[i]) {
						i++
					}
					i += len(readWord(body, i))
				}
				for i < len(body) && isSpace(body[i]) {
					i++
				}
				if i < len(body) && body[i] == '{' {
					end, ok := findBalancedEnd(body, i)
					if ok {
						flushJS(callStart)
						line, col := absPos(callStart)
						out = append(out, CodeSlice{
							Kind: CHTLJS, Content: body[callStart:end], File: file,
							StartOffset: callStart, EndOffset: end, StartLine: line, StartColumn: col,
						})
						advanceCursorTo(bc, end)
						jsStart, jsStartLine, jsStartCol = end, line, col
						continue
					}
				}
			} else if name, _, ok := splitStateMarker(body[bc.pos:]); ok {
				callStart := bc.pos
				i := bc.pos + len(name)
				for i < len(body) && body[i] != '>' {
					i++
				}
				i++ // consume '>'
				for i < len(body) && isSpace(body[i]) {
					i++
				}
				if i < len(body) && body[i] == '{' {
					end, ok := findBalancedEnd(body, i)
					if ok {
						flushJS(callStart)
						line, col := absPos(callStart)
						out = append(out, CodeSlice{
							Kind: CHTLJS, Content: body[callStart:end], File: file,
							StartOffset: callStart, EndOffset: end, StartLine: line, StartColumn: col,
						})
						advanceCursorTo(bc, end)
						jsStart, jsStartLine, jsStartCol = end, line, col
						continue
					}
				}
			}
			// Not a recognized call head; skip over the word as plain JS.
			advanceCursorTo(bc, bc.pos+len(word))
			continue
		}

		bc.advance()
	}

	flushJS(len(body))
	return out
}

func indexFrom(s, substr string, from int) int {
	if from > len(s) {
		return -1
	}
	idx := indexOf(s[from:], substr)
	if idx == -1 {
		return -1
	}
	return from + idx
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func advanceCursorTo(c *cursor, target int) {
	for c.pos < target && !c.eof() {
		c.advance()
	}
}

func isWordStart(c *cursor) bool {
	b := c.peek()
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func readWord(s string, from int) string {
	i := from
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	return s[from:i]
}

// findBalancedEnd returns the offset just past the '}' matching the '{'
// at s[openIdx], honoring quoted strings, or false if unbalanced.
func findBalancedEnd(s string, openIdx int) (int, bool) {
	depth := 0
	i := openIdx
	for i < len(s) {
		switch s[i] {
		case '"', '\'':
			quote := s[i]
			i++
			for i < len(s) && s[i] != quote {
				if s[i] == '\\' {
					i++
				}
				i++
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
		i++
	}
	return 0, false
}
