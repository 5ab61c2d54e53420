package parinfer

import (
	"slices"
	"strings"
)

func replaceWithinRunes(orig []rune, start, end int, replace []rune) []rune {
	// edits past the end of the line behave like appends
	if start > len(orig) {
		start = len(orig)
	}
	if end > len(orig) {
		end = len(orig)
	}
	out := make([]rune, 0, len(orig)-(end-start)+len(replace))
	out = append(out, orig[:start]...)
	out = append(out, replace...)
	return append(out, orig[end:]...)
}

func repeatSpace(n int) []rune {
	return []rune(strings.Repeat(" ", n))
}

func getLineEnding(text string) string {
	// a CR anywhere means CRLF after every line
	if strings.ContainsRune(text, '\r') {
		return "\r\n"
	}
	return "\n"
}

func joinLines(lines [][]rune, ending string) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString(ending)
		}
		b.WriteString(string(line))
	}
	return b.String()
}

func (s *state) isCursorAffected(start, end int) bool {
	if s.cursorX.n == start && s.cursorX.n == end {
		return s.cursorX.n == 0
	}
	return s.cursorX.n >= end
}

func (s *state) shiftCursorOnEdit(lineNo, start, end int, replace []rune) {
	dx := len(replace) - (end - start)
	if dx != 0 &&
		s.cursorLine.is(lineNo) &&
		s.cursorX.ok &&
		s.isCursorAffected(start, end) {
		s.cursorX.n += dx
	}
}

func (s *state) replaceWithinLine(lineNo, start, end int, replace []rune) {
	s.lines[lineNo] = replaceWithinRunes(s.lines[lineNo], start, end, replace)
	s.shiftCursorOnEdit(lineNo, start, end, replace)
}

func (s *state) insertWithinLine(lineNo, idx int, insert []rune) {
	s.replaceWithinLine(lineNo, idx, idx, insert)
}

func (s *state) initLine() {
	s.x = 0
	s.lineNo++

	line := s.inputLines[s.inputLineNo]
	s.lines = append(s.lines, append([]rune(nil), line...))

	s.commentX = none
	s.indentDelta = s.nextIndentDelta
	s.nextIndentDelta = 0
	s.firstUnmatchedCloseParenX = none
}

// commitChar writes a replaced character back into the current line. The
// synthetic newline that ends every line is not part of the line itself.
func (s *state) commitChar(origCh []rune) {
	if !slices.Equal(origCh, s.ch) && !isNewline(origCh) {
		s.replaceWithinLine(s.lineNo, s.x, s.x+len(origCh), s.ch)
	}
	s.x += len(s.ch)
}

func isNewline(ch []rune) bool {
	return len(ch) == 1 && ch[0] == newline
}

func clamp(val int, minN, maxN optInt) int {
	if minN.ok {
		val = max(minN.n, val)
	}
	if maxN.ok {
		val = min(maxN.n, val)
	}
	return val
}
