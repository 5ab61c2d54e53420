package parinfer

import (
	"slices"
	"unicode"
)

func (s *state) isCursorOnLeft() bool {
	return s.cursorLine.is(s.lineNo) &&
		s.cursorX.ok &&
		s.cursorX.n <= s.x
}

func (s *state) isCursorOnRight(x optInt) bool {
	return s.cursorLine.is(s.lineNo) &&
		s.cursorX.ok &&
		x.ok &&
		s.cursorX.n > x.n
}

func (s *state) isCursorInComment() bool {
	return s.isCursorOnRight(s.commentX)
}

// handleCursorDelta shifts the indentation of everything after the cursor
// by the amount the cursor just moved. Paren Mode only.
func (s *state) handleCursorDelta() {
	if s.cursorDx.ok && s.cursorLine.is(s.lineNo) && s.cursorX.is(s.x) {
		s.indentDelta += s.cursorDx.n
	}
}

// firstNonTrailIndex returns the index of the first rune that is neither
// whitespace nor a close-paren, or -1.
func firstNonTrailIndex(line []rune) int {
	for i, c := range line {
		if !unicode.IsSpace(c) && !isCloseParen(c) {
			return i
		}
	}
	return -1
}

func trimRightSpace(line []rune) []rune {
	end := len(line)
	for end > 0 && unicode.IsSpace(line[end-1]) {
		end--
	}
	return line[:end]
}

// splitLineForStability moves whatever follows the leading close-parens of
// the cursor line onto a new line of its own, so a closer left behind by a
// newline keeps its place on the next pass.
// Precondition: we are at the indentation point.
func (s *state) splitLineForStability() {
	if len(s.ch) != 1 || !isCloseParen(s.ch[0]) {
		return
	}

	line := s.lines[s.lineNo]
	x := firstNonTrailIndex(line)
	if x == -1 || line[x] == semicolon {
		return
	}
	inputLine := s.inputLines[s.inputLineNo]
	splitX := firstNonTrailIndex(inputLine)
	if splitX == -1 {
		return
	}

	s.lines[s.lineNo] = append([]rune(nil), trimRightSpace(line[:x])...)
	s.nextIndentDelta = s.indentDelta - x

	head := append([]rune(nil), trimRightSpace(inputLine[:splitX])...)
	rest := append([]rune(nil), inputLine[splitX:]...)

	lines := make([][]rune, 0, len(s.inputLines)+1)
	lines = append(lines, s.inputLines[:s.inputLineNo]...)
	lines = append(lines, head, rest)
	lines = append(lines, s.inputLines[s.inputLineNo+1:]...)
	s.inputLines = lines
}

// correctIndent moves the current line between its innermost open-paren and
// the most recently closed one. Paren Mode only.
func (s *state) correctIndent() {
	origIndent := s.x
	newIndent := origIndent
	minIndent := some(0)

	if opener, ok := s.peek(); ok {
		minIndent = some(opener.x + 1)
		newIndent += opener.indentDelta
	}

	newIndent = clamp(newIndent, minIndent, s.maxIndent)

	if newIndent != origIndent {
		s.replaceWithinLine(s.lineNo, 0, origIndent, repeatSpace(newIndent))
		s.x = newIndent
		s.indentDelta += newIndent - origIndent
	}
}

func (s *state) tryPreviewCursorScope() {
	if !s.canPreviewCursorScope {
		return
	}
	// with no tokens between the previous trail and the cursor, its closers
	// can move to a new trail at the cursor
	if s.cursorX.n > s.x {
		s.correctParenTrail(s.cursorX.n)
		s.resetParenTrail(s.cursorLine.n, s.cursorX.n)
	}
	s.canPreviewCursorScope = false
}

func (s *state) onIndent() error {
	s.trackingIndent = false

	if s.quoteDanger {
		return s.newError(QuoteDanger, none, none)
	}

	switch s.mode {
	case Indent:
		s.tryPreviewCursorScope()
		s.correctParenTrail(s.x)
	case Paren:
		if s.stabilizeNewline && s.cursorLine.is(s.lineNo) {
			s.splitLineForStability()
		}
		s.correctIndent()
	}
	return nil
}

func (s *state) onLeadingCloseParen() error {
	s.skipChar = true

	if s.mode != Paren {
		return nil
	}
	if !s.isValidCloseParen(s.ch[0]) {
		return s.newError(UnmatchedCloseParen, some(s.lineNo), some(s.x))
	}
	if s.isCursorOnLeft() {
		s.skipChar = false
		return s.onIndent()
	}
	s.appendParenTrail()
	return nil
}

func (s *state) checkIndent() error {
	if len(s.ch) != 1 {
		return nil
	}
	switch c := s.ch[0]; {
	case isCloseParen(c):
		return s.onLeadingCloseParen()
	case c == semicolon:
		// comments are not indentation points
		s.trackingIndent = false
	case c != newline && c != blankSpace && c != tab:
		return s.onIndent()
	}
	return nil
}

func (s *state) initPreviewCursorScope() {
	if !s.previewCursorScope || !s.cursorLine.is(s.lineNo) {
		return
	}
	line := string(s.lines[s.lineNo])
	semicolonX := slices.Index(s.lines[s.lineNo], semicolon)
	s.canPreviewCursorScope = s.cursorX.ok &&
		s.trackingIndent &&
		standaloneParenTrail.MatchString(line) &&
		(semicolonX == -1 || s.cursorX.n <= semicolonX)
}

func (s *state) initIndent() {
	switch s.mode {
	case Indent:
		s.trackingIndent = len(s.parenStack) != 0 && !s.isInStr
		s.initPreviewCursorScope()
	case Paren:
		s.trackingIndent = !s.isInStr
	}
}

func (s *state) setTabStops() {
	if !s.cursorLine.is(s.lineNo) || s.mode != Indent {
		return
	}
	for _, f := range s.parenStack {
		s.tabStops = append(s.tabStops, TabStop{Ch: string(f.ch), X: f.x, LineNo: f.lineNo})
	}
}
