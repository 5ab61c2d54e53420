package parinfer

func (s *state) resetParenTrail(lineNo, x int) {
	s.parenTrail.lineNo = some(lineNo)
	s.parenTrail.startX = some(x)
	s.parenTrail.endX = some(x)
	s.parenTrail.openers = nil
	s.maxIndent = none
}

// updateParenTrailBounds moves the start of the trail past the current
// character unless that character may be part of a trail.
// onMatchedCloseParen extends its end.
func (s *state) updateParenTrailBounds() {
	escaped := s.isEscaped

	var c rune
	if len(s.ch) == 1 {
		c = s.ch[0]
	}

	shouldReset := s.isInCode &&
		(!isCloseParen(c) || escaped) &&
		len(s.ch) != 0 &&
		(c != blankSpace || escaped) &&
		len(s.ch) != len(doubleSpace)

	if shouldReset {
		s.resetParenTrail(s.lineNo, s.x+1)
	}
}

// clampParenTrailToCursor keeps the close-parens left of the cursor out of
// the trail, so editing inside a form does not swallow its closers.
// Indent Mode only.
func (s *state) clampParenTrailToCursor() {
	startX := s.parenTrail.startX
	endX := s.parenTrail.endX

	clamping := s.isCursorOnRight(startX) && !s.isCursorInComment()
	if !clamping {
		return
	}

	newStartX := max(startX.n, s.cursorX.n)
	newEndX := max(endX.n, s.cursorX.n)

	line := s.lines[s.lineNo]
	removeCount := 0
	for i := startX.n; i < newStartX && i < len(line); i++ {
		if isCloseParen(line[i]) {
			removeCount++
		}
	}

	removeCount = min(removeCount, len(s.parenTrail.openers))
	s.parenTrail.openers = s.parenTrail.openers[removeCount:]
	s.parenTrail.startX = some(newStartX)
	s.parenTrail.endX = some(newEndX)
}

// popParenTrail returns the trail's openers to the stack; the trail stays
// provisional until the next indentation point decides where it closes.
// Indent Mode only.
func (s *state) popParenTrail() {
	if s.parenTrail.startX == s.parenTrail.endX {
		return
	}

	openers := s.parenTrail.openers
	for len(openers) != 0 {
		s.push(openers[len(openers)-1])
		openers = openers[:len(openers)-1]
	}
	s.parenTrail.openers = openers
}

// correctParenTrail closes every open-paren at or right of indentX and
// writes those closers over the trail. Indent Mode only.
func (s *state) correctParenTrail(indentX int) {
	var closers []rune
	for {
		opener, ok := s.peek()
		if !ok || opener.x < indentX {
			break
		}
		s.pop()
		closers = append(closers, parens[opener.ch])
	}

	if !s.parenTrail.lineNo.ok {
		return
	}
	s.replaceWithinLine(s.parenTrail.lineNo.n, s.parenTrail.startX.n, s.parenTrail.endX.n, closers)
}

// cleanParenTrail removes spaces from the trail. Paren Mode only.
func (s *state) cleanParenTrail() {
	startX := s.parenTrail.startX
	endX := s.parenTrail.endX

	if startX == endX || !s.parenTrail.lineNo.is(s.lineNo) {
		return
	}

	line := s.lines[s.lineNo]
	var trail []rune
	spaceCount := 0
	for i := startX.n; i < endX.n && i < len(line); i++ {
		if isCloseParen(line[i]) {
			trail = append(trail, line[i])
		} else {
			spaceCount++
		}
	}

	if spaceCount > 0 {
		s.replaceWithinLine(s.lineNo, startX.n, endX.n, trail)
		s.parenTrail.endX.n -= spaceCount
	}
}

// appendParenTrail closes the innermost open-paren at the end of the trail.
// Paren Mode only.
func (s *state) appendParenTrail() {
	opener := s.pop()
	closeCh := parens[opener.ch]

	s.maxIndent = some(opener.x)
	if !s.parenTrail.lineNo.ok {
		return
	}
	s.insertWithinLine(s.parenTrail.lineNo.n, s.parenTrail.endX.n, []rune{closeCh})
	s.parenTrail.endX.n++
}

func (s *state) invalidateParenTrail() {
	s.parenTrail = parenTrail{}
}

func (s *state) finishNewParenTrail() {
	switch {
	case s.isInStr:
		s.invalidateParenTrail()
	case s.mode == Indent:
		s.clampParenTrailToCursor()
		s.popParenTrail()
	case s.mode == Paren:
		if !s.cursorLine.is(s.lineNo) {
			s.cleanParenTrail()
		}
	}
}
