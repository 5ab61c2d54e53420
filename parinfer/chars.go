package parinfer

func (s *state) isValidCloseParen(ch rune) bool {
	opener, ok := s.peek()
	return ok && opener.ch == parens[ch]
}

func (s *state) onOpenParen() {
	if s.isInCode {
		s.push(frame{
			ch:          s.ch[0],
			x:           s.x,
			lineNo:      s.lineNo,
			indentDelta: s.indentDelta,
		})
	}
}

func (s *state) onMatchedCloseParen() {
	// a leading close-paren on the cursor line can be scanned before
	// anything has claimed the trail for this line
	if !s.parenTrail.lineNo.is(s.lineNo) {
		s.resetParenTrail(s.lineNo, s.x)
	}

	opener := s.pop()
	s.parenTrail.endX = some(s.x + 1)
	s.parenTrail.openers = append(s.parenTrail.openers, opener)
	s.maxIndent = some(opener.x)
}

func (s *state) onUnmatchedCloseParen() {
	if !s.firstUnmatchedCloseParenX.ok {
		s.firstUnmatchedCloseParenX = some(s.x)
		s.parenTrail.endX = some(s.x + 1)
	}
}

func (s *state) onCloseParen() {
	if !s.isInCode {
		return
	}
	if s.isValidCloseParen(s.ch[0]) {
		s.onMatchedCloseParen()
	} else {
		s.onUnmatchedCloseParen()
	}
}

func (s *state) onTab() {
	if s.isInCode {
		s.ch = doubleSpace
	}
}

func (s *state) onSemicolon() {
	if s.isInCode {
		s.isInComment = true
		s.commentX = some(s.x)
	}
}

func (s *state) onNewline() {
	s.isInComment = false
	s.ch = nil
}

func (s *state) onQuote() {
	switch {
	case s.isInStr:
		s.isInStr = false
	case s.isInComment:
		s.quoteDanger = !s.quoteDanger
		if s.quoteDanger {
			s.cacheErrorPos(QuoteDanger, s.lineNo, s.x)
		}
	default:
		s.isInStr = true
		s.cacheErrorPos(UnclosedQuote, s.lineNo, s.x)
	}
}

func (s *state) onBackslash() {
	s.isEscaping = true
}

func (s *state) afterBackslash() error {
	s.isEscaping = false
	s.isEscaped = true

	if isNewline(s.ch) {
		if s.isInCode {
			return s.newError(EOLBackslash, some(s.lineNo), some(s.x-1))
		}
		s.onNewline()
	}
	return nil
}

// onChar updates string, comment and escape context and the paren stack for
// the current character.
func (s *state) onChar() error {
	s.isEscaped = false
	if s.isEscaping {
		if err := s.afterBackslash(); err != nil {
			return err
		}
	} else if len(s.ch) == 1 {
		switch c := s.ch[0]; {
		case isOpenParen(c):
			s.onOpenParen()
		case isCloseParen(c):
			s.onCloseParen()
		case c == doubleQuote:
			s.onQuote()
		case c == semicolon:
			s.onSemicolon()
		case c == backslash:
			s.onBackslash()
		case c == tab:
			s.onTab()
		case c == newline:
			s.onNewline()
		}
	}

	s.isInCode = !s.isInComment && !s.isInStr
	return nil
}
