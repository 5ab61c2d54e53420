package parinfer

import (
	"errors"
	"fmt"
	"runtime/debug"
)

func (s *state) processChar(ch rune) error {
	origCh := []rune{ch}

	s.ch = origCh
	s.skipChar = false

	if s.mode == Paren {
		s.handleCursorDelta()
	}

	if s.trackingIndent {
		if err := s.checkIndent(); err != nil {
			return err
		}
	}

	if s.skipChar {
		s.ch = nil
	} else {
		if err := s.onChar(); err != nil {
			return err
		}
		s.updateParenTrailBounds()
	}

	s.commitChar(origCh)
	return nil
}

// processLine scans one input line plus its newline. The input line is read
// on every step because splitting for stability may shorten it mid-scan.
func (s *state) processLine(inputLineNo int) error {
	s.inputLineNo = inputLineNo
	s.initLine()
	s.initIndent()
	s.setTabStops()

	for i := 0; i < len(s.inputLines[inputLineNo]); i++ {
		if err := s.processChar(s.inputLines[inputLineNo][i]); err != nil {
			return err
		}
	}
	if err := s.processChar(newline); err != nil {
		return err
	}

	unmatchedX := s.firstUnmatchedCloseParenX
	if unmatchedX.ok {
		ownTrail := s.parenTrail.lineNo.is(s.lineNo)
		if !ownTrail || unmatchedX.n < s.parenTrail.startX.n {
			return s.newError(UnmatchedCloseParen, some(s.lineNo), unmatchedX)
		}
	}

	if s.parenTrail.lineNo.is(s.lineNo) {
		s.finishNewParenTrail()
	}
	return nil
}

func (s *state) finalize() error {
	if s.quoteDanger {
		return s.newError(QuoteDanger, none, none)
	}
	if s.isInStr {
		return s.newError(UnclosedQuote, none, none)
	}

	if len(s.parenStack) != 0 && s.mode == Paren {
		opener, _ := s.peek()
		return s.newError(UnclosedParen, some(opener.lineNo), some(opener.x))
	}
	if s.mode == Indent {
		s.x = 0
		if err := s.onIndent(); err != nil {
			return err
		}
	}
	s.success = true
	return nil
}

// processText runs one full pass over the document.
func processText(text string, opts Options, mode Mode, stabilizeNewline bool) *state {
	s := newState(text, opts, mode, stabilizeNewline)
	s.run()
	return s
}

// run scans every line and finalizes. Lines inserted by
// splitLineForStability are picked up because the bound is re-read each
// iteration. A panic is reported as an unhandled error.
func (s *state) run() {
	defer func() {
		if r := recover(); r != nil {
			s.success = false
			s.err = &Error{
				Name:    Unhandled,
				Message: fmt.Sprintf("%s %v\n%s", errorMessages[Unhandled], r, debug.Stack()),
			}
		}
	}()

	for i := 0; i < len(s.inputLines); i++ {
		if err := s.processLine(i); err != nil {
			s.fail(err)
			return
		}
	}
	if err := s.finalize(); err != nil {
		s.fail(err)
	}
}

func (s *state) fail(err error) {
	s.success = false
	var perr *Error
	if errors.As(err, &perr) {
		s.err = perr
		return
	}
	s.err = &Error{Name: Unhandled, Message: err.Error()}
}
