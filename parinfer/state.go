package parinfer

import "regexp"

const (
	backslash   = '\\'
	blankSpace  = ' '
	doubleQuote = '"'
	newline     = '\n'
	semicolon   = ';'
	tab         = '\t'
)

var (
	doubleSpace = []rune("  ")

	lineEndingRegex = regexp.MustCompile(`\r?\n`)

	// a line holding nothing but a paren trail, possibly followed by a comment
	standaloneParenTrail = regexp.MustCompile(`^[\s\]\)\}]*(;.*)?$`)
)

var parens = map[rune]rune{
	'{': '}',
	'}': '{',
	'[': ']',
	']': '[',
	'(': ')',
	')': '(',
}

func isOpenParen(c rune) bool {
	return c == '{' || c == '(' || c == '['
}

func isCloseParen(c rune) bool {
	return c == '}' || c == ')' || c == ']'
}

// optInt is an int that may be absent.
type optInt struct {
	n  int
	ok bool
}

func some(n int) optInt { return optInt{n: n, ok: true} }

var none optInt

func fromPtr(p *int) optInt {
	if p == nil {
		return none
	}
	return some(*p)
}

func (o optInt) ptr() *int {
	if !o.ok {
		return nil
	}
	n := o.n
	return &n
}

func (o optInt) is(n int) bool { return o.ok && o.n == n }

// frame is an open-paren on the paren stack.
type frame struct {
	ch          rune
	x           int
	lineNo      int
	indentDelta int
}

// parenTrail is the run of close-parens ending the scanned part of a line.
type parenTrail struct {
	lineNo  optInt
	startX  optInt
	endX    optInt
	openers []frame // the opener matched by each close-paren in the trail
}

// state is the running result of one invocation. Every stage reads and
// mutates the same value; it never outlives the call that built it.
type state struct {
	mode Mode

	origText    string
	origCursorX optInt
	inputLines  [][]rune
	inputLineNo int

	lines  [][]rune
	lineNo int
	ch     []rune // may be replaced to commit a substitution
	x      int

	parenStack []frame
	tabStops   []TabStop
	parenTrail parenTrail

	cursorX               optInt
	cursorLine            optInt
	cursorDx              optInt
	previewCursorScope    bool
	canPreviewCursorScope bool

	pressedEnter     bool
	stabilizeNewline bool

	isInCode    bool
	isEscaping  bool
	isEscaped   bool // the current character follows a backslash
	isInStr     bool
	isInComment bool
	commentX    optInt

	firstUnmatchedCloseParenX optInt

	quoteDanger    bool
	trackingIndent bool
	skipChar       bool
	success        bool

	maxIndent       optInt
	indentDelta     int
	nextIndentDelta int

	err           *Error
	errorPosCache map[ErrorName]errorPos
}

func splitLines(text string) [][]rune {
	parts := lineEndingRegex.Split(text, -1)
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

func newState(text string, opts Options, mode Mode, stabilizeNewline bool) *state {
	s := &state{
		mode:             mode,
		origText:         text,
		inputLines:       splitLines(text),
		inputLineNo:      -1,
		lineNo:           -1,
		isInCode:         true,
		stabilizeNewline: stabilizeNewline,
		errorPosCache:    make(map[ErrorName]errorPos),
	}

	s.cursorX = fromPtr(opts.CursorX)
	s.origCursorX = s.cursorX
	s.cursorLine = fromPtr(opts.CursorLine)
	s.cursorDx = fromPtr(opts.CursorDx)
	s.previewCursorScope = opts.PreviewCursorScope
	s.pressedEnter = opts.PressedEnter

	if s.pressedEnter && s.cursorX.ok && s.cursorLine.ok {
		prev := s.cursorLine.n - 1
		if prev >= 0 && prev < len(s.inputLines) {
			s.cursorDx = some(s.cursorX.n - len(s.inputLines[prev]))
		}
	}

	return s
}

func (s *state) peek() (frame, bool) {
	if len(s.parenStack) == 0 {
		return frame{}, false
	}
	return s.parenStack[len(s.parenStack)-1], true
}

func (s *state) pop() frame {
	f := s.parenStack[len(s.parenStack)-1]
	s.parenStack = s.parenStack[:len(s.parenStack)-1]
	return f
}

func (s *state) push(f frame) {
	s.parenStack = append(s.parenStack, f)
}
