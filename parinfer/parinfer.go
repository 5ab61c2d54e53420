// Package parinfer keeps Lisp code well-formed as it is edited, by inferring
// parens from indentation or indentation from parens.
//
// The package exposes two passes over a full buffer:
//
//   - Indent Mode: the closing parens at the end of each line are rewritten to
//     match how the code is indented.
//   - Paren Mode: the indentation of each line is corrected to match the
//     existing parens.
//
// Both are pure functions of the text, cursor and options. They never panic;
// a failure is reported in the Result and the original text is returned
// untouched.
//
// Example usage:
//
//	res := parinfer.IndentMode("(defn foo\n  [a b]\n  (+ a b", parinfer.Options{})
//	if !res.Success {
//		log.Fatal(res.Error)
//	}
//	fmt.Println(res.Text)
package parinfer

import (
	"fmt"
	"strings"
)

// Mode selects which side of the code is treated as the source of truth.
type Mode int

const (
	Indent Mode = iota
	Paren
)

func (m Mode) String() string {
	switch m {
	case Indent:
		return "indent"
	case Paren:
		return "paren"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMode returns the Mode named by s ("indent" or "paren").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "indent", "indent-mode", "indent_mode":
		return Indent, nil
	case "paren", "paren-mode", "paren_mode":
		return Paren, nil
	}
	return 0, fmt.Errorf("unknown mode %q: use indent or paren", s)
}

// Options carries the cursor and the edit that triggered processing. Nil
// fields are ignored. CursorDx is how far the cursor moved horizontally in
// that edit; it is derived from the previous line when PressedEnter is set.
type Options struct {
	CursorLine         *int `json:"cursorLine,omitempty"         yaml:"cursorLine,omitempty"`
	CursorX            *int `json:"cursorX,omitempty"            yaml:"cursorX,omitempty"`
	CursorDx           *int `json:"cursorDx,omitempty"           yaml:"cursorDx,omitempty"`
	PreviewCursorScope bool `json:"previewCursorScope,omitempty" yaml:"previewCursorScope,omitempty"`
	PressedEnter       bool `json:"pressedEnter,omitempty"       yaml:"pressedEnter,omitempty"`
}

// Int returns a pointer to n, for filling Options.
func Int(n int) *int { return &n }

// TabStop is an open-paren that was open at the start of the cursor line.
// Editors can snap indentation to these.
type TabStop struct {
	Ch     string `json:"ch"     yaml:"ch"`
	X      int    `json:"x"      yaml:"x"`
	LineNo int    `json:"lineNo" yaml:"lineNo"`
}

// Result is the outcome of one pass. On failure Text and CursorX are the
// caller's originals and Error says why.
type Result struct {
	Text     string    `json:"text"               yaml:"text"`
	CursorX  *int      `json:"cursorX,omitempty"  yaml:"cursorX,omitempty"`
	Success  bool      `json:"success"            yaml:"success"`
	TabStops []TabStop `json:"tabStops,omitempty" yaml:"tabStops,omitempty"`
	Error    *Error    `json:"error,omitempty"    yaml:"error,omitempty"`
}

// Err returns the failure as an error, or nil.
func (r Result) Err() error {
	if r.Success || r.Error == nil {
		return nil
	}
	return r.Error
}

func publicResult(s *state) Result {
	if !s.success {
		return Result{
			Text:    s.origText,
			CursorX: s.origCursorX.ptr(),
			Success: false,
			Error:   s.err,
		}
	}

	return Result{
		Text:     joinLines(s.lines, getLineEnding(s.origText)),
		CursorX:  s.cursorX.ptr(),
		Success:  true,
		TabStops: s.tabStops,
	}
}

// IndentMode rewrites close-parens to follow indentation. When the edit was
// a newline (PressedEnter), a Paren Mode pass first repairs closers that the
// newline left at the start of the cursor line.
func IndentMode(text string, opts Options) Result {
	if opts.PressedEnter {
		res := publicResult(processText(text, opts, Paren, true))
		text = res.Text
		opts.CursorX = res.CursorX
	}
	return publicResult(processText(text, opts, Indent, false))
}

// ParenMode rewrites indentation to follow close-parens.
func ParenMode(text string, opts Options) Result {
	return publicResult(processText(text, opts, Paren, false))
}

// Process runs the pass selected by mode.
func Process(mode Mode, text string, opts Options) Result {
	if mode == Paren {
		return ParenMode(text, opts)
	}
	return IndentMode(text, opts)
}
