package parinfer

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// well-formed code: parens and indentation already agree
var wellFormed = []string{
	"",
	"(defn foo\n  \"doc\"\n  [a b]\n  (let [c (+ a b)]\n    (* c 2)))",
	"(ns app.core\n  (:require [clojure.string :as str]))\n\n(def m {:a 1\n        :b [1 2 3]})",
	"(cond\n  (= x 1) :one ; comment (\n  :else :other)",
	"(println \"a (string\" \\( \\])",
	"[1 2\n 3 4]\n{:k (fn [x]\n      x)}",
	"(a\n  (b\n    (c\n      d)))",
}

func TestParenModeIsIdempotent(t *testing.T) {
	for _, text := range wellFormed {
		first := ParenMode(text, Options{})
		if !first.Success {
			t.Fatalf("ParenMode(%q) failed: %v", text, first.Err())
		}
		second := ParenMode(first.Text, Options{})
		if diff := cmp.Diff(first.Text, second.Text); diff != "" {
			t.Errorf("second pass changed %q (-first +second):\n%s", text, diff)
		}
	}
}

func TestModesAgreeOnWellFormedCode(t *testing.T) {
	for _, text := range wellFormed {
		paren := ParenMode(text, Options{})
		if paren.Text != text {
			t.Errorf("ParenMode changed well-formed code %q into %q", text, paren.Text)
		}
		indent := IndentMode(paren.Text, Options{})
		if !indent.Success {
			t.Fatalf("IndentMode(%q) failed: %v", paren.Text, indent.Err())
		}
		if indent.Text != paren.Text {
			t.Errorf("IndentMode changed %q into %q", paren.Text, indent.Text)
		}
	}
}

func TestParenModeAcceptsItsOwnOutputAfterEscapedBackslash(t *testing.T) {
	first := ParenMode("\\\\\t])", Options{})
	if !first.Success {
		t.Fatalf("first pass failed: %v", first.Err())
	}
	if want := "\\\\])"; first.Text != want {
		t.Fatalf("first pass = %q, want %q", first.Text, want)
	}

	second := ParenMode(first.Text, Options{})
	if !second.Success {
		t.Fatalf("second pass failed: %v", second.Err())
	}
	if second.Text != first.Text {
		t.Errorf("second pass = %q, want %q", second.Text, first.Text)
	}
}

func TestIndentModeDerivesParensFromIndentation(t *testing.T) {
	// the paren mode output is stable under indent mode
	text := "(defn foo\n[a b]\n(+ a b))"
	paren := ParenMode(text, Options{})
	if want := "(defn foo\n [a b]\n (+ a b))"; paren.Text != want {
		t.Fatalf("ParenMode = %q, want %q", paren.Text, want)
	}
	if got := IndentMode(paren.Text, Options{}).Text; got != paren.Text {
		t.Errorf("IndentMode = %q, want %q", got, paren.Text)
	}
}

func TestLineEndings(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		text string
		want string
	}{
		{"indent keeps crlf", Indent, "(foo\r\n  (bar", "(foo\r\n  (bar))"},
		{"paren keeps crlf", Paren, "(foo\r\nbar)", "(foo\r\n bar)"},
		{"indent keeps lf", Indent, "(foo\n  (bar", "(foo\n  (bar))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Process(tt.mode, tt.text, Options{})
			if !res.Success {
				t.Fatalf("unexpected failure: %v", res.Err())
			}
			if res.Text != tt.want {
				t.Errorf("got %q, want %q", res.Text, tt.want)
			}
		})
	}
}

func TestTabsBecomeTwoSpaces(t *testing.T) {
	res := IndentMode("(foo\n\t(bar", Options{})
	if want := "(foo\n  (bar))"; res.Text != want {
		t.Errorf("got %q, want %q", res.Text, want)
	}

	// the cursor moves with the expanded tab
	res = IndentMode("(foo\n\tbar", Options{CursorLine: Int(1), CursorX: Int(2)})
	if res.CursorX == nil || *res.CursorX != 3 {
		t.Errorf("cursorX = %v, want 3", res.CursorX)
	}
}

func TestColumnsCountRunes(t *testing.T) {
	res := IndentMode("(λ [α]\n  β", Options{})
	if want := "(λ [α]\n  β)"; res.Text != want {
		t.Errorf("got %q, want %q", res.Text, want)
	}
}

func TestCursorShiftsWithIndentation(t *testing.T) {
	tests := []struct {
		name    string
		cursorX int
		want    int
	}{
		{"at the start of the line", 0, 1},
		{"inside the line", 2, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParenMode("(foo\nbar)", Options{CursorLine: Int(1), CursorX: Int(tt.cursorX)})
			if res.Text != "(foo\n bar)" {
				t.Fatalf("text = %q", res.Text)
			}
			if res.CursorX == nil || *res.CursorX != tt.want {
				t.Errorf("cursorX = %v, want %d", res.CursorX, tt.want)
			}
		})
	}
}

func TestPressedEnterKeepsClosers(t *testing.T) {
	text := "(foo (bar\n) baz)"
	res := IndentMode(text, Options{CursorLine: Int(1), CursorX: Int(0), PressedEnter: true})
	if !res.Success {
		t.Fatalf("unexpected failure: %v", res.Err())
	}
	count := func(s string) int { return strings.Count(s, ")") }
	if count(res.Text) != count(text) {
		t.Errorf("closer count changed: %q -> %q", text, res.Text)
	}
}

func TestPressedEnterOnFirstLine(t *testing.T) {
	// there is no previous line to measure the cursor move against
	res := IndentMode("(foo\n)", Options{CursorLine: Int(0), CursorX: Int(0), PressedEnter: true})
	if !res.Success {
		t.Fatalf("unexpected failure: %v", res.Err())
	}
	if want := "(foo)\n"; res.Text != want {
		t.Errorf("got %q, want %q", res.Text, want)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		text     string
		sentinel error
		lineNo   int
		x        int
	}{
		{"quote in comment", Indent, "(a ; \"b\n  c)", ErrQuoteDanger, 0, 5},
		{"unclosed quote", Indent, "\"abc", ErrUnclosedQuote, 0, 0},
		{"hanging backslash", Indent, "(a \\\n b)", ErrEOLBackslash, 0, 3},
		{"lone closer in indent mode", Indent, ")", ErrUnmatchedCloseParen, 0, 0},
		{"lone closer in paren mode", Paren, ")", ErrUnmatchedCloseParen, 0, 0},
		{"unclosed paren", Paren, "(a\n  b", ErrUnclosedParen, 0, 0},
		{"stray closer mid line", Paren, "(a)) b", ErrUnmatchedCloseParen, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Process(tt.mode, tt.text, Options{})
			if res.Success {
				t.Fatalf("expected failure, got %q", res.Text)
			}
			if res.Text != tt.text {
				t.Errorf("text = %q, want the input back", res.Text)
			}
			err := res.Err()
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("error %v is not %v", err, tt.sentinel)
			}
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("error %T is not *Error", err)
			}
			if perr.LineNo != tt.lineNo || perr.X != tt.x {
				t.Errorf("position = (%d, %d), want (%d, %d)", perr.LineNo, perr.X, tt.lineNo, tt.x)
			}
			if !strings.Contains(err.Error(), perr.Message) {
				t.Errorf("Error() = %q does not carry the message", err.Error())
			}
		})
	}
}

func TestResultErrOnSuccess(t *testing.T) {
	if err := IndentMode("(foo)", Options{}).Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"indent", Indent, false},
		{"Indent-Mode", Indent, false},
		{" paren ", Paren, false},
		{"paren_mode", Paren, false},
		{"smart", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModeText(t *testing.T) {
	b, err := json.Marshal(map[string]Mode{"mode": Paren})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"mode":"paren"}` {
		t.Errorf("marshal = %s", b)
	}

	var m struct{ Mode Mode }
	if err := json.Unmarshal([]byte(`{"Mode":"indent"}`), &m); err != nil {
		t.Fatal(err)
	}
	if m.Mode != Indent {
		t.Errorf("unmarshal = %v", m.Mode)
	}
	if err := json.Unmarshal([]byte(`{"Mode":"bogus"}`), &m); err == nil {
		t.Error("expected error for unknown mode")
	}
	if s := Mode(7).String(); s != "Mode(7)" {
		t.Errorf("String() = %q", s)
	}
}

func TestConcurrentCalls(t *testing.T) {
	text := "(defn foo\n  [a b]\n  (+ a b"
	want := IndentMode(text, Options{})

	var wg sync.WaitGroup
	results := make([]Result, 32)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = IndentMode(text, Options{})
		}()
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("call %d differs (-want +got):\n%s", i, diff)
		}
	}
}
