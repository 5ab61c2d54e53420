package parinfer

import (
	"errors"
	"fmt"
)

// ErrorName identifies why a text could not be processed.
type ErrorName string

const (
	QuoteDanger         ErrorName = "quote-danger"
	EOLBackslash        ErrorName = "eol-backslash"
	UnclosedQuote       ErrorName = "unclosed-quote"
	UnclosedParen       ErrorName = "unclosed-paren"
	UnmatchedCloseParen ErrorName = "unmatched-close-paren"
	Unhandled           ErrorName = "unhandled"
)

// Sentinel errors, one per ErrorName. An *Error unwraps to the matching
// sentinel so callers can use errors.Is.
var (
	ErrQuoteDanger         = errors.New(string(QuoteDanger))
	ErrEOLBackslash        = errors.New(string(EOLBackslash))
	ErrUnclosedQuote       = errors.New(string(UnclosedQuote))
	ErrUnclosedParen       = errors.New(string(UnclosedParen))
	ErrUnmatchedCloseParen = errors.New(string(UnmatchedCloseParen))
	ErrUnhandled           = errors.New(string(Unhandled))
)

var sentinels = map[ErrorName]error{
	QuoteDanger:         ErrQuoteDanger,
	EOLBackslash:        ErrEOLBackslash,
	UnclosedQuote:       ErrUnclosedQuote,
	UnclosedParen:       ErrUnclosedParen,
	UnmatchedCloseParen: ErrUnmatchedCloseParen,
	Unhandled:           ErrUnhandled,
}

var errorMessages = map[ErrorName]string{
	QuoteDanger:         "Quotes must balanced inside comment blocks.",
	EOLBackslash:        "Line cannot end in a hanging backslash.",
	UnclosedQuote:       "String is missing a closing quote.",
	UnclosedParen:       "Unmatched open-paren.",
	UnmatchedCloseParen: "Unmatched close-paren.",
	Unhandled:           "Unhandled error.",
}

// Error describes where and why processing failed.
type Error struct {
	Name    ErrorName `json:"name"    yaml:"name"`
	Message string    `json:"message" yaml:"message"`
	LineNo  int       `json:"lineNo"  yaml:"lineNo"`
	X       int       `json:"x"       yaml:"x"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d, column %d: %s", e.Name, e.LineNo, e.X, e.Message)
}

func (e *Error) Unwrap() error {
	return sentinels[e.Name]
}

type errorPos struct {
	lineNo int
	x      int
}

func (s *state) cacheErrorPos(name ErrorName, lineNo, x int) {
	s.errorPosCache[name] = errorPos{lineNo: lineNo, x: x}
}

// newError builds an error at the given position. An absent position falls
// back to the one cached for name, which points at the cause rather than
// where the failure was noticed.
func (s *state) newError(name ErrorName, lineNo, x optInt) *Error {
	cached := s.errorPosCache[name]
	if !lineNo.ok {
		lineNo = some(cached.lineNo)
	}
	if !x.ok {
		x = some(cached.x)
	}
	return &Error{
		Name:    name,
		Message: errorMessages[name],
		LineNo:  lineNo.n,
		X:       x.n,
	}
}
