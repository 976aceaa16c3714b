package lexer

import (
	"fmt"

	"github.com/girogio/parlc-sub000/pkg/token"
)

// ErrorKind identifies what kind of lexical failure occurred.
// UnterminatedString has no production in the grammar yet (the language has
// no string literal), but the kind is kept so a future literal type can slot
// in without renumbering the taxonomy downstream diagnostics switch on.
type ErrorKind int

const (
	InvalidCharacter ErrorKind = iota
	UnterminatedBlockComment
	UnterminatedString
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidCharacter:
		return "InvalidCharacter"
	case UnterminatedBlockComment:
		return "UnterminatedBlockComment"
	case UnterminatedString:
		return "UnterminatedString"
	default:
		return "LexError"
	}
}

// LexError is a single lexical diagnostic. The lexer accumulates these
// rather than stopping at the first one, so a single run reports every bad
// character in a source file.
type LexError struct {
	Kind ErrorKind
	Msg  string
	At   token.Span
}

func (e *LexError) Error() string   { return e.Msg }
func (e *LexError) Span() token.Span { return e.At }
func (e *LexError) Code() string    { return e.Kind.String() }

func newInvalidCharacter(r rune, span token.Span) *LexError {
	return &LexError{
		Kind: InvalidCharacter,
		Msg:  fmt.Sprintf("invalid character %q", r),
		At:   span,
	}
}

func newUnterminatedBlockComment(span token.Span) *LexError {
	return &LexError{
		Kind: UnterminatedBlockComment,
		Msg:  "unterminated block comment",
		At:   span,
	}
}

func newMalformedColourLiteral(lexeme string, span token.Span) *LexError {
	return &LexError{
		Kind: InvalidCharacter,
		Msg:  fmt.Sprintf("malformed colour literal %q: expected exactly six hex digits", lexeme),
		At:   span,
	}
}
