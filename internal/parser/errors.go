package parser

import (
	"fmt"
	"strings"

	"github.com/girogio/parlc-sub000/pkg/token"
)

// ParseErrorKind distinguishes the three shapes a parse failure can take.
type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	UnexpectedTokenList
	UnclosedBlock
)

// ParseError is the sole error type the parser raises. The parser is
// fail-fast: it stops at the first one instead of trying to recover and
// resynchronize.
type ParseError struct {
	Kind     ParseErrorKind
	Expected []token.Kind
	Found    token.Token
	At       token.Span
}

func (e *ParseError) Span() token.Span { return e.At }

func (e *ParseError) Code() string {
	switch e.Kind {
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnexpectedTokenList:
		return "UnexpectedTokenList"
	case UnclosedBlock:
		return "UnclosedBlock"
	default:
		return "ParseError"
	}
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("expected %s, found %s %q", e.Expected[0], e.Found.Kind, e.Found.Lexeme())
	case UnexpectedTokenList:
		names := make([]string, len(e.Expected))
		for i, k := range e.Expected {
			names[i] = k.String()
		}
		return fmt.Sprintf("expected one of [%s], found %s %q", strings.Join(names, ", "), e.Found.Kind, e.Found.Lexeme())
	case UnclosedBlock:
		return "unclosed block: reached end of file before '}'"
	default:
		return "parse error"
	}
}

func errUnexpected(expected token.Kind, found token.Token) *ParseError {
	return &ParseError{Kind: UnexpectedToken, Expected: []token.Kind{expected}, Found: found, At: found.Span}
}

func errUnexpectedAny(expected []token.Kind, found token.Token) *ParseError {
	return &ParseError{Kind: UnexpectedTokenList, Expected: expected, Found: found, At: found.Span}
}

func errUnclosedBlock(found token.Token) *ParseError {
	return &ParseError{Kind: UnclosedBlock, Found: found, At: found.Span}
}
