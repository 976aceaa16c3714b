// Package token defines the lexical token vocabulary shared by the lexer,
// parser, semantic analyzer and code generator.
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

// Token kinds, grouped by role: structural, literal, operator, keyword,
// pad-primitive, and identifier.
const (
	Invalid Kind = iota
	EndOfFile
	Whitespace
	Newline
	Comment

	// Structural
	LBrace
	RBrace
	LParen
	RParen
	LBracket
	RBracket
	Semicolon
	Colon
	Comma
	Arrow
	Equals

	// Literals
	IntLiteral
	FloatLiteral
	BoolLiteral
	ColourLiteral

	// Operators
	Plus
	Minus
	Multiply
	Divide
	Mod
	EqEq
	NotEqual
	LessThan
	LessThanEqual
	GreaterThan
	GreaterThanEqual
	And
	Or
	Not

	// Keywords
	Let
	If
	Else
	For
	While
	Function
	Return
	As
	Type

	// Pad primitives
	PadWidth
	PadHeight
	PadRead
	PadRandI
	PadWrite
	PadWriteBox
	PadClear
	Delay
	Print

	Identifier
)

var kindNames = map[Kind]string{
	Invalid:          "Invalid",
	EndOfFile:        "EndOfFile",
	Whitespace:       "Whitespace",
	Newline:          "Newline",
	Comment:          "Comment",
	LBrace:           "LBrace",
	RBrace:           "RBrace",
	LParen:           "LParen",
	RParen:           "RParen",
	LBracket:         "LBracket",
	RBracket:         "RBracket",
	Semicolon:        "Semicolon",
	Colon:            "Colon",
	Comma:            "Comma",
	Arrow:            "Arrow",
	Equals:           "Equals",
	IntLiteral:       "IntLiteral",
	FloatLiteral:     "FloatLiteral",
	BoolLiteral:      "BoolLiteral",
	ColourLiteral:    "ColourLiteral",
	Plus:             "Plus",
	Minus:            "Minus",
	Multiply:         "Multiply",
	Divide:           "Divide",
	Mod:              "Mod",
	EqEq:             "EqEq",
	NotEqual:         "NotEqual",
	LessThan:         "LessThan",
	LessThanEqual:    "LessThanEqual",
	GreaterThan:      "GreaterThan",
	GreaterThanEqual: "GreaterThanEqual",
	And:              "And",
	Or:               "Or",
	Not:              "Not",
	Let:              "Let",
	If:               "If",
	Else:             "Else",
	For:              "For",
	While:            "While",
	Function:         "Function",
	Return:           "Return",
	As:               "As",
	Type:             "Type",
	PadWidth:         "PadWidth",
	PadHeight:        "PadHeight",
	PadRead:          "PadRead",
	PadRandI:         "PadRandI",
	PadWrite:         "PadWrite",
	PadWriteBox:      "PadWriteBox",
	PadClear:         "PadClear",
	Delay:            "Delay",
	Print:            "Print",
	Identifier:       "Identifier",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Span is a half-open source range plus the lexeme it covers. Lines and
// columns are 1-based. A Span is immutable once constructed.
type Span struct {
	Lexeme   string
	FromLine int
	FromCol  int
	ToLine   int
	ToCol    int
}

// NewSpan builds a Span covering the given lexeme.
func NewSpan(fromLine, fromCol, toLine, toCol int, lexeme string) Span {
	return Span{
		FromLine: fromLine,
		FromCol:  fromCol,
		ToLine:   toLine,
		ToCol:    toCol,
		Lexeme:   lexeme,
	}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.FromLine, s.FromCol)
}

// Token is a tagged kind plus the span of source it was lexed from.
type Token struct {
	Span Span
	Kind Kind
}

// New builds a Token.
func New(kind Kind, span Span) Token {
	return Token{Kind: kind, Span: span}
}

// Lexeme is a convenience accessor for the token's source text.
func (t Token) Lexeme() string {
	return t.Span.Lexeme
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Span.Lexeme, t.Span)
}
