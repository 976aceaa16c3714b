package lexer

import "github.com/girogio/parlc-sub000/pkg/token"

// keywords reclassifies an Identifier token whose lexeme matches a reserved
// word. This is a post-pass over the DFA's output rather than part of the
// transition table itself: it lets "__write_box" win over "__write" (and any
// future keyword over any prefix of it) by comparing the whole lexeme,
// instead of fighting the DFA's maximal-munch rule with extra states.
var keywords = map[string]token.Kind{
	"__delay":     token.Delay,
	"__height":    token.PadHeight,
	"__print":     token.Print,
	"__randi":     token.PadRandI,
	"__read":      token.PadRead,
	"__width":     token.PadWidth,
	"__clear":     token.PadClear,
	"__write_box": token.PadWriteBox,
	"__write":     token.PadWrite,

	"and":    token.And,
	"as":     token.As,
	"else":   token.Else,
	"for":    token.For,
	"fun":    token.Function,
	"if":     token.If,
	"let":    token.Let,
	"not":    token.Not,
	"or":     token.Or,
	"return": token.Return,
	"while":  token.While,

	"int":    token.Type,
	"float":  token.Type,
	"bool":   token.Type,
	"colour": token.Type,

	"true":  token.BoolLiteral,
	"false": token.BoolLiteral,
}

// keywordKind returns the reserved-word kind for lexeme with ok true, or the
// zero Kind (token.Invalid) with ok false if lexeme is an ordinary
// identifier.
func keywordKind(lexeme string) (token.Kind, bool) {
	k, ok := keywords[lexeme]
	return k, ok
}
