// Package lexer turns source text into a token stream using a table-driven
// DFA built by Builder/transitionStep (see dfa.go, transition.go, grammar.go)
// and a maximal-munch recognizer modeled on a rollback buffer (buffer.go).
package lexer

import "github.com/girogio/parlc-sub000/pkg/token"

// Lexer drives the DFA over a buffer, producing one token (or one error) per
// call to scanToken.
type Lexer struct {
	buf *buffer
	dfa *DFA
}

// NewLexer creates a Lexer over source using the language's DFA.
func NewLexer(source string) *Lexer {
	return &Lexer{buf: newBuffer(source), dfa: NewDFA()}
}

// acceptPoint records a position in the scan where the DFA was in an
// accepting state, so the recognizer can roll back to it on overshoot.
type acceptPoint struct {
	state  int
	length int
}

// scanToken recognizes exactly one token (or one lexical error) starting at
// the buffer's current position, using maximal munch: it keeps consuming
// characters past the last accepting state, then rolls back to that state
// once a transition is undefined.
func (l *Lexer) scanToken() (token.Token, *LexError) {
	startLine, startCol := l.buf.line1(), l.buf.col1()
	state := l.dfa.StartState()

	var lexeme []rune
	last := acceptPoint{state: l.dfa.BadState(), length: -1}

	for {
		r := l.buf.peek()
		cat := l.dfa.CategoryOf(r)
		next := l.dfa.Delta(state, cat)
		if next == l.dfa.ErrorState() {
			break
		}
		l.buf.next()
		lexeme = append(lexeme, r)
		state = next
		if l.dfa.IsAccepting(state) {
			last = acceptPoint{state: state, length: len(lexeme)}
		}
	}

	// Dying inside a block comment means the input ended before "*/"; the
	// '/' that opened it must not be resurrected as a Divide token.
	if l.buf.isEOF() && l.dfa.InBlockComment(state) {
		span := token.NewSpan(startLine, startCol, l.buf.line1(), l.buf.col1(), string(lexeme))
		return token.Token{}, newUnterminatedBlockComment(span)
	}

	if last.length == -1 {
		if len(lexeme) == 0 {
			r := l.buf.next()
			span := token.NewSpan(startLine, startCol, l.buf.line1(), l.buf.col1(), string(r))
			return token.Token{}, newInvalidCharacter(r, span)
		}
		// No state ever accepted: report the first character and rewind to
		// just past it, so the scan resumes one character later.
		for i := len(lexeme) - 1; i > 0; i-- {
			l.buf.rollback()
		}
		span := token.NewSpan(startLine, startCol, l.buf.line1(), l.buf.col1(), string(lexeme[0]))
		return token.Token{}, newInvalidCharacter(lexeme[0], span)
	}

	for i := len(lexeme) - last.length; i > 0; i-- {
		l.buf.rollback()
	}
	lexeme = lexeme[:last.length]

	kind := l.dfa.TokenKind(last.state)
	text := string(lexeme)
	if kind == token.Identifier {
		if kw, ok := keywordKind(text); ok {
			kind = kw
		}
	}
	if kind == token.ColourLiteral {
		// A colour literal is exactly six hex digits; a seventh
		// identifier-ish character glues into a malformed literal rather
		// than starting a fresh token ("#ABCDEFG" is an error, not
		// "#ABCDEF" followed by "G").
		if r := l.buf.peek(); isColourTail(l.dfa.CategoryOf(r)) {
			l.buf.next()
			bad := text + string(r)
			span := token.NewSpan(startLine, startCol, l.buf.line1(), l.buf.col1(), bad)
			return token.Token{}, newMalformedColourLiteral(bad, span)
		}
	}
	if kind == token.EndOfFile {
		text = ""
	}

	span := token.NewSpan(startLine, startCol, l.buf.line1(), l.buf.col1(), text)
	return token.New(kind, span), nil
}

func isColourTail(c Category) bool {
	switch c {
	case Digit, HexAndLetter, Letter, Underscore:
		return true
	}
	return false
}

// Lex tokenizes source completely. It is fail-slow: a lexical error does not
// stop the scan, it just skips the offending character and keeps going, so a
// single run reports every invalid character (and any unterminated block
// comment) in the file. Whitespace, newlines and comments are discarded; the
// returned slice always ends with exactly one EndOfFile token.
func Lex(source string) ([]token.Token, []*LexError) {
	l := NewLexer(source)

	var tokens []token.Token
	var errs []*LexError

	for {
		tok, err := l.scanToken()
		if err != nil {
			errs = append(errs, err)
			continue
		}

		switch tok.Kind {
		case token.Whitespace, token.Newline, token.Comment:
			continue
		}

		tokens = append(tokens, tok)
		if tok.Kind == token.EndOfFile {
			break
		}
	}

	return tokens, errs
}
