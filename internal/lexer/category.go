package lexer

// Category is the reduced character alphabet the DFA transitions on. Every
// rune maps to exactly one Category via the character table built up by
// Builder; a rune with no explicit mapping falls back to Other.
type Category int

const (
	Other Category = iota
	Any
	Letter
	HexAndLetter
	Digit
	Underscore
	Period
	Hashtag
	LessThan
	GreaterThan
	Equals
	Exclamation
	Minus
	Plus
	Slash
	Asterisk
	Percent
	Newline
	Whitespace
	LBrace
	RBrace
	LParen
	RParen
	LBracket
	RBracket
	Semicolon
	Colon
	Comma
	Eof
)
