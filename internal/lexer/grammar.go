package lexer

import "github.com/girogio/parlc-sub000/pkg/token"

// AddCommentFunctionality wires '/' as either Divide (alone), a line comment
// ("//" up to newline or EOF) or a block comment ("/* ... */", non-nesting).
// An unclosed block comment at EOF lands in ErrorState: the transition table
// has no exit from the in-comment state on Eof.
func (b *Builder) AddCommentFunctionality() *Builder {
	b.AddCategory([]rune{'/'}, Slash).
		AddCategory([]rune{'*'}, Asterisk).
		Transition().
		To(Slash).
		GoesTo(token.Divide).
		Done()

	slashState := b.maxState
	commentKind := token.Comment

	inBlockComment := b.AutoAddTransition(slashState, Asterisk, nil, nil)
	closing := b.AutoAddTransition(inBlockComment, Asterisk, nil, nil)
	// A run of asterisks keeps the close pending: "/* ** */" ends at the
	// first "*/" after the run.
	b.AddTransition(closing, []Category{Asterisk}, closing)
	b.AutoAddTransition(inBlockComment, Any, &inBlockComment, nil)
	b.AutoAddTransition(closing, Slash, nil, &commentKind)
	b.AutoAddTransition(closing, Any, &inBlockComment, nil)
	// End of input inside "/* ... */" has no transition out of these two
	// states; the recognizer reports UnterminatedBlockComment when the scan
	// dies there instead of rolling back to the leading '/'.
	b.MarkBlockComment(inBlockComment, closing)

	// The line-comment interior is itself accepting: a comment on the last
	// line of a file needs no trailing newline.
	lineComment := b.AutoAddTransition(slashState, Slash, nil, &commentKind)
	b.AutoAddTransition(lineComment, Any, &lineComment, nil)
	b.AutoAddTransition(lineComment, Newline, nil, &commentKind)

	return b
}

// AddIdentifierLogic wires (letter|underscore)(letter|underscore|digit)*.
func (b *Builder) AddIdentifierLogic() *Builder {
	b.AddCategory([]rune{'_'}, Underscore)

	b.Transition().
		To(Letter, HexAndLetter, Underscore).
		GoesTo(token.Identifier).
		To(Letter, HexAndLetter, Underscore, Digit).
		Repeated().
		GoesTo(token.Identifier).
		Done()

	return b
}

// AddNumberLogic wires digit+ (IntLiteral), digit+ '.' digit+ (FloatLiteral)
// and '#' hexdigit{6} (ColourLiteral).
func (b *Builder) AddNumberLogic() *Builder {
	b.AddCategory([]rune{'.'}, Period)

	b.Transition().
		To(Digit).
		Repeated().
		GoesTo(token.IntLiteral).
		To(Period).
		To(Digit).
		Repeated().
		GoesTo(token.FloatLiteral).
		Done()

	b.AddCategory([]rune{'#'}, Hashtag)

	b.Transition().
		To(Hashtag).
		To(Digit, HexAndLetter).
		To(Digit, HexAndLetter).
		To(Digit, HexAndLetter).
		To(Digit, HexAndLetter).
		To(Digit, HexAndLetter).
		To(Digit, HexAndLetter).
		GoesTo(token.ColourLiteral).
		Done()

	return b
}

// AddWhitespaceLogic wires (' '|'\t')+.
func (b *Builder) AddWhitespaceLogic() *Builder {
	b.AddCategory([]rune{' ', '\t'}, Whitespace)

	b.Transition().
		To(Whitespace).
		Repeated().
		GoesTo(token.Whitespace).
		Done()

	return b
}

// AddMultiCharRelOps wires the two-character operators ("<=", "->", ">=",
// "==", "!=") ahead of their one-character prefixes, so maximal munch picks
// the longer match.
func (b *Builder) AddMultiCharRelOps() *Builder {
	b.AddCategory([]rune{'<'}, LessThan).
		AddCategory([]rune{'>'}, GreaterThan).
		AddCategory([]rune{'='}, Equals).
		AddCategory([]rune{'!'}, Exclamation).
		AddCategory([]rune{'-'}, Minus)

	b.Transition().
		To(LessThan).
		GoesTo(token.LessThan).
		To(Equals).
		GoesTo(token.LessThanEqual).
		Done()

	b.Transition().
		To(Minus).
		GoesTo(token.Minus).
		To(GreaterThan).
		GoesTo(token.Arrow).
		Done()

	b.Transition().
		To(GreaterThan).
		GoesTo(token.GreaterThan).
		To(Equals).
		GoesTo(token.GreaterThanEqual).
		Done()

	b.Transition().
		To(Equals).
		GoesTo(token.Equals).
		To(Equals).
		GoesTo(token.EqEq).
		Done()

	b.Transition().
		To(Exclamation).
		To(Equals).
		GoesTo(token.NotEqual).
		Done()

	return b
}

// NewDFA builds the complete DFA for the source language: structural
// single-character symbols, whitespace, comments, relational operators,
// identifiers and numeric/colour literals.
func NewDFA() *DFA {
	b := NewBuilder()

	b.AddCategoryRange('a', 'f', HexAndLetter).
		AddCategoryRange('A', 'F', HexAndLetter).
		AddCategoryRange('g', 'z', Letter).
		AddCategoryRange('G', 'Z', Letter).
		AddCategoryRange('0', '9', Digit).
		AddMultipleSingleFinalCharacterSymbols([]finalCharSymbol{
			{'\n', Newline, token.Newline},
			{'{', LBrace, token.LBrace},
			{'}', RBrace, token.RBrace},
			{'(', LParen, token.LParen},
			{')', RParen, token.RParen},
			{'[', LBracket, token.LBracket},
			{']', RBracket, token.RBracket},
			{';', Semicolon, token.Semicolon},
			{':', Colon, token.Colon},
			{'+', Plus, token.Plus},
			{'*', Asterisk, token.Multiply},
			{',', Comma, token.Comma},
			{0, Eof, token.EndOfFile},
			{'%', Percent, token.Mod},
		}).
		AddWhitespaceLogic().
		AddCommentFunctionality().
		AddMultiCharRelOps().
		AddIdentifierLogic().
		AddNumberLogic()

	return b.Build()
}
