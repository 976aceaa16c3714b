package lexer

import (
	"strings"
	"testing"

	"github.com/girogio/parlc-sub000/pkg/token"
	"github.com/google/go-cmp/cmp"
)

// tokPair is the shape the stream tests compare against: just kind and
// lexeme, since positions get their own tests.
type tokPair struct {
	Kind   token.Kind
	Lexeme string
}

func lexPairs(t *testing.T, input string) []tokPair {
	t.Helper()
	tokens, errs := Lex(input)
	if len(errs) > 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}
	pairs := make([]tokPair, len(tokens))
	for i, tok := range tokens {
		pairs[i] = tokPair{Kind: tok.Kind, Lexeme: tok.Lexeme()}
	}
	return pairs
}

func TestLexSimpleProgram(t *testing.T) {
	input := "let x: int = 5;\n__print x;\n"

	want := []tokPair{
		{token.Let, "let"},
		{token.Identifier, "x"},
		{token.Colon, ":"},
		{token.Type, "int"},
		{token.Equals, "="},
		{token.IntLiteral, "5"},
		{token.Semicolon, ";"},
		{token.Print, "__print"},
		{token.Identifier, "x"},
		{token.Semicolon, ";"},
		{token.EndOfFile, ""},
	}

	if diff := cmp.Diff(want, lexPairs(t, input)); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestMaximalMunch(t *testing.T) {
	input := "<= >= == != -> < > = - !="

	want := []tokPair{
		{token.LessThanEqual, "<="},
		{token.GreaterThanEqual, ">="},
		{token.EqEq, "=="},
		{token.NotEqual, "!="},
		{token.Arrow, "->"},
		{token.LessThan, "<"},
		{token.GreaterThan, ">"},
		{token.Equals, "="},
		{token.Minus, "-"},
		{token.NotEqual, "!="},
		{token.EndOfFile, ""},
	}

	if diff := cmp.Diff(want, lexPairs(t, input)); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestKeywords(t *testing.T) {
	input := "__write_box __write __read __randi __width __height __clear __delay __print " +
		"let if else for while fun return as and or not int float bool colour true false"

	want := []tokPair{
		{token.PadWriteBox, "__write_box"},
		{token.PadWrite, "__write"},
		{token.PadRead, "__read"},
		{token.PadRandI, "__randi"},
		{token.PadWidth, "__width"},
		{token.PadHeight, "__height"},
		{token.PadClear, "__clear"},
		{token.Delay, "__delay"},
		{token.Print, "__print"},
		{token.Let, "let"},
		{token.If, "if"},
		{token.Else, "else"},
		{token.For, "for"},
		{token.While, "while"},
		{token.Function, "fun"},
		{token.Return, "return"},
		{token.As, "as"},
		{token.And, "and"},
		{token.Or, "or"},
		{token.Not, "not"},
		{token.Type, "int"},
		{token.Type, "float"},
		{token.Type, "bool"},
		{token.Type, "colour"},
		{token.BoolLiteral, "true"},
		{token.BoolLiteral, "false"},
		{token.EndOfFile, ""},
	}

	if diff := cmp.Diff(want, lexPairs(t, input)); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestIdentifiersAndLiterals(t *testing.T) {
	input := "_foo bar9 deadbeef 42 3.14 #ABCDEF #abc123"

	want := []tokPair{
		{token.Identifier, "_foo"},
		{token.Identifier, "bar9"},
		{token.Identifier, "deadbeef"},
		{token.IntLiteral, "42"},
		{token.FloatLiteral, "3.14"},
		{token.ColourLiteral, "#ABCDEF"},
		{token.ColourLiteral, "#abc123"},
		{token.EndOfFile, ""},
	}

	if diff := cmp.Diff(want, lexPairs(t, input)); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestColourLiteralTooShort(t *testing.T) {
	tokens, errs := Lex("#ABCDE;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 lexical error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != InvalidCharacter {
		t.Errorf("error kind = %s, want InvalidCharacter", errs[0].Kind)
	}
	// Recovery resumes one character past the '#'.
	if tokens[0].Kind != token.Identifier || tokens[0].Lexeme() != "ABCDE" {
		t.Errorf("recovered token = %v, want Identifier \"ABCDE\"", tokens[0])
	}
}

func TestColourLiteralTooLong(t *testing.T) {
	_, errs := Lex("#ABCDEFG")
	if len(errs) != 1 {
		t.Fatalf("expected 1 lexical error, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "colour literal") {
		t.Errorf("error = %q, want a malformed colour literal message", errs[0].Error())
	}
}

func TestComments(t *testing.T) {
	want := []tokPair{
		{token.Let, "let"},
		{token.EndOfFile, ""},
	}

	for _, input := range []string{
		"// hello\nlet",
		"/* hello */ let",
		"/* multi\nline */ let",
		"/* ** */ let",
		"let // trailing comment with no newline",
	} {
		if diff := cmp.Diff(want, lexPairs(t, input)); diff != "" {
			t.Errorf("%q token stream mismatch (-want +got):\n%s", input, diff)
		}
	}
}

func TestBlockCommentTerminatesAtFirstClose(t *testing.T) {
	// "*/*/" inside a block comment: the comment ends at the first "*/",
	// leaving "*" and "/" as ordinary operator tokens.
	want := []tokPair{
		{token.Multiply, "*"},
		{token.Divide, "/"},
		{token.EndOfFile, ""},
	}
	if diff := cmp.Diff(want, lexPairs(t, "/*x*/*/")); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	for _, input := range []string{"/*", "/* abc", "/* abc *", "let x /* tail"} {
		_, errs := Lex(input)
		if len(errs) != 1 {
			t.Fatalf("%q: expected 1 lexical error, got %d: %v", input, len(errs), errs)
		}
		if errs[0].Kind != UnterminatedBlockComment {
			t.Errorf("%q: error kind = %s, want UnterminatedBlockComment", input, errs[0].Kind)
		}
	}
}

func TestInvalidCharacter(t *testing.T) {
	tokens, errs := Lex("let $ x")
	if len(errs) != 1 {
		t.Fatalf("expected 1 lexical error, got %d: %v", len(errs), errs)
	}
	if errs[0].Kind != InvalidCharacter {
		t.Errorf("error kind = %s, want InvalidCharacter", errs[0].Kind)
	}

	want := []tokPair{
		{token.Let, "let"},
		{token.Identifier, "x"},
		{token.EndOfFile, ""},
	}
	var got []tokPair
	for _, tok := range tokens {
		got = append(got, tokPair{Kind: tok.Kind, Lexeme: tok.Lexeme()})
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("recovery token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestDanglingFloatDot(t *testing.T) {
	// "3." rolls back to the integer; the bare '.' is then an invalid
	// character of its own.
	tokens, errs := Lex("3.;")
	if len(errs) != 1 {
		t.Fatalf("expected 1 lexical error, got %d: %v", len(errs), errs)
	}
	want := []tokPair{
		{token.IntLiteral, "3"},
		{token.Semicolon, ";"},
		{token.EndOfFile, ""},
	}
	var got []tokPair
	for _, tok := range tokens {
		got = append(got, tokPair{Kind: tok.Kind, Lexeme: tok.Lexeme()})
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

// TestUnfilteredRoundTrip checks the reconstruction invariant: before
// filtering, the concatenation of every emitted lexeme (whitespace,
// newlines and comments included) reproduces the source exactly.
func TestUnfilteredRoundTrip(t *testing.T) {
	input := "let x: int = 5; // five\n/* block\ncomment */\nlet y: float = 1.0;\n__print x + 1;\n"

	l := NewLexer(input)
	var sb strings.Builder
	for {
		tok, err := l.scanToken()
		if err != nil {
			t.Fatalf("unexpected lexical error: %v", err)
		}
		sb.WriteString(tok.Lexeme())
		if tok.Kind == token.EndOfFile {
			break
		}
	}

	if sb.String() != input {
		t.Errorf("concatenated lexemes do not reproduce the source:\ngot  %q\nwant %q", sb.String(), input)
	}
}

// TestTokenPositionsIncrease checks that successive tokens' start positions
// strictly increase in source order.
func TestTokenPositionsIncrease(t *testing.T) {
	input := "let x: int = 5;\nlet y: int = 6;\n__print x;\n"
	tokens, errs := Lex(input)
	if len(errs) > 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}

	for i := 1; i < len(tokens); i++ {
		prev, cur := tokens[i-1].Span, tokens[i].Span
		if cur.FromLine < prev.FromLine ||
			(cur.FromLine == prev.FromLine && cur.FromCol <= prev.FromCol) {
			t.Errorf("token %d at %d:%d does not advance past token %d at %d:%d",
				i, cur.FromLine, cur.FromCol, i-1, prev.FromLine, prev.FromCol)
		}
	}
}

func TestRelexIdempotence(t *testing.T) {
	input := "fun f(n: int) -> int { return n * 2; }"

	first, errs := Lex(input)
	if len(errs) > 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}

	var sb strings.Builder
	l := NewLexer(input)
	for {
		tok, err := l.scanToken()
		if err != nil {
			t.Fatalf("unexpected lexical error: %v", err)
		}
		sb.WriteString(tok.Lexeme())
		if tok.Kind == token.EndOfFile {
			break
		}
	}

	second, errs := Lex(sb.String())
	if len(errs) > 0 {
		t.Fatalf("unexpected lexical errors on re-lex: %v", errs)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-lexing the reconstructed source changed the stream (-first +second):\n%s", diff)
	}
}
