package semantic

import (
	"strings"
	"testing"

	"github.com/girogio/parlc-sub000/internal/lexer"
	"github.com/girogio/parlc-sub000/internal/parser"
	"github.com/google/go-cmp/cmp"
)

func analyze(t *testing.T, input string) Result {
	t.Helper()
	tokens, errs := lexer.Lex(input)
	if len(errs) > 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}
	prog, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return Analyze(prog)
}

func errorCodes(r Result) []string {
	var codes []string
	for _, e := range r.Errors {
		codes = append(codes, e.Code())
	}
	return codes
}

func warningCodes(r Result) []string {
	var codes []string
	for _, w := range r.Warnings {
		codes = append(codes, w.Code())
	}
	return codes
}

// expectCodes checks the exact error-code sequence (and no warnings unless
// listed).
func expectCodes(t *testing.T, input string, wantErrors, wantWarnings []string) {
	t.Helper()
	r := analyze(t, input)
	if diff := cmp.Diff(wantErrors, errorCodes(r)); diff != "" {
		t.Errorf("%q error codes mismatch (-want +got):\n%s", input, diff)
	}
	if diff := cmp.Diff(wantWarnings, warningCodes(r)); diff != "" {
		t.Errorf("%q warning codes mismatch (-want +got):\n%s", input, diff)
	}
}

func TestValidPrograms(t *testing.T) {
	for _, input := range []string{
		"let x: int = 5; __print x;",
		"let x: float = 1 + 2.0;",
		"let c: colour = #FF0000 + #0000FF;",
		"let b: bool = 1 < 2.0;",
		"let b: bool = true and false;",
		"let b: bool = true < false;",
		"let b: bool = #FF0000 == #00FF00;",
		"let n: int = 7 % 2;",
		"let n: int = -5;",
		"let b: bool = not true;",
		"let w: int = __width; let h: int = __height;",
		"let p: int = __read 1, 2;",
		"let r: int = __randi 100;",
		"__write 0, 0, #FF0000;",
		"__write_box 0, 0, 4, 4, #00FF00;",
		"__clear #000000;",
		"__delay 16;",
		"let a: int[3] = [1, 2, 3]; let v: int = a[0];",
		"if (true) { __print 1; } else { __print 2; }",
		"while (false) { __print 1; }",
		"for (let i: int = 0; i < 3; i = i + 1) { __print i; }",
		"fun double(n: int) -> int { return n * 2; } __print double(4);",
		"fun f(n: int) -> int { if (n == 0) { return 1; } return n * f(n - 1); } __print f(5);",
		"fun first(xs: int[3]) -> int { return xs[0]; } let a: int[3] = [1, 2, 3]; __print first(a);",
	} {
		expectCodes(t, input, nil, nil)
	}
}

func TestCasts(t *testing.T) {
	for _, input := range []string{
		"let a: float = 1 as float;",
		"let b: int = #FF0000 as int;",
		"let c: int = true as int;",
		"let d: colour = 255 as colour;",
		"let e: float = false as float;",
		"let f: int = 1 as int;",
	} {
		expectCodes(t, input, nil, nil)
	}

	expectCodes(t, "let g: int = 1.5 as int;", []string{"InvalidCast"}, nil)
	expectCodes(t, "let h: colour = 1.5 as colour;", []string{"InvalidCast"}, nil)
	expectCodes(t, "let i: bool = 1 as bool;", []string{"InvalidCast"}, nil)
}

func TestTypeMismatches(t *testing.T) {
	expectCodes(t, "let x: int = 3.14;", []string{"TypeMismatch"}, nil)
	expectCodes(t, "let x: int = 1; x = 2.0;", []string{"TypeMismatch"}, nil)
	expectCodes(t, "if (1) { }", []string{"TypeMismatch"}, nil)
	expectCodes(t, "while (1) { }", []string{"TypeMismatch"}, nil)
	expectCodes(t, "__delay 1.0;", []string{"TypeMismatch"}, nil)
	expectCodes(t, "__clear 5;", []string{"TypeMismatch"}, nil)
	expectCodes(t, "__write 1, 2, 3;", []string{"TypeMismatch"}, nil)
	expectCodes(t, "__write_box 1, 2.0, 3, 4, #FF0000;", []string{"TypeMismatch"}, nil)
}

func TestInvalidOperations(t *testing.T) {
	expectCodes(t, "let x: bool = true + false;", []string{"InvalidOperation"}, nil)
	expectCodes(t, "let x: int = 1 % 2.0;", []string{"InvalidOperation"}, nil)
	expectCodes(t, "let x: bool = 1 and 2;", []string{"InvalidOperation"}, nil)
	expectCodes(t, "let x: bool = -true;", []string{"InvalidOperation"}, nil)
	expectCodes(t, "let x: bool = not 1;", []string{"InvalidOperation"}, nil)
	expectCodes(t, "let x: bool = 1 == #FF0000;", []string{"InvalidOperation"}, nil)
}

func TestScopeRules(t *testing.T) {
	expectCodes(t, "let x: int = y;", []string{"UndefinedVariable"}, nil)
	expectCodes(t, "let x: int = 1; let x: int = 2;", []string{"VariableRedeclaration"}, nil)
	expectCodes(t, "y = 1;", []string{"UndefinedVariable"}, nil)
	// The call types as Unknown, so __print flags it too.
	expectCodes(t, "__print f(1);", []string{"UndefinedFunction", "TypeMismatchUnion"}, nil)
	expectCodes(t,
		"fun f() -> int { return 1; } fun f() -> int { return 2; }",
		[]string{"FunctionAlreadyDefined"}, nil)

	// Shadowing across nested scopes is legal but warned about, once.
	expectCodes(t, "let x: int = 1; { let x: float = 1.0; }",
		nil, []string{"VariableShadowing"})
}

func TestFunctionScopeDiscipline(t *testing.T) {
	// Module-level variables are not visible inside function bodies.
	expectCodes(t,
		"let g: int = 1; fun f() -> int { let x: int = g; return 1; } __print f();",
		[]string{"VarUndefinedInFunc"}, nil)

	// Parameters and locals are.
	expectCodes(t,
		"fun f(n: int) -> int { let m: int = n + 1; return m; } __print f(1);",
		nil, nil)
}

func TestFunctionRules(t *testing.T) {
	expectCodes(t, "fun f() -> int { return 1.5; }",
		[]string{"FunctionReturnTypeMismatch"}, nil)
	expectCodes(t, "fun f() -> int { return 1; } __print f(1);",
		[]string{"FunctionCallNoParams"}, nil)
	expectCodes(t, "fun add(a: int, b: int) -> int { return a + b; } __print add(1);",
		[]string{"FunctionArityMismatch"}, nil)
	expectCodes(t, "fun add(a: int, b: int) -> int { return a + b; } __print add(1, 2, 3);",
		[]string{"FunctionArityMismatch"}, nil)
	expectCodes(t, "fun f(n: int) -> int { return n; } __print f(1.5);",
		[]string{"TypeMismatch"}, nil)
}

func TestArrayRules(t *testing.T) {
	expectCodes(t, "let a: int[2] = [1, 2, 3];", []string{"ArrayOverflow"}, nil)
	expectCodes(t, "let a: int[3] = [1, 2.0];", []string{"TypeMismatch"}, nil)
	expectCodes(t, "let a: int[3] = [1, 2, 3]; let v: int = a[1.5];",
		[]string{"ArrayIndexNotInt"}, nil)
	expectCodes(t, "let a: int[3] = [1, 2, 3]; a[1.5] = 0;",
		[]string{"ArrayIndexNotInt"}, nil)
	expectCodes(t, "let a: int[3] = [1, 2, 3]; let v: float = a[0];",
		[]string{"TypeMismatch"}, nil)
}

func TestPrintRejectsUntypeableOperand(t *testing.T) {
	// An operand that already failed to type (Unknown) is still a __print
	// error, not just the underlying name error.
	expectCodes(t, "__print y;", []string{"UndefinedVariable", "TypeMismatchUnion"}, nil)
	expectCodes(t, "let x: int = 1; __print -x;", nil, nil)
}

func TestIfBranchReturnTypesMustAgree(t *testing.T) {
	expectCodes(t,
		"fun f(b: bool) -> int { if (b) { return 1; } else { __print 0; } return 2; }",
		[]string{"TypeMismatch"}, nil)
	expectCodes(t,
		"fun f(b: bool) -> int { if (b) { return 1; } else { return 2; } return 3; }",
		nil, nil)
}

func TestErrorsAccumulate(t *testing.T) {
	// The analyzer keeps going after an error instead of stopping at the
	// first one.
	r := analyze(t, "let x: int = 3.14; let y: bool = 1 and 2; __clear 5;")
	if len(r.Errors) != 3 {
		t.Errorf("expected 3 accumulated errors, got %d: %v", len(r.Errors), errorCodes(r))
	}
}

func TestUnknownSuppressesCascade(t *testing.T) {
	// y is undefined; the declaration using it must produce exactly one
	// error, not a second bogus TypeMismatch.
	r := analyze(t, "let x: int = y + 1;")
	if diff := cmp.Diff([]string{"UndefinedVariable"}, errorCodes(r)); diff != "" {
		t.Errorf("error codes mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestion(t *testing.T) {
	r := analyze(t, "let count: int = 1; let z: int = cout;")
	if len(r.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(r.Errors), errorCodes(r))
	}
	if !strings.Contains(r.Errors[0].Error(), `did you mean "count"`) {
		t.Errorf("error = %q, want a did-you-mean suggestion for count", r.Errors[0].Error())
	}
}
