package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/girogio/parlc-sub000/internal/ast"
	"github.com/girogio/parlc-sub000/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	tokens, errs := lexer.Lex(input)
	if len(errs) > 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}
	prog, err := Parse(tokens)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return prog
}

func parseError(t *testing.T, input string) *ParseError {
	t.Helper()
	tokens, errs := lexer.Lex(input)
	if len(errs) > 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}
	_, err := Parse(tokens)
	if err == nil {
		t.Fatalf("expected a parse error, got none")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error has type %T, want *ParseError", err)
	}
	return perr
}

// exprString renders an expression tree as an s-expression so precedence
// and associativity tests can assert the exact shape in one line.
func exprString(n ast.Node) string {
	switch e := n.(type) {
	case *ast.BinOp:
		return fmt.Sprintf("(%s %s %s)", e.Op.Lexeme(), exprString(e.Left), exprString(e.Right))
	case *ast.UnaryOp:
		return fmt.Sprintf("(%s %s)", e.Op.Lexeme(), exprString(e.Expr))
	case *ast.Expression:
		if e.CastedType != nil {
			return fmt.Sprintf("(as %s %s)", e.CastedType.Lexeme(), exprString(e.Expr))
		}
		return exprString(e.Expr)
	case *ast.SubExpression:
		return exprString(e.Inner)
	case *ast.Identifier:
		return e.Tok.Lexeme()
	case *ast.IntLiteral:
		return e.Tok.Lexeme()
	case *ast.FloatLiteral:
		return e.Tok.Lexeme()
	case *ast.BoolLiteral:
		return e.Tok.Lexeme()
	case *ast.ColourLiteral:
		return e.Tok.Lexeme()
	case *ast.FunctionCall:
		parts := make([]string, 0, len(e.Args)+1)
		parts = append(parts, "call "+e.ID.Lexeme())
		for _, a := range e.Args {
			parts = append(parts, exprString(a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *ast.ArrayAccess:
		return fmt.Sprintf("(index %s %s)", e.ID.Lexeme(), exprString(e.Index))
	case *ast.PadWidth:
		return "(width)"
	case *ast.PadHeight:
		return "(height)"
	case *ast.PadRead:
		return fmt.Sprintf("(read %s %s)", exprString(e.X), exprString(e.Y))
	case *ast.PadRandI:
		return fmt.Sprintf("(randi %s)", exprString(e.Upper))
	default:
		return fmt.Sprintf("<%T>", n)
	}
}

// firstExpr extracts the expression of the program's sole statement, which
// must be a var-decl or an expression statement.
func firstExpr(t *testing.T, input string) ast.Node {
	t.Helper()
	prog := parseProgram(t, input)
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected exactly 1 statement, got %d", len(prog.Stmts))
	}
	switch s := prog.Stmts[0].(type) {
	case *ast.VarDec:
		return s.Expr
	case *ast.Expression:
		return s.Expr
	default:
		t.Fatalf("statement has type %T, want VarDec or Expression", s)
		return nil
	}
}

func TestPrecedenceAndAssociativity(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a + b * c;", "(+ a (* b c))"},
		{"a * b + c;", "(+ (* a b) c)"},
		{"a - b - c;", "(- a (- b c))"},
		{"a / b / c;", "(/ a (/ b c))"},
		{"a % b;", "(% a b)"},
		{"a < b + c;", "(< a (+ b c))"},
		{"a < b < c;", "(< a (< b c))"},
		{"a == b != c;", "(== a (!= b c))"},
		{"let x: bool = p or q and r;", "(or p (and q r))"},
		{"let x: int = a + b as int;", "(as int (+ a b))"},
		{"let x: float = (a + b) * c;", "(* (+ a b) c)"},
		{"let x: int = -a + b;", "(- (+ a b))"},
		{"let x: bool = not a or b;", "(not (or a b))"},
		{"let x: int = f(a, b + c);", "(call f a (+ b c))"},
		{"let x: int = xs[i + 1];", "(index xs (+ i 1))"},
		{"let x: int = __randi __width;", "(randi (width))"},
		{"let c: int = __read x, y;", "(read x y)"},
	}

	for _, tt := range tests {
		got := exprString(firstExpr(t, tt.input))
		if got != tt.want {
			t.Errorf("%q parsed as %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestVarDecl(t *testing.T) {
	prog := parseProgram(t, "let x: int = 5;")
	vd, ok := prog.Stmts[0].(*ast.VarDec)
	if !ok {
		t.Fatalf("statement has type %T, want *ast.VarDec", prog.Stmts[0])
	}
	if vd.ID.Lexeme() != "x" || vd.Type.Lexeme() != "int" {
		t.Errorf("got %s: %s, want x: int", vd.ID.Lexeme(), vd.Type.Lexeme())
	}
}

func TestVarDeclArray(t *testing.T) {
	prog := parseProgram(t, "let a: int[3] = [1, 2, 3];")
	vd, ok := prog.Stmts[0].(*ast.VarDecArray)
	if !ok {
		t.Fatalf("statement has type %T, want *ast.VarDecArray", prog.Stmts[0])
	}
	if vd.ID.Lexeme() != "a" || vd.ElemType.Lexeme() != "int" || vd.Size != 3 {
		t.Errorf("got %s: %s[%d], want a: int[3]", vd.ID.Lexeme(), vd.ElemType.Lexeme(), vd.Size)
	}
	if len(vd.Elems) != 3 {
		t.Errorf("got %d elements, want 3", len(vd.Elems))
	}
}

func TestAssignmentForms(t *testing.T) {
	prog := parseProgram(t, "x = 1; xs[0] = 2;")
	if len(prog.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Stmts))
	}

	plain := prog.Stmts[0].(*ast.Assignment)
	if plain.ID.Lexeme() != "x" || plain.Index != nil {
		t.Errorf("first assignment = %v, want plain x = ...", plain)
	}

	indexed := prog.Stmts[1].(*ast.Assignment)
	if indexed.ID.Lexeme() != "xs" || indexed.Index == nil {
		t.Errorf("second assignment = %v, want indexed xs[0] = ...", indexed)
	}
}

func TestFunctionDecl(t *testing.T) {
	prog := parseProgram(t, "fun f(n: int, xs: int[4]) -> float { return 1.0; }")
	fd, ok := prog.Stmts[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("statement has type %T, want *ast.FunctionDecl", prog.Stmts[0])
	}
	if fd.ID.Lexeme() != "f" || fd.ReturnType.Lexeme() != "float" {
		t.Errorf("got %s -> %s, want f -> float", fd.ID.Lexeme(), fd.ReturnType.Lexeme())
	}
	if len(fd.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fd.Params))
	}
	if fd.Params[0].Array || fd.Params[0].ID.Lexeme() != "n" {
		t.Errorf("param 0 = %v, want scalar n", fd.Params[0])
	}
	if !fd.Params[1].Array || fd.Params[1].Length != 4 {
		t.Errorf("param 1 = %v, want array of length 4", fd.Params[1])
	}
	if len(fd.Block.Stmts) != 1 {
		t.Errorf("body has %d statements, want 1", len(fd.Block.Stmts))
	}
}

func TestControlFlow(t *testing.T) {
	prog := parseProgram(t, `
if (x < 1) { __print 1; } else { __print 2; }
while (x < 10) { x = x + 1; }
for (let i: int = 0; i < 10; i = i + 1) { __print i; }
for (; x < 2;) { x = x + 1; }
`)
	if len(prog.Stmts) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(prog.Stmts))
	}

	ifStmt := prog.Stmts[0].(*ast.If)
	if ifStmt.IfFalse == nil {
		t.Errorf("if statement lost its else branch")
	}

	whileStmt := prog.Stmts[1].(*ast.While)
	if len(whileStmt.Body.Stmts) != 1 {
		t.Errorf("while body has %d statements, want 1", len(whileStmt.Body.Stmts))
	}

	forFull := prog.Stmts[2].(*ast.For)
	if forFull.Init == nil || forFull.Inc == nil {
		t.Errorf("for statement lost its init or increment clause")
	}

	forBare := prog.Stmts[3].(*ast.For)
	if forBare.Init != nil || forBare.Inc != nil {
		t.Errorf("bare for statement grew an init or increment clause")
	}
}

func TestPadStatements(t *testing.T) {
	prog := parseProgram(t, `
__write 1, 2, #FF0000;
__write_box 1, 2, 3, 4, #00FF00;
__clear #000000;
__delay 100;
__print 5;
`)
	if len(prog.Stmts) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(prog.Stmts))
	}
	if _, ok := prog.Stmts[0].(*ast.PadWrite); !ok {
		t.Errorf("statement 0 has type %T, want *ast.PadWrite", prog.Stmts[0])
	}
	if _, ok := prog.Stmts[1].(*ast.PadWriteBox); !ok {
		t.Errorf("statement 1 has type %T, want *ast.PadWriteBox", prog.Stmts[1])
	}
	if _, ok := prog.Stmts[2].(*ast.PadClear); !ok {
		t.Errorf("statement 2 has type %T, want *ast.PadClear", prog.Stmts[2])
	}
	if _, ok := prog.Stmts[3].(*ast.Delay); !ok {
		t.Errorf("statement 3 has type %T, want *ast.Delay", prog.Stmts[3])
	}
	if _, ok := prog.Stmts[4].(*ast.Print); !ok {
		t.Errorf("statement 4 has type %T, want *ast.Print", prog.Stmts[4])
	}
}

func TestEmptyProgram(t *testing.T) {
	prog := parseProgram(t, "  // nothing here\n")
	if len(prog.Stmts) != 0 {
		t.Errorf("expected no statements, got %d", len(prog.Stmts))
	}
}

func TestUnclosedBlock(t *testing.T) {
	perr := parseError(t, "{ let x: int = 1;")
	if perr.Kind != UnclosedBlock {
		t.Errorf("error kind = %s, want UnclosedBlock", perr.Code())
	}
}

func TestMissingArrow(t *testing.T) {
	perr := parseError(t, "fun f() int { return 1; }")
	if perr.Kind != UnexpectedToken {
		t.Fatalf("error kind = %s, want UnexpectedToken", perr.Code())
	}
	if len(perr.Expected) != 1 || perr.Expected[0].String() != "Arrow" {
		t.Errorf("expected set = %v, want [Arrow]", perr.Expected)
	}
}

func TestForInitMustBeLet(t *testing.T) {
	perr := parseError(t, "for (x = 1; x < 2; x = x + 1) { }")
	if perr.Kind != UnexpectedToken {
		t.Errorf("error kind = %s, want UnexpectedToken", perr.Code())
	}
}

func TestStatementStartError(t *testing.T) {
	perr := parseError(t, "+ 1;")
	if perr.Kind != UnexpectedTokenList {
		t.Errorf("error kind = %s, want UnexpectedTokenList", perr.Code())
	}
}
