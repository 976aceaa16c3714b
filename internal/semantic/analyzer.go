// Package semantic performs semantic analysis over the parsed tree:
// scope resolution (with function-body closure discipline),
// expression typing, statement type-checking and cast validation. It does
// not short-circuit on error — it accumulates errors and warnings across a
// single tree walk and returns Unknown for any subexpression it could not
// type, so one bad expression doesn't cascade into a hundred bogus ones.
package semantic

import (
	"github.com/girogio/parlc-sub000/internal/ast"
	"github.com/girogio/parlc-sub000/pkg/token"
)

// Result is the accumulated outcome of analyzing a program.
type Result struct {
	Errors   []*Diagnostic
	Warnings []*Diagnostic
}

func (r Result) OK() bool { return len(r.Errors) == 0 }

type analyzer struct {
	scopes []*SymbolTable

	insideFunction bool
	scopePeekLimit int

	errors   []*Diagnostic
	warnings []*Diagnostic
}

// Analyze runs the full semantic pass over prog.
func Analyze(prog *ast.Program) Result {
	a := &analyzer{}
	a.pushScope()
	a.visitStmts(prog.Stmts)
	a.popScope()
	return Result{Errors: a.errors, Warnings: a.warnings}
}

func (a *analyzer) pushScope() { a.scopes = append(a.scopes, NewSymbolTable()) }
func (a *analyzer) popScope()  { a.scopes = a.scopes[:len(a.scopes)-1] }
func (a *analyzer) current() *SymbolTable { return a.scopes[len(a.scopes)-1] }

func (a *analyzer) error(d *Diagnostic)   { a.errors = append(a.errors, d) }
func (a *analyzer) warning(d *Diagnostic) { a.warnings = append(a.warnings, d) }

// declareVariable inserts sym into the current scope, reporting
// VariableRedeclaration on a same-scope collision or VariableShadowing when
// an outer scope already has the name.
func (a *analyzer) declareVariable(name string, sym *Symbol, at token.Span) {
	if a.current().Lookup(name) != nil {
		a.error(errVariableRedeclaration(name, at))
		return
	}
	for i := len(a.scopes) - 2; i >= 0; i-- {
		if a.scopes[i].Lookup(name) != nil {
			a.warning(warnVariableShadowing(name, at))
			break
		}
	}
	a.current().Insert(sym)
}

func (a *analyzer) declareFunction(name string, sym *Symbol, at token.Span) {
	if a.current().Lookup(name) != nil {
		a.error(errFunctionAlreadyDefined(name, at))
		return
	}
	a.current().Insert(sym)
}

// resolve looks a name up, honoring the function-scope closure discipline:
// inside a function body, only scopes at or above scopePeekLimit are
// visible (the function sees its own parameters/locals, not the module's).
func (a *analyzer) resolve(name string) *Symbol {
	lowerBound := 0
	if a.insideFunction {
		lowerBound = a.scopePeekLimit
	}
	for i := len(a.scopes) - 1; i >= lowerBound; i-- {
		if s := a.scopes[i].Lookup(name); s != nil {
			return s
		}
	}
	return nil
}

// resolveFunction ignores the function-body peek limit: a function symbol
// lives in its enclosing scope, and a body may call itself (or any function
// declared before it) even though outer variables are invisible.
func (a *analyzer) resolveFunction(name string) *Symbol {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if s := a.scopes[i].Lookup(name); s != nil && s.Kind == SymFunction {
			return s
		}
	}
	return nil
}

// existsOutsideFunctionScope reports whether name is declared somewhere
// below scopePeekLimit — used to distinguish "never declared" from
// "declared, but out of reach from inside this function".
func (a *analyzer) existsOutsideFunctionScope(name string) bool {
	for i := a.scopePeekLimit - 1; i >= 0; i-- {
		if a.scopes[i].Lookup(name) != nil {
			return true
		}
	}
	return false
}

func (a *analyzer) allVisibleNames() []string {
	lowerBound := 0
	if a.insideFunction {
		lowerBound = a.scopePeekLimit
	}
	var names []string
	for i := len(a.scopes) - 1; i >= lowerBound; i-- {
		for _, s := range a.scopes[i].All() {
			names = append(names, s.Lexeme)
		}
	}
	return names
}

// visitStmts visits a statement sequence, returning the block's return
// type: the type of the first Return encountered while executing the
// sequence in order (descending into If/While/For bodies), or Void if none
// is ever reached. Every statement is still visited for error-collection
// even after the first return is found.
func (a *analyzer) visitStmts(stmts []ast.Node) Type {
	returnType := TVoid
	found := false
	for _, s := range stmts {
		rt := a.visitStmt(s)
		if !found && rt.Kind != Void {
			returnType = rt
			found = true
		}
	}
	return returnType
}

func (a *analyzer) visitBlock(b *ast.Block) Type {
	a.pushScope()
	rt := a.visitStmts(b.Stmts)
	a.popScope()
	return rt
}

func (a *analyzer) visitStmt(node ast.Node) Type {
	switch n := node.(type) {
	case *ast.VarDec:
		a.visitVarDec(n)
		return TVoid
	case *ast.VarDecArray:
		a.visitVarDecArray(n)
		return TVoid
	case *ast.Assignment:
		a.visitAssignment(n)
		return TVoid
	case *ast.If:
		return a.visitIf(n)
	case *ast.While:
		return a.visitWhile(n)
	case *ast.For:
		return a.visitFor(n)
	case *ast.FunctionDecl:
		a.visitFunctionDecl(n)
		return TVoid
	case *ast.Return:
		return a.visitExpr(n.Expr)
	case *ast.Block:
		return a.visitBlock(n)
	case *ast.Print:
		a.visitPrint(n)
		return TVoid
	case *ast.Delay:
		a.requireInt(n.Expr, "__delay argument")
		return TVoid
	case *ast.PadClear:
		a.requireType(n.Expr, TColour, "__clear argument")
		return TVoid
	case *ast.PadWrite:
		a.requireInt(n.X, "__write x")
		a.requireInt(n.Y, "__write y")
		a.requireType(n.Colour, TColour, "__write colour")
		return TVoid
	case *ast.PadWriteBox:
		a.requireInt(n.X, "__write_box x")
		a.requireInt(n.Y, "__write_box y")
		a.requireInt(n.W, "__write_box width")
		a.requireInt(n.H, "__write_box height")
		a.requireType(n.Colour, TColour, "__write_box colour")
		return TVoid
	case *ast.Expression:
		a.visitExpr(n)
		return TVoid
	default:
		return TVoid
	}
}

func (a *analyzer) visitVarDec(n *ast.VarDec) {
	declared := typeFromToken(n.Type)
	exprType := a.visitExpr(n.Expr)
	if exprType.Kind != Unknown && !exprType.Equal(declared) {
		a.error(errTypeMismatch(n.ID.Lexeme(), exprType, declared, n.Span()))
	}
	a.declareVariable(n.ID.Lexeme(), &Symbol{Lexeme: n.ID.Lexeme(), Kind: SymVariable, VType: declared}, n.Span())
}

func (a *analyzer) visitVarDecArray(n *ast.VarDecArray) {
	elemType := typeFromToken(n.ElemType)
	if len(n.Elems) > n.Size {
		a.error(errArrayOverflow(n.ID.Lexeme(), n.Size, len(n.Elems), n.Span()))
	}
	for _, e := range n.Elems {
		t := a.visitExpr(e)
		if t.Kind != Unknown && !t.Equal(elemType) {
			a.error(errTypeMismatch(n.ID.Lexeme()+" element", t, elemType, e.Span()))
		}
	}
	arrType := NewArray(elemType, n.Size)
	a.declareVariable(n.ID.Lexeme(), &Symbol{Lexeme: n.ID.Lexeme(), Kind: SymArray, VType: arrType}, n.Span())
}

func (a *analyzer) visitAssignment(n *ast.Assignment) {
	sym := a.resolve(n.ID.Lexeme())
	if sym == nil {
		a.reportUndefinedName(n.ID.Lexeme(), n.Span(), false)
		a.visitExpr(n.Expr)
		return
	}

	target := sym.VType
	if n.Index != nil {
		a.requireIndexInt(n.Index)
		if sym.VType.Kind == Array {
			target = *sym.VType.Elem
		}
	}

	rhs := a.visitExpr(n.Expr)
	if rhs.Kind != Unknown && target.Kind != Unknown && !rhs.Equal(target) {
		a.error(errTypeMismatch(n.ID.Lexeme(), rhs, target, n.Span()))
	}
}

// visitIf checks the branches without opening a scope of their own: an if
// statement is not in the scope-introducing set, so its branch declarations
// land in the enclosing scope. When both branches are present their return
// types must agree.
func (a *analyzer) visitIf(n *ast.If) Type {
	a.requireBool(n.Cond, "if condition")
	trueRT := a.visitStmts(n.IfTrue.Stmts)
	if n.IfFalse != nil {
		falseRT := a.visitStmts(n.IfFalse.Stmts)
		if trueRT.Kind != Unknown && falseRT.Kind != Unknown && !trueRT.Equal(falseRT) {
			a.error(errTypeMismatch("if", trueRT, falseRT, n.Span()))
		}
	}
	return trueRT
}

// visitWhile opens one scope for the whole loop; the body block is visited
// unscoped inside it.
func (a *analyzer) visitWhile(n *ast.While) Type {
	a.pushScope()
	a.requireBool(n.Cond, "while condition")
	rt := a.visitStmts(n.Body.Stmts)
	a.popScope()
	return rt
}

// visitFor opens one scope shared by the initializer, condition, increment
// and the (unscoped) body.
func (a *analyzer) visitFor(n *ast.For) Type {
	a.pushScope()
	if n.Init != nil {
		a.visitVarDec(n.Init)
	}
	a.requireBool(n.Cond, "for condition")
	if n.Inc != nil {
		a.visitAssignment(n.Inc)
	}
	rt := a.visitStmts(n.Body.Stmts)
	a.popScope()
	return rt
}

func (a *analyzer) visitFunctionDecl(n *ast.FunctionDecl) {
	retType := typeFromToken(n.ReturnType)

	sym := &Symbol{
		Lexeme: n.ID.Lexeme(),
		Kind:   SymFunction,
		Sig:    Signature{ReturnType: TUnknown},
	}
	a.declareFunction(n.ID.Lexeme(), sym, n.Span())

	paramScopeIndex := len(a.scopes)
	a.pushScope()

	prevInside, prevLimit := a.insideFunction, a.scopePeekLimit
	a.insideFunction = true
	a.scopePeekLimit = paramScopeIndex

	params := make([]Param, len(n.Params))
	for i, p := range n.Params {
		pt := typeFromToken(p.Type)
		if p.Array {
			pt = NewArray(pt, p.Length)
		}
		params[i] = Param{Type: pt, Name: p.ID.Lexeme()}
		kind := SymVariable
		if p.Array {
			kind = SymArray
		}
		a.declareVariable(p.ID.Lexeme(), &Symbol{Lexeme: p.ID.Lexeme(), Kind: kind, VType: pt}, p.Span())
	}
	sym.Sig = Signature{ReturnType: retType, Params: params}

	// The body block shares the parameter scope rather than opening its
	// own: a local that collides with a parameter is a redeclaration, not
	// a shadow.
	bodyRT := a.visitStmts(n.Block.Stmts)
	if !bodyRT.Equal(retType) {
		a.error(errFunctionReturnTypeMismatch(n.ID.Lexeme(), bodyRT, retType, n.Span()))
	}

	a.insideFunction, a.scopePeekLimit = prevInside, prevLimit
	a.popScope()
}

// visitPrint rejects Void and Unknown operands alike: even an expression
// that already failed to type is flagged here, since __print has no
// sensible lowering for it.
func (a *analyzer) visitPrint(n *ast.Print) {
	t := a.visitExpr(n.Expr)
	if t.Kind == Void || t.Kind == Unknown {
		a.error(errTypeMismatchUnion("__print argument", t, []Type{TInt, TFloat, TBool, TColour}, n.Span()))
	}
}

func (a *analyzer) requireInt(e ast.Node, where string) {
	a.requireType(e, TInt, where)
}

func (a *analyzer) requireBool(e ast.Node, where string) {
	a.requireType(e, TBool, where)
}

// requireIndexInt checks an array subscript, which gets its own diagnostic
// code rather than the generic TypeMismatch.
func (a *analyzer) requireIndexInt(e ast.Node) {
	t := a.visitExpr(e)
	if t.Kind != Unknown && t.Kind != Int {
		a.error(errArrayIndexNotInt(e.Span()))
	}
}

func (a *analyzer) requireType(e ast.Node, want Type, where string) {
	t := a.visitExpr(e)
	if t.Kind != Unknown && !t.Equal(want) {
		a.error(errTypeMismatch(where, t, want, e.Span()))
	}
}

func (a *analyzer) reportUndefinedName(name string, at token.Span, isFunc bool) {
	if a.insideFunction && a.existsOutsideFunctionScope(name) {
		a.error(errVarUndefinedInFunc(name, at))
		return
	}
	sugg := suggest(name, a.allVisibleNames())
	if isFunc {
		a.error(errUndefinedFunction(name, at, sugg))
	} else {
		a.error(errUndefinedVariable(name, at, sugg))
	}
}

// visitExpr types an expression node, accumulating errors and returning
// Unknown wherever a subexpression could not be typed (so the caller never
// has to special-case "no type").
func (a *analyzer) visitExpr(node ast.Node) Type {
	switch n := node.(type) {
	case *ast.Identifier:
		sym := a.resolve(n.Tok.Lexeme())
		if sym == nil {
			a.reportUndefinedName(n.Tok.Lexeme(), n.Span(), false)
			return TUnknown
		}
		return sym.VType

	case *ast.IntLiteral:
		return TInt
	case *ast.FloatLiteral:
		return TFloat
	case *ast.BoolLiteral:
		return TBool
	case *ast.ColourLiteral:
		return TColour

	case *ast.PadWidth, *ast.PadHeight:
		return TInt

	case *ast.PadRead:
		a.requireInt(n.X, "__read x")
		a.requireInt(n.Y, "__read y")
		return TInt

	case *ast.PadRandI:
		a.requireInt(n.Upper, "__randi upper bound")
		return TInt

	case *ast.ArrayAccess:
		sym := a.resolve(n.ID.Lexeme())
		if sym == nil {
			a.reportUndefinedName(n.ID.Lexeme(), n.Span(), false)
			a.visitExpr(n.Index)
			return TUnknown
		}
		a.requireIndexInt(n.Index)
		if sym.VType.Kind != Array {
			a.error(errTypeMismatch(n.ID.Lexeme(), sym.VType, NewArray(sym.VType, 0), n.Span()))
			return TUnknown
		}
		return *sym.VType.Elem

	case *ast.FunctionCall:
		return a.visitFunctionCall(n)

	case *ast.SubExpression:
		return a.visitExpr(n.Inner)

	case *ast.UnaryOp:
		operand := a.visitExpr(n.Expr)
		return a.typeUnaryOp(n.Op, operand, n.Span())

	case *ast.BinOp:
		left := a.visitExpr(n.Left)
		right := a.visitExpr(n.Right)
		return a.typeBinOp(n.Op, left, right, n.Span())

	case *ast.Expression:
		inner := a.visitExpr(n.Expr)
		if n.CastedType == nil {
			return inner
		}
		target := typeFromToken(*n.CastedType)
		if inner.Kind == Unknown {
			return TUnknown
		}
		if !validCast(inner, target) {
			a.error(errInvalidCast(inner, target, n.Span()))
			return TUnknown
		}
		return target

	default:
		return TUnknown
	}
}

func (a *analyzer) visitFunctionCall(n *ast.FunctionCall) Type {
	sym := a.resolveFunction(n.ID.Lexeme())
	if sym == nil {
		a.reportUndefinedName(n.ID.Lexeme(), n.Span(), true)
		for _, arg := range n.Args {
			a.visitExpr(arg)
		}
		return TUnknown
	}

	sig := sym.Sig
	if len(sig.Params) == 0 && len(n.Args) > 0 {
		a.error(errFunctionCallNoParams(n.ID.Lexeme(), n.Span()))
		for _, arg := range n.Args {
			a.visitExpr(arg)
		}
		return sig.ReturnType
	}
	if len(n.Args) != len(sig.Params) {
		a.error(errFunctionArityMismatch(n.ID.Lexeme(), len(sig.Params), len(n.Args), n.Span()))
	}

	for i, arg := range n.Args {
		argType := a.visitExpr(arg)
		if i >= len(sig.Params) {
			continue
		}
		want := sig.Params[i].Type
		if argType.Kind != Unknown && !argType.Equal(want) {
			a.error(errTypeMismatch("argument '"+sig.Params[i].Name+"' of "+n.ID.Lexeme(), argType, want, arg.Span()))
		}
	}
	return sig.ReturnType
}

// typeBinOp implements the binary-operator typing rules: arithmetic on
// int/float (float wins), colour arithmetic, int-only mod, comparisons on
// matching operand families, and bool-only logic.
func (a *analyzer) typeBinOp(op token.Token, left, right Type, at token.Span) Type {
	if left.Kind == Unknown || right.Kind == Unknown {
		return TUnknown
	}
	switch op.Kind {
	case token.Plus, token.Minus, token.Multiply, token.Divide:
		switch {
		case left.Kind == Int && right.Kind == Int:
			return TInt
		case left.Kind == Colour && right.Kind == Colour:
			return TColour
		case isNumeric(left) && isNumeric(right):
			return TFloat
		}
	case token.Mod:
		if left.Kind == Int && right.Kind == Int {
			return TInt
		}
	case token.EqEq, token.NotEqual, token.LessThan, token.LessThanEqual, token.GreaterThan, token.GreaterThanEqual:
		switch {
		case isNumeric(left) && isNumeric(right):
			return TBool
		case left.Kind == Bool && right.Kind == Bool:
			return TBool
		case left.Kind == Colour && right.Kind == Colour:
			return TBool
		}
	case token.And, token.Or:
		if left.Kind == Bool && right.Kind == Bool {
			return TBool
		}
	}
	a.error(errInvalidOperation(op.Kind.String(), at))
	return TUnknown
}

func (a *analyzer) typeUnaryOp(op token.Token, operand Type, at token.Span) Type {
	if operand.Kind == Unknown {
		return TUnknown
	}
	switch op.Kind {
	case token.Minus:
		if isNumeric(operand) {
			return operand
		}
	case token.Not:
		if operand.Kind == Bool {
			return TBool
		}
	}
	a.error(errInvalidOperation(op.Kind.String(), at))
	return TUnknown
}

func isNumeric(t Type) bool { return t.Kind == Int || t.Kind == Float }

// validCast reports whether "from as to" is a permitted conversion:
// identity, int->float, colour->int, bool->int, int->colour, bool->float.
func validCast(from, to Type) bool {
	if from.Equal(to) {
		return true
	}
	switch {
	case from.Kind == Int && to.Kind == Float:
		return true
	case from.Kind == Colour && to.Kind == Int:
		return true
	case from.Kind == Bool && to.Kind == Int:
		return true
	case from.Kind == Int && to.Kind == Colour:
		return true
	case from.Kind == Bool && to.Kind == Float:
		return true
	}
	return false
}

func typeFromToken(t token.Token) Type {
	switch t.Lexeme() {
	case "int":
		return TInt
	case "float":
		return TFloat
	case "bool":
		return TBool
	case "colour":
		return TColour
	default:
		return TUnknown
	}
}
