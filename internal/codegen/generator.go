package codegen

import (
	"fmt"
	"strconv"

	"github.com/girogio/parlc-sub000/internal/ast"
	"github.com/girogio/parlc-sub000/pkg/token"
)

// funcContext tracks the state Return needs for the innermost enclosing
// function: which scope index is its frame, so Return can unwind nested
// block scopes down to it and re-push its var-count.
type funcContext struct {
	scopeIndex int
}

// Generator lowers a semantically valid AST into target-VM assembly. It
// keeps its own scope stack, independent of the semantic analyzer's, since
// all it needs is addresses, not types.
type Generator struct {
	scopes     []*genScope
	stackLevel int
	frameIndex int

	main      []Instruction
	functions []Instruction

	out *[]Instruction // the buffer genStmt/genExpr currently append to

	funcStack []*funcContext
}

// Program is the generator's output: the assembly's two sections,
// concatenated functions-then-main with no header or footer.
type Program struct {
	Functions []Instruction
	Main      []Instruction
}

// String renders the complete assembly text: the functions section
// followed by the main section, in that order, with no header or footer.
func (p *Program) String() string {
	out := ""
	for _, instr := range p.Functions {
		out += instr.String() + "\n"
	}
	for _, instr := range p.Main {
		out += instr.String() + "\n"
	}
	return out
}

// Generate lowers prog into a Program. It assumes prog is semantically
// valid: an ill-typed or otherwise invalid tree is a programming bug in
// the caller, not a codegen-reported error.
func Generate(prog *ast.Program) *Program {
	g := &Generator{}
	g.out = &g.main
	g.genProgramRoot(prog)
	return &Program{Functions: g.functions, Main: g.main}
}

func (g *Generator) push(instr Instruction) int {
	*g.out = append(*g.out, instr)
	return len(*g.out) - 1
}

func (g *Generator) patch(idx int, instr Instruction) {
	(*g.out)[idx] = instr
}

func (g *Generator) here() int { return len(*g.out) }

// pushScope opens a new block-framed codegen scope: the var-count
// placeholder, NewFrame, and the stack-level/frame-index bookkeeping.
// Function scopes don't go through this path; genFunctionDecl manages its
// own frame via Alloc.
func (g *Generator) pushScope() (varCountIdx int) {
	g.scopes = append(g.scopes, &genScope{savedFrameIndex: g.frameIndex})
	varCountIdx = g.push(PushInt(0))
	g.push(Simple(OpNewFrame))
	g.stackLevel++
	g.frameIndex = 0
	return varCountIdx
}

// closeScopeEpilogue patches the var-count placeholder with the scope's
// actual slot count and emits the matching PopFrame.
func (g *Generator) closeScopeEpilogue(varCountIdx int) {
	n := g.currentScope().slotCount()
	g.patch(varCountIdx, PushInt(n))
	g.push(Simple(OpPopFrame))
	g.popScope()
}

func (g *Generator) popScope() {
	closed := g.currentScope()
	g.scopes = g.scopes[:len(g.scopes)-1]
	g.stackLevel--
	g.frameIndex = closed.savedFrameIndex
}

func (g *Generator) currentScope() *genScope { return g.scopes[len(g.scopes)-1] }

func (g *Generator) declare(name string, isArray bool, size int) *genSymbol {
	sym := &genSymbol{
		Name:       name,
		FrameIndex: g.frameIndex,
		Depth:      g.stackLevel,
		IsArray:    isArray,
		Size:       size,
	}
	g.currentScope().symbols = append(g.currentScope().symbols, sym)
	if isArray {
		g.frameIndex += size
	} else {
		g.frameIndex++
	}
	return sym
}

func (g *Generator) resolve(name string) *genSymbol {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if sym := g.scopes[i].lookup(name); sym != nil {
			return sym
		}
	}
	return nil
}

func (g *Generator) relativeLevel(sym *genSymbol) int {
	return g.stackLevel - sym.Depth
}

// genProgramRoot emits the program's root: .main, the standard per-scope
// prologue, every top-level statement, then the epilogue's PopFrame with a
// trailing Halt, so an empty program is exactly .main, push 0, oframe,
// cframe, halt.
func (g *Generator) genProgramRoot(prog *ast.Program) {
	g.push(FunctionLabel("main"))
	varCountIdx := g.pushScope()
	for _, stmt := range prog.Stmts {
		g.genStmt(stmt)
	}
	n := g.currentScope().slotCount()
	g.patch(varCountIdx, PushInt(n))
	g.push(Simple(OpPopFrame))
	g.push(Simple(OpHalt))
	g.popScope()
}

func (g *Generator) genBlockStmts(stmts []ast.Node) {
	varCountIdx := g.pushScope()
	for _, s := range stmts {
		g.genStmt(s)
	}
	g.closeScopeEpilogue(varCountIdx)
}

func (g *Generator) genStmt(node ast.Node) {
	switch n := node.(type) {
	case *ast.VarDec:
		g.genVarDec(n)
	case *ast.VarDecArray:
		g.genVarDecArray(n)
	case *ast.Assignment:
		g.genAssignment(n)
	case *ast.Block:
		g.genBlockStmts(n.Stmts)
	case *ast.If:
		g.genIf(n)
	case *ast.While:
		g.genWhile(n)
	case *ast.For:
		g.genFor(n)
	case *ast.FunctionDecl:
		g.genFunctionDecl(n)
	case *ast.Return:
		g.genReturn(n)
	case *ast.Print:
		g.genPrint(n)
	case *ast.Delay:
		g.genExpr(n.Expr)
		g.push(Simple(OpDelay))
	case *ast.PadClear:
		g.genExpr(n.Expr)
		g.push(Simple(OpClear))
	case *ast.PadWrite:
		g.genExpr(n.Colour)
		g.genExpr(n.Y)
		g.genExpr(n.X)
		g.push(Simple(OpWrite))
	case *ast.PadWriteBox:
		g.genExpr(n.Colour)
		g.genExpr(n.H)
		g.genExpr(n.W)
		g.genExpr(n.Y)
		g.genExpr(n.X)
		g.push(Simple(OpWriteBox))
	case *ast.Expression:
		g.genExpr(n.Expr)
	default:
		panic(fmt.Sprintf("codegen: unreachable statement kind %T", node))
	}
}

func (g *Generator) genVarDec(n *ast.VarDec) {
	g.genExpr(n.Expr)
	sym := g.declare(n.ID.Lexeme(), false, 1)
	g.push(PushInt(sym.FrameIndex))
	g.push(PushInt(0))
	g.push(Simple(OpStore))
}

// genVarDecArray emits the elements in reverse, then the size, the frame
// index and level 0, then StoreArray.
func (g *Generator) genVarDecArray(n *ast.VarDecArray) {
	for i := len(n.Elems) - 1; i >= 0; i-- {
		g.genExpr(n.Elems[i])
	}
	sym := g.declare(n.ID.Lexeme(), true, n.Size)
	g.push(PushInt(n.Size))
	g.push(PushInt(sym.FrameIndex))
	g.push(PushInt(0))
	g.push(Simple(OpStoreArray))
}

func (g *Generator) genAssignment(n *ast.Assignment) {
	sym := g.resolve(n.ID.Lexeme())
	g.genExpr(n.Expr)
	if n.Index != nil {
		g.genExpr(n.Index)
		g.push(PushInt(sym.FrameIndex))
		g.push(Simple(OpAdd))
	} else {
		g.push(PushInt(sym.FrameIndex))
	}
	g.push(PushInt(g.relativeLevel(sym)))
	g.push(Simple(OpStore))
}

// genStmts emits a statement sequence without opening a frame of its own;
// if branches and loop bodies share their enclosing construct's frame.
func (g *Generator) genStmts(stmts []ast.Node) {
	for _, s := range stmts {
		g.genStmt(s)
	}
}

// genIf emits: condition, a placeholder jump-to-true target,
// JumpIfNotZero, the else branch, a placeholder jump-to-end, Jump, the
// true branch (the target of the first placeholder), then end (the target
// of the second). An if statement introduces no scope, so the branches
// are emitted straight into the enclosing frame.
func (g *Generator) genIf(n *ast.If) {
	g.genExpr(n.Cond)
	toTrueIdx := g.push(PushOffsetFromPC(0))
	g.push(Simple(OpJumpIfNotZero))

	if n.IfFalse != nil {
		g.genStmts(n.IfFalse.Stmts)
	}

	toEndIdx := g.push(PushOffsetFromPC(0))
	g.push(Simple(OpJump))

	trueTarget := g.here()
	g.patch(toTrueIdx, PushOffsetFromPC(trueTarget-toTrueIdx))
	g.genStmts(n.IfTrue.Stmts)

	endTarget := g.here()
	g.patch(toEndIdx, PushOffsetFromPC(endTarget-toEndIdx))
}

// genWhile opens one frame for the whole loop, re-evaluates the condition
// each iteration, negates it, and jumps to the loop's own PopFrame when
// the original condition was false; otherwise it runs the (unscoped) body
// and jumps back to the condition.
func (g *Generator) genWhile(n *ast.While) {
	varCountIdx := g.pushScope()

	beforeCondition := g.here()
	g.genExpr(n.Cond)
	g.push(Simple(OpNot))
	toEndIdx := g.push(PushOffsetFromPC(0))
	g.push(Simple(OpJumpIfNotZero))

	g.genStmts(n.Body.Stmts)

	back := g.here()
	g.push(PushOffsetFromPC(beforeCondition - back))
	g.push(Simple(OpJump))

	g.patch(varCountIdx, PushInt(g.currentScope().slotCount()))
	pop := g.push(Simple(OpPopFrame))
	g.patch(toEndIdx, PushOffsetFromPC(pop-toEndIdx))
	g.popScope()
}

// genFor mirrors genWhile with the initializer emitted inside the loop's
// frame before the condition and the increment after the body, before the
// back-jump.
func (g *Generator) genFor(n *ast.For) {
	varCountIdx := g.pushScope()
	if n.Init != nil {
		g.genVarDec(n.Init)
	}

	beforeCondition := g.here()
	g.genExpr(n.Cond)
	g.push(Simple(OpNot))
	toEndIdx := g.push(PushOffsetFromPC(0))
	g.push(Simple(OpJumpIfNotZero))

	g.genStmts(n.Body.Stmts)
	if n.Inc != nil {
		g.genAssignment(n.Inc)
	}

	back := g.here()
	g.push(PushOffsetFromPC(beforeCondition - back))
	g.push(Simple(OpJump))

	g.patch(varCountIdx, PushInt(g.currentScope().slotCount()))
	pop := g.push(Simple(OpPopFrame))
	g.patch(toEndIdx, PushOffsetFromPC(pop-toEndIdx))
	g.popScope()
}

// genFunctionDecl splices the function's body into the functions section:
// FunctionLabel, a var-count placeholder, Alloc, then the body, all
// recorded into a private buffer and appended to g.functions once done.
func (g *Generator) genFunctionDecl(n *ast.FunctionDecl) {
	prevOut := g.out
	var body []Instruction
	g.out = &body

	g.push(FunctionLabel(n.ID.Lexeme()))
	varCountIdx := g.push(PushInt(0))
	g.push(Simple(OpAlloc))

	g.scopes = append(g.scopes, &genScope{savedFrameIndex: g.frameIndex})
	g.stackLevel++
	g.frameIndex = 0
	scopeIndex := len(g.scopes) - 1

	for _, p := range n.Params {
		g.declare(p.ID.Lexeme(), p.Array, p.Length)
	}

	g.funcStack = append(g.funcStack, &funcContext{scopeIndex: scopeIndex})

	for _, s := range n.Block.Stmts {
		g.genStmt(s)
	}

	g.funcStack = g.funcStack[:len(g.funcStack)-1]
	n2 := g.currentScope().slotCount()
	body[varCountIdx] = PushInt(n2)

	g.popScope()

	g.out = prevOut
	g.functions = append(g.functions, body...)
}

// genReturn evaluates the expression, then unwinds every scope opened
// since the enclosing function's own frame: a plain PopFrame for nested
// block scopes, and, for the function's own frame, a re-push of its
// var-count immediately before the PopFrame and Ret.
func (g *Generator) genReturn(n *ast.Return) {
	g.genExpr(n.Expr)

	if len(g.funcStack) == 0 {
		// No enclosing function: a top-level return terminates the
		// program.
		g.push(Simple(OpHalt))
		return
	}
	fc := g.funcStack[len(g.funcStack)-1]

	for i := len(g.scopes) - 1; i > fc.scopeIndex; i-- {
		g.push(Simple(OpPopFrame))
	}
	n2 := g.scopes[fc.scopeIndex].slotCount()
	g.push(PushInt(n2))
	g.push(Simple(OpPopFrame))
	g.push(Simple(OpReturn))
}

// genPrint lowers __print: an array-bound identifier pushes the array
// itself, then its length, then PrintArray; anything else is a plain
// value push followed by Print. Detecting an array-returning function
// call would need call-site return-type tracking codegen doesn't
// otherwise carry, so only the identifier case is handled (see
// DESIGN.md).
func (g *Generator) genPrint(n *ast.Print) {
	if id, ok := n.Expr.(*ast.Identifier); ok {
		if sym := g.resolve(id.Tok.Lexeme()); sym != nil && sym.IsArray {
			g.push(PushArray(sym.FrameIndex, g.relativeLevel(sym)))
			g.push(PushInt(sym.Size))
			g.push(Simple(OpPrintArray))
			return
		}
	}
	g.genExpr(n.Expr)
	g.push(Simple(OpPrint))
}

// genExpr lowers an expression post-order, except that a binary operator
// emits its right operand first, then its left, then the op: the VM
// expects the left operand on top of the stack.
func (g *Generator) genExpr(node ast.Node) {
	switch n := node.(type) {
	case *ast.IntLiteral:
		v, _ := strconv.Atoi(n.Tok.Lexeme())
		g.push(PushInt(v))
	case *ast.FloatLiteral:
		v, _ := strconv.ParseFloat(n.Tok.Lexeme(), 64)
		g.push(PushFloat(v))
	case *ast.BoolLiteral:
		if n.Tok.Lexeme() == "true" {
			g.push(PushInt(1))
		} else {
			g.push(PushInt(0))
		}
	case *ast.ColourLiteral:
		v, _ := strconv.ParseInt(n.Tok.Lexeme()[1:], 16, 64)
		g.push(PushInt(int(v)))

	case *ast.Identifier:
		sym := g.resolve(n.Tok.Lexeme())
		if sym.IsArray {
			g.loadArrayValue(sym)
			return
		}
		g.push(PushFromStack(sym.FrameIndex, g.relativeLevel(sym)))

	case *ast.ArrayAccess:
		// The index is only known at runtime: evaluate it, then let the
		// indexed push add it to the array's base frame index.
		sym := g.resolve(n.ID.Lexeme())
		g.genExpr(n.Index)
		g.push(PushIndexed(sym.FrameIndex, g.relativeLevel(sym)))

	case *ast.SubExpression:
		g.genExpr(n.Inner)

	case *ast.UnaryOp:
		g.genUnaryOp(n)

	case *ast.BinOp:
		g.genExpr(n.Right)
		g.genExpr(n.Left)
		if n.Op.Kind == token.NotEqual {
			// No native "ne": the target VM has no not-equal opcode, so
			// it is Equal followed by Not, same as the source language's
			// "not (a == b)".
			g.push(Simple(OpEqual))
			g.push(Simple(OpNot))
			break
		}
		g.push(Simple(g.binOpcode(n.Op)))

	case *ast.Expression:
		g.genExpr(n.Expr)

	case *ast.FunctionCall:
		g.genFunctionCall(n)

	case *ast.PadWidth:
		g.push(Simple(OpWidth))
	case *ast.PadHeight:
		g.push(Simple(OpHeight))
	case *ast.PadRandI:
		g.genExpr(n.Upper)
		g.push(Simple(OpRandInt))
	case *ast.PadRead:
		g.genExpr(n.Y)
		g.genExpr(n.X)
		g.push(Simple(OpRead))

	default:
		panic(fmt.Sprintf("codegen: unreachable expression kind %T", node))
	}
}

// loadArrayValue lowers an array identifier used where a value is
// expected. The target VM has no native array-value semantics: it takes
// pushing the array's size then the array itself, then synthesizing a
// scratch frame that copies the array into it and reads it back out.
// This single helper isolates the workaround so a VM revision with real
// array values only has to delete it.
func (g *Generator) loadArrayValue(sym *genSymbol) {
	g.push(PushInt(sym.Size))
	g.push(PushArray(sym.FrameIndex, g.relativeLevel(sym)))
	g.push(PushInt(sym.Size))
	g.push(Simple(OpNewFrame))
	g.push(PushInt(0))
	g.push(PushInt(0))
	g.push(Simple(OpStoreArray))
	g.push(PushArray(0, 0))
	g.push(Simple(OpPopFrame))
}

func (g *Generator) genUnaryOp(n *ast.UnaryOp) {
	switch n.Op.Kind {
	case token.Minus:
		// No native negate: lower as 0 - x, with the zero pushed
		// second so it sits on top as the left operand.
		g.genExpr(n.Expr)
		g.push(PushInt(0))
		g.push(Simple(OpSub))
	case token.Not:
		g.genExpr(n.Expr)
		g.push(Simple(OpNot))
	default:
		panic(fmt.Sprintf("codegen: unreachable unary operator %s", n.Op.Kind))
	}
}

func (g *Generator) binOpcode(op token.Token) Op {
	switch op.Kind {
	case token.Plus:
		return OpAdd
	case token.Minus:
		return OpSub
	case token.Multiply:
		return OpMul
	case token.Divide:
		return OpDiv
	case token.Mod:
		return OpMod
	case token.EqEq:
		return OpEqual
	case token.LessThan:
		return OpLessThan
	case token.LessThanEqual:
		return OpLessThanOrEqual
	case token.GreaterThan:
		return OpGreaterThan
	case token.GreaterThanEqual:
		return OpGreaterThanOrEqual
	case token.And:
		return OpAnd
	case token.Or:
		return OpOr
	default:
		panic(fmt.Sprintf("codegen: unreachable binary operator %s", op.Kind))
	}
}

// genFunctionCall lowers each argument in reverse order (an array-bound
// identifier argument contributes its full slot width; anything else
// contributes 1), pushes the total width, pushes the function reference,
// then Call.
func (g *Generator) genFunctionCall(n *ast.FunctionCall) {
	width := 0
	for i := len(n.Args) - 1; i >= 0; i-- {
		arg := n.Args[i]
		g.genExpr(arg)
		if id, ok := arg.(*ast.Identifier); ok {
			if sym := g.resolve(id.Tok.Lexeme()); sym != nil && sym.IsArray {
				width += sym.Size
				continue
			}
		}
		width++
	}
	g.push(PushInt(width))
	g.push(PushLabel(n.ID.Lexeme()))
	g.push(Simple(OpCall))
}
