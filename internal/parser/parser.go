// Package parser implements the recursive-descent parser: single-token
// lookahead over the filtered token stream, fail-fast on the first error.
package parser

import (
	"strconv"

	"github.com/girogio/parlc-sub000/internal/ast"
	"github.com/girogio/parlc-sub000/pkg/token"
)

// Parser walks a fixed token slice with a single cursor; it never mutates
// the slice and never looks behind the cursor.
type Parser struct {
	toks []token.Token
	pos  int
}

// New creates a Parser over toks, which must end with an EndOfFile token.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse tokenizes-then-parses is not this function's job: Parse assumes toks
// has already been produced by the lexer. It returns the first error
// encountered, if any.
func Parse(toks []token.Token) (*ast.Program, error) {
	return New(toks).ParseProgram()
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// consume requires the current token to have kind k, advancing past it.
func (p *Parser) consume(k token.Kind) (token.Token, error) {
	t := p.peek()
	if t.Kind != k {
		return t, errUnexpected(k, t)
	}
	return p.advance(), nil
}

// consumeIfAny requires the current token to be one of ks, advancing past
// it and reporting which kind matched.
func (p *Parser) consumeIfAny(ks ...token.Kind) (token.Token, error) {
	t := p.peek()
	for _, k := range ks {
		if t.Kind == k {
			return p.advance(), nil
		}
	}
	return t, errUnexpectedAny(ks, t)
}

func (p *Parser) check(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) checkAny(ks ...token.Kind) bool {
	for _, k := range ks {
		if p.check(k) {
			return true
		}
	}
	return false
}

// ParseProgram parses statement* followed by EndOfFile.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	start := p.peek().Span
	var stmts []ast.Node
	for !p.check(token.EndOfFile) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	end, err := p.consume(token.EndOfFile)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Stmts: stmts, Pos: span(start, end.Span)}, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.peek().Kind {
	case token.Let:
		return p.parseVarDecl()
	case token.Identifier:
		return p.parseIdentifierStatement()
	case token.Print:
		return p.parsePrint()
	case token.Delay:
		return p.parseDelay()
	case token.PadWrite:
		return p.parsePadWrite()
	case token.PadWriteBox:
		return p.parsePadWriteBox()
	case token.PadClear:
		return p.parsePadClear()
	case token.If:
		return p.parseIf()
	case token.For:
		return p.parseFor()
	case token.While:
		return p.parseWhile()
	case token.Function:
		return p.parseFunctionDecl()
	case token.Return:
		return p.parseReturn()
	case token.LBrace:
		return p.parseBlock()
	default:
		t := p.peek()
		return nil, errUnexpectedAny([]token.Kind{
			token.Let, token.Identifier, token.Print, token.Delay,
			token.PadWrite, token.PadWriteBox, token.PadClear,
			token.If, token.For, token.While, token.Function,
			token.Return, token.LBrace,
		}, t)
	}
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.consume(token.LBrace)
	if err != nil {
		return nil, err
	}
	var stmts []ast.Node
	for !p.check(token.RBrace) {
		if p.check(token.EndOfFile) {
			return nil, errUnclosedBlock(p.peek())
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	close, err := p.consume(token.RBrace)
	if err != nil {
		return nil, err
	}
	return &ast.Block{Stmts: stmts, Pos: span(open.Span, close.Span)}, nil
}

// parseVarDecl parses both the scalar and array declaration forms:
//
//	let id ':' Type '=' expression ';'
//	let id ':' Type '[' size ']' '=' '[' expr {',' expr} ']' ';'
func (p *Parser) parseVarDecl() (ast.Node, error) {
	start, err := p.consume(token.Let)
	if err != nil {
		return nil, err
	}
	id, err := p.consume(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Colon); err != nil {
		return nil, err
	}
	typ, err := p.consume(token.Type)
	if err != nil {
		return nil, err
	}

	if p.check(token.LBracket) {
		p.advance()
		sizeTok, err := p.consume(token.IntLiteral)
		if err != nil {
			return nil, err
		}
		size, _ := strconv.Atoi(sizeTok.Lexeme())
		if _, err := p.consume(token.RBracket); err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Equals); err != nil {
			return nil, err
		}
		if _, err := p.consume(token.LBracket); err != nil {
			return nil, err
		}
		var elems []ast.Node
		if !p.check(token.RBracket) {
			for {
				e, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if !p.check(token.Comma) {
					break
				}
				p.advance()
			}
		}
		if _, err := p.consume(token.RBracket); err != nil {
			return nil, err
		}
		end, err := p.consume(token.Semicolon)
		if err != nil {
			return nil, err
		}
		return &ast.VarDecArray{ID: id, ElemType: typ, Size: size, Elems: elems, Pos: span(start.Span, end.Span)}, nil
	}

	if _, err := p.consume(token.Equals); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	end, err := p.consume(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.VarDec{ID: id, Type: typ, Expr: expr, Pos: span(start.Span, end.Span)}, nil
}

// parseIdentifierStatement disambiguates assignment (plain or indexed) from
// a bare expression statement (a function call used for its side effects).
func (p *Parser) parseIdentifierStatement() (ast.Node, error) {
	start := p.peek()
	// Lookahead without consuming: an identifier followed directly by '='
	// or '[' is an assignment target.
	save := p.pos
	id, err := p.consume(token.Identifier)
	if err != nil {
		return nil, err
	}

	if p.check(token.Equals) {
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		end, err := p.consume(token.Semicolon)
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{ID: id, Expr: expr, Pos: span(start.Span, end.Span)}, nil
	}

	if p.check(token.LBracket) {
		p.advance()
		index, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RBracket); err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Equals); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		end, err := p.consume(token.Semicolon)
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{ID: id, Index: index, Expr: expr, Pos: span(start.Span, end.Span)}, nil
	}

	// Not an assignment: rewind and parse as an expression statement.
	p.pos = save
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	end, err := p.consume(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.Expression{Expr: expr, Pos: span(start.Span, end.Span)}, nil
}

func (p *Parser) parsePrint() (ast.Node, error) {
	start, err := p.consume(token.Print)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	end, err := p.consume(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.Print{Expr: expr, Pos: span(start.Span, end.Span)}, nil
}

func (p *Parser) parseDelay() (ast.Node, error) {
	start, err := p.consume(token.Delay)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	end, err := p.consume(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.Delay{Expr: expr, Pos: span(start.Span, end.Span)}, nil
}

func (p *Parser) parsePadClear() (ast.Node, error) {
	start, err := p.consume(token.PadClear)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	end, err := p.consume(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.PadClear{Expr: expr, Pos: span(start.Span, end.Span)}, nil
}

// parsePadWrite parses __write x , y , colour ; — like the other pad
// statements, the operands are bare comma-separated expressions, no
// parentheses.
func (p *Parser) parsePadWrite() (ast.Node, error) {
	start, err := p.consume(token.PadWrite)
	if err != nil {
		return nil, err
	}
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Comma); err != nil {
		return nil, err
	}
	y, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Comma); err != nil {
		return nil, err
	}
	colour, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	end, err := p.consume(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.PadWrite{X: x, Y: y, Colour: colour, Pos: span(start.Span, end.Span)}, nil
}

func (p *Parser) parsePadWriteBox() (ast.Node, error) {
	start, err := p.consume(token.PadWriteBox)
	if err != nil {
		return nil, err
	}
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Comma); err != nil {
		return nil, err
	}
	y, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Comma); err != nil {
		return nil, err
	}
	w, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Comma); err != nil {
		return nil, err
	}
	h, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Comma); err != nil {
		return nil, err
	}
	colour, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	end, err := p.consume(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.PadWriteBox{X: x, Y: y, W: w, H: h, Colour: colour, Pos: span(start.Span, end.Span)}, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	start, err := p.consume(token.If)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RParen); err != nil {
		return nil, err
	}
	ifTrue, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	end := ifTrue.Pos
	var ifFalse *ast.Block
	if p.check(token.Else) {
		p.advance()
		ifFalse, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
		end = ifFalse.Pos
	}
	return &ast.If{Cond: cond, IfTrue: ifTrue, IfFalse: ifFalse, Pos: span(start.Span, end)}, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	start, err := p.consume(token.While)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Pos: span(start.Span, body.Pos)}, nil
}

// parseFor requires the initializer to be a let (or empty) and the
// increment to be an assignment (or empty): no bare expression statements
// in either clause.
func (p *Parser) parseFor() (ast.Node, error) {
	start, err := p.consume(token.For)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LParen); err != nil {
		return nil, err
	}

	var init *ast.VarDec
	if p.check(token.Semicolon) {
		p.advance()
	} else {
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		vd, ok := decl.(*ast.VarDec)
		if !ok {
			return nil, errUnexpected(token.Let, start)
		}
		init = vd
	}

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon); err != nil {
		return nil, err
	}

	var inc *ast.Assignment
	if !p.check(token.RParen) {
		incNode, err := p.parseAssignmentNoSemicolon()
		if err != nil {
			return nil, err
		}
		inc = incNode
	}
	if _, err := p.consume(token.RParen); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.For{Init: init, Cond: cond, Inc: inc, Body: body, Pos: span(start.Span, body.Pos)}, nil
}

// parseAssignmentNoSemicolon parses "id = expr" or "id [ index ] = expr"
// without a trailing semicolon, for use as a for-loop's increment clause.
func (p *Parser) parseAssignmentNoSemicolon() (*ast.Assignment, error) {
	id, err := p.consume(token.Identifier)
	if err != nil {
		return nil, err
	}
	var index ast.Node
	if p.check(token.LBracket) {
		p.advance()
		index, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RBracket); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Equals); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{ID: id, Index: index, Expr: expr, Pos: span(id.Span, expr.Span())}, nil
}

func (p *Parser) parseFunctionDecl() (ast.Node, error) {
	start, err := p.consume(token.Function)
	if err != nil {
		return nil, err
	}
	id, err := p.consume(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LParen); err != nil {
		return nil, err
	}
	var params []*ast.FormalParam
	if !p.check(token.RParen) {
		for {
			param, err := p.parseFormalParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.check(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.consume(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Arrow); err != nil {
		return nil, err
	}
	retType, err := p.consume(token.Type)
	if err != nil {
		return nil, err
	}
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{ID: id, Params: params, ReturnType: retType, Block: block, Pos: span(start.Span, block.Pos)}, nil
}

func (p *Parser) parseFormalParam() (*ast.FormalParam, error) {
	id, err := p.consume(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Colon); err != nil {
		return nil, err
	}
	typ, err := p.consume(token.Type)
	if err != nil {
		return nil, err
	}
	end := typ.Span
	length := 0
	isArray := false
	if p.check(token.LBracket) {
		p.advance()
		lenTok, err := p.consume(token.IntLiteral)
		if err != nil {
			return nil, err
		}
		length, _ = strconv.Atoi(lenTok.Lexeme())
		isArray = true
		closeTok, err := p.consume(token.RBracket)
		if err != nil {
			return nil, err
		}
		end = closeTok.Span
	}
	return &ast.FormalParam{ID: id, Type: typ, Length: length, Array: isArray, Pos: span(id.Span, end)}, nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	start, err := p.consume(token.Return)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	end, err := p.consume(token.Semicolon)
	if err != nil {
		return nil, err
	}
	return &ast.Return{Expr: expr, Pos: span(start.Span, end.Span)}, nil
}

var relOps = []token.Kind{
	token.LessThan, token.LessThanEqual, token.GreaterThan,
	token.GreaterThanEqual, token.EqEq, token.NotEqual,
}

// parseExpression implements: simple_expr [ rel_op expression ] [ "as" Type ].
func (p *Parser) parseExpression() (ast.Node, error) {
	start := p.peek().Span
	left, err := p.parseSimpleExpr()
	if err != nil {
		return nil, err
	}

	expr := left
	if p.checkAny(relOps...) {
		op, err := p.consumeIfAny(relOps...)
		if err != nil {
			return nil, err
		}
		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr = &ast.BinOp{Left: left, Op: op, Right: right, Pos: span(start, right.Span())}
	}

	var casted *token.Token
	end := expr.Span()
	if p.check(token.As) {
		p.advance()
		t, err := p.consume(token.Type)
		if err != nil {
			return nil, err
		}
		casted = &t
		end = t.Span
	}

	if casted == nil {
		return expr, nil
	}
	return &ast.Expression{Expr: expr, CastedType: casted, Pos: span(start, end)}, nil
}

var addOps = []token.Kind{token.Plus, token.Minus, token.Or}

// parseSimpleExpr implements: term { ("+" | "-" | "or") simple_expr } (right-assoc).
func (p *Parser) parseSimpleExpr() (ast.Node, error) {
	start := p.peek().Span
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if !p.checkAny(addOps...) {
		return left, nil
	}
	op, err := p.consumeIfAny(addOps...)
	if err != nil {
		return nil, err
	}
	right, err := p.parseSimpleExpr()
	if err != nil {
		return nil, err
	}
	return &ast.BinOp{Left: left, Op: op, Right: right, Pos: span(start, right.Span())}, nil
}

var mulOps = []token.Kind{token.Multiply, token.Divide, token.Mod, token.And}

// parseTerm implements: factor { ("*" | "/" | "%" | "and") term } (right-assoc).
func (p *Parser) parseTerm() (ast.Node, error) {
	start := p.peek().Span
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if !p.checkAny(mulOps...) {
		return left, nil
	}
	op, err := p.consumeIfAny(mulOps...)
	if err != nil {
		return nil, err
	}
	right, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return &ast.BinOp{Left: left, Op: op, Right: right, Pos: span(start, right.Span())}, nil
}

// parseFactor implements: identifier | function_call | sub_expr | unary |
// literal | pad_primitive.
func (p *Parser) parseFactor() (ast.Node, error) {
	t := p.peek()
	switch t.Kind {
	case token.Identifier:
		p.advance()
		if p.check(token.LParen) {
			return p.parseFunctionCallArgs(t)
		}
		if p.check(token.LBracket) {
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			close, err := p.consume(token.RBracket)
			if err != nil {
				return nil, err
			}
			return &ast.ArrayAccess{ID: t, Index: index, Pos: span(t.Span, close.Span)}, nil
		}
		return &ast.Identifier{Tok: t}, nil

	case token.LParen:
		return p.parseSubExpr()

	case token.Minus, token.Not:
		return p.parseUnary()

	case token.IntLiteral:
		p.advance()
		return &ast.IntLiteral{Tok: t}, nil
	case token.FloatLiteral:
		p.advance()
		return &ast.FloatLiteral{Tok: t}, nil
	case token.BoolLiteral:
		p.advance()
		return &ast.BoolLiteral{Tok: t}, nil
	case token.ColourLiteral:
		p.advance()
		return &ast.ColourLiteral{Tok: t}, nil

	case token.PadWidth:
		p.advance()
		return &ast.PadWidth{Pos: t.Span}, nil
	case token.PadHeight:
		p.advance()
		return &ast.PadHeight{Pos: t.Span}, nil
	case token.PadRandI:
		return p.parsePadRandI()
	case token.PadRead:
		return p.parsePadRead()

	default:
		return nil, errUnexpectedAny([]token.Kind{
			token.Identifier, token.LParen, token.Minus, token.Not,
			token.IntLiteral, token.FloatLiteral, token.BoolLiteral,
			token.ColourLiteral, token.PadWidth, token.PadHeight,
			token.PadRandI, token.PadRead,
		}, t)
	}
}

func (p *Parser) parseSubExpr() (ast.Node, error) {
	open, err := p.consume(token.LParen)
	if err != nil {
		return nil, err
	}
	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	close, err := p.consume(token.RParen)
	if err != nil {
		return nil, err
	}
	return &ast.SubExpression{Inner: inner, Pos: span(open.Span, close.Span)}, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	op, err := p.consumeIfAny(token.Minus, token.Not)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{Op: op, Expr: expr, Pos: span(op.Span, expr.Span())}, nil
}

// parsePadRandI parses __randi upper, a bare-operand expression form.
func (p *Parser) parsePadRandI() (ast.Node, error) {
	start, err := p.consume(token.PadRandI)
	if err != nil {
		return nil, err
	}
	upper, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.PadRandI{Upper: upper, Pos: span(start.Span, upper.Span())}, nil
}

// parsePadRead parses __read x , y.
func (p *Parser) parsePadRead() (ast.Node, error) {
	start, err := p.consume(token.PadRead)
	if err != nil {
		return nil, err
	}
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Comma); err != nil {
		return nil, err
	}
	y, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.PadRead{X: x, Y: y, Pos: span(start.Span, y.Span())}, nil
}

// parseFunctionCallArgs parses "( args )" given the identifier token id has
// already been consumed.
func (p *Parser) parseFunctionCallArgs(id token.Token) (ast.Node, error) {
	if _, err := p.consume(token.LParen); err != nil {
		return nil, err
	}
	var args []ast.Node
	if !p.check(token.RParen) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.check(token.Comma) {
				break
			}
			p.advance()
		}
	}
	close, err := p.consume(token.RParen)
	if err != nil {
		return nil, err
	}
	return &ast.FunctionCall{ID: id, Args: args, Pos: span(id.Span, close.Span)}, nil
}

func span(from, to token.Span) token.Span {
	return token.NewSpan(from.FromLine, from.FromCol, to.ToLine, to.ToCol, "")
}
