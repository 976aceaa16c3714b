package cmd

import (
	"fmt"
	"os"

	"github.com/girogio/parlc-sub000/internal/ast"
	"github.com/girogio/parlc-sub000/internal/errors"
	"github.com/girogio/parlc-sub000/internal/lexer"
	"github.com/girogio/parlc-sub000/internal/parser"
	"github.com/spf13/cobra"
)

var (
	parseEval    string
	parseDumpAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse PArL source code and display the AST",
	Long: `Parse PArL source code and display the Abstract Syntax Tree (AST).

If no file is provided, reads from stdin.
Use -e to parse inline code from the command line.
Use --dump-ast to show the full AST structure.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(args, parseEval)
	if err != nil {
		return err
	}

	tokens, lexErrs := lexer.Lex(input)
	if len(lexErrs) > 0 {
		fmt.Fprintln(os.Stderr, errors.FormatAll(lexErrs, filename))
		return fmt.Errorf("lexing failed with %d error(s)", len(lexErrs))
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		if d, ok := err.(errors.Diagnostic); ok {
			fmt.Fprintln(os.Stderr, errors.SourceContext(d, input, filename, false))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return fmt.Errorf("parsing failed")
	}

	if parseDumpAST {
		fmt.Println("Abstract Syntax Tree:")
		fmt.Println("=====================")
		dumpASTNode(program, 0)
	} else {
		fmt.Printf("%s: parsed %d top-level statement(s)\n", filename, len(program.Stmts))
	}
	return nil
}

func dumpASTNode(node ast.Node, indent int) {
	indentStr := ""
	for i := 0; i < indent; i++ {
		indentStr += "  "
	}

	switch n := node.(type) {
	case *ast.Program:
		fmt.Printf("%sProgram (%d statements)\n", indentStr, len(n.Stmts))
		for _, stmt := range n.Stmts {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.Block:
		fmt.Printf("%sBlock (%d statements)\n", indentStr, len(n.Stmts))
		for _, stmt := range n.Stmts {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.VarDec:
		fmt.Printf("%sVarDec %s: %s\n", indentStr, n.ID.Lexeme(), n.Type.Lexeme())
		dumpASTNode(n.Expr, indent+1)
	case *ast.VarDecArray:
		fmt.Printf("%sVarDecArray %s: %s[%d] (%d elements)\n", indentStr, n.ID.Lexeme(), n.ElemType.Lexeme(), n.Size, len(n.Elems))
		for _, e := range n.Elems {
			dumpASTNode(e, indent+1)
		}
	case *ast.Assignment:
		fmt.Printf("%sAssignment %s\n", indentStr, n.ID.Lexeme())
		if n.Index != nil {
			fmt.Printf("%s  Index:\n", indentStr)
			dumpASTNode(n.Index, indent+2)
		}
		dumpASTNode(n.Expr, indent+1)
	case *ast.ArrayAccess:
		fmt.Printf("%sArrayAccess %s\n", indentStr, n.ID.Lexeme())
		dumpASTNode(n.Index, indent+1)
	case *ast.If:
		fmt.Printf("%sIf\n", indentStr)
		fmt.Printf("%s  Cond:\n", indentStr)
		dumpASTNode(n.Cond, indent+2)
		fmt.Printf("%s  Then:\n", indentStr)
		dumpASTNode(n.IfTrue, indent+2)
		if n.IfFalse != nil {
			fmt.Printf("%s  Else:\n", indentStr)
			dumpASTNode(n.IfFalse, indent+2)
		}
	case *ast.While:
		fmt.Printf("%sWhile\n", indentStr)
		fmt.Printf("%s  Cond:\n", indentStr)
		dumpASTNode(n.Cond, indent+2)
		dumpASTNode(n.Body, indent+1)
	case *ast.For:
		fmt.Printf("%sFor\n", indentStr)
		if n.Init != nil {
			fmt.Printf("%s  Init:\n", indentStr)
			dumpASTNode(n.Init, indent+2)
		}
		fmt.Printf("%s  Cond:\n", indentStr)
		dumpASTNode(n.Cond, indent+2)
		if n.Inc != nil {
			fmt.Printf("%s  Inc:\n", indentStr)
			dumpASTNode(n.Inc, indent+2)
		}
		dumpASTNode(n.Body, indent+1)
	case *ast.FunctionDecl:
		fmt.Printf("%sFunctionDecl %s -> %s\n", indentStr, n.ID.Lexeme(), n.ReturnType.Lexeme())
		for _, p := range n.Params {
			if p.Array {
				fmt.Printf("%s  Param %s: %s[%d]\n", indentStr, p.ID.Lexeme(), p.Type.Lexeme(), p.Length)
			} else {
				fmt.Printf("%s  Param %s: %s\n", indentStr, p.ID.Lexeme(), p.Type.Lexeme())
			}
		}
		dumpASTNode(n.Block, indent+1)
	case *ast.FunctionCall:
		fmt.Printf("%sFunctionCall %s (%d args)\n", indentStr, n.ID.Lexeme(), len(n.Args))
		for _, a := range n.Args {
			dumpASTNode(a, indent+1)
		}
	case *ast.Return:
		fmt.Printf("%sReturn\n", indentStr)
		dumpASTNode(n.Expr, indent+1)
	case *ast.Expression:
		if n.CastedType != nil {
			fmt.Printf("%sExpression (as %s)\n", indentStr, n.CastedType.Lexeme())
		} else {
			fmt.Printf("%sExpression\n", indentStr)
		}
		dumpASTNode(n.Expr, indent+1)
	case *ast.SubExpression:
		fmt.Printf("%sSubExpression\n", indentStr)
		dumpASTNode(n.Inner, indent+1)
	case *ast.BinOp:
		fmt.Printf("%sBinOp (%s)\n", indentStr, n.Op.Lexeme())
		fmt.Printf("%s  Left:\n", indentStr)
		dumpASTNode(n.Left, indent+2)
		fmt.Printf("%s  Right:\n", indentStr)
		dumpASTNode(n.Right, indent+2)
	case *ast.UnaryOp:
		fmt.Printf("%sUnaryOp (%s)\n", indentStr, n.Op.Lexeme())
		dumpASTNode(n.Expr, indent+1)
	case *ast.Identifier:
		fmt.Printf("%sIdentifier: %s\n", indentStr, n.Tok.Lexeme())
	case *ast.IntLiteral:
		fmt.Printf("%sIntLiteral: %s\n", indentStr, n.Tok.Lexeme())
	case *ast.FloatLiteral:
		fmt.Printf("%sFloatLiteral: %s\n", indentStr, n.Tok.Lexeme())
	case *ast.BoolLiteral:
		fmt.Printf("%sBoolLiteral: %s\n", indentStr, n.Tok.Lexeme())
	case *ast.ColourLiteral:
		fmt.Printf("%sColourLiteral: %s\n", indentStr, n.Tok.Lexeme())
	case *ast.PadWidth:
		fmt.Printf("%sPadWidth\n", indentStr)
	case *ast.PadHeight:
		fmt.Printf("%sPadHeight\n", indentStr)
	case *ast.PadRead:
		fmt.Printf("%sPadRead\n", indentStr)
		dumpASTNode(n.X, indent+1)
		dumpASTNode(n.Y, indent+1)
	case *ast.PadRandI:
		fmt.Printf("%sPadRandI\n", indentStr)
		dumpASTNode(n.Upper, indent+1)
	case *ast.PadWrite:
		fmt.Printf("%sPadWrite\n", indentStr)
		dumpASTNode(n.X, indent+1)
		dumpASTNode(n.Y, indent+1)
		dumpASTNode(n.Colour, indent+1)
	case *ast.PadWriteBox:
		fmt.Printf("%sPadWriteBox\n", indentStr)
		dumpASTNode(n.X, indent+1)
		dumpASTNode(n.Y, indent+1)
		dumpASTNode(n.W, indent+1)
		dumpASTNode(n.H, indent+1)
		dumpASTNode(n.Colour, indent+1)
	case *ast.PadClear:
		fmt.Printf("%sPadClear\n", indentStr)
		dumpASTNode(n.Expr, indent+1)
	case *ast.Delay:
		fmt.Printf("%sDelay\n", indentStr)
		dumpASTNode(n.Expr, indent+1)
	case *ast.Print:
		fmt.Printf("%sPrint\n", indentStr)
		dumpASTNode(n.Expr, indent+1)
	default:
		fmt.Printf("%s%T\n", indentStr, node)
	}
}
