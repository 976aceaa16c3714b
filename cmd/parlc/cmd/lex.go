package cmd

import (
	"fmt"
	"os"

	"github.com/girogio/parlc-sub000/internal/errors"
	"github.com/girogio/parlc-sub000/internal/lexer"
	"github.com/girogio/parlc-sub000/pkg/token"
	"github.com/spf13/cobra"
)

var (
	evalExpr   string
	showPos    bool
	showType   bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a PArL file or expression",
	Long: `Tokenize (lex) a PArL program and print the resulting tokens.

This command is useful for debugging the lexer and understanding how
PArL source code is tokenized.

Examples:
  # Tokenize a script file
  parlc lex script.parl

  # Tokenize an inline expression
  parlc lex -e "let x: int = 42;"

  # Show token kinds and positions
  parlc lex --show-type --show-pos script.parl

  # Show only lexical errors
  parlc lex --only-errors script.parl`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexScript,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token kind names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only lexical errors")
}

func lexScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(args, evalExpr)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	tokens, lexErrs := lexer.Lex(input)

	if len(lexErrs) > 0 {
		fmt.Fprintln(os.Stderr, errors.FormatAll(lexErrs, filename))
	}

	if !onlyErrors {
		for _, tok := range tokens {
			printToken(tok)
		}
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", len(tokens))
		if len(lexErrs) > 0 {
			fmt.Printf("Errors: %d\n", len(lexErrs))
		}
	}

	if len(lexErrs) > 0 {
		return fmt.Errorf("found %d lexical error(s)", len(lexErrs))
	}
	return nil
}

func printToken(tok token.Token) {
	var output string

	if showType {
		output = fmt.Sprintf("[%-16s]", tok.Kind)
	}

	if tok.Kind == token.EndOfFile {
		output += " EOF"
	} else {
		output += fmt.Sprintf(" %q", tok.Lexeme())
	}

	if showPos {
		output += fmt.Sprintf(" @%d:%d", tok.Span.FromLine, tok.Span.FromCol)
	}

	fmt.Println(output)
}
