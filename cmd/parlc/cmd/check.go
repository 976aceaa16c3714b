package cmd

import (
	"fmt"
	"os"

	"github.com/girogio/parlc-sub000/internal/ast"
	"github.com/girogio/parlc-sub000/internal/errors"
	"github.com/girogio/parlc-sub000/internal/lexer"
	"github.com/girogio/parlc-sub000/internal/parser"
	"github.com/girogio/parlc-sub000/internal/semantic"
	"github.com/spf13/cobra"
)

var checkEval string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run semantic analysis on a PArL program",
	Long: `Type-check a PArL program without generating code.

All semantic errors and warnings are reported together; the exit code is
non-zero if any error was found (warnings alone do not fail the check).

Examples:
  # Check a script file
  parlc check script.parl

  # Check inline code
  parlc check -e "let x: int = 3.14;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkEval, "eval", "e", "", "check inline code instead of reading from file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(args, checkEval)
	if err != nil {
		return err
	}

	_, result, err := analyzeSource(input, filename)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", errors.Format(w, filename))
	}
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, errors.SourceContext(e, input, filename, false))
	}

	if !result.OK() {
		return fmt.Errorf("semantic analysis failed with %d error(s)", len(result.Errors))
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("%s: no errors, %d warning(s)\n", filename, len(result.Warnings))
	}
	return nil
}

// analyzeSource runs the front half of the pipeline (lex, parse, analyze),
// reporting lexical and parse failures itself.
func analyzeSource(input, filename string) (*ast.Program, semantic.Result, error) {
	tokens, lexErrs := lexer.Lex(input)
	if len(lexErrs) > 0 {
		fmt.Fprintln(os.Stderr, errors.FormatAll(lexErrs, filename))
		return nil, semantic.Result{}, fmt.Errorf("lexing failed with %d error(s)", len(lexErrs))
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		if d, ok := err.(errors.Diagnostic); ok {
			fmt.Fprintln(os.Stderr, errors.SourceContext(d, input, filename, false))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return nil, semantic.Result{}, fmt.Errorf("parsing failed")
	}

	return program, semantic.Analyze(program), nil
}
