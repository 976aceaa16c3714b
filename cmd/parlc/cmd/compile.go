package cmd

import (
	"fmt"
	"os"

	"github.com/girogio/parlc-sub000/internal/codegen"
	"github.com/girogio/parlc-sub000/internal/errors"
	"github.com/spf13/cobra"
)

var (
	compileEval string
	outputFile  string
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a PArL file to pad VM assembly",
	Long: `Compile a PArL program and emit textual assembly for the pad VM.

The assembly is written to stdout unless -o is given. The output is the
functions section followed by the main section, one instruction per line,
with no header or footer, ready to be loaded by the pad VM.

Examples:
  # Compile a script to stdout
  parlc compile script.parl

  # Compile to a file
  parlc compile script.parl -o script.pvm

  # Compile inline code
  parlc compile -e "__write 0, 0, #FF0000;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileEval, "eval", "e", "", "compile inline code instead of reading from file")
	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
}

func compileScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readInput(args, compileEval)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "Compiling %s...\n", filename)
	}

	program, result, err := analyzeSource(input, filename)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", errors.Format(w, filename))
	}
	if !result.OK() {
		for _, e := range result.Errors {
			fmt.Fprintln(os.Stderr, errors.SourceContext(e, input, filename, false))
		}
		return fmt.Errorf("semantic analysis failed with %d error(s)", len(result.Errors))
	}

	asm := codegen.Generate(program).String()

	if outputFile == "" {
		fmt.Print(asm)
		return nil
	}
	if err := os.WriteFile(outputFile, []byte(asm), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outputFile, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Assembly written to %s (%d bytes)\n", outputFile, len(asm))
	} else {
		fmt.Printf("Compiled %s -> %s\n", filename, outputFile)
	}
	return nil
}
