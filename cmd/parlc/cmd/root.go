package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "parlc",
	Short: "Compiler for the PArL pad-display language",
	Long: `parlc compiles PArL, a small statically-typed imperative language
with built-in primitives for driving a fixed-size pixel display (the pad),
into textual assembly for the pad virtual machine.

The pipeline is lex -> parse -> semantic check -> code generation; each
subcommand stops after the corresponding stage:

  lex      tokenize and dump the token stream
  parse    build and dump the abstract syntax tree
  check    run semantic analysis only
  compile  emit pad VM assembly`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

// readInput resolves the source text for a subcommand: an inline -e
// expression wins, then a file argument, then stdin. The returned name is
// what diagnostics report as the file.
func readInput(args []string, inline string) (source, name string, err error) {
	if inline != "" {
		return inline, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(content), "<stdin>", nil
}
