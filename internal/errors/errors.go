// Package errors provides the shared diagnostic representation and
// source-context formatting used by the lexer, the parser and the semantic
// analyzer. The code generator does not use it: it reports unreachable
// states by panicking.
package errors

import (
	"fmt"
	"strings"

	"github.com/girogio/parlc-sub000/pkg/token"
)

// Diagnostic is anything that can report where in the source it applies and
// a short machine-readable code identifying its kind ("InvalidCharacter",
// "TypeMismatch", ...). Lexical, parse and semantic error/warning types all
// implement it.
type Diagnostic interface {
	error
	Span() token.Span
	Code() string
}

// Format renders a diagnostic in its plain one-line form:
// "KIND: message at file:line:col".
func Format(d Diagnostic, file string) string {
	span := d.Span()
	if file == "" {
		return fmt.Sprintf("%s: %s at %d:%d", d.Code(), d.Error(), span.FromLine, span.FromCol)
	}
	return fmt.Sprintf("%s: %s at %s:%d:%d", d.Code(), d.Error(), file, span.FromLine, span.FromCol)
}

// SourceContext renders a diagnostic with the offending source line and a
// caret pointing at the column, optionally in color. This is the richer
// form the CLI uses for errors; Format above is the plain form it uses for
// warnings and, through FormatAll, for lists of lexical errors.
func SourceContext(d Diagnostic, source, file string, color bool) string {
	var sb strings.Builder
	span := d.Span()

	if file != "" {
		fmt.Fprintf(&sb, "%s: %s\n", file, d.Code())
	} else {
		fmt.Fprintf(&sb, "%s\n", d.Code())
	}

	if line := sourceLine(source, span.FromLine); line != "" {
		prefix := fmt.Sprintf("%4d | ", span.FromLine)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max(span.FromCol-1, 0)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Error())
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FormatAll joins the plain one-line form of every diagnostic, one per line.
func FormatAll[T Diagnostic](diags []T, file string) string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = Format(d, file)
	}
	return strings.Join(lines, "\n")
}
