package errors

import (
	"strings"
	"testing"

	"github.com/girogio/parlc-sub000/pkg/token"
)

// stubDiag is a minimal Diagnostic for exercising the formatters.
type stubDiag struct {
	code string
	msg  string
	at   token.Span
}

func (d *stubDiag) Error() string    { return d.msg }
func (d *stubDiag) Span() token.Span { return d.at }
func (d *stubDiag) Code() string     { return d.code }

func TestFormat(t *testing.T) {
	d := &stubDiag{
		code: "TypeMismatch",
		msg:  "x: found float, expected int",
		at:   token.NewSpan(3, 14, 3, 18, "3.14"),
	}

	got := Format(d, "prog.parl")
	want := "TypeMismatch: x: found float, expected int at prog.parl:3:14"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}

	got = Format(d, "")
	want = "TypeMismatch: x: found float, expected int at 3:14"
	if got != want {
		t.Errorf("Format without file = %q, want %q", got, want)
	}
}

func TestSourceContext(t *testing.T) {
	source := "let a: int = 1;\nlet b: int = 2;\nlet x: int = 3.14;\n"
	d := &stubDiag{
		code: "TypeMismatch",
		msg:  "x: found float, expected int",
		at:   token.NewSpan(3, 14, 3, 18, "3.14"),
	}

	got := SourceContext(d, source, "prog.parl", false)

	if !strings.Contains(got, "prog.parl: TypeMismatch") {
		t.Errorf("missing header in:\n%s", got)
	}
	if !strings.Contains(got, "let x: int = 3.14;") {
		t.Errorf("missing source line in:\n%s", got)
	}
	if !strings.Contains(got, "^") {
		t.Errorf("missing caret in:\n%s", got)
	}
	if strings.Contains(got, "\033[") {
		t.Errorf("plain rendering contains ANSI escapes:\n%s", got)
	}

	// The caret must sit under column 14 of the padded source line.
	lines := strings.Split(got, "\n")
	var srcLine, caretLine string
	for i, line := range lines {
		if strings.Contains(line, "3.14") && i+1 < len(lines) {
			srcLine, caretLine = line, lines[i+1]
		}
	}
	if srcLine == "" {
		t.Fatalf("source line not found in:\n%s", got)
	}
	caretCol := strings.Index(caretLine, "^")
	dotCol := strings.Index(srcLine, "3.14")
	if caretCol != dotCol {
		t.Errorf("caret at column %d, offending lexeme at column %d:\n%s", caretCol, dotCol, got)
	}
}

func TestSourceContextColor(t *testing.T) {
	d := &stubDiag{code: "X", msg: "m", at: token.NewSpan(1, 1, 1, 2, "a")}
	got := SourceContext(d, "a\n", "", true)
	if !strings.Contains(got, "\033[1;31m") {
		t.Errorf("colored rendering has no ANSI escapes:\n%s", got)
	}
}

func TestFormatAll(t *testing.T) {
	diags := []*stubDiag{
		{code: "A", msg: "first", at: token.NewSpan(1, 1, 1, 2, "x")},
		{code: "B", msg: "second", at: token.NewSpan(2, 5, 2, 6, "y")},
	}

	got := FormatAll(diags, "f.parl")
	want := "A: first at f.parl:1:1\nB: second at f.parl:2:5"
	if got != want {
		t.Errorf("FormatAll = %q, want %q", got, want)
	}
}
