package semantic

import (
	"fmt"
	"strings"

	"github.com/girogio/parlc-sub000/pkg/token"
)

// Severity distinguishes an error (which prevents codegen) from a warning
// (which does not).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Code enumerates every semantic diagnostic the analyzer can raise.
type Code int

const (
	UndefinedVariable Code = iota
	UndefinedFunction
	VariableRedeclaration
	FunctionAlreadyDefined
	VarUndefinedInFunc
	TypeMismatch
	TypeMismatchUnion
	InvalidOperation
	InvalidCast
	FunctionReturnTypeMismatch
	FunctionCallNoParams
	FunctionArityMismatch
	ArrayOverflow
	ArrayIndexNotInt
	VariableShadowing
)

func (c Code) String() string {
	names := [...]string{
		"UndefinedVariable", "UndefinedFunction", "VariableRedeclaration",
		"FunctionAlreadyDefined", "VarUndefinedInFunc", "TypeMismatch",
		"TypeMismatchUnion", "InvalidOperation", "InvalidCast",
		"FunctionReturnTypeMismatch", "FunctionCallNoParams",
		"FunctionArityMismatch", "ArrayOverflow", "ArrayIndexNotInt",
		"VariableShadowing",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "SemanticError"
}

// Diagnostic is one semantic error or warning. Where implements
// errors.Diagnostic so the CLI collaborator can format it uniformly
// alongside lexical and parse diagnostics.
type Diagnostic struct {
	Kind     Code
	Severity Severity
	Message  string
	At       token.Span
}

func (d *Diagnostic) Error() string    { return d.Message }
func (d *Diagnostic) Span() token.Span { return d.At }
func (d *Diagnostic) Code() string     { return d.Kind.String() }

func newErr(code Code, at token.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...), At: at}
}

func newWarn(code Code, at token.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: code, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), At: at}
}

func errUndefinedVariable(name string, at token.Span, suggestion string) *Diagnostic {
	msg := fmt.Sprintf("undefined variable %q", name)
	if suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return newErr(UndefinedVariable, at, "%s", msg)
}

func errUndefinedFunction(name string, at token.Span, suggestion string) *Diagnostic {
	msg := fmt.Sprintf("undefined function %q", name)
	if suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return newErr(UndefinedFunction, at, "%s", msg)
}

func errVarUndefinedInFunc(name string, at token.Span) *Diagnostic {
	return newErr(VarUndefinedInFunc, at, "variable %q is not visible inside this function body", name)
}

func errVariableRedeclaration(name string, at token.Span) *Diagnostic {
	return newErr(VariableRedeclaration, at, "variable %q already declared in this scope", name)
}

func errFunctionAlreadyDefined(name string, at token.Span) *Diagnostic {
	return newErr(FunctionAlreadyDefined, at, "function %q already defined in this scope", name)
}

func warnVariableShadowing(name string, at token.Span) *Diagnostic {
	return newWarn(VariableShadowing, at, "declaration of %q shadows an outer variable", name)
}

func errTypeMismatch(where string, found, expected Type, at token.Span) *Diagnostic {
	return newErr(TypeMismatch, at, "%s: found %s, expected %s", where, found, expected)
}

func errTypeMismatchUnion(where string, found Type, expected []Type, at token.Span) *Diagnostic {
	names := make([]string, len(expected))
	for i, t := range expected {
		names[i] = t.String()
	}
	return newErr(TypeMismatchUnion, at, "%s: found %s, expected one of [%s]", where, found, strings.Join(names, ", "))
}

func errInvalidOperation(op string, at token.Span) *Diagnostic {
	return newErr(InvalidOperation, at, "invalid operation %q for the given operand types", op)
}

func errInvalidCast(from, to Type, at token.Span) *Diagnostic {
	return newErr(InvalidCast, at, "cannot cast %s to %s", from, to)
}

func errFunctionReturnTypeMismatch(name string, found, expected Type, at token.Span) *Diagnostic {
	return newErr(FunctionReturnTypeMismatch, at, "function %q: returns %s, declared %s", name, found, expected)
}

func errFunctionCallNoParams(name string, at token.Span) *Diagnostic {
	return newErr(FunctionCallNoParams, at, "function %q takes no parameters but was called with arguments", name)
}

func errFunctionArityMismatch(name string, want, got int, at token.Span) *Diagnostic {
	return newErr(FunctionArityMismatch, at, "function %q expects %d argument(s), got %d", name, want, got)
}

func errArrayOverflow(name string, size, got int, at token.Span) *Diagnostic {
	return newErr(ArrayOverflow, at, "array %q declared with size %d but initialized with %d elements", name, size, got)
}

func errArrayIndexNotInt(at token.Span) *Diagnostic {
	return newErr(ArrayIndexNotInt, at, "array index must be int")
}
