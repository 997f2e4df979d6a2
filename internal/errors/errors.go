// Package errors defines the typed, position-carrying Error with one
// Kind per pipeline stage (lex, parse, resolve, type-check, compile,
// run, container format). The VM and the container codecs return it;
// the lexer, parser, resolver and checker return their own package
// Error types (a token.Position plus a message) instead.
package errors

import "fmt"

// Kind discriminates which pipeline stage produced an error, so callers
// can branch with errors.As without string-matching a message.
type Kind int

const (
	Lex Kind = iota
	Parse
	Resolve
	Type
	Compile
	Runtime
	Format
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex"
	case Parse:
		return "parse"
	case Resolve:
		return "resolve"
	case Type:
		return "type"
	case Compile:
		return "compile"
	case Runtime:
		return "runtime"
	case Format:
		return "format"
	default:
		return "error"
	}
}

// Error is the common shape every stage error implements: a source
// position (Line/Col are 1-based; Col is 0 when the stage has no
// column information, e.g. container formats) plus a message and the
// wrapped cause, if any.
type Error struct {
	Kind    Kind
	Path    string
	Line    int
	Col     int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Path == "" && e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Col == 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Col, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newErr(k Kind, path string, line, col int, msg string, cause error) *Error {
	return &Error{Kind: k, Path: path, Line: line, Col: col, Message: msg, Cause: cause}
}

// LexError wraps a lexer failure.
func LexError(path string, line, col int, msg string, cause error) *Error {
	return newErr(Lex, path, line, col, msg, cause)
}

// ParseError wraps a parser failure.
func ParseError(path string, line, col int, msg string, cause error) *Error {
	return newErr(Parse, path, line, col, msg, cause)
}

// ResolveError wraps a module-resolution failure.
func ResolveError(path string, line, col int, msg string, cause error) *Error {
	return newErr(Resolve, path, line, col, msg, cause)
}

// TypeError wraps a type-checking failure.
func TypeError(path string, line, col int, msg string, cause error) *Error {
	return newErr(Type, path, line, col, msg, cause)
}

// CompileError wraps a bytecode-compilation failure.
func CompileError(path string, line, col int, msg string, cause error) *Error {
	return newErr(Compile, path, line, col, msg, cause)
}

// RuntimeError wraps a VM execution failure. Line/Col are 0 unless the
// VM carries debug line info for the failing instruction.
func RuntimeError(msg string, cause error) *Error {
	return newErr(Runtime, "", 0, 0, msg, cause)
}

// FormatError wraps a container (.ybc/.yapp) decode failure.
func FormatError(path, msg string, cause error) *Error {
	return newErr(Format, path, 0, 0, msg, cause)
}

// Render formats an *Error as "path:line:col: message", falling back
// gracefully when position fields are absent (container/runtime
// errors). Any other error, including the lexer, parser, resolver and
// checker errors, renders as its own Error() text, which is the message
// without its position.
func Render(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Error()
	}
	return err.Error()
}
