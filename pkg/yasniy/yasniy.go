// Package yasniy is the public embedding API for the yasniy scripting
// language: parse, compile, and run source or bytecode from a host Go
// program without touching any internal/ package directly.
package yasniy

import (
	"io"
	"os"

	"github.com/yasniy-lang/yasniy/internal/ast"
	"github.com/yasniy-lang/yasniy/internal/bytecode"
	"github.com/yasniy-lang/yasniy/internal/checker"
	"github.com/yasniy-lang/yasniy/internal/diag"
	"github.com/yasniy-lang/yasniy/internal/lexer"
	"github.com/yasniy-lang/yasniy/internal/parser"
	"github.com/yasniy-lang/yasniy/internal/resolver"
	"github.com/yasniy-lang/yasniy/internal/value"
	"github.com/yasniy-lang/yasniy/internal/vm"
)

// Engine is a reusable handle onto one yasniy toolchain configuration:
// its output streams and logger. An Engine has no loaded program until
// Parse, Compile, or Eval is called; each of those is independent and
// does not mutate the Engine's own state beyond its I/O streams.
type Engine struct {
	stdout io.Writer
	stdin  io.Reader
	logger *diag.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger sets the Engine's logger; the default is internal/diag's
// global logger (diag.L(), as installed by diag.SetGlobal). The pipeline
// stages log through diag.L() themselves, not through this field.
func WithLogger(l *diag.Logger) Option { return func(e *Engine) { e.logger = l } }

// New constructs an Engine ready to Parse, Compile, or Eval.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{stdout: os.Stdout, stdin: os.Stdin, logger: diag.L()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SetOutput redirects the stream `print` and program stdout write to.
func (e *Engine) SetOutput(w io.Writer) { e.stdout = w }

// SetInput redirects the stream `input` reads from.
func (e *Engine) SetInput(r io.Reader) { e.stdin = r }

// Parse lexes and parses source into an AST without resolving imports,
// type-checking, or compiling it. Any import statements remain
// unresolved in the returned tree.
func (e *Engine) Parse(source string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return parser.Parse(toks)
}

// Program is a fully resolved, type-checked, and compiled yasniy
// program, ready to Run or introspect. It owns at most one live VM at a
// time, created lazily on first Run or Call, so that repeated Calls
// against the same Program see each other's global-state mutations:
// CallFunction reuses the current globals rather than resetting them.
type Program struct {
	bc  *bytecode.ProgramBC
	ast *ast.Program
	v   *vm.VM
}

// AST returns the fully resolved, type-checked syntax tree p was
// compiled from, for schema extraction or other read-only projections.
// Nil for a Program built from CompileBytecode, which never had one.
func (p *Program) AST() *ast.Program { return p.ast }

// Close releases any VM resources p has accumulated (in-flight
// spawned tasks). Safe to call on a Program that was never run.
func (p *Program) Close() {
	if p.v != nil {
		p.v.Close()
	}
}

// Compile runs the full front end (parse, type checking, bytecode
// compilation, peephole optimization) over a single in-memory source
// string with no imports, producing a Program ready to Run. Use
// CompileFile for a program that imports other modules, since imports
// resolve relative to a real path on disk.
func (e *Engine) Compile(source string) (*Program, error) {
	prog, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	return checkAndCompile(prog)
}

// CompileFile runs the full front end (parse, module resolution, type
// checking, bytecode compilation, peephole optimization) over path and
// everything it transitively imports, producing a Program ready to Run.
func (e *Engine) CompileFile(path string) (*Program, error) {
	resolved, err := resolver.Resolve(path)
	if err != nil {
		return nil, err
	}
	return checkAndCompile(resolved)
}

func checkAndCompile(prog *ast.Program) (*Program, error) {
	if err := checker.Check(prog); err != nil {
		return nil, err
	}
	bc, err := bytecode.Compile(prog)
	if err != nil {
		return nil, err
	}
	bytecode.Optimize(bc)
	return &Program{bc: bc, ast: prog}, nil
}

// CompileBytecode decodes a previously packed `.ybc` blob, skipping the
// front end entirely so a compiled artifact can be re-entered directly.
func CompileBytecode(data []byte) (*Program, error) {
	bc, err := bytecode.Decode(data)
	if err != nil {
		return nil, err
	}
	return FromBytecode(bc), nil
}

// FromBytecode wraps an already-decoded ProgramBC (e.g. the payload of
// an unpacked .yapp bundle) as a runnable Program.
func FromBytecode(bc *bytecode.ProgramBC) *Program {
	return &Program{bc: bc}
}

// Bytecode returns p's compiled form, for packing into a `.ybc` or
// `.yapp` file.
func (p *Program) Bytecode() *bytecode.ProgramBC { return p.bc }

// Run executes p's entry point, which calls `main` when the program
// declares one. The entry discards main's return value before halting,
// so a compiled program's result is null.
func (e *Engine) Run(p *Program) (Value, error) {
	result, err := e.vmFor(p).Run()
	if err != nil {
		return Value{}, err
	}
	return Value{inner: result}, nil
}

// Eval parses, compiles, and runs source in one step — the shortest
// path from a script to its result, for callers that do not need the
// intermediate Program.
func (e *Engine) Eval(source string) (Value, error) {
	p, err := e.Compile(source)
	if err != nil {
		return Value{}, err
	}
	defer p.Close()
	return e.Run(p)
}

// Call invokes a specific top-level function of p by name, bypassing
// entry re-execution if the engine already ran it once on this
// Program via Run or a prior Call (resetState controls this).
func (e *Engine) Call(p *Program, name string, args []Value, resetState bool) (Value, error) {
	internalArgs := make([]value.Value, len(args))
	for i, a := range args {
		internalArgs[i] = a.inner
	}
	result, err := e.vmFor(p).CallFunction(name, internalArgs, resetState)
	if err != nil {
		return Value{}, err
	}
	return Value{inner: result}, nil
}

func (e *Engine) vmFor(p *Program) *vm.VM {
	if p.v == nil {
		p.v = vm.New(p.bc, vm.WithStdout(e.stdout), vm.WithStdin(e.stdin))
	}
	return p.v
}

// Value is a host-facing wrapper over a runtime value, keeping
// internal/value out of this package's public surface.
type Value struct{ inner value.Value }

// String renders v the way `print`/`stringify` would.
func (v Value) String() string { return value.Stringify(v.inner) }
