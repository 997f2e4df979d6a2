// Package vm implements the stack-based bytecode interpreter: a
// single-threaded executor per call, an ambient goroutine pool for
// spawned tasks, and copy-on-spawn globals isolation.
package vm

import (
	"bufio"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/yasniy-lang/yasniy/internal/bytecode"
	"github.com/yasniy-lang/yasniy/internal/diag"
	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/value"
)

// VM executes one ProgramBC. A VM instance serves one caller at a time
// on its main frame: Run and CallFunction must not be invoked
// concurrently on the same instance. Tasks spawned from it run
// concurrently on the ambient pool against isolated globals snapshots.
type VM struct {
	program *bytecode.ProgramBC
	globals []value.Value
	reg     registry

	stdout io.Writer
	stdin  *bufio.Reader
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithStdout overrides the stream `print` and `input`'s prompt write to.
func WithStdout(w io.Writer) Option { return func(v *VM) { v.stdout = w } }

// WithStdin overrides the stream `input` reads from.
func WithStdin(r io.Reader) Option { return func(v *VM) { v.stdin = bufio.NewReader(r) } }

// New constructs a VM for program, ready to Run or CallFunction.
func New(program *bytecode.ProgramBC, opts ...Option) *VM {
	v := &VM{program: program, stdout: os.Stdout, stdin: bufio.NewReader(os.Stdin)}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *VM) Stdout() io.Writer    { return v.stdout }
func (v *VM) Stdin() *bufio.Reader { return v.stdin }

// Close signals cancellation to every in-flight task spawned by this
// VM. It does not wait for their goroutines to exit.
func (v *VM) Close() { v.reg.cancelAll() }

// Run executes `__entry__` with a fresh globals array, returning the
// entry's own result: the value left on the stack at HALT, or null. A
// compiled entry POPs `main`'s return value before halting, so its
// result is null.
func (v *VM) Run() (value.Value, error) {
	log := diag.L().Stage("run")
	log.Debug("entry starting", zap.Int("globals", v.program.GlobalCount))
	v.globals = make([]value.Value, v.program.GlobalCount)
	result, err := v.exec(v.program.Entry, v.globals, nil, nil)
	if err != nil {
		log.Debug("entry aborted", zap.Error(err))
		return result, err
	}
	log.Info("entry finished")
	return result, nil
}

// CallFunction either re-runs the entry (if resetState or this is the
// first call) or reuses the current globals, then invokes the named
// user function with args on the current globals.
func (v *VM) CallFunction(name string, args []value.Value, resetState bool) (value.Value, error) {
	log := diag.L().Stage("run")
	if v.globals == nil || resetState {
		v.globals = make([]value.Value, v.program.GlobalCount)
		if _, err := v.exec(v.program.Entry, v.globals, nil, nil); err != nil {
			return value.Value{}, err
		}
	}
	fn, ok := v.program.Functions[name]
	if !ok {
		return value.Value{}, errors.RuntimeError("unknown function \""+name+"\"", nil)
	}
	log.Debug("calling function", zap.String("name", name), zap.Int("args", len(args)))
	return v.exec(fn, v.globals, args, nil)
}
