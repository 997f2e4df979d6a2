package bytecode

import (
	"fmt"
	"io"
	"sort"
)

// Disassembler renders a ProgramBC as human-readable text, used by the
// `yasniy dump` CLI subcommand and by compiler/optimizer tests.
type Disassembler struct {
	w io.Writer
}

func NewDisassembler(w io.Writer) *Disassembler { return &Disassembler{w: w} }

func (d *Disassembler) Disassemble(p *ProgramBC) {
	fmt.Fprintf(d.w, "globals: %d\n\n", p.GlobalCount)
	d.disassembleFunction(p.Entry)

	names := make([]string, 0, len(p.Functions))
	for name := range p.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(d.w)
		d.disassembleFunction(p.Functions[name])
	}
}

func (d *Disassembler) disassembleFunction(fn *FunctionBC) {
	kind := "function"
	if fn.Async {
		kind = "async function"
	}
	fmt.Fprintf(d.w, "== %s %s(%v) locals=%d ==\n", kind, fn.Name, fn.Params, fn.LocalCount)
	for i, ins := range fn.Instructions {
		d.disassembleInstruction(i, ins)
	}
}

func (d *Disassembler) disassembleInstruction(offset int, ins Instruction) {
	line := "   |"
	if ins.Line > 0 {
		line = fmt.Sprintf("%4d", ins.Line)
	}
	fmt.Fprintf(d.w, "%04d %s %s\n", offset, line, ins.String())
}
