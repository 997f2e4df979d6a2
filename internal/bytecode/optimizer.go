package bytecode

import "math"

// Optimize runs the peephole optimizer over every function of p in
// place. It is purely an optimization (SPEC_FULL.md): every rewrite it
// performs must leave the program's observable behavior unchanged, so
// each rewrite here is conservative about not touching code that a
// jump targets mid-sequence.
func Optimize(p *ProgramBC) {
	optimizeFunction(p.Entry)
	for _, fn := range p.Functions {
		optimizeFunction(fn)
	}
}

func optimizeFunction(fn *FunctionBC) {
	for {
		a := collapseJumpChains(fn)
		b := foldConstants(fn)
		if !a && !b {
			return
		}
	}
}

// collapseJumpChains retargets any JMP/JMP_FALSE whose target is
// itself an unconditional JMP to that JMP's own target, so `JMP a;
// ...; a: JMP b` becomes a direct jump to b. Bounded by a visited set
// to tolerate (rather than loop forever on) a pathological jump cycle.
func collapseJumpChains(fn *FunctionBC) bool {
	changed := false
	for i, ins := range fn.Instructions {
		if ins.Op != OpJmp && ins.Op != OpJmpFalse {
			continue
		}
		t, ok := ins.Args[0].(int64)
		if !ok {
			continue
		}
		target := int(t)
		seen := map[int]bool{target: true}
		for target >= 0 && target < len(fn.Instructions) && fn.Instructions[target].Op == OpJmp {
			next, ok := fn.Instructions[target].Args[0].(int64)
			if !ok || seen[int(next)] {
				break
			}
			target = int(next)
			seen[target] = true
		}
		if int64(target) != t {
			fn.Instructions[i].Args = []any{int64(target)}
			changed = true
		}
	}
	return changed
}

// foldConstants collapses `CONST a; CONST b; <arith>` into a single
// CONST of the computed result, when both operands are compile-time
// literals and no jump in the function targets the middle of the
// triple (folding would invalidate that target).
func foldConstants(fn *FunctionBC) bool {
	targets := jumpTargets(fn)
	for i := 0; i+2 < len(fn.Instructions); i++ {
		a := fn.Instructions[i]
		b := fn.Instructions[i+1]
		op := fn.Instructions[i+2]
		if a.Op != OpConst || b.Op != OpConst {
			continue
		}
		if targets[i+1] || targets[i+2] {
			continue
		}
		result, ok := foldArith(op.Op, a.Args[0], b.Args[0])
		if !ok {
			continue
		}
		fn.Instructions[i] = Instruction{Op: OpConst, Args: []any{result}, Line: a.Line}
		removeAndRemap(fn, i+1, 2)
		return true
	}
	return false
}

func jumpTargets(fn *FunctionBC) map[int]bool {
	t := map[int]bool{}
	for _, ins := range fn.Instructions {
		if ins.Op == OpJmp || ins.Op == OpJmpFalse {
			if v, ok := ins.Args[0].(int64); ok {
				t[int(v)] = true
			}
		}
	}
	return t
}

// removeAndRemap deletes count instructions starting at from and
// retargets every JMP/JMP_FALSE in the function to account for the
// shifted indices.
func removeAndRemap(fn *FunctionBC, from, count int) {
	remap := make([]int, len(fn.Instructions))
	newIdx := 0
	for old := range fn.Instructions {
		if old >= from && old < from+count {
			remap[old] = -1
			continue
		}
		remap[old] = newIdx
		newIdx++
	}
	out := make([]Instruction, 0, newIdx)
	for old, ins := range fn.Instructions {
		if remap[old] == -1 {
			continue
		}
		if ins.Op == OpJmp || ins.Op == OpJmpFalse {
			if t, ok := ins.Args[0].(int64); ok && int(t) < len(remap) && remap[int(t)] != -1 {
				ins.Args = []any{int64(remap[int(t)])}
			}
		}
		out = append(out, ins)
	}
	fn.Instructions = out
}

func foldArith(op Op, av, bv any) (any, bool) {
	ai, aIsInt := av.(int64)
	bi, bIsInt := bv.(int64)
	af, aIsF := asNumber(av)
	bf, bIsF := asNumber(bv)
	if !aIsF || !bIsF {
		return nil, false
	}
	bothInt := aIsInt && bIsInt
	switch op {
	case OpAdd:
		if bothInt {
			return ai + bi, true
		}
		return af + bf, true
	case OpSub:
		if bothInt {
			return ai - bi, true
		}
		return af - bf, true
	case OpMul:
		if bothInt {
			return ai * bi, true
		}
		return af * bf, true
	case OpDiv:
		if bothInt {
			if bi == 0 {
				return nil, false
			}
			return ai / bi, true
		}
		if bf == 0 {
			return nil, false
		}
		return af / bf, true
	case OpMod:
		if bothInt {
			if bi == 0 {
				return nil, false
			}
			return ai % bi, true
		}
		if bf == 0 {
			return nil, false
		}
		return math.Mod(af, bf), true
	}
	return nil, false
}

func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}
