package vm

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yasniy-lang/yasniy/internal/bytecode"
	"github.com/yasniy-lang/yasniy/internal/diag"
	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/value"
	"github.com/yasniy-lang/yasniy/internal/vmlib"
)

// exec runs fn to completion against globals (shared, mutable, owned by
// whichever caller constructed it: the VM's own array for the main
// frame, or one task's private snapshot). cancel is non-nil only for a
// spawned task's own top-level invocation; the pre-execution check it
// gates runs once before execution begins — nested CALLs never
// receive it.
func (v *VM) exec(fn *bytecode.FunctionBC, globals []value.Value, args []value.Value, cancel <-chan struct{}) (value.Value, error) {
	if cancel != nil {
		select {
		case <-cancel:
			return value.Value{}, errors.RuntimeError("canceled", nil)
		default:
		}
	}

	locals := make([]value.Value, fn.LocalCount)
	copy(locals, args)
	var stack []value.Value
	push := func(x value.Value) { stack = append(stack, x) }
	pop := func() value.Value {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return top
	}

	ip := 0
	for ip < len(fn.Instructions) {
		ins := fn.Instructions[ip]
		switch ins.Op {
		case bytecode.OpConst:
			push(goLiteralToValue(ins.Args[0]))
		case bytecode.OpConstNull:
			push(value.NullValue())
		case bytecode.OpLoad:
			push(locals[ins.Args[0].(int64)])
		case bytecode.OpStore:
			locals[ins.Args[0].(int64)] = pop()
		case bytecode.OpGLoad:
			push(globals[ins.Args[0].(int64)])
		case bytecode.OpGStore:
			globals[ins.Args[0].(int64)] = pop()
		case bytecode.OpPop:
			pop()

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod,
			bytecode.OpEq, bytecode.OpNe, bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe,
			bytecode.OpAnd, bytecode.OpOr:
			b, a := pop(), pop()
			result, err := binaryOp(ins.Op, a, b)
			if err != nil {
				return value.Value{}, err
			}
			push(result)

		case bytecode.OpNeg:
			r, err := unaryNeg(pop())
			if err != nil {
				return value.Value{}, err
			}
			push(r)
		case bytecode.OpNot:
			push(unaryNot(pop()))

		case bytecode.OpJmp:
			ip = int(ins.Args[0].(int64))
			continue
		case bytecode.OpJmpFalse:
			cond := pop()
			if !value.Truthy(cond) {
				ip = int(ins.Args[0].(int64))
				continue
			}

		case bytecode.OpCall:
			name := ins.Args[0].(string)
			argc := int(ins.Args[1].(int64))
			callArgs := make([]value.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				callArgs[i] = pop()
			}
			result, err := v.dispatchCall(name, callArgs, globals)
			if err != nil {
				return value.Value{}, err
			}
			push(result)

		case bytecode.OpRet:
			return pop(), nil

		case bytecode.OpMakeList:
			n := int(ins.Args[0].(int64))
			items := make([]value.Value, n)
			for i := n - 1; i >= 0; i-- {
				items[i] = pop()
			}
			push(value.ListValue(&value.ListVal{Items: items}))

		case bytecode.OpMakeDict:
			n := int(ins.Args[0].(int64))
			pairs := make([]value.Value, 2*n)
			for i := 2*n - 1; i >= 0; i-- {
				pairs[i] = pop()
			}
			d := value.NewDict()
			for i := 0; i < n; i++ {
				d.Set(pairs[2*i], pairs[2*i+1])
			}
			push(value.DictValue(d))

		case bytecode.OpIndexGet:
			idx, target := pop(), pop()
			result, err := vmlib.IndexGet(target, idx)
			if err != nil {
				return value.Value{}, err
			}
			push(result)
		case bytecode.OpIndexSet:
			val, idx, target := pop(), pop(), pop()
			if err := vmlib.IndexSet(target, idx, val); err != nil {
				return value.Value{}, err
			}

		case bytecode.OpLen:
			result, err := vmlib.Len(pop())
			if err != nil {
				return value.Value{}, err
			}
			push(result)

		case bytecode.OpHalt:
			if len(stack) > 0 {
				return pop(), nil
			}
			return value.NullValue(), nil

		default:
			return value.Value{}, errors.RuntimeError(fmt.Sprintf("unimplemented opcode %s", ins.Op), nil)
		}
		ip++
	}
	return value.NullValue(), nil
}

// goLiteralToValue converts a compiler-produced Go literal (int64,
// float64, string, bool, or nil) into a runtime Value.
func goLiteralToValue(lit any) value.Value {
	switch x := lit.(type) {
	case int64:
		return value.IntValue(x)
	case float64:
		return value.FloatValue(x)
	case string:
		return value.StringValue(x)
	case bool:
		return value.BoolValue(x)
	case nil:
		return value.NullValue()
	default:
		return value.NullValue()
	}
}

// dispatchCall resolves name to a task primitive, a user function, or a
// builtin, in that order — functions are called by name at runtime
// rather than through a resolved static reference.
func (v *VM) dispatchCall(name string, args []value.Value, globals []value.Value) (value.Value, error) {
	if vmlib.TaskPrimitives[name] {
		return v.callTaskPrimitive(name, args, globals)
	}
	if fn, ok := v.program.Functions[name]; ok {
		return v.exec(fn, globals, args, nil)
	}
	return vmlib.Lookup(v, name, args)
}

func (v *VM) callTaskPrimitive(name string, args []value.Value, globals []value.Value) (value.Value, error) {
	switch name {
	case "spawn":
		return v.spawn(args, globals)
	case "done":
		t, err := asTask(args[0])
		if err != nil {
			return value.Value{}, errors.RuntimeError(err.Error(), err)
		}
		select {
		case <-t.done:
			return value.BoolValue(true), nil
		default:
			return value.BoolValue(false), nil
		}
	case "wait":
		return v.wait(args)
	case "wait_all":
		return v.waitAll(args)
	case "cancel":
		t, err := asTask(args[0])
		if err != nil {
			return value.Value{}, errors.RuntimeError(err.Error(), err)
		}
		t.requestCancel()
		diag.L().Stage("run").Debug("task canceled", zap.Int64("task", t.id))
		return value.BoolValue(true), nil
	}
	return value.Value{}, errors.RuntimeError("unknown task primitive \""+name+"\"", nil)
}

func (v *VM) spawn(args []value.Value, globals []value.Value) (value.Value, error) {
	name := args[0].AsString()
	calleeArgs := args[1:]
	fn, isUserFunc := v.program.Functions[name]
	if !isUserFunc {
		if _, isBuiltin := vmlib.Table[name]; !isBuiltin {
			return value.Value{}, errors.RuntimeError("spawn: unknown function \""+name+"\"", nil)
		}
	}

	snapshot := make([]value.Value, len(globals))
	for i, g := range globals {
		snapshot[i] = value.Clone(g)
	}

	task := v.reg.new()
	diag.L().Stage("run").Debug("task spawned", zap.Int64("task", task.id), zap.String("callee", name))
	go func() {
		defer close(task.done)
		if task.isCanceled() {
			task.err = errors.RuntimeError("canceled", nil)
			return
		}
		if isUserFunc {
			task.result, task.err = v.exec(fn, snapshot, calleeArgs, task.cancelCh)
			return
		}
		task.result, task.err = vmlib.Lookup(v, name, calleeArgs)
	}()
	return value.TaskValue(task), nil
}

func (v *VM) wait(args []value.Value) (value.Value, error) {
	t, err := asTask(args[0])
	if err != nil {
		return value.Value{}, errors.RuntimeError(err.Error(), err)
	}
	return waitOne(t, args[1:])
}

func waitOne(t *Task, timeoutArg []value.Value) (value.Value, error) {
	var timeout <-chan time.Time
	if len(timeoutArg) == 1 {
		timeout = time.After(time.Duration(timeoutArg[0].AsInt()) * time.Millisecond)
	}
	select {
	case <-t.done:
		if t.err != nil {
			return value.Value{}, t.err
		}
		return t.result, nil
	case <-timeout:
		return value.Value{}, errors.RuntimeError("timeout", nil)
	}
}

func (v *VM) waitAll(args []value.Value) (value.Value, error) {
	list := args[0].AsList().Items
	results := make([]value.Value, len(list))
	for i, tv := range list {
		t, err := asTask(tv)
		if err != nil {
			return value.Value{}, errors.RuntimeError(err.Error(), err)
		}
		r, err := waitOne(t, args[1:])
		if err != nil {
			return value.Value{}, err
		}
		results[i] = r
	}
	return value.ListValue(&value.ListVal{Items: results}), nil
}
