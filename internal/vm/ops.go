package vm

import (
	"fmt"
	"math"

	"github.com/yasniy-lang/yasniy/internal/bytecode"
	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/value"
)

// binaryOp implements the ADD/SUB/MUL/DIV/MOD/comparison opcodes'
// runtime semantics: float promotion, truncating integer division,
// string/list concatenation on `+`.
func binaryOp(op bytecode.Op, a, b value.Value) (value.Value, error) {
	switch op {
	case bytecode.OpEq:
		return value.BoolValue(value.Equal(a, b)), nil
	case bytecode.OpNe:
		return value.BoolValue(!value.Equal(a, b)), nil
	case bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
		return orderOp(op, a, b)
	case bytecode.OpAnd:
		return value.BoolValue(value.Truthy(a) && value.Truthy(b)), nil
	case bytecode.OpOr:
		return value.BoolValue(value.Truthy(a) || value.Truthy(b)), nil
	}

	if op == bytecode.OpAdd {
		if a.Kind == value.String && b.Kind == value.String {
			return value.StringValue(a.AsString() + b.AsString()), nil
		}
		if a.Kind == value.List && b.Kind == value.List {
			items := append(append([]value.Value{}, a.AsList().Items...), b.AsList().Items...)
			return value.ListValue(&value.ListVal{Items: items}), nil
		}
	}

	if !isNumeric(a) || !isNumeric(b) {
		return value.Value{}, errors.RuntimeError(fmt.Sprintf("%s: incompatible operands %s and %s", op, a.Kind, b.Kind), nil)
	}
	if a.Kind == value.Int && b.Kind == value.Int {
		return intArith(op, a.AsInt(), b.AsInt())
	}
	return floatArith(op, numOf(a), numOf(b))
}

func isNumeric(v value.Value) bool { return v.Kind == value.Int || v.Kind == value.Float }

func numOf(v value.Value) float64 {
	if v.Kind == value.Int {
		return float64(v.AsInt())
	}
	return v.AsFloat()
}

func intArith(op bytecode.Op, a, b int64) (value.Value, error) {
	switch op {
	case bytecode.OpAdd:
		return value.IntValue(a + b), nil
	case bytecode.OpSub:
		return value.IntValue(a - b), nil
	case bytecode.OpMul:
		return value.IntValue(a * b), nil
	case bytecode.OpDiv:
		if b == 0 {
			return value.Value{}, errors.RuntimeError("division by zero", nil)
		}
		return value.IntValue(a / b), nil
	case bytecode.OpMod:
		if b == 0 {
			return value.Value{}, errors.RuntimeError("division by zero", nil)
		}
		return value.IntValue(a % b), nil
	}
	return value.Value{}, errors.RuntimeError(fmt.Sprintf("unsupported integer operator %s", op), nil)
}

func floatArith(op bytecode.Op, a, b float64) (value.Value, error) {
	switch op {
	case bytecode.OpAdd:
		return value.FloatValue(a + b), nil
	case bytecode.OpSub:
		return value.FloatValue(a - b), nil
	case bytecode.OpMul:
		return value.FloatValue(a * b), nil
	case bytecode.OpDiv:
		if b == 0 {
			return value.Value{}, errors.RuntimeError("division by zero", nil)
		}
		return value.FloatValue(a / b), nil
	case bytecode.OpMod:
		if b == 0 {
			return value.Value{}, errors.RuntimeError("division by zero", nil)
		}
		return value.FloatValue(math.Mod(a, b)), nil
	}
	return value.Value{}, errors.RuntimeError(fmt.Sprintf("unsupported float operator %s", op), nil)
}

func orderOp(op bytecode.Op, a, b value.Value) (value.Value, error) {
	lt, err := value.Less(a, b)
	if err != nil {
		return value.Value{}, errors.RuntimeError(err.Error(), err)
	}
	eq := value.Equal(a, b)
	switch op {
	case bytecode.OpLt:
		return value.BoolValue(lt), nil
	case bytecode.OpLe:
		return value.BoolValue(lt || eq), nil
	case bytecode.OpGt:
		return value.BoolValue(!lt && !eq), nil
	case bytecode.OpGe:
		return value.BoolValue(!lt), nil
	}
	return value.Value{}, errors.RuntimeError(fmt.Sprintf("unsupported comparison operator %s", op), nil)
}

func unaryNeg(v value.Value) (value.Value, error) {
	switch v.Kind {
	case value.Int:
		return value.IntValue(-v.AsInt()), nil
	case value.Float:
		return value.FloatValue(-v.AsFloat()), nil
	default:
		return value.Value{}, errors.RuntimeError(fmt.Sprintf("unary '-' requires a numeric operand, got %s", v.Kind), nil)
	}
}

func unaryNot(v value.Value) value.Value {
	return value.BoolValue(!value.Truthy(v))
}
