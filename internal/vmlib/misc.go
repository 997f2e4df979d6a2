package vmlib

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/value"
)

// Print writes v's stringified form followed by a newline to host's
// stdout, implementing the `print` builtin.
func Print(host Host, v value.Value) (value.Value, error) {
	fmt.Fprintln(host.Stdout(), value.Stringify(v))
	return value.NullValue(), nil
}

// Length implements `length`: sequence/collection element count, or
// string byte length.
func Length(v value.Value) (value.Value, error) {
	switch v.Kind {
	case value.String:
		return value.IntValue(int64(len(v.AsString()))), nil
	case value.List:
		return value.IntValue(int64(len(v.AsList().Items))), nil
	case value.Dict:
		return value.IntValue(int64(v.AsDict().Len())), nil
	default:
		return value.Value{}, errors.RuntimeError(fmt.Sprintf("length: unsupported operand %s", v.Kind), nil)
	}
}

// Range implements `range(n)` / `range(a, b)`, producing consecutive
// integers from a (0 if omitted) up to but excluding b.
func Range(args []value.Value) (value.Value, error) {
	var lo, hi int64
	switch len(args) {
	case 1:
		lo, hi = 0, args[0].AsInt()
	case 2:
		lo, hi = args[0].AsInt(), args[1].AsInt()
	default:
		return value.Value{}, errors.RuntimeError("range expects 1 or 2 arguments", nil)
	}
	items := make([]value.Value, 0, maxInt64(0, hi-lo))
	for i := lo; i < hi; i++ {
		items = append(items, value.IntValue(i))
	}
	return value.ListValue(&value.ListVal{Items: items}), nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Input implements blocking `input([prompt])`: writes the optional
// prompt, then reads one line from stdin with the trailing newline
// stripped.
func Input(host Host, args []value.Value) (value.Value, error) {
	if len(args) == 1 {
		fmt.Fprint(host.Stdout(), args[0].AsString())
	}
	line, err := host.Stdin().ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && line == "" {
		return value.Value{}, errors.RuntimeError("input: failed to read from stdin", err)
	}
	return value.StringValue(line), nil
}

// Sleep implements `sleep(ms)`, a suspension point for the calling task.
func Sleep(v value.Value) (value.Value, error) {
	time.Sleep(time.Duration(v.AsInt()) * time.Millisecond)
	return value.NullValue(), nil
}

// Stringify implements the `stringify` builtin.
func Stringify(v value.Value) (value.Value, error) {
	return value.StringValue(value.Stringify(v)), nil
}

// ParseInt implements `parse_int(s)`.
func ParseInt(v value.Value) (value.Value, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(v.AsString()), 10, 64)
	if err != nil {
		return value.Value{}, errors.RuntimeError(fmt.Sprintf("parse_int: %q is not an integer", v.AsString()), err)
	}
	return value.IntValue(n), nil
}

// NowMS implements the `now_ms` current-millisecond clock.
func NowMS() (value.Value, error) {
	return value.IntValue(time.Now().UnixMilli()), nil
}

// RandInt implements `rand_int(lo, hi)`: an integer in [lo, hi).
func RandInt(lo, hi value.Value) (value.Value, error) {
	l, h := lo.AsInt(), hi.AsInt()
	if h <= l {
		return value.Value{}, errors.RuntimeError("rand_int: upper bound must exceed lower bound", nil)
	}
	return value.IntValue(l + rand.Int63n(h-l)), nil
}

// Assert implements `assert(cond[, message])`.
func Assert(args []value.Value) (value.Value, error) {
	if value.Truthy(args[0]) {
		return value.NullValue(), nil
	}
	msg := "assertion failed"
	if len(args) == 2 {
		msg = args[1].AsString()
	}
	return value.Value{}, errors.RuntimeError(msg, nil)
}

// AssertEqual implements `assert_equal(actual, expected[, message])`.
func AssertEqual(args []value.Value) (value.Value, error) {
	actual, expected := args[0], args[1]
	if value.Equal(actual, expected) {
		return value.NullValue(), nil
	}
	if len(args) == 3 {
		return value.Value{}, errors.RuntimeError(args[2].AsString(), nil)
	}
	return value.Value{}, errors.RuntimeError(fmt.Sprintf("expected %s, got %s", value.Stringify(expected), value.Stringify(actual)), nil)
}

// Fail implements `fail([message])`.
func Fail(args []value.Value) (value.Value, error) {
	msg := "fail"
	if len(args) == 1 {
		msg = args[0].AsString()
	}
	return value.Value{}, errors.RuntimeError(msg, nil)
}
