package vmlib

import (
	"fmt"

	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/value"
)

// Fn is one builtin implementation. host carries stdout/stdin; args are
// already-evaluated arguments in call order. Builtins that need VM-level
// task control (spawn/done/wait/wait_all/cancel) are not in this table:
// the VM intercepts those five names before consulting it, since they
// need access to the task registry vmlib cannot see.
type Fn func(host Host, args []value.Value) (value.Value, error)

// Table is the fixed builtin catalogue, excluding the five task
// primitives the VM handles directly.
var Table = map[string]Fn{
	"print":  func(h Host, a []value.Value) (value.Value, error) { return Print(h, a[0]) },
	"length": func(_ Host, a []value.Value) (value.Value, error) { return Length(a[0]) },
	"range":  func(_ Host, a []value.Value) (value.Value, error) { return Range(a) },
	"input":  func(h Host, a []value.Value) (value.Value, error) { return Input(h, a) },
	"sleep":  func(_ Host, a []value.Value) (value.Value, error) { return Sleep(a[0]) },

	"stringify": func(_ Host, a []value.Value) (value.Value, error) { return Stringify(a[0]) },
	"parse_int": func(_ Host, a []value.Value) (value.Value, error) { return ParseInt(a[0]) },

	"append": func(_ Host, a []value.Value) (value.Value, error) { return Append(a[0], a[1]) },
	"remove": func(_ Host, a []value.Value) (value.Value, error) { return Remove(a[0], a[1]) },
	"keys":   func(_ Host, a []value.Value) (value.Value, error) { return Keys(a[0]) },
	"contains": func(_ Host, a []value.Value) (value.Value, error) {
		return Contains(a[0], a[1])
	},

	"read_file":   func(_ Host, a []value.Value) (value.Value, error) { return ReadFile(a[0]) },
	"write_file":  func(_ Host, a []value.Value) (value.Value, error) { return WriteFile(a[0], a[1]) },
	"file_exists": func(_ Host, a []value.Value) (value.Value, error) { return FileExists(a[0]) },
	"delete_file": func(_ Host, a []value.Value) (value.Value, error) { return DeleteFile(a[0]) },

	"json_parse":     func(_ Host, a []value.Value) (value.Value, error) { return JSONParse(a[0]) },
	"json_stringify": func(_ Host, a []value.Value) (value.Value, error) { return JSONStringify(a[0]) },

	"http_get":  func(_ Host, a []value.Value) (value.Value, error) { return HTTPGet(a[0]) },
	"http_post": func(_ Host, a []value.Value) (value.Value, error) { return HTTPPost(a[0], a[1]) },

	"now_ms":   func(_ Host, _ []value.Value) (value.Value, error) { return NowMS() },
	"rand_int": func(_ Host, a []value.Value) (value.Value, error) { return RandInt(a[0], a[1]) },

	"assert":       func(_ Host, a []value.Value) (value.Value, error) { return Assert(a) },
	"assert_equal": func(_ Host, a []value.Value) (value.Value, error) { return AssertEqual(a) },
	"fail":         func(_ Host, a []value.Value) (value.Value, error) { return Fail(a) },
}

// TaskPrimitives names the five builtins the VM must intercept itself
// rather than dispatching through Table.
var TaskPrimitives = map[string]bool{
	"spawn": true, "done": true, "wait": true, "wait_all": true, "cancel": true,
}

// Lookup resolves name to its implementation, or reports it unknown.
func Lookup(host Host, name string, args []value.Value) (value.Value, error) {
	fn, ok := Table[name]
	if !ok {
		return value.Value{}, errors.RuntimeError(fmt.Sprintf("unknown function %q", name), nil)
	}
	return fn(host, args)
}
