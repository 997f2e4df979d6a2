package checker

import "github.com/yasniy-lang/yasniy/internal/ast"

// builtinSig describes one overload of a built-in function: an
// argument-count range and a per-position constraint. MaxArgs is -1 for
// unbounded variadic builtins (currently only spawn). ArgCheck returns
// an error message, or "" if arg satisfies position i. Result computes
// the builtin's static result type from the checked argument types.
type builtinSig struct {
	minArgs  int
	maxArgs  int // -1 = unbounded
	argCheck func(i int, t *ast.TypeNode) string
	result   func(args []*ast.TypeNode) *ast.TypeNode
}

func anyOf(names ...string) func(int, *ast.TypeNode) string {
	return func(_ int, t *ast.TypeNode) string {
		for _, n := range names {
			if isPrim(t, n) || isAny(t) {
				return ""
			}
		}
		return "argument has the wrong type"
	}
}

func fixed(result *ast.TypeNode) func([]*ast.TypeNode) *ast.TypeNode {
	return func([]*ast.TypeNode) *ast.TypeNode { return result }
}

var (
	tInt    = ast.Primitive(ast.PrimInteger)
	tFloat  = ast.Primitive(ast.PrimFloating)
	tBool   = ast.Primitive(ast.PrimBoolean)
	tString = ast.Primitive(ast.PrimString)
	tVoid   = ast.Primitive(ast.PrimNull)
	tAny    = ast.Primitive(ast.PrimAny)
	tTask   = ast.Primitive(ast.PrimTask)
)

func listOfAny() *ast.TypeNode  { return ast.List(tAny) }
func dictOfAny() *ast.TypeNode  { return ast.Dict(tAny, tAny) }
func httpResult() *ast.TypeNode { return ast.Dict(tString, tAny) }

// collectionOrStringOrAny accepts List[any]|Dict[any,any]|string|any.
func collectionOrStringOrAny(_ int, t *ast.TypeNode) string {
	if isAny(t) || isPrim(t, ast.PrimString) || t.Kind == ast.TList || t.Kind == ast.TDict {
		return ""
	}
	return "expected a list, dict, or string"
}

func anyArg(_ int, _ *ast.TypeNode) string { return "" }

// builtins is the fixed catalogue of built-in functions: printing,
// length, range, blocking input, sleep, stringify, integer parse, list
// append/remove, dict keys/contains, file read/write/exists/delete,
// JSON parse/stringify, HTTP GET/POST, current-millisecond clock,
// random-integer, assertions, and task primitives. The type checker
// uses this table directly; internal/vmlib implements the runtime
// behavior for the same names.
var builtins = map[string]builtinSig{
	"print":  {minArgs: 1, maxArgs: 1, argCheck: anyArg, result: fixed(tVoid)},
	"length": {minArgs: 1, maxArgs: 1, argCheck: collectionOrStringOrAny, result: fixed(tInt)},
	"range": {minArgs: 1, maxArgs: 2, argCheck: anyOf(ast.PrimInteger), result: fixed(listOfAny())},
	"input": {minArgs: 0, maxArgs: 1, argCheck: anyOf(ast.PrimString), result: fixed(tString)},
	"sleep": {minArgs: 1, maxArgs: 1, argCheck: anyOf(ast.PrimInteger), result: fixed(tVoid)},

	"stringify": {minArgs: 1, maxArgs: 1, argCheck: anyArg, result: fixed(tString)},
	"parse_int": {minArgs: 1, maxArgs: 1, argCheck: anyOf(ast.PrimString), result: fixed(tInt)},

	"append": {minArgs: 2, maxArgs: 2, argCheck: func(i int, t *ast.TypeNode) string {
		if i == 0 && t.Kind != ast.TList && !isAny(t) {
			return "append's first argument must be a list"
		}
		return ""
	}, result: fixed(tVoid)},
	"remove": {minArgs: 2, maxArgs: 2, argCheck: func(i int, t *ast.TypeNode) string {
		switch i {
		case 0:
			if t.Kind != ast.TList && !isAny(t) {
				return "remove's first argument must be a list"
			}
		case 1:
			if !isPrim(t, ast.PrimInteger) && !isAny(t) {
				return "remove's index argument must be an integer"
			}
		}
		return ""
	}, result: fixed(tVoid)},

	"keys": {minArgs: 1, maxArgs: 1, argCheck: func(_ int, t *ast.TypeNode) string {
		if t.Kind != ast.TDict && !isAny(t) {
			return "keys expects a dict"
		}
		return ""
	}, result: fixed(listOfAny())},
	"contains": {minArgs: 2, maxArgs: 2, argCheck: func(i int, t *ast.TypeNode) string {
		if i == 0 && t.Kind != ast.TDict && !isAny(t) {
			return "contains' first argument must be a dict"
		}
		return ""
	}, result: fixed(tBool)},

	"read_file":   {minArgs: 1, maxArgs: 1, argCheck: anyOf(ast.PrimString), result: fixed(tString)},
	"write_file":  {minArgs: 2, maxArgs: 2, argCheck: anyOf(ast.PrimString), result: fixed(tVoid)},
	"file_exists": {minArgs: 1, maxArgs: 1, argCheck: anyOf(ast.PrimString), result: fixed(tBool)},
	"delete_file": {minArgs: 1, maxArgs: 1, argCheck: anyOf(ast.PrimString), result: fixed(tVoid)},

	"json_parse":     {minArgs: 1, maxArgs: 1, argCheck: anyOf(ast.PrimString), result: fixed(tAny)},
	"json_stringify": {minArgs: 1, maxArgs: 1, argCheck: anyArg, result: fixed(tString)},

	"http_get": {minArgs: 1, maxArgs: 1, argCheck: anyOf(ast.PrimString), result: fixed(httpResult())},
	"http_post": {minArgs: 2, maxArgs: 2, argCheck: anyOf(ast.PrimString), result: fixed(httpResult())},

	"now_ms":   {minArgs: 0, maxArgs: 0, argCheck: anyArg, result: fixed(tInt)},
	"rand_int": {minArgs: 2, maxArgs: 2, argCheck: anyOf(ast.PrimInteger), result: fixed(tInt)},

	"assert":       {minArgs: 1, maxArgs: 2, argCheck: assertArg, result: fixed(tVoid)},
	"assert_equal": {minArgs: 2, maxArgs: 3, argCheck: anyArg, result: fixed(tVoid)},
	"fail":         {minArgs: 0, maxArgs: 1, argCheck: anyOf(ast.PrimString), result: fixed(tVoid)},

	"spawn": {minArgs: 1, maxArgs: -1, argCheck: anyArg, result: fixed(tTask)},
	"done":  {minArgs: 1, maxArgs: 1, argCheck: taskArg, result: fixed(tBool)},
	"wait":  {minArgs: 1, maxArgs: 2, argCheck: taskOrTimeoutArg, result: fixed(tAny)},
	"wait_all": {minArgs: 1, maxArgs: 2, argCheck: func(i int, t *ast.TypeNode) string {
		if i == 0 {
			if t.Kind != ast.TList && !isAny(t) {
				return "wait_all expects a list of task handles"
			}
			return ""
		}
		return timeoutArg(i, t)
	}, result: fixed(listOfAny())},
	"cancel": {minArgs: 1, maxArgs: 1, argCheck: taskArg, result: fixed(tBool)},
}

func taskArg(_ int, t *ast.TypeNode) string {
	if isPrim(t, ast.PrimTask) || isAny(t) {
		return ""
	}
	return "expected a task handle"
}

// timeoutArg checks the optional trailing timeout_ms argument wait and
// wait_all both accept.
func timeoutArg(_ int, t *ast.TypeNode) string {
	if isPrim(t, ast.PrimInteger) || isAny(t) {
		return ""
	}
	return "timeout_ms must be an integer"
}

// taskOrTimeoutArg checks wait(task[, timeout_ms]): a task handle
// followed by an optional integer timeout in milliseconds.
func taskOrTimeoutArg(i int, t *ast.TypeNode) string {
	if i == 0 {
		return taskArg(i, t)
	}
	return timeoutArg(i, t)
}

// assertArg checks assert(cond[, message]): condition boolean-or-any,
// optional second argument a string.
func assertArg(i int, t *ast.TypeNode) string {
	if i == 0 {
		if isPrim(t, ast.PrimBoolean) || isAny(t) {
			return ""
		}
		return "assert's condition must be boolean"
	}
	if isPrim(t, ast.PrimString) || isAny(t) {
		return ""
	}
	return "assert's message must be a string"
}
