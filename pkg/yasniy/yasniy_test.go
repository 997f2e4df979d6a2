package yasniy

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yasniy-lang/yasniy/internal/bytecode"
)

func mustEval(t *testing.T, src string) (string, Value, error) {
	t.Helper()
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var out bytes.Buffer
	e.SetOutput(&out)
	v, err := e.Eval(src)
	return out.String(), v, err
}

func TestEvalPrintHi(t *testing.T) {
	out, _, err := mustEval(t, "function main() -> void:\n    print(\"hi\")\n")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "hi\n" {
		t.Fatalf("stdout = %q, want %q", out, "hi\n")
	}
}

func TestEvalArithmetic(t *testing.T) {
	out, _, err := mustEval(t, "function main() -> void:\n    print(1+2)\n")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "3\n" {
		t.Fatalf("stdout = %q, want %q", out, "3\n")
	}
}

func TestEvalListLength(t *testing.T) {
	src := "let xs: List[int] = [1, 2, 3]\n" +
		"function main() -> void:\n    print(length(xs))\n"
	out, _, err := mustEval(t, src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "3\n" {
		t.Fatalf("stdout = %q, want %q", out, "3\n")
	}
}

func TestEvalAssertEqualPasses(t *testing.T) {
	_, _, err := mustEval(t, "function main() -> void:\n    assert_equal(2+2, 4)\n")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
}

func TestEvalAssertEqualFails(t *testing.T) {
	_, _, err := mustEval(t, "function main() -> void:\n    assert_equal(2+2, 5)\n")
	if err == nil {
		t.Fatal("expected a runtime error for a failed assert_equal, got nil")
	}
	if !strings.Contains(err.Error(), "5") || !strings.Contains(err.Error(), "4") {
		t.Fatalf("error %q does not mention both the expected and actual values", err.Error())
	}
}

func TestEvalAsyncTaskWait(t *testing.T) {
	src := "async function slow(n: int) -> int:\n    return n*2\n" +
		"function main() -> void:\n    let t = slow(7)\n    print(wait(t))\n"
	out, _, err := mustEval(t, src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "14\n" {
		t.Fatalf("stdout = %q, want %q", out, "14\n")
	}
}

// TestEvalWaitWithTimeoutMs exercises wait's optional second argument,
// the static/runtime mismatch fixed in internal/checker/builtins.go: the
// checker used to reject this call outright.
func TestEvalWaitWithTimeoutMs(t *testing.T) {
	src := "async function slow(n: int) -> int:\n    return n*2\n" +
		"function main() -> void:\n    let t = slow(7)\n    print(wait(t, 5000))\n"
	out, _, err := mustEval(t, src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "14\n" {
		t.Fatalf("stdout = %q, want %q", out, "14\n")
	}
}

// TestEvalWaitAllWithTimeoutMs exercises wait_all(list, timeout_ms).
func TestEvalWaitAllWithTimeoutMs(t *testing.T) {
	src := "async function slow(n: int) -> int:\n    return n*2\n" +
		"function main() -> void:\n" +
		"    let ts = [slow(1), slow(2), slow(3)]\n" +
		"    let rs = wait_all(ts, 5000)\n" +
		"    print(length(rs))\n"
	out, _, err := mustEval(t, src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "3\n" {
		t.Fatalf("stdout = %q, want %q", out, "3\n")
	}
}

// TestEvalCancelReturnsBoolean exercises cancel's declared result type:
// the checker used to reject `let ok: bool = cancel(t)` because it
// declared cancel's result as void instead of boolean.
func TestEvalCancelReturnsBoolean(t *testing.T) {
	src := "async function slow(n: int) -> int:\n    sleep(50)\n    return n*2\n" +
		"function main() -> void:\n" +
		"    let t = slow(7)\n" +
		"    let ok: bool = cancel(t)\n" +
		"    print(ok)\n"
	out, _, err := mustEval(t, src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "true\n" {
		t.Fatalf("stdout = %q, want %q", out, "true\n")
	}
}

func TestEvalBytecodeRoundTrip(t *testing.T) {
	src := "function main() -> void:\n    print(\"hi\")\n"
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prog, err := e.Compile(src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	bc := prog.Bytecode()

	var direct bytes.Buffer
	e.SetOutput(&direct)
	if _, err := e.Run(prog); err != nil {
		t.Fatalf("Run (direct): %v", err)
	}

	data, err := bytecode.Encode(bc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	roundTripped, err := CompileBytecode(data)
	if err != nil {
		t.Fatalf("CompileBytecode: %v", err)
	}
	var afterRoundTrip bytes.Buffer
	e2, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e2.SetOutput(&afterRoundTrip)
	if _, err := e2.Run(roundTripped); err != nil {
		t.Fatalf("Run (round-tripped): %v", err)
	}

	if direct.String() != afterRoundTrip.String() {
		t.Fatalf("round-trip stdout mismatch: direct=%q roundtrip=%q", direct.String(), afterRoundTrip.String())
	}
}

func TestEvalEmptySourceHaltsImmediately(t *testing.T) {
	out, v, err := mustEval(t, "")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "" {
		t.Fatalf("stdout = %q, want empty", out)
	}
	if v.String() != "null" {
		t.Fatalf("result = %q, want null", v.String())
	}
}

func TestEvalEmptyListAtModuleScope(t *testing.T) {
	src := "let xs = []\n" +
		"function main() -> void:\n    append(xs, 1)\n    print(length(xs))\n"
	out, _, err := mustEval(t, src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "1\n" {
		t.Fatalf("stdout = %q, want %q", out, "1\n")
	}
}

func TestEvalIntegerDivisionTruncates(t *testing.T) {
	out, _, err := mustEval(t, "function main() -> void:\n    print(1/2)\n")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "0\n" {
		t.Fatalf("stdout = %q, want %q", out, "0\n")
	}
}

func TestEvalFloatDivision(t *testing.T) {
	out, _, err := mustEval(t, "function main() -> void:\n    print(1.0/2)\n")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "0.5\n" {
		t.Fatalf("stdout = %q, want %q", out, "0.5\n")
	}
}

func TestCallFunctionReusesGlobals(t *testing.T) {
	src := "let counter: int = 0\n" +
		"function bump() -> int:\n    counter = counter + 1\n    return counter\n" +
		"function main() -> void:\n    bump()\n"
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prog, err := e.Compile(src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer prog.Close()
	if _, err := e.Run(prog); err != nil {
		t.Fatalf("Run: %v", err)
	}
	first, err := e.Call(prog, "bump", nil, false)
	if err != nil {
		t.Fatalf("Call 1: %v", err)
	}
	second, err := e.Call(prog, "bump", nil, false)
	if err != nil {
		t.Fatalf("Call 2: %v", err)
	}
	if first.String() != "2" || second.String() != "3" {
		t.Fatalf("expected counter to keep incrementing across Calls, got %s then %s", first.String(), second.String())
	}
}
