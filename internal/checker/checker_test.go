package checker

import (
	"strings"
	"testing"

	"github.com/yasniy-lang/yasniy/internal/lexer"
	"github.com/yasniy-lang/yasniy/internal/parser"
)

func checkSource(t *testing.T, src string) error {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return Check(prog)
}

func TestCheckAcceptsWaitWithTimeout(t *testing.T) {
	src := "async function slow(n: int) -> int:\n    return n*2\n" +
		"function main() -> void:\n    let t = slow(7)\n    let r: int = wait(t, 5000)\n    print(r)\n"
	if err := checkSource(t, src); err != nil {
		t.Fatalf("wait(task, timeout_ms) should type-check, got: %v", err)
	}
}

func TestCheckAcceptsWaitAllWithTimeout(t *testing.T) {
	src := "async function slow(n: int) -> int:\n    return n*2\n" +
		"function main() -> void:\n" +
		"    let ts = [slow(1), slow(2)]\n" +
		"    let rs = wait_all(ts, 1000)\n" +
		"    print(length(rs))\n"
	if err := checkSource(t, src); err != nil {
		t.Fatalf("wait_all(list, timeout_ms) should type-check, got: %v", err)
	}
}

func TestCheckRejectsWaitWithTooManyArgs(t *testing.T) {
	src := "async function slow(n: int) -> int:\n    return n*2\n" +
		"function main() -> void:\n    let t = slow(7)\n    print(wait(t, 1000, 1))\n"
	if err := checkSource(t, src); err == nil {
		t.Fatal("wait with 3 arguments should be rejected")
	}
}

func TestCheckRejectsWaitWithNonIntegerTimeout(t *testing.T) {
	src := "async function slow(n: int) -> int:\n    return n*2\n" +
		"function main() -> void:\n    let t = slow(7)\n    print(wait(t, \"soon\"))\n"
	if err := checkSource(t, src); err == nil {
		t.Fatal("wait with a non-integer timeout should be rejected")
	}
}

func TestCheckAcceptsCancelAsBoolean(t *testing.T) {
	src := "async function slow(n: int) -> int:\n    return n*2\n" +
		"function main() -> void:\n    let t = slow(7)\n    let ok: bool = cancel(t)\n    print(ok)\n"
	if err := checkSource(t, src); err != nil {
		t.Fatalf("let ok: bool = cancel(t) should type-check, got: %v", err)
	}
}

func TestCheckRejectsDuplicateFunction(t *testing.T) {
	src := "function f() -> void:\n    print(1)\n" +
		"function f() -> void:\n    print(2)\n" +
		"function main() -> void:\n    f()\n"
	err := checkSource(t, src)
	if err == nil {
		t.Fatal("duplicate function declaration should be rejected")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("error %q does not mention the duplicate declaration", err.Error())
	}
}

func TestCheckRejectsWrongMainSignature(t *testing.T) {
	src := "function main(x: int) -> void:\n    print(x)\n"
	if err := checkSource(t, src); err == nil {
		t.Fatal("main with parameters should be rejected")
	}
}
