package bytecode

import (
	"bytes"
	"testing"

	"github.com/yasniy-lang/yasniy/internal/checker"
	"github.com/yasniy-lang/yasniy/internal/lexer"
	"github.com/yasniy-lang/yasniy/internal/parser"
)

func compileSource(t *testing.T, src string) *ProgramBC {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := checker.Check(prog); err != nil {
		t.Fatalf("Check: %v", err)
	}
	bc, err := Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return bc
}

func TestCompileProducesEntryAndFunctions(t *testing.T) {
	src := "function add(a: int, b: int) -> int:\n    return a+b\n" +
		"function main() -> void:\n    print(add(1, 2))\n"
	bc := compileSource(t, src)
	if bc.Entry == nil {
		t.Fatal("compiled program has no entry function")
	}
	if _, ok := bc.Functions["add"]; !ok {
		t.Fatal("compiled program is missing the declared 'add' function")
	}
	if _, ok := bc.Functions["main"]; !ok {
		t.Fatal("compiled program is missing 'main'")
	}
}

func TestCompileGlobalCountMatchesTopLevelLets(t *testing.T) {
	src := "let a: int = 1\nlet b: int = 2\n" +
		"function main() -> void:\n    print(a+b)\n"
	bc := compileSource(t, src)
	if bc.GlobalCount != 2 {
		t.Fatalf("GlobalCount = %d, want 2", bc.GlobalCount)
	}
}

// TestEncodeDecodeRoundTrip exercises the bytecode round-trip property:
// decode(encode(compile(s))) reproduces the same disassembly as
// compile(s) itself, apart from source-line numbers, which the container
// does not carry.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := "function main() -> void:\n    print(1+2)\n"
	bc := compileSource(t, src)
	Optimize(bc)

	data, err := Encode(bc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	clearLines := func(fn *FunctionBC) {
		for i := range fn.Instructions {
			fn.Instructions[i].Line = 0
		}
	}
	clearLines(bc.Entry)
	for _, fn := range bc.Functions {
		clearLines(fn)
	}

	var before, after bytes.Buffer
	NewDisassembler(&before).Disassemble(bc)
	NewDisassembler(&after).Disassemble(decoded)
	if before.String() != after.String() {
		t.Fatalf("round-trip disassembly mismatch:\nbefore:\n%s\nafter:\n%s", before.String(), after.String())
	}
}

func TestEncodeDecodeRoundTripIsByteStable(t *testing.T) {
	src := "function main() -> void:\n    print(\"hi\")\n"
	bc := compileSource(t, src)

	data1, err := Encode(bc)
	if err != nil {
		t.Fatalf("Encode 1: %v", err)
	}
	decoded, err := Decode(data1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	data2, err := Encode(decoded)
	if err != nil {
		t.Fatalf("Encode 2: %v", err)
	}
	if !bytes.Equal(data1, data2) {
		t.Fatalf("re-encoding a decoded program produced different bytes")
	}
}
