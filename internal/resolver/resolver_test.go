package resolver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yasniy-lang/yasniy/internal/ast"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile %s: %v", path, err)
	}
	return path
}

func TestResolveCyclicImportFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.яс", "import \"b\"\n\nfunction fromA() -> void:\n    print(\"a\")\n")
	writeFile(t, dir, "b.яс", "import \"a\"\n\nfunction fromB() -> void:\n    print(\"b\")\n")
	entry := writeFile(t, dir, "entry.яс", "import \"a\"\n\nfunction main() -> void:\n    fromA()\n")

	_, err := Resolve(entry)
	if err == nil {
		t.Fatal("expected a cyclic import error")
	}
	if !strings.Contains(err.Error(), "cyclic import") {
		t.Fatalf("error %q does not report a cyclic import", err.Error())
	}
}

func TestResolveInlinesImportedDeclarations(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.яс", "export function double(n: int) -> int:\n    return n*2\n")
	entry := writeFile(t, dir, "entry.яс", "import \"lib\"\n\nfunction main() -> void:\n    print(double(21))\n")

	prog, err := Resolve(entry)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(prog.Statements) == 0 {
		t.Fatal("expected resolved program to carry at least the inlined declaration and main")
	}
	for _, s := range prog.Statements {
		switch s.(type) {
		case *ast.ImportAllStmt, *ast.ImportFromStmt:
			t.Fatalf("resolved program still contains an import statement: %T", s)
		}
	}
}

func TestResolveMissingModuleFails(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "entry.яс", "import \"nope\"\n\nfunction main() -> void:\n    print(1)\n")

	_, err := Resolve(entry)
	if err == nil {
		t.Fatal("expected a module-not-found error")
	}
}
