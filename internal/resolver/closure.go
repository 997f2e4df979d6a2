package resolver

import "github.com/yasniy-lang/yasniy/internal/ast"

// declName returns the top-level name a statement declares, and ok=false
// for statements that are not top-level declarations at all.
func declName(s ast.Statement) (string, bool) {
	switch n := s.(type) {
	case *ast.VarDecl:
		return n.Name, true
	case *ast.FuncDecl:
		return n.Name, true
	default:
		return "", false
	}
}

func isDecl(s ast.Statement) bool {
	_, ok := declName(s)
	return ok
}

// ExportedNames computes a module's export set: if any top-level
// declaration is marked exported, exactly those; otherwise every
// top-level declaration. `main` and any already-renamed `__mod_` symbol
// are never exported. Exported for internal/schema's isPublicApi
// projection, which applies the same rule to the fully resolved
// program.
func ExportedNames(stmts []ast.Statement) map[string]bool {
	return exportedNames(stmts)
}

func exportedNames(stmts []ast.Statement) map[string]bool {
	any := false
	for _, s := range stmts {
		if v, ok := s.(*ast.VarDecl); ok && v.Exported {
			any = true
		}
		if f, ok := s.(*ast.FuncDecl); ok && f.Exported {
			any = true
		}
	}
	out := map[string]bool{}
	for _, s := range stmts {
		name, ok := declName(s)
		if !ok || name == "main" || hasModPrefix(name) {
			continue
		}
		exported := false
		switch n := s.(type) {
		case *ast.VarDecl:
			exported = n.Exported
		case *ast.FuncDecl:
			exported = n.Exported
		}
		if !any || exported {
			out[name] = true
		}
	}
	return out
}

func hasModPrefix(name string) bool {
	return len(name) >= 6 && name[:6] == "__mod_"
}

// bodyOf returns the statement list a declaration contributes free
// identifiers from: a FuncDecl's body, or a VarDecl's initializer
// wrapped as a single-expression pseudo-statement list.
func bodyOf(s ast.Statement) []ast.Statement {
	switch n := s.(type) {
	case *ast.FuncDecl:
		return n.Body
	case *ast.VarDecl:
		return []ast.Statement{&ast.ExprStmt{Span: n.Span, X: n.Init}}
	default:
		return nil
	}
}

// dependencyClosure computes the set of top-level declarations of
// `decls` transitively reachable from `roots` by free-identifier
// reference. Returns the included declarations in their original
// relative order.
func dependencyClosure(decls []ast.Statement, roots map[string]bool) []ast.Statement {
	byName := map[string]ast.Statement{}
	for _, s := range decls {
		if name, ok := declName(s); ok {
			byName[name] = s
		}
	}
	included := map[string]bool{}
	var queue []string
	for r := range roots {
		if _, ok := byName[r]; ok && !included[r] {
			included[r] = true
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		decl := byName[name]
		free := collectFreeIdents(bodyOf(decl))
		for dep := range free {
			if _, ok := byName[dep]; ok && !included[dep] {
				included[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	var out []ast.Statement
	for _, s := range decls {
		if name, ok := declName(s); ok && included[name] {
			out = append(out, s)
		}
	}
	return out
}

// renameDeclarations renames every declaration in decls to
// `tag_original` and rewrites every internal reference among them to
// match. Returns the renamed declarations and the original-name ->
// renamed-name map (used to build export/import-name tables).
func renameDeclarations(decls []ast.Statement, tag string) ([]ast.Statement, map[string]string) {
	rename := map[string]string{}
	for _, s := range decls {
		if name, ok := declName(s); ok {
			rename[name] = tag + "_" + name
		}
	}
	out := make([]ast.Statement, len(decls))
	for i, s := range decls {
		out[i] = renameStmt(s, rename)
		switch n := out[i].(type) {
		case *ast.VarDecl:
			n.Name = rename[n.Name]
		case *ast.FuncDecl:
			n.Name = rename[n.Name]
		}
	}
	return out, rename
}
