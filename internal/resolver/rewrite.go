package resolver

import "github.com/yasniy-lang/yasniy/internal/ast"

// importBindings is the importer-local view built while linking: plain
// imported names resolve directly, namespace imports resolve through a
// nested map keyed by the namespace alias.
type importBindings struct {
	names      map[string]string            // local name -> renamed symbol
	namespaces map[string]map[string]string // alias -> (export name -> renamed symbol)
}

// rewriteAliases performs a single, explicitly non-scope-aware alias
// rewriting pass: every Identifier whose name is a key of b.names is
// replaced by the mapped symbol, and every `N.x` MemberExpr where N is
// a namespace alias and x is in its mapping becomes an Identifier
// holding the mapped symbol. Unlike dependencyClosure's free-identifier
// collection, this pass does not track local shadowing — it runs once,
// uniformly, before type checking.
func rewriteAliases(stmts []ast.Statement, b importBindings) {
	for i := range stmts {
		stmts[i] = rewriteStmt(stmts[i], b)
	}
}

func rewriteStmt(s ast.Statement, b importBindings) ast.Statement {
	switch n := s.(type) {
	case *ast.VarDecl:
		n.Init = rewriteExpr(n.Init, b)
	case *ast.FuncDecl:
		for i := range n.Body {
			n.Body[i] = rewriteStmt(n.Body[i], b)
		}
	case *ast.AssignStmt:
		if to, ok := b.names[n.Name]; ok {
			n.Name = to
		}
		n.Value = rewriteExpr(n.Value, b)
	case *ast.IndexAssignStmt:
		n.Target = rewriteExpr(n.Target, b)
		n.Index = rewriteExpr(n.Index, b)
		n.Value = rewriteExpr(n.Value, b)
	case *ast.IfStmt:
		n.Cond = rewriteExpr(n.Cond, b)
		for i := range n.Then {
			n.Then[i] = rewriteStmt(n.Then[i], b)
		}
		for i := range n.Else {
			n.Else[i] = rewriteStmt(n.Else[i], b)
		}
	case *ast.WhileStmt:
		n.Cond = rewriteExpr(n.Cond, b)
		for i := range n.Body {
			n.Body[i] = rewriteStmt(n.Body[i], b)
		}
	case *ast.ForStmt:
		n.Iterable = rewriteExpr(n.Iterable, b)
		for i := range n.Body {
			n.Body[i] = rewriteStmt(n.Body[i], b)
		}
	case *ast.ReturnStmt:
		if n.Value != nil {
			n.Value = rewriteExpr(n.Value, b)
		}
	case *ast.ExprStmt:
		n.X = rewriteExpr(n.X, b)
	}
	return s
}

func rewriteExpr(e ast.Expression, b importBindings) ast.Expression {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Identifier:
		if to, ok := b.names[n.Name]; ok {
			n.Name = to
		}
	case *ast.ListLiteral:
		for i := range n.Elements {
			n.Elements[i] = rewriteExpr(n.Elements[i], b)
		}
	case *ast.DictLiteral:
		for i := range n.Entries {
			n.Entries[i].Key = rewriteExpr(n.Entries[i].Key, b)
			n.Entries[i].Value = rewriteExpr(n.Entries[i].Value, b)
		}
	case *ast.IndexExpr:
		n.Target = rewriteExpr(n.Target, b)
		n.Index = rewriteExpr(n.Index, b)
	case *ast.MemberExpr:
		if ident, ok := n.Target.(*ast.Identifier); ok {
			if ns, ok := b.namespaces[ident.Name]; ok {
				if sym, ok := ns[n.Name]; ok {
					return &ast.Identifier{Span: n.Span, Name: sym}
				}
			}
		}
		n.Target = rewriteExpr(n.Target, b)
	case *ast.UnaryExpr:
		n.Operand = rewriteExpr(n.Operand, b)
	case *ast.BinaryExpr:
		n.Left = rewriteExpr(n.Left, b)
		n.Right = rewriteExpr(n.Right, b)
	case *ast.CallExpr:
		if to, ok := b.names[n.Callee.Name]; ok {
			n.Callee.Name = to
		}
		for i := range n.Args {
			n.Args[i] = rewriteExpr(n.Args[i], b)
		}
	case *ast.AwaitExpr:
		n.Operand = rewriteExpr(n.Operand, b)
	}
	return e
}
