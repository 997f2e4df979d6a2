package resolver

import "github.com/yasniy-lang/yasniy/internal/ast"

// renameStmt mutates s in place, replacing every identifier reference
// whose name is a key of rename with its mapped value. Declaration
// names themselves (VarDecl.Name / FuncDecl.Name) are handled by the
// caller. Returns s for chaining convenience.
func renameStmt(s ast.Statement, rename map[string]string) ast.Statement {
	switch n := s.(type) {
	case *ast.VarDecl:
		n.Init = renameExpr(n.Init, rename)
	case *ast.FuncDecl:
		for i := range n.Body {
			n.Body[i] = renameStmt(n.Body[i], rename)
		}
	case *ast.AssignStmt:
		if to, ok := rename[n.Name]; ok {
			n.Name = to
		}
		n.Value = renameExpr(n.Value, rename)
	case *ast.IndexAssignStmt:
		n.Target = renameExpr(n.Target, rename)
		n.Index = renameExpr(n.Index, rename)
		n.Value = renameExpr(n.Value, rename)
	case *ast.IfStmt:
		n.Cond = renameExpr(n.Cond, rename)
		for i := range n.Then {
			n.Then[i] = renameStmt(n.Then[i], rename)
		}
		for i := range n.Else {
			n.Else[i] = renameStmt(n.Else[i], rename)
		}
	case *ast.WhileStmt:
		n.Cond = renameExpr(n.Cond, rename)
		for i := range n.Body {
			n.Body[i] = renameStmt(n.Body[i], rename)
		}
	case *ast.ForStmt:
		n.Iterable = renameExpr(n.Iterable, rename)
		for i := range n.Body {
			n.Body[i] = renameStmt(n.Body[i], rename)
		}
	case *ast.ReturnStmt:
		if n.Value != nil {
			n.Value = renameExpr(n.Value, rename)
		}
	case *ast.ExprStmt:
		n.X = renameExpr(n.X, rename)
	}
	return s
}

func renameExpr(e ast.Expression, rename map[string]string) ast.Expression {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.Identifier:
		if to, ok := rename[n.Name]; ok {
			n.Name = to
		}
	case *ast.ListLiteral:
		for i := range n.Elements {
			n.Elements[i] = renameExpr(n.Elements[i], rename)
		}
	case *ast.DictLiteral:
		for i := range n.Entries {
			n.Entries[i].Key = renameExpr(n.Entries[i].Key, rename)
			n.Entries[i].Value = renameExpr(n.Entries[i].Value, rename)
		}
	case *ast.IndexExpr:
		n.Target = renameExpr(n.Target, rename)
		n.Index = renameExpr(n.Index, rename)
	case *ast.MemberExpr:
		n.Target = renameExpr(n.Target, rename)
	case *ast.UnaryExpr:
		n.Operand = renameExpr(n.Operand, rename)
	case *ast.BinaryExpr:
		n.Left = renameExpr(n.Left, rename)
		n.Right = renameExpr(n.Right, rename)
	case *ast.CallExpr:
		if to, ok := rename[n.Callee.Name]; ok {
			n.Callee.Name = to
		}
		for i := range n.Args {
			n.Args[i] = renameExpr(n.Args[i], rename)
		}
	case *ast.AwaitExpr:
		n.Operand = renameExpr(n.Operand, rename)
	}
	return e
}
