package resolver

import "github.com/yasniy-lang/yasniy/internal/ast"

// freeIdentVisitor collects every identifier name read as a free
// variable within a statement list: names bound locally (function
// params, `let` targets, `for` loop variables) are excluded from the
// result, for the dependency-closure rule of reading free identifiers
// while ignoring names bound locally within functions and loops.
type freeIdentVisitor struct {
	bound map[string]int // name -> depth count of active bindings (supports shadowing)
	free  map[string]bool
}

func collectFreeIdents(stmts []ast.Statement) map[string]bool {
	v := &freeIdentVisitor{bound: map[string]int{}, free: map[string]bool{}}
	v.stmts(stmts)
	return v.free
}

func (v *freeIdentVisitor) bind(name string) { v.bound[name]++ }
func (v *freeIdentVisitor) unbind(name string) {
	v.bound[name]--
	if v.bound[name] <= 0 {
		delete(v.bound, name)
	}
}

func (v *freeIdentVisitor) use(name string) {
	if v.bound[name] == 0 {
		v.free[name] = true
	}
}

func (v *freeIdentVisitor) stmts(stmts []ast.Statement) {
	for _, s := range stmts {
		v.stmt(s)
	}
}

func (v *freeIdentVisitor) stmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.VarDecl:
		v.expr(n.Init)
		v.bind(n.Name)
	case *ast.FuncDecl:
		v.use(n.Name) // recursive self-reference counts as a use of the top-level name
		for _, p := range n.Params {
			v.bind(p.Name)
		}
		v.stmts(n.Body)
		for _, p := range n.Params {
			v.unbind(p.Name)
		}
	case *ast.AssignStmt:
		v.use(n.Name)
		v.expr(n.Value)
	case *ast.IndexAssignStmt:
		v.expr(n.Target)
		v.expr(n.Index)
		v.expr(n.Value)
	case *ast.IfStmt:
		v.expr(n.Cond)
		v.stmts(n.Then)
		v.stmts(n.Else)
	case *ast.WhileStmt:
		v.expr(n.Cond)
		v.stmts(n.Body)
	case *ast.ForStmt:
		v.expr(n.Iterable)
		v.bind(n.Var)
		v.stmts(n.Body)
		v.unbind(n.Var)
	case *ast.ReturnStmt:
		if n.Value != nil {
			v.expr(n.Value)
		}
	case *ast.ExprStmt:
		v.expr(n.X)
	case *ast.BreakStmt, *ast.ContinueStmt:
	case *ast.ImportAllStmt, *ast.ImportFromStmt:
	}
}

func (v *freeIdentVisitor) expr(e ast.Expression) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Literal:
	case *ast.Identifier:
		v.use(n.Name)
	case *ast.ListLiteral:
		for _, el := range n.Elements {
			v.expr(el)
		}
	case *ast.DictLiteral:
		for _, en := range n.Entries {
			v.expr(en.Key)
			v.expr(en.Value)
		}
	case *ast.IndexExpr:
		v.expr(n.Target)
		v.expr(n.Index)
	case *ast.MemberExpr:
		v.expr(n.Target)
	case *ast.UnaryExpr:
		v.expr(n.Operand)
	case *ast.BinaryExpr:
		v.expr(n.Left)
		v.expr(n.Right)
	case *ast.CallExpr:
		v.use(n.Callee.Name)
		for _, a := range n.Args {
			v.expr(a)
		}
	case *ast.AwaitExpr:
		v.expr(n.Operand)
	}
}
