// Package checker implements the two-phase static type checker: a
// first pass collecting every top-level function's signature, then a
// second pass checking statement and expression types against them,
// over the linked program produced by internal/resolver.
package checker

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yasniy-lang/yasniy/internal/ast"
	"github.com/yasniy-lang/yasniy/internal/diag"
)

// funcSig is a declared function's checked signature.
type funcSig struct {
	params []*ast.TypeNode
	ret    *ast.TypeNode
	async  bool
}

// Checker holds the state of one checking run: the function signature
// table built in phase 1 and used throughout phase 2.
type Checker struct {
	sigs map[string]*funcSig
}

// Check runs both phases over prog and returns the first error found,
// or nil if the program is well-typed.
func Check(prog *ast.Program) error {
	log := diag.L().Stage("typecheck")
	c := &Checker{sigs: map[string]*funcSig{}}
	if err := c.buildSignatures(prog); err != nil {
		log.Debug("signature collection failed", zap.Error(err))
		return err
	}
	if err := c.checkProgram(prog); err != nil {
		log.Debug("type check failed", zap.Error(err))
		return err
	}
	log.Info("program type-checked", zap.Int("functions", len(c.sigs)))
	return nil
}

func (c *Checker) buildSignatures(prog *ast.Program) error {
	var mainDecl *ast.FuncDecl
	for _, s := range prog.Statements {
		fd, ok := s.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if _, dup := c.sigs[fd.Name]; dup {
			return c.errf(fd.Pos(), "duplicate function declaration '%s'", fd.Name)
		}
		params := make([]*ast.TypeNode, len(fd.Params))
		for i, p := range fd.Params {
			params[i] = p.Type
		}
		c.sigs[fd.Name] = &funcSig{params: params, ret: fd.ReturnType, async: fd.Async}
		if fd.Name == "main" {
			mainDecl = fd
		}
	}
	if mainDecl != nil {
		if len(mainDecl.Params) != 0 {
			return c.errf(mainDecl.Pos(), "main must take zero parameters")
		}
		if !isPrim(mainDecl.ReturnType, ast.PrimNull) {
			return c.errf(mainDecl.Pos(), "main must return void")
		}
		if mainDecl.Async {
			return c.errf(mainDecl.Pos(), "main must not be async")
		}
	}
	return nil
}

// checkProgram implements phase 2: a root scope pre-declares every
// top-level variable as `any`, then each top-level statement (including
// function bodies) is checked against it.
func (c *Checker) checkProgram(prog *ast.Program) error {
	root := newScope(nil)
	for _, s := range prog.Statements {
		if v, ok := s.(*ast.VarDecl); ok {
			root.declare(v.Name, tAny)
		}
	}
	for _, s := range prog.Statements {
		if err := c.checkStmt(s, root); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStmt(s ast.Statement, sc *scope) error {
	switch n := s.(type) {
	case *ast.VarDecl:
		t, err := c.exprType(n.Init, sc)
		if err != nil {
			return err
		}
		if n.Annotation != nil {
			if !assignable(t, n.Annotation) {
				return c.errf(n.Pos(), "cannot assign %s to declared type %s", t, n.Annotation)
			}
			sc.declare(n.Name, n.Annotation)
		} else {
			sc.declare(n.Name, t)
		}
		return nil

	case *ast.FuncDecl:
		fnScope := sc.funcScope(n.ReturnType)
		for _, p := range n.Params {
			fnScope.declare(p.Name, p.Type)
		}
		for _, body := range n.Body {
			if err := c.checkStmt(body, fnScope); err != nil {
				return err
			}
		}
		return nil

	case *ast.AssignStmt:
		target, ok := sc.lookup(n.Name)
		if !ok {
			return c.errf(n.Pos(), "assignment to undeclared name '%s'", n.Name)
		}
		val, err := c.exprType(n.Value, sc)
		if err != nil {
			return err
		}
		if !assignable(val, target) {
			return c.errf(n.Pos(), "cannot assign %s to '%s' of type %s", val, n.Name, target)
		}
		return nil

	case *ast.IndexAssignStmt:
		return c.checkIndexAssign(n, sc)

	case *ast.IfStmt:
		cond, err := c.exprType(n.Cond, sc)
		if err != nil {
			return err
		}
		if !isPrim(cond, ast.PrimBoolean) && !isAny(cond) {
			return c.errf(n.Pos(), "if condition must be boolean, got %s", cond)
		}
		thenSc := newScope(sc)
		for _, st := range n.Then {
			if err := c.checkStmt(st, thenSc); err != nil {
				return err
			}
		}
		elseSc := newScope(sc)
		for _, st := range n.Else {
			if err := c.checkStmt(st, elseSc); err != nil {
				return err
			}
		}
		return nil

	case *ast.WhileStmt:
		cond, err := c.exprType(n.Cond, sc)
		if err != nil {
			return err
		}
		if !isPrim(cond, ast.PrimBoolean) && !isAny(cond) {
			return c.errf(n.Pos(), "while condition must be boolean, got %s", cond)
		}
		body := sc.loopScope()
		for _, st := range n.Body {
			if err := c.checkStmt(st, body); err != nil {
				return err
			}
		}
		return nil

	case *ast.ForStmt:
		iter, err := c.exprType(n.Iterable, sc)
		if err != nil {
			return err
		}
		var elemType *ast.TypeNode
		switch {
		case isAny(iter):
			elemType = tAny
		case iter.Kind == ast.TList:
			elemType = iter.Elem
		case isPrim(iter, ast.PrimString):
			elemType = tString
		default:
			return c.errf(n.Pos(), "for-loop source must be a list, string, or any, got %s", iter)
		}
		body := sc.loopScope()
		body.declare(n.Var, elemType)
		for _, st := range n.Body {
			if err := c.checkStmt(st, body); err != nil {
				return err
			}
		}
		return nil

	case *ast.ReturnStmt:
		if sc.fn == nil {
			return c.errf(n.Pos(), "'return' outside a function")
		}
		if n.Value == nil {
			if !isPrim(sc.fn.returnType, ast.PrimNull) {
				return c.errf(n.Pos(), "missing return value for non-void function")
			}
			return nil
		}
		t, err := c.exprType(n.Value, sc)
		if err != nil {
			return err
		}
		if !assignable(t, sc.fn.returnType) {
			return c.errf(n.Pos(), "return type mismatch: got %s, expected %s", t, sc.fn.returnType)
		}
		return nil

	case *ast.BreakStmt:
		if !sc.inLoop {
			return c.errf(n.Pos(), "'break' outside a loop")
		}
		return nil

	case *ast.ContinueStmt:
		if !sc.inLoop {
			return c.errf(n.Pos(), "'continue' outside a loop")
		}
		return nil

	case *ast.ExprStmt:
		_, err := c.exprType(n.X, sc)
		return err

	case *ast.ImportAllStmt, *ast.ImportFromStmt:
		return fmt.Errorf("unexpected import statement reached the type checker (resolver should have inlined it)")
	}
	return nil
}

func (c *Checker) checkIndexAssign(n *ast.IndexAssignStmt, sc *scope) error {
	target, err := c.exprType(n.Target, sc)
	if err != nil {
		return err
	}
	idx, err := c.exprType(n.Index, sc)
	if err != nil {
		return err
	}
	val, err := c.exprType(n.Value, sc)
	if err != nil {
		return err
	}
	switch {
	case isAny(target):
		return nil
	case target.Kind == ast.TList:
		if !isPrim(idx, ast.PrimInteger) && !isAny(idx) {
			return c.errf(n.Pos(), "list index must be an integer, got %s", idx)
		}
		if !assignable(val, target.Elem) {
			return c.errf(n.Pos(), "cannot assign %s into list of %s", val, target.Elem)
		}
		return nil
	case target.Kind == ast.TDict:
		if !assignable(idx, target.Key) {
			return c.errf(n.Pos(), "dict key type mismatch: got %s, expected %s", idx, target.Key)
		}
		if !assignable(val, target.Val) {
			return c.errf(n.Pos(), "cannot assign %s into dict of %s", val, target.Val)
		}
		return nil
	default:
		return c.errf(n.Pos(), "cannot index-assign into %s", target)
	}
}
