package checker

import (
	"fmt"

	"github.com/yasniy-lang/yasniy/internal/ast"
	"github.com/yasniy-lang/yasniy/internal/token"
)

// exprType infers the static type of e under sc.
func (c *Checker) exprType(e ast.Expression, sc *scope) (*ast.TypeNode, error) {
	switch n := e.(type) {
	case *ast.Literal:
		switch n.Kind {
		case token.INT:
			return tInt, nil
		case token.FLOAT:
			return tFloat, nil
		case token.TRUE, token.FALSE:
			return tBool, nil
		case token.STRING:
			return tString, nil
		case token.NULL:
			return tVoid, nil
		}
		return tAny, nil

	case *ast.Identifier:
		t, ok := sc.lookup(n.Name)
		if !ok {
			if _, isFn := c.sigs[n.Name]; isFn {
				return tAny, nil // bare function reference; calls are checked at CallExpr
			}
			return nil, c.errf(n.Pos(), "undefined name '%s'", n.Name)
		}
		return t, nil

	case *ast.ListLiteral:
		if len(n.Elements) == 0 {
			return ast.List(tAny), nil
		}
		var variants []*ast.TypeNode
		for _, el := range n.Elements {
			t, err := c.exprType(el, sc)
			if err != nil {
				return nil, err
			}
			variants = append(variants, t)
		}
		return ast.List(dedupUnion(variants)), nil

	case *ast.DictLiteral:
		if len(n.Entries) == 0 {
			return ast.Dict(tAny, tAny), nil
		}
		var keys, vals []*ast.TypeNode
		for _, en := range n.Entries {
			kt, err := c.exprType(en.Key, sc)
			if err != nil {
				return nil, err
			}
			vt, err := c.exprType(en.Value, sc)
			if err != nil {
				return nil, err
			}
			keys = append(keys, kt)
			vals = append(vals, vt)
		}
		return ast.Dict(dedupUnion(keys), dedupUnion(vals)), nil

	case *ast.IndexExpr:
		return c.indexType(n, sc)

	case *ast.MemberExpr:
		t, err := c.exprType(n.Target, sc)
		if err != nil {
			return nil, err
		}
		if isAny(t) {
			return tAny, nil
		}
		if t.Kind != ast.TDict {
			return nil, c.errf(n.Pos(), "member access requires a dict, got %s", t)
		}
		return t.Val, nil

	case *ast.UnaryExpr:
		operand, err := c.exprType(n.Operand, sc)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case token.MINUS:
			if !isNumeric(operand) && !isAny(operand) {
				return nil, c.errf(n.Pos(), "unary '-' requires a numeric operand, got %s", operand)
			}
			return operand, nil
		case token.NOT:
			if !isPrim(operand, ast.PrimBoolean) && !isAny(operand) {
				return nil, c.errf(n.Pos(), "'not' requires a boolean operand, got %s", operand)
			}
			return tBool, nil
		}
		return tAny, nil

	case *ast.BinaryExpr:
		return c.binaryType(n, sc)

	case *ast.CallExpr:
		return c.callType(n, sc)

	case *ast.AwaitExpr:
		operand, err := c.exprType(n.Operand, sc)
		if err != nil {
			return nil, err
		}
		if !isPrim(operand, ast.PrimTask) && !isAny(operand) {
			return nil, c.errf(n.Pos(), "'await' requires a task handle, got %s", operand)
		}
		return tAny, nil
	}
	return tAny, nil
}

func (c *Checker) indexType(n *ast.IndexExpr, sc *scope) (*ast.TypeNode, error) {
	target, err := c.exprType(n.Target, sc)
	if err != nil {
		return nil, err
	}
	idx, err := c.exprType(n.Index, sc)
	if err != nil {
		return nil, err
	}
	switch {
	case isAny(target):
		return tAny, nil
	case target.Kind == ast.TList:
		if !isPrim(idx, ast.PrimInteger) && !isAny(idx) {
			return nil, c.errf(n.Pos(), "list index must be an integer, got %s", idx)
		}
		return target.Elem, nil
	case isPrim(target, ast.PrimString):
		if !isPrim(idx, ast.PrimInteger) && !isAny(idx) {
			return nil, c.errf(n.Pos(), "string index must be an integer, got %s", idx)
		}
		return tString, nil
	case target.Kind == ast.TDict:
		if !assignable(idx, target.Key) {
			return nil, c.errf(n.Pos(), "dict key type mismatch: got %s, expected %s", idx, target.Key)
		}
		return target.Val, nil
	default:
		return nil, c.errf(n.Pos(), "cannot index into %s", target)
	}
}

func (c *Checker) binaryType(n *ast.BinaryExpr, sc *scope) (*ast.TypeNode, error) {
	l, err := c.exprType(n.Left, sc)
	if err != nil {
		return nil, err
	}
	r, err := c.exprType(n.Right, sc)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.PLUS:
		switch {
		case isAny(l) || isAny(r):
			return tAny, nil
		case isPrim(l, ast.PrimString) && isPrim(r, ast.PrimString):
			return tString, nil
		case l.Kind == ast.TList && r.Kind == ast.TList:
			return ast.List(dedupUnion([]*ast.TypeNode{l.Elem, r.Elem})), nil
		case isPrim(l, ast.PrimInteger) && isPrim(r, ast.PrimInteger):
			return tInt, nil
		case isNumeric(l) && isNumeric(r):
			return tFloat, nil
		}
		return nil, c.errf(n.Pos(), "'+' not defined for %s and %s", l, r)

	case token.MINUS, token.STAR, token.PERCENT:
		if isAny(l) || isAny(r) {
			return tAny, nil
		}
		if !isNumeric(l) || !isNumeric(r) {
			return nil, c.errf(n.Pos(), "%s requires numeric operands, got %s and %s", n.Op, l, r)
		}
		if isPrim(l, ast.PrimInteger) && isPrim(r, ast.PrimInteger) {
			return tInt, nil
		}
		return tFloat, nil

	case token.SLASH:
		if isAny(l) || isAny(r) {
			return tAny, nil
		}
		if !isNumeric(l) || !isNumeric(r) {
			return nil, c.errf(n.Pos(), "'/' requires numeric operands, got %s and %s", l, r)
		}
		if isPrim(l, ast.PrimInteger) && isPrim(r, ast.PrimInteger) {
			return tInt, nil
		}
		return tFloat, nil

	case token.EQ, token.NEQ:
		return tBool, nil

	case token.LT, token.LE, token.GT, token.GE:
		if isAny(l) || isAny(r) {
			return tBool, nil
		}
		if (isNumeric(l) && isNumeric(r)) || (isPrim(l, ast.PrimString) && isPrim(r, ast.PrimString)) {
			return tBool, nil
		}
		return nil, c.errf(n.Pos(), "comparison requires two numbers or two strings, got %s and %s", l, r)

	case token.AND, token.OR:
		if !(isPrim(l, ast.PrimBoolean) || isAny(l)) || !(isPrim(r, ast.PrimBoolean) || isAny(r)) {
			return nil, c.errf(n.Pos(), "%s requires boolean operands, got %s and %s", n.Op, l, r)
		}
		return tBool, nil
	}
	return tAny, nil
}

func (c *Checker) callType(n *ast.CallExpr, sc *scope) (*ast.TypeNode, error) {
	argTypes := make([]*ast.TypeNode, len(n.Args))
	for i, a := range n.Args {
		t, err := c.exprType(a, sc)
		if err != nil {
			return nil, err
		}
		argTypes[i] = t
	}
	name := n.Callee.Name
	if sig, ok := builtins[name]; ok {
		if len(n.Args) < sig.minArgs || (sig.maxArgs >= 0 && len(n.Args) > sig.maxArgs) {
			return nil, c.errf(n.Pos(), "wrong number of arguments to '%s'", name)
		}
		for i, t := range argTypes {
			if sig.argCheck == nil {
				continue
			}
			if msg := sig.argCheck(i, t); msg != "" {
				return nil, c.errf(n.Pos(), "argument %d to '%s': %s", i+1, name, msg)
			}
		}
		return sig.result(argTypes), nil
	}
	fn, ok := c.sigs[name]
	if !ok {
		return nil, c.errf(n.Pos(), "call to undeclared function '%s'", name)
	}
	if len(n.Args) != len(fn.params) {
		return nil, c.errf(n.Pos(), "function '%s' expects %d argument(s), got %d", name, len(fn.params), len(n.Args))
	}
	for i, t := range argTypes {
		if !assignable(t, fn.params[i]) {
			return nil, c.errf(n.Args[i].Pos(), "argument %d to '%s': got %s, expected %s", i+1, name, t, fn.params[i])
		}
	}
	if fn.async {
		return tTask, nil
	}
	return fn.ret, nil
}

// dedupUnion builds ast.Union(variants...) but collapses to the single
// type when every observed variant is structurally equal, so a
// homogeneous literal like `[1, 2, 3]` doesn't explode into a
// single-variant union (ast.Union already does this collapse; kept
// here as the call site list/dict literal inference funnels through).
func dedupUnion(types []*ast.TypeNode) *ast.TypeNode {
	return ast.Union(types...)
}

func (c *Checker) errf(pos token.Position, format string, args ...any) error {
	return &Error{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
