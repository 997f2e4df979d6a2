package checker

import "github.com/yasniy-lang/yasniy/internal/ast"

// scope is one lexical level of variable bindings. Root scopes are
// created per-function (and one implicit root for top-level code);
// if/else, while, and for bodies each get their own nested scope that
// inherits and may shadow.
type scope struct {
	parent *scope
	vars   map[string]*ast.TypeNode
	inLoop bool
	// fn is non-nil when this scope (or an ancestor up to the nearest
	// function boundary) is inside a function body; used to validate
	// `return` placement and its expected type.
	fn *funcCtx
}

// funcCtx carries the enclosing function's declared return type, so
// `return E` can be checked without threading it through every call.
type funcCtx struct {
	returnType *ast.TypeNode
}

func newScope(parent *scope) *scope {
	s := &scope{parent: parent, vars: map[string]*ast.TypeNode{}}
	if parent != nil {
		s.inLoop = parent.inLoop
		s.fn = parent.fn
	}
	return s
}

func (s *scope) declare(name string, t *ast.TypeNode) { s.vars[name] = t }

func (s *scope) lookup(name string) (*ast.TypeNode, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

func (s *scope) loopScope() *scope {
	child := newScope(s)
	child.inLoop = true
	return child
}

// funcScope creates a function body's scope nested under the top-level
// root scope (so it inherits global bindings), carrying its own
// return-type context.
func (root *scope) funcScope(ret *ast.TypeNode) *scope {
	child := newScope(root)
	child.fn = &funcCtx{returnType: ret}
	child.inLoop = false
	return child
}
