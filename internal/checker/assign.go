package checker

import "github.com/yasniy-lang/yasniy/internal/ast"

// assignable implements the `actual ⤙ expected` assignability relation.
func assignable(actual, expected *ast.TypeNode) bool {
	if actual == nil || expected == nil {
		return true
	}
	if actual.Kind == ast.TPrimitive && actual.Name == ast.PrimAny {
		return true
	}
	if expected.Kind == ast.TPrimitive && expected.Name == ast.PrimAny {
		return true
	}
	if ast.Equal(actual, expected) {
		return true
	}
	if expected.Kind == ast.TUnion {
		for _, v := range expected.Variants {
			if assignable(actual, v) {
				return true
			}
		}
		return false
	}
	if actual.Kind == ast.TUnion {
		for _, v := range actual.Variants {
			if !assignable(v, expected) {
				return false
			}
		}
		return true
	}
	if actual.Kind == ast.TList && expected.Kind == ast.TList {
		return assignable(actual.Elem, expected.Elem)
	}
	if actual.Kind == ast.TDict && expected.Kind == ast.TDict {
		return assignable(actual.Key, expected.Key) && assignable(actual.Val, expected.Val)
	}
	return false
}

func isNumeric(t *ast.TypeNode) bool {
	return t.Kind == ast.TPrimitive && (t.Name == ast.PrimInteger || t.Name == ast.PrimFloating)
}

func isAny(t *ast.TypeNode) bool { return t.Kind == ast.TPrimitive && t.Name == ast.PrimAny }

func isPrim(t *ast.TypeNode, name string) bool { return t.Kind == ast.TPrimitive && t.Name == name }
