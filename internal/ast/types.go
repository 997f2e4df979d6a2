package ast

import "strings"

// TypeNode is a tagged variant over the closed set of type shapes a
// yasniy program can express: Primitive, List, Dict, Union. It is used
// both for syntactic type annotations (as parsed) and, directly, for
// the type checker's semantic lattice.
type TypeNode struct {
	Kind     TypeKind
	Name     string     // for Primitive
	Elem     *TypeNode  // for List
	Key, Val *TypeNode  // for Dict
	Variants []*TypeNode // for Union, always length >= 2 after canonicalization
}

// TypeKind discriminates TypeNode variants.
type TypeKind int

const (
	TPrimitive TypeKind = iota
	TList
	TDict
	TUnion
)

// Primitive type names, the closed set of yasniy's built-in types.
const (
	PrimInteger  = "integer"
	PrimFloating = "floating"
	PrimBoolean  = "boolean"
	PrimString   = "string"
	PrimNull     = "null"
	PrimAny      = "any"
	PrimTask     = "task-handle"
)

// Primitive constructs a Primitive(name) TypeNode.
func Primitive(name string) *TypeNode { return &TypeNode{Kind: TPrimitive, Name: name} }

// List constructs a List(element) TypeNode.
func List(elem *TypeNode) *TypeNode { return &TypeNode{Kind: TList, Elem: elem} }

// Dict constructs a Dict(key, value) TypeNode.
func Dict(key, val *TypeNode) *TypeNode { return &TypeNode{Kind: TDict, Key: key, Val: val} }

// Union constructs a canonicalized union: nested unions are flattened,
// structural duplicates dropped, and a single remaining variant
// collapses to that variant directly (never wrapped in TUnion).
func Union(variants ...*TypeNode) *TypeNode {
	var flat []*TypeNode
	for _, v := range variants {
		if v == nil {
			continue
		}
		if v.Kind == TUnion {
			flat = append(flat, v.Variants...)
		} else {
			flat = append(flat, v)
		}
	}
	var dedup []*TypeNode
	for _, v := range flat {
		dup := false
		for _, d := range dedup {
			if Equal(d, v) {
				dup = true
				break
			}
		}
		if !dup {
			dedup = append(dedup, v)
		}
	}
	if len(dedup) == 1 {
		return dedup[0]
	}
	return &TypeNode{Kind: TUnion, Variants: dedup}
}

// Equal reports structural equality between two type nodes.
func Equal(a, b *TypeNode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TPrimitive:
		return a.Name == b.Name
	case TList:
		return Equal(a.Elem, b.Elem)
	case TDict:
		return Equal(a.Key, b.Key) && Equal(a.Val, b.Val)
	case TUnion:
		if len(a.Variants) != len(b.Variants) {
			return false
		}
		for _, av := range a.Variants {
			found := false
			for _, bv := range b.Variants {
				if Equal(av, bv) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	return false
}

// String renders a TypeNode in yasniy's own type-annotation syntax.
func (t *TypeNode) String() string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case TPrimitive:
		return t.Name
	case TList:
		return "List[" + t.Elem.String() + "]"
	case TDict:
		return "Dict[" + t.Key.String() + ", " + t.Val.String() + "]"
	case TUnion:
		parts := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			parts[i] = v.String()
		}
		return strings.Join(parts, " | ")
	}
	return "?"
}
