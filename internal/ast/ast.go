// Package ast defines the abstract syntax tree produced by the parser and
// consumed by the resolver, type checker, and bytecode compiler.
package ast

import (
	"strconv"
	"strings"

	"github.com/yasniy-lang/yasniy/internal/token"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() token.Position
	String() string
}

// Statement is a node that performs an action but yields no value.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that evaluates to a runtime value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of a single module's AST, before resolution.
type Program struct {
	Statements []Statement
	Path       string // absolute source path, set by the caller
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Col: 1}
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Span embeds a source position into a node; composed into every
// concrete node type below.
type Span struct{ P token.Position }

func (s Span) Pos() token.Position { return s.P }

// ---- Expressions -----------------------------------------------------

// Literal is an integer, float, string, boolean, or null constant.
type Literal struct {
	Span
	Kind  token.Kind // INT, FLOAT, STRING, TRUE, FALSE, NULL
	Value any        // int64, float64, string, bool, or nil
}

func (*Literal) expressionNode() {}
func (l *Literal) String() string {
	switch l.Kind {
	case token.STRING:
		return `"` + l.Value.(string) + `"`
	case token.NULL:
		return "null"
	default:
		return fmtValue(l.Value)
	}
}

// Identifier is a bare name reference.
type Identifier struct {
	Span
	Name string
}

func (*Identifier) expressionNode()  {}
func (i *Identifier) String() string { return i.Name }

// ListLiteral is `[e1, e2, ...]`.
type ListLiteral struct {
	Span
	Elements []Expression
}

func (*ListLiteral) expressionNode() {}
func (l *ListLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// DictEntry is one `key: value` pair of a dict literal; order is preserved.
type DictEntry struct {
	Key   Expression
	Value Expression
}

// DictLiteral is `{k1: v1, k2: v2, ...}`, an ordered pair list.
type DictLiteral struct {
	Span
	Entries []DictEntry
}

func (*DictLiteral) expressionNode() {}
func (d *DictLiteral) String() string {
	parts := make([]string, len(d.Entries))
	for i, e := range d.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// IndexExpr is `target[index]`.
type IndexExpr struct {
	Span
	Target Expression
	Index  Expression
}

func (*IndexExpr) expressionNode() {}
func (i *IndexExpr) String() string {
	return i.Target.String() + "[" + i.Index.String() + "]"
}

// MemberExpr is `target.name`.
type MemberExpr struct {
	Span
	Target Expression
	Name   string
}

func (*MemberExpr) expressionNode() {}
func (m *MemberExpr) String() string {
	return m.Target.String() + "." + m.Name
}

// UnaryExpr is `not e` or `-e`.
type UnaryExpr struct {
	Span
	Op      token.Kind
	Operand Expression
}

func (*UnaryExpr) expressionNode() {}
func (u *UnaryExpr) String() string {
	return u.Op.String() + " " + u.Operand.String()
}

// BinaryExpr is `left OP right`.
type BinaryExpr struct {
	Span
	Op          token.Kind
	Left, Right Expression
}

func (*BinaryExpr) expressionNode() {}
func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// CallExpr is `callee(args...)`. Callee is always an identifier per the
// grammar (§4.2: "callee must be an identifier").
type CallExpr struct {
	Span
	Callee *Identifier
	Args   []Expression
}

func (*CallExpr) expressionNode() {}
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee.Name + "(" + strings.Join(parts, ", ") + ")"
}

// AwaitExpr is `await e`.
type AwaitExpr struct {
	Span
	Operand Expression
}

func (*AwaitExpr) expressionNode() {}
func (a *AwaitExpr) String() string {
	return "await " + a.Operand.String()
}

func fmtValue(v any) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
