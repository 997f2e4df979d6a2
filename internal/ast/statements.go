package ast

import (
	"strings"

	"github.com/yasniy-lang/yasniy/internal/token"
)

// VarDecl is `let name [: Type] = init`.
type VarDecl struct {
	Span
	Name       string
	Annotation *TypeNode // nil if omitted
	Init       Expression
	Exported   bool
}

func (*VarDecl) statementNode() {}
func (v *VarDecl) String() string {
	s := "let " + v.Name
	if v.Annotation != nil {
		s += ": " + v.Annotation.String()
	}
	return s + " = " + v.Init.String()
}

// Param is a single function parameter.
type Param struct {
	Name string
	Type *TypeNode
}

// FuncDecl is a `function`/`async function` declaration.
type FuncDecl struct {
	Span
	Name       string
	Params     []Param
	ReturnType *TypeNode
	Body       []Statement
	Exported   bool
	Async      bool
}

func (*FuncDecl) statementNode() {}
func (f *FuncDecl) String() string {
	kw := "function"
	if f.Async {
		kw = "async function"
	}
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Name + ": " + p.Type.String()
	}
	return kw + " " + f.Name + "(" + strings.Join(parts, ", ") + ") -> " + f.ReturnType.String()
}

// AssignStmt is `name = value`.
type AssignStmt struct {
	Span
	Name  string
	Value Expression
}

func (*AssignStmt) statementNode() {}
func (a *AssignStmt) String() string { return a.Name + " = " + a.Value.String() }

// IndexAssignStmt is `target[index] = value`.
type IndexAssignStmt struct {
	Span
	Target Expression
	Index  Expression
	Value  Expression
}

func (*IndexAssignStmt) statementNode() {}
func (a *IndexAssignStmt) String() string {
	return a.Target.String() + "[" + a.Index.String() + "] = " + a.Value.String()
}

// IfStmt is `if cond: then [else: else]`.
type IfStmt struct {
	Span
	Cond Expression
	Then []Statement
	Else []Statement // nil if no else clause
}

func (*IfStmt) statementNode() {}
func (s *IfStmt) String() string { return "if " + s.Cond.String() + ": ..." }

// WhileStmt is `while cond: body`.
type WhileStmt struct {
	Span
	Cond Expression
	Body []Statement
}

func (*WhileStmt) statementNode() {}
func (s *WhileStmt) String() string { return "while " + s.Cond.String() + ": ..." }

// ForStmt is `for x in iterable: body`.
type ForStmt struct {
	Span
	Var      string
	Iterable Expression
	Body     []Statement
}

func (*ForStmt) statementNode() {}
func (s *ForStmt) String() string { return "for " + s.Var + " in " + s.Iterable.String() + ": ..." }

// ReturnStmt is `return [expr]`.
type ReturnStmt struct {
	Span
	Value Expression // nil for bare `return`
}

func (*ReturnStmt) statementNode() {}
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

// BreakStmt is `break`.
type BreakStmt struct{ Span }

func (*BreakStmt) statementNode() {}
func (*BreakStmt) String() string { return "break" }

// ContinueStmt is `continue`.
type ContinueStmt struct{ Span }

func (*ContinueStmt) statementNode() {}
func (*ContinueStmt) String() string { return "continue" }

// ImportItem is one `name [as alias]` entry of an `import-from` statement.
type ImportItem struct {
	Name  string
	Alias string // equal to Name if no alias given
}

// ImportAllStmt is `import "path" [as namespace]`.
type ImportAllStmt struct {
	Span
	Path      string
	Namespace string // "" if no alias
}

func (*ImportAllStmt) statementNode() {}
func (s *ImportAllStmt) String() string {
	if s.Namespace != "" {
		return "import \"" + s.Path + "\" as " + s.Namespace
	}
	return "import \"" + s.Path + "\""
}

// ImportFromStmt is `from "path" import a, b as c`.
type ImportFromStmt struct {
	Span
	Path  string
	Items []ImportItem
}

func (*ImportFromStmt) statementNode() {}
func (s *ImportFromStmt) String() string { return "from \"" + s.Path + "\" import ..." }

// ExprStmt wraps a bare expression used as a statement.
type ExprStmt struct {
	Span
	X Expression
}

func (*ExprStmt) statementNode() {}
func (s *ExprStmt) String() string { return s.X.String() }

// NewSpan constructs the embeddable Span field from a token.
func NewSpan(t token.Token) Span { return Span{P: t.Pos} }

// SpanAt constructs the embeddable Span field from a raw position.
func SpanAt(p token.Position) Span { return Span{P: p} }
