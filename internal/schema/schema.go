// Package schema implements the read-only function-signature projection:
// the metadata external UIs and `.yapp` bundles consume to build a call
// surface without parsing yasniy source.
package schema

import (
	"github.com/yasniy-lang/yasniy/internal/ast"
	"github.com/yasniy-lang/yasniy/internal/resolver"
)

// Param describes one function parameter's projected shape.
type Param struct {
	Name     string            `json:"name" yaml:"name"`
	Type     string            `json:"type" yaml:"type"`
	TypeNode *ast.TypeNode     `json:"typeNode" yaml:"typeNode"`
	UI       map[string]string `json:"ui,omitempty" yaml:"ui,omitempty"`
}

// Function is one top-level function's full projection, the `schema`
// array a `.yapp` bundle's metadata embeds.
type Function struct {
	Name           string            `json:"name" yaml:"name"`
	Params         []Param           `json:"params" yaml:"params"`
	ReturnType     string            `json:"returnType" yaml:"returnType"`
	ReturnTypeNode *ast.TypeNode     `json:"returnTypeNode" yaml:"returnTypeNode"`
	IsAsync        bool              `json:"isAsync" yaml:"isAsync"`
	IsPublicApi    bool              `json:"isPublicApi" yaml:"isPublicApi"`
	Signature      string            `json:"signature" yaml:"signature"`
	UI             map[string]string `json:"ui,omitempty" yaml:"ui,omitempty"`
}

// Extract projects every top-level function of a resolved program,
// excluding `main` and any surviving `__mod_`-renamed helper.
// isPublicApi reuses the resolver's own export-visibility rule
// (resolver.ExportedNames) so the two surfaces never diverge: a
// function this package reports public is, by construction, one the
// module resolver would also re-export to an importer.
func Extract(prog *ast.Program) []Function {
	exported := resolver.ExportedNames(prog.Statements)

	var out []Function
	for _, stmt := range prog.Statements {
		fd, ok := stmt.(*ast.FuncDecl)
		if !ok || fd.Name == "main" || hasModPrefix(fd.Name) {
			continue
		}
		out = append(out, projectFunction(fd, exported[fd.Name]))
	}
	return out
}

func projectFunction(fd *ast.FuncDecl, isPublic bool) Function {
	params := make([]Param, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = Param{Name: p.Name, Type: p.Type.String(), TypeNode: p.Type}
	}
	return Function{
		Name:           fd.Name,
		Params:         params,
		ReturnType:     fd.ReturnType.String(),
		ReturnTypeNode: fd.ReturnType,
		IsAsync:        fd.Async,
		IsPublicApi:    isPublic,
		Signature:      signatureOf(fd),
	}
}

// signatureOf renders a human-readable call signature, the form a
// generated UI or CLI `--help` would show a caller.
func signatureOf(fd *ast.FuncDecl) string {
	sig := fd.Name + "("
	for i, p := range fd.Params {
		if i > 0 {
			sig += ", "
		}
		sig += p.Name + ": " + p.Type.String()
	}
	sig += "): " + fd.ReturnType.String()
	if fd.Async {
		sig = "async " + sig
	}
	return sig
}

func hasModPrefix(name string) bool {
	return len(name) >= 6 && name[:6] == "__mod_"
}
