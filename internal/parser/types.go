package parser

import (
	"github.com/yasniy-lang/yasniy/internal/ast"
	"github.com/yasniy-lang/yasniy/internal/token"
)

// primitiveNames maps the surface-syntax type identifiers to the
// closed set of primitive type names.
var primitiveNames = map[string]string{
	"int":    ast.PrimInteger,
	"float":  ast.PrimFloating,
	"bool":   ast.PrimBoolean,
	"string": ast.PrimString,
	"void":   ast.PrimNull,
	"any":    ast.PrimAny,
	"Task":   ast.PrimTask,
}

// parseType parses Type = TypeAtom (`|` TypeAtom)* (`?`)?, where a
// trailing `?` is sugar for `| null`.
func (p *Parser) parseType() (*ast.TypeNode, error) {
	first, err := p.parseTypeAtom()
	if err != nil {
		return nil, err
	}
	variants := []*ast.TypeNode{first}
	for p.at(token.PIPE) {
		p.advance()
		v, err := p.parseTypeAtom()
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	result := ast.Union(variants...)
	if p.at(token.QUESTION) {
		p.advance()
		result = ast.Union(result, ast.Primitive(ast.PrimNull))
	}
	return result, nil
}

// parseTypeAtom parses a single TypeAtom: a primitive name, `List[T]`,
// `Dict[K, V]`, or a parenthesized type.
func (p *Parser) parseTypeAtom() (*ast.TypeNode, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.LPAREN:
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return t, nil
	case token.IDENT:
		p.advance()
		switch tok.Value {
		case "List":
			if _, err := p.expect(token.LBRACKET); err != nil {
				return nil, err
			}
			elem, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			return ast.List(elem), nil
		case "Dict":
			if _, err := p.expect(token.LBRACKET); err != nil {
				return nil, err
			}
			key, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
			val, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			return ast.Dict(key, val), nil
		default:
			name, ok := primitiveNames[tok.Value]
			if !ok {
				return nil, &Error{Pos: tok.Pos, Message: "unknown type name '" + tok.Value + "'"}
			}
			return ast.Primitive(name), nil
		}
	default:
		return nil, &Error{Pos: tok.Pos, Message: "expected a type, got " + tok.Kind.String()}
	}
}
