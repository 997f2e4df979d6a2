package parser

import (
	"strconv"

	"github.com/yasniy-lang/yasniy/internal/ast"
	"github.com/yasniy-lang/yasniy/internal/token"
)

// parseExpr parses a full expression at the lowest precedence (`or`).
func (p *Parser) parseExpr() (ast.Expression, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.OR) {
		tok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Span: ast.NewSpan(tok), Op: token.OR, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.at(token.AND) {
		tok := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Span: ast.NewSpan(tok), Op: token.AND, Left: left, Right: right}
	}
	return left, nil
}

var comparisonOps = map[token.Kind]bool{
	token.EQ: true, token.NEQ: true, token.LT: true, token.LE: true, token.GT: true, token.GE: true,
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for comparisonOps[p.cur().Kind] {
		tok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Span: ast.NewSpan(tok), Op: tok.Kind, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.PLUS) || p.at(token.MINUS) {
		tok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Span: ast.NewSpan(tok), Op: tok.Kind, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		tok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Span: ast.NewSpan(tok), Op: tok.Kind, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.cur().Kind {
	case token.NOT, token.MINUS:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Span: ast.NewSpan(tok), Op: tok.Kind, Operand: operand}, nil
	case token.AWAIT:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.AwaitExpr{Span: ast.NewSpan(tok), Operand: operand}, nil
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case token.LPAREN:
			tok := p.advance()
			ident, ok := expr.(*ast.Identifier)
			if !ok {
				return nil, &Error{Pos: tok.Pos, Message: "call target must be an identifier"}
			}
			var args []ast.Expression
			for !p.at(token.RPAREN) {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.at(token.COMMA) {
					p.advance()
					continue
				}
				break
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Span: ast.NewSpan(tok), Callee: ident, Args: args}
		case token.LBRACKET:
			tok := p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Span: ast.NewSpan(tok), Target: expr, Index: idx}
		case token.DOT:
			tok := p.advance()
			name, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Span: ast.NewSpan(tok), Target: expr, Name: name.Value}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.INT:
		p.advance()
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, &Error{Pos: tok.Pos, Message: "invalid integer literal: " + tok.Value}
		}
		return &ast.Literal{Span: ast.NewSpan(tok), Kind: token.INT, Value: v}, nil
	case token.FLOAT:
		p.advance()
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, &Error{Pos: tok.Pos, Message: "invalid float literal: " + tok.Value}
		}
		return &ast.Literal{Span: ast.NewSpan(tok), Kind: token.FLOAT, Value: v}, nil
	case token.STRING:
		p.advance()
		return &ast.Literal{Span: ast.NewSpan(tok), Kind: token.STRING, Value: tok.Value}, nil
	case token.TRUE:
		p.advance()
		return &ast.Literal{Span: ast.NewSpan(tok), Kind: token.TRUE, Value: true}, nil
	case token.FALSE:
		p.advance()
		return &ast.Literal{Span: ast.NewSpan(tok), Kind: token.FALSE, Value: false}, nil
	case token.NULL:
		p.advance()
		return &ast.Literal{Span: ast.NewSpan(tok), Kind: token.NULL, Value: nil}, nil
	case token.IDENT:
		p.advance()
		return &ast.Identifier{Span: ast.NewSpan(tok), Name: tok.Value}, nil
	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACKET:
		p.advance()
		var elems []ast.Expression
		for !p.at(token.RBRACKET) {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		return &ast.ListLiteral{Span: ast.NewSpan(tok), Elements: elems}, nil
	case token.LBRACE:
		p.advance()
		var entries []ast.DictEntry
		for !p.at(token.RBRACE) {
			k, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			entries = append(entries, ast.DictEntry{Key: k, Value: v})
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return &ast.DictLiteral{Span: ast.NewSpan(tok), Entries: entries}, nil
	default:
		return nil, p.errf("unexpected token %s in expression", tok.Kind)
	}
}
