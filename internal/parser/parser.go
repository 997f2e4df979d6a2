// Package parser implements a single-pass recursive-descent parser that
// turns a yasniy token stream into an AST.
package parser

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/yasniy-lang/yasniy/internal/ast"
	"github.com/yasniy-lang/yasniy/internal/diag"
	"github.com/yasniy-lang/yasniy/internal/token"
)

// Parser consumes a token slice produced by the lexer and builds a
// Program. Construct one per file; it is not reentrant.
type Parser struct {
	toks []token.Token
	pos  int
}

// New creates a Parser over a token stream (normally lexer.Tokenize's
// result, which always ends in an EOF token).
func New(toks []token.Token) *Parser { return &Parser{toks: toks} }

// Parse parses the whole token stream into a Program, or returns the
// first ParseError encountered.
func Parse(toks []token.Token) (*ast.Program, error) {
	log := diag.L().Stage("parse")
	prog, err := New(toks).ParseProgram()
	if err != nil {
		log.Debug("parse failed", zap.Error(err), zap.Int("tokens", len(toks)))
		return nil, err
	}
	log.Debug("token stream parsed", zap.Int("tokens", len(toks)), zap.Int("statements", len(prog.Statements)))
	return prog, nil
}

func (p *Parser) cur() token.Token     { return p.toks[p.pos] }
func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur().Kind != k {
		return token.Token{}, p.errf("expected %s, got %s", k, p.cur().Kind)
	}
	return p.advance(), nil
}

func (p *Parser) errf(format string, args ...any) *Error {
	return &Error{Pos: p.cur().Pos, Message: fmt.Sprintf(format, args...)}
}

// skipNewlines consumes zero or more NEWLINE tokens, used where the
// grammar tolerates blank logical lines between statements.
func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.advance()
	}
}

// ParseProgram parses Program = Stmt*.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.at(token.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
		p.skipNewlines()
	}
	return prog, nil
}

func (p *Parser) parseStmt() (ast.Statement, error) {
	switch p.cur().Kind {
	case token.EXPORT:
		return p.parseExportStmt()
	case token.LET:
		return p.parseVarDecl(false)
	case token.FUNCTION:
		return p.parseFuncDecl(false, false)
	case token.ASYNC:
		p.advance()
		if _, err := p.expect(token.FUNCTION); err != nil {
			return nil, err
		}
		return p.parseFuncDecl(false, true)
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.IMPORT:
		return p.parseImportAll()
	case token.FROM:
		return p.parseImportFrom()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		t := p.advance()
		if err := p.expectNewline(); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Span: ast.NewSpan(t)}, nil
	case token.CONTINUE:
		t := p.advance()
		if err := p.expectNewline(); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Span: ast.NewSpan(t)}, nil
	default:
		return p.parseExprOrAssign()
	}
}

func (p *Parser) expectNewline() error {
	if p.at(token.EOF) {
		return nil
	}
	_, err := p.expect(token.NEWLINE)
	return err
}

func (p *Parser) parseExportStmt() (ast.Statement, error) {
	p.advance() // export
	switch p.cur().Kind {
	case token.LET:
		return p.parseVarDecl(true)
	case token.FUNCTION:
		return p.parseFuncDecl(true, false)
	case token.ASYNC:
		p.advance()
		if _, err := p.expect(token.FUNCTION); err != nil {
			return nil, err
		}
		return p.parseFuncDecl(true, true)
	default:
		return nil, p.errf("expected declaration after export, got %s", p.cur().Kind)
	}
}

func (p *Parser) parseVarDecl(exported bool) (ast.Statement, error) {
	letTok := p.advance() // let
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var annotation *ast.TypeNode
	if p.at(token.COLON) {
		p.advance()
		annotation, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return &ast.VarDecl{
		Span: ast.NewSpan(letTok), Name: name.Value, Annotation: annotation,
		Init: init, Exported: exported,
	}, nil
}

func (p *Parser) parseFuncDecl(exported, async bool) (ast.Statement, error) {
	funcTok := p.advance() // function
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.at(token.RPAREN) {
		pname, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		ptype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname.Value, Type: ptype})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	retType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDecl{
		Span: ast.NewSpan(funcTok), Name: name.Value, Params: params, ReturnType: retType,
		Body: body, Exported: exported, Async: async,
	}, nil
}

// parseBlock parses Block = NEWLINE INDENT Stmt+ DEDENT.
func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(token.NEWLINE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.INDENT); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	p.skipNewlines()
	for !p.at(token.DEDENT) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		p.skipNewlines()
	}
	if len(stmts) == 0 {
		return nil, p.errf("expected at least one statement in block")
	}
	if _, err := p.expect(token.DEDENT); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	ifTok := p.advance() // if
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	thenBody, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseBody []ast.Statement
	if p.at(token.ELSE) {
		p.advance()
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		elseBody, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Span: ast.NewSpan(ifTok), Cond: cond, Then: thenBody, Else: elseBody}, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	tok := p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Span: ast.NewSpan(tok), Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	tok := p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Span: ast.NewSpan(tok), Var: name.Value, Iterable: iterable, Body: body}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	tok := p.advance()
	var value ast.Expression
	if !p.at(token.NEWLINE) && !p.at(token.EOF) {
		var err error
		value, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Span: ast.NewSpan(tok), Value: value}, nil
}

func (p *Parser) parseImportAll() (ast.Statement, error) {
	tok := p.advance() // import
	pathTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	var ns string
	if p.at(token.AS) {
		p.advance()
		id, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		ns = id.Value
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return &ast.ImportAllStmt{Span: ast.NewSpan(tok), Path: pathTok.Value, Namespace: ns}, nil
}

func (p *Parser) parseImportFrom() (ast.Statement, error) {
	tok := p.advance() // from
	pathTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IMPORT); err != nil {
		return nil, err
	}
	var items []ast.ImportItem
	for {
		id, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		alias := id.Value
		if p.at(token.AS) {
			p.advance()
			aliasTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			alias = aliasTok.Value
		}
		items = append(items, ast.ImportItem{Name: id.Value, Alias: alias})
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return &ast.ImportFromStmt{Span: ast.NewSpan(tok), Path: pathTok.Value, Items: items}, nil
}

// parseExprOrAssign parses an expression statement, or recognizes a
// trailing `=` as an assignment: the left-hand side must be an
// identifier or an index expression.
func (p *Parser) parseExprOrAssign() (ast.Statement, error) {
	startTok := p.cur()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.at(token.ASSIGN) {
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectNewline(); err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *ast.Identifier:
			return &ast.AssignStmt{Span: ast.NewSpan(startTok), Name: target.Name, Value: value}, nil
		case *ast.IndexExpr:
			return &ast.IndexAssignStmt{
				Span: ast.NewSpan(startTok), Target: target.Target, Index: target.Index, Value: value,
			}, nil
		default:
			return nil, &Error{Pos: startTok.Pos, Message: "invalid assignment target"}
		}
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Span: ast.NewSpan(startTok), X: expr}, nil
}
