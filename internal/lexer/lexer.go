// Package lexer turns yasniy UTF-8 source text into a token stream with
// significant-indentation INDENT/DEDENT markers.
package lexer

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/yasniy-lang/yasniy/internal/diag"
	"github.com/yasniy-lang/yasniy/internal/token"
)

// Lexer scans a single source file into a flat token slice. It is a
// single-pass, non-reentrant scanner: construct one per source file.
type Lexer struct {
	src  []rune
	pos  int // index into src of the next unread rune
	line int
	col  int

	bracketDepth int
	openBrackets []bracketMark
	indentStack  []int
	atLineStart  bool

	tokens      []token.Token
	lastEmitted token.Kind
	hasEmitted  bool
}

type bracketMark struct {
	ch  rune
	pos token.Position
}

var closerFor = map[rune]rune{'(': ')', '[': ']', '{': '}'}

// New creates a Lexer over source text. It normalizes CRLF/CR to LF and
// strips a single leading UTF-8 byte-order-mark.
func New(src string) *Lexer {
	src = strings.TrimPrefix(src, "﻿")
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	return &Lexer{
		src:         []rune(src),
		line:        1,
		col:         1,
		indentStack: []int{0},
		atLineStart: true,
	}
}

// Tokenize scans src to completion and returns its token stream, or the
// first LexError encountered.
func Tokenize(src string) ([]token.Token, error) {
	log := diag.L().Stage("lex")
	toks, err := New(src).Tokenize()
	if err != nil {
		log.Debug("lex failed", zap.Error(err))
		return nil, err
	}
	log.Debug("source tokenized", zap.Int("tokens", len(toks)), zap.Int("runes", len([]rune(src))))
	return toks, nil
}

// Tokenize runs the lexer to completion.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	for {
		if l.bracketDepth == 0 && l.atLineStart {
			if err := l.handleLineStart(); err != nil {
				return nil, err
			}
			if l.atLineStart {
				// Blank/comment-only line consumed; loop to re-check.
				continue
			}
		}

		if l.pos >= len(l.src) {
			if err := l.finish(); err != nil {
				return nil, err
			}
			return l.tokens, nil
		}

		ch := l.src[l.pos]

		switch {
		case ch == '\t':
			return nil, l.errAt("tabs forbidden, use spaces")
		case ch == '#':
			l.skipLineComment()
		case ch == '\n':
			l.advance()
			if l.bracketDepth == 0 {
				l.emit(token.NEWLINE, "\n")
				l.atLineStart = true
			}
		case ch == ' ':
			l.advance()
		case ch == '"':
			if err := l.lexString(); err != nil {
				return nil, err
			}
		case unicode.IsDigit(ch):
			l.lexNumber()
		case isIdentStart(ch):
			l.lexIdent()
		case ch == '(' || ch == '[' || ch == '{':
			l.lexOpenBracket(ch)
		case ch == ')' || ch == ']' || ch == '}':
			if err := l.lexCloseBracket(ch); err != nil {
				return nil, err
			}
		default:
			if err := l.lexOperator(); err != nil {
				return nil, err
			}
		}
	}
}

// handleLineStart measures the indentation of a new logical line and
// emits INDENT/DEDENT tokens as needed. Blank lines and comment-only
// lines are consumed here, in its own loop, without affecting the
// indent stack; on a nil return l.atLineStart is always false.
func (l *Lexer) handleLineStart() error {
	for {
		width := 0
		for l.pos < len(l.src) && l.src[l.pos] == ' ' {
			width++
			l.advance()
		}
		if l.pos < len(l.src) && l.src[l.pos] == '\t' {
			return l.errAt("tabs forbidden, use spaces")
		}

		if l.pos >= len(l.src) {
			l.atLineStart = false
			return nil
		}

		switch l.src[l.pos] {
		case '\n':
			// Blank line: consume it directly, no NEWLINE token, no
			// effect on the indent stack.
			l.advance()
			continue
		case '#':
			l.skipLineComment()
			if l.pos < len(l.src) && l.src[l.pos] == '\n' {
				l.advance()
				continue
			}
			l.atLineStart = false
			return nil
		}

		l.atLineStart = false
		top := l.indentStack[len(l.indentStack)-1]
		switch {
		case width > top:
			l.indentStack = append(l.indentStack, width)
			l.emit(token.INDENT, "")
		case width < top:
			for len(l.indentStack) > 0 && l.indentStack[len(l.indentStack)-1] > width {
				l.indentStack = l.indentStack[:len(l.indentStack)-1]
				l.emit(token.DEDENT, "")
			}
			if l.indentStack[len(l.indentStack)-1] != width {
				return l.errAt("unindent does not match any outer indentation level")
			}
		}
		return nil
	}
}

// finish emits the trailing NEWLINE (if needed), closing DEDENTs, and EOF.
func (l *Lexer) finish() error {
	if len(l.openBrackets) > 0 {
		b := l.openBrackets[len(l.openBrackets)-1]
		return &Error{Pos: b.pos, Message: "unclosed bracket '" + string(b.ch) + "'"}
	}
	if l.hasEmitted && l.lastEmitted != token.NEWLINE {
		l.emit(token.NEWLINE, "\n")
	}
	for len(l.indentStack) > 1 {
		l.indentStack = l.indentStack[:len(l.indentStack)-1]
		l.emit(token.DEDENT, "")
	}
	l.emit(token.EOF, "")
	return nil
}

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance()
	}
}

// advance consumes one rune, updating line/col bookkeeping: a newline
// moves to the next line and resets the column to 1.
func (l *Lexer) advance() rune {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) curPos() token.Position { return token.Position{Line: l.line, Col: l.col} }

func (l *Lexer) errAt(msg string) *Error { return newError(l.curPos(), msg) }

func (l *Lexer) emit(k token.Kind, v string) {
	l.tokens = append(l.tokens, token.Token{Kind: k, Value: v, Pos: l.curPos()})
	l.lastEmitted = k
	l.hasEmitted = true
}

func (l *Lexer) emitAt(k token.Kind, v string, p token.Position) {
	l.tokens = append(l.tokens, token.Token{Kind: k, Value: v, Pos: p})
	l.lastEmitted = k
	l.hasEmitted = true
}

func isIdentStart(ch rune) bool { return ch == '_' || unicode.IsLetter(ch) }
func isIdentCont(ch rune) bool  { return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch) }

func (l *Lexer) lexIdent() {
	start := l.pos
	startPos := l.curPos()
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.advance()
	}
	name := string(l.src[start:l.pos])
	l.emitAt(token.LookupIdent(name), name, startPos)
}

func (l *Lexer) lexOpenBracket(ch rune) {
	pos := l.curPos()
	l.advance()
	l.bracketDepth++
	l.openBrackets = append(l.openBrackets, bracketMark{ch: ch, pos: pos})
	var k token.Kind
	switch ch {
	case '(':
		k = token.LPAREN
	case '[':
		k = token.LBRACKET
	case '{':
		k = token.LBRACE
	}
	l.emitAt(k, string(ch), pos)
}

func (l *Lexer) lexCloseBracket(ch rune) error {
	pos := l.curPos()
	if len(l.openBrackets) == 0 {
		return &Error{Pos: pos, Message: "unmatched closing bracket '" + string(ch) + "'"}
	}
	top := l.openBrackets[len(l.openBrackets)-1]
	if closerFor[top.ch] != ch {
		return &Error{Pos: pos, Message: "mismatched bracket: expected '" + string(closerFor[top.ch]) + "' to close '" + string(top.ch) + "'"}
	}
	l.openBrackets = l.openBrackets[:len(l.openBrackets)-1]
	l.bracketDepth--
	l.advance()
	var k token.Kind
	switch ch {
	case ')':
		k = token.RPAREN
	case ']':
		k = token.RBRACKET
	case '}':
		k = token.RBRACE
	}
	l.emitAt(k, string(ch), pos)
	return nil
}
