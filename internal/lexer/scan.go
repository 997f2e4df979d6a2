package lexer

import (
	"strings"
	"unicode"

	"github.com/yasniy-lang/yasniy/internal/token"
)

// lexNumber scans an integer or float literal. A dot not followed by a
// digit is not consumed as part of the number, so `1.` is the integer
// `1` followed by a separate `.` token (e.g. in `1.method` contexts,
// though yasniy has no methods on numbers today).
func (l *Lexer) lexNumber() {
	start := l.pos
	startPos := l.curPos()
	for l.pos < len(l.src) && unicode.IsDigit(l.src[l.pos]) {
		l.advance()
	}
	isFloat := false
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && unicode.IsDigit(l.src[l.pos+1]) {
		isFloat = true
		l.advance() // consume '.'
		for l.pos < len(l.src) && unicode.IsDigit(l.src[l.pos]) {
			l.advance()
		}
	}
	lit := string(l.src[start:l.pos])
	if isFloat {
		l.emitAt(token.FLOAT, lit, startPos)
	} else {
		l.emitAt(token.INT, lit, startPos)
	}
}

var escapeMap = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'"':  '"',
	'\\': '\\',
}

// lexString scans a double-quoted string literal with escapes
// \n \t \r \" \\; any other escape is rejected.
func (l *Lexer) lexString() error {
	startPos := l.curPos()
	l.advance() // consume opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return &Error{Pos: startPos, Message: "unterminated string literal"}
		}
		ch := l.src[l.pos]
		if ch == '"' {
			l.advance()
			break
		}
		if ch == '\n' {
			return &Error{Pos: startPos, Message: "unterminated string literal"}
		}
		if ch == '\\' {
			escPos := l.curPos()
			l.advance()
			if l.pos >= len(l.src) {
				return &Error{Pos: escPos, Message: "unterminated string literal"}
			}
			esc := l.src[l.pos]
			decoded, ok := escapeMap[esc]
			if !ok {
				return &Error{Pos: escPos, Message: "unknown escape sequence '\\" + string(esc) + "'"}
			}
			sb.WriteRune(decoded)
			l.advance()
			continue
		}
		sb.WriteRune(ch)
		l.advance()
	}
	l.emitAt(token.STRING, sb.String(), startPos)
	return nil
}

// twoCharOps must be checked before single-char punctuation.
var twoCharOps = map[string]token.Kind{
	"->": token.ARROW,
	"==": token.EQ,
	"!=": token.NEQ,
	"<=": token.LE,
	">=": token.GE,
}

var oneCharOps = map[rune]token.Kind{
	'(': token.LPAREN, ')': token.RPAREN,
	':': token.COLON, ',': token.COMMA,
	'[': token.LBRACKET, ']': token.RBRACKET,
	'{': token.LBRACE, '}': token.RBRACE,
	'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '/': token.SLASH, '%': token.PERCENT,
	'=': token.ASSIGN, '<': token.LT, '>': token.GT, '.': token.DOT,
	'|': token.PIPE, '?': token.QUESTION,
}

func (l *Lexer) lexOperator() error {
	pos := l.curPos()
	ch := l.src[l.pos]
	if l.pos+1 < len(l.src) {
		two := string(l.src[l.pos : l.pos+2])
		if k, ok := twoCharOps[two]; ok {
			l.advance()
			l.advance()
			l.emitAt(k, two, pos)
			return nil
		}
	}
	if ch == '!' {
		return &Error{Pos: pos, Message: "unknown character '!'"}
	}
	if k, ok := oneCharOps[ch]; ok {
		l.advance()
		l.emitAt(k, string(ch), pos)
		return nil
	}
	return &Error{Pos: pos, Message: "unknown character '" + string(ch) + "'"}
}
