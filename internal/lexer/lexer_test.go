package lexer

import (
	"testing"

	"github.com/yasniy-lang/yasniy/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestTokenizeSimpleFunction(t *testing.T) {
	src := "function main() -> void:\n    print(1+2)\n"
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	want := []token.Kind{
		token.FUNCTION, token.IDENT, token.LPAREN, token.RPAREN, token.ARROW, token.IDENT, token.COLON,
		token.NEWLINE, token.INDENT,
		token.IDENT, token.LPAREN, token.INT, token.PLUS, token.INT, token.RPAREN,
		token.NEWLINE, token.DEDENT, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot: %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %s, want %s\nfull stream: %v", i, got[i], want[i], got)
		}
	}
}

func TestTokenizeAlwaysEndsWithEOF(t *testing.T) {
	toks, err := Tokenize("let x = 1\n")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("token stream does not end in EOF: %v", toks)
	}
}

func TestTokenizeEmptySourceIsJustEOF(t *testing.T) {
	toks, err := Tokenize("")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("empty source should tokenize to a single EOF, got %v", toks)
	}
}

func TestTokenizeStringLiteralValue(t *testing.T) {
	toks, err := Tokenize(`"hi"` + "\n")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) < 1 || toks[0].Kind != token.STRING {
		t.Fatalf("expected first token to be a STRING, got %v", toks)
	}
	if toks[0].Value != "hi" {
		t.Fatalf("string literal value = %q, want %q", toks[0].Value, "hi")
	}
}

func TestTokenizeCRLFNormalized(t *testing.T) {
	a, err := Tokenize("let x = 1\r\nlet y = 2\r\n")
	if err != nil {
		t.Fatalf("Tokenize CRLF: %v", err)
	}
	b, err := Tokenize("let x = 1\nlet y = 2\n")
	if err != nil {
		t.Fatalf("Tokenize LF: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("CRLF and LF sources tokenize to different lengths: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Value != b[i].Value {
			t.Fatalf("token %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
