package parser

import "github.com/yasniy-lang/yasniy/internal/token"

// Error is a syntax error tied to the offending token's position. The
// message text is drawn from a fixed, stable set so tooling can match
// on it verbatim.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string { return e.Message }
