package checker

import "github.com/yasniy-lang/yasniy/internal/token"

// Error reports a type-checking failure at a source position.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string { return e.Message }
