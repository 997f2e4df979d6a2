package resolver

import "github.com/yasniy-lang/yasniy/internal/token"

// Error reports a failure during module resolution: a missing file, an
// import cycle, or an unresolved name. Carries a Position so callers can
// render it the same way lex/parse errors are rendered.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string { return e.Message }
