// Package vmlib implements the runtime behavior of the fixed builtin
// catalogue, mirroring the signatures internal/checker validates
// statically.
package vmlib

import (
	"bufio"
	"io"
)

// Host is the slice of VM state a builtin needs without importing
// internal/vm (which in turn imports vmlib, so the dependency must run
// only this direction).
type Host interface {
	Stdout() io.Writer
	Stdin() *bufio.Reader
}
