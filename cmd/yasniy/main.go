// Command yasniy is the CLI front end for the yasniy scripting
// language toolchain: run, compile, pack, exec, schema, and dump.
package main

import (
	"fmt"
	"os"

	"github.com/yasniy-lang/yasniy/cmd/yasniy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
