// Package cmd implements the yasniy CLI's subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yasniy-lang/yasniy/internal/diag"
)

var (
	// Version is set by build-time -ldflags; "dev" otherwise.
	Version = "dev"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "yasniy",
	Short: "yasniy scripting language toolchain",
	Long: `yasniy is a small, statically-typed scripting language with
cooperative async tasks, lists, and dictionaries, plus a bytecode
compiler and virtual machine.

This CLI lexes, parses, type-checks, compiles, and runs yasniy
programs, and packs/unpacks their .ybc bytecode and .yapp application
bundle containers.`,
	Version:           Version,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug-level structured logging to stderr")
}

func setupLogging(_ *cobra.Command, _ []string) error {
	diag.SetGlobal(diag.New(verbose))
	return nil
}

func exitWithError(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
