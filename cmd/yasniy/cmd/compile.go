package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yasniy-lang/yasniy/internal/bytecode"
	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/pkg/yasniy"
)

var (
	compileOutput      string
	compileDisassemble bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile a yasniy program to a .ybc bytecode file",
	Long: `Compile a yasniy program (resolving its imports, type-checking it,
then running the bytecode compiler and peephole optimizer) and write the
result as a .ybc container.

Examples:
  yasniy compile script.yc
  yasniy compile script.yc -o out.ybc
  yasniy compile script.yc --disassemble`,
	Args: cobra.ExactArgs(1),
	RunE: compileScript,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output file (default: <input>.ybc)")
	compileCmd.Flags().BoolVar(&compileDisassemble, "disassemble", false, "print disassembled bytecode to stderr")
}

func compileScript(_ *cobra.Command, args []string) error {
	filename := args[0]

	engine, err := yasniy.New()
	if err != nil {
		return err
	}
	program, err := engine.CompileFile(filename)
	if err != nil {
		exitWithError(errors.Render(err))
	}
	defer program.Close()

	if compileDisassemble {
		bytecode.NewDisassembler(os.Stderr).Disassemble(program.Bytecode())
	}

	data, err := bytecode.Encode(program.Bytecode())
	if err != nil {
		return err
	}

	out := compileOutput
	if out == "" {
		ext := filepath.Ext(filename)
		out = strings.TrimSuffix(filename, ext) + ".ybc"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("compiled %s -> %s\n", filename, out)
	return nil
}
