package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/pkg/yasniy"
)

var execCmd = &cobra.Command{
	Use:   "exec <file.ybc>",
	Short: "Run a previously compiled .ybc bytecode file",
	Long: `Decode a .ybc container and run it directly, skipping the lexer,
parser, module resolver, and type checker entirely.`,
	Args: cobra.ExactArgs(1),
	RunE: execBytecode,
}

func init() {
	rootCmd.AddCommand(execCmd)
}

func execBytecode(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	program, err := yasniy.CompileBytecode(data)
	if err != nil {
		exitWithError(errors.Render(err))
	}
	defer program.Close()

	engine, err := yasniy.New()
	if err != nil {
		return err
	}
	if _, err := engine.Run(program); err != nil {
		exitWithError(errors.Render(err))
	}
	return nil
}
