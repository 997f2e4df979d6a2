package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yasniy-lang/yasniy/internal/bytecode"
	"github.com/yasniy-lang/yasniy/internal/errors"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file.ybc>",
	Short: "Disassemble a .ybc bytecode file",
	Long:  `Decode a .ybc container and print its disassembled instructions to stdout.`,
	Args:  cobra.ExactArgs(1),
	RunE:  dumpBytecode,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func dumpBytecode(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	prog, err := bytecode.Decode(data)
	if err != nil {
		exitWithError(errors.Render(err))
	}
	bytecode.NewDisassembler(os.Stdout).Disassemble(prog)
	return nil
}
