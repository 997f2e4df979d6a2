package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/pkg/yasniy"
)

var (
	evalSource string
	dumpAST    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a yasniy program",
	Long: `Execute a yasniy program from a file or inline source.

Examples:
  yasniy run script.yc
  yasniy run -e 'print("hello")'
  yasniy run --dump-ast script.yc`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalSource, "eval", "e", "", "run inline source instead of reading a file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST before running")
}

func runScript(_ *cobra.Command, args []string) error {
	engine, err := yasniy.New()
	if err != nil {
		return err
	}

	var program *yasniy.Program
	if evalSource != "" {
		if dumpAST {
			if err := printAST(engine, evalSource); err != nil {
				return err
			}
		}
		program, err = engine.Compile(evalSource)
	} else if len(args) == 1 {
		if dumpAST {
			content, readErr := os.ReadFile(args[0])
			if readErr != nil {
				return readErr
			}
			if err := printAST(engine, string(content)); err != nil {
				return err
			}
		}
		program, err = engine.CompileFile(args[0])
	} else {
		return fmt.Errorf("provide a file path or use -e for inline source")
	}
	if err != nil {
		exitWithError(errors.Render(err))
	}
	defer program.Close()

	if _, err := engine.Run(program); err != nil {
		exitWithError(errors.Render(err))
	}
	return nil
}

func printAST(engine *yasniy.Engine, source string) error {
	prog, err := engine.Parse(source)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, prog.String())
	return nil
}
