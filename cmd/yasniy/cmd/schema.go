package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/schema"
	"github.com/yasniy-lang/yasniy/pkg/yasniy"
)

var schemaFormat string

var schemaCmd = &cobra.Command{
	Use:   "schema <file>",
	Short: "Print a program's public function-signature projection",
	Long: `Resolve, type-check, and project a yasniy program's top-level
function signatures (the same projection .yapp bundles embed for
external UIs). The program is compiled to bytecode but not run.

Examples:
  yasniy schema app.yc
  yasniy schema app.yc --format json`,
	Args: cobra.ExactArgs(1),
	RunE: dumpSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringVar(&schemaFormat, "format", "yaml", "output format: yaml or json")
}

func dumpSchema(_ *cobra.Command, args []string) error {
	engine, err := yasniy.New()
	if err != nil {
		return err
	}
	program, err := engine.CompileFile(args[0])
	if err != nil {
		exitWithError(errors.Render(err))
	}
	defer program.Close()

	functions := schema.Extract(program.AST())

	var out []byte
	switch schemaFormat {
	case "json":
		out, err = schema.DumpJSON(functions)
	case "yaml", "":
		out, err = schema.DumpYAML(functions)
	default:
		return fmt.Errorf("unknown --format %q (want yaml or json)", schemaFormat)
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}
