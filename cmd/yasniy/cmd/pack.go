package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yasniy-lang/yasniy/internal/bundle"
	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/schema"
	"github.com/yasniy-lang/yasniy/pkg/yasniy"
)

var (
	packOutput      string
	packDisplayName string
	packDescription string
	packAppVersion  string
	packPublisher   string
	packUIAssets    string
	packLegacy      bool
)

var packCmd = &cobra.Command{
	Use:   "pack <file>",
	Short: "Compile a yasniy program and pack it into a .yapp application bundle",
	Long: `Compile a yasniy program and wrap its bytecode, a function-schema
projection for external UIs, and an optional UI-asset archive into a
single .yapp container.

Examples:
  yasniy pack app.yc
  yasniy pack app.yc --display-name "My App" -o app.yapp
  yasniy pack app.yc --ui-assets ui.zip`,
	Args: cobra.ExactArgs(1),
	RunE: packApp,
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "output file (default: <input>.yapp)")
	packCmd.Flags().StringVar(&packDisplayName, "display-name", "", "human-readable application name")
	packCmd.Flags().StringVar(&packDescription, "description", "", "application description")
	packCmd.Flags().StringVar(&packAppVersion, "app-version", "", "application version (distinct from bundle format version)")
	packCmd.Flags().StringVar(&packPublisher, "publisher", "", "application publisher")
	packCmd.Flags().StringVar(&packUIAssets, "ui-assets", "", "path to a UI-asset archive (e.g. a ZIP) to embed")
	packCmd.Flags().BoolVar(&packLegacy, "legacy", false, "write a version-1 bundle (no UI-asset block)")
}

func packApp(_ *cobra.Command, args []string) error {
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

	var uiAssets []byte
	if packUIAssets != "" {
		uiAssets, err = os.ReadFile(packUIAssets)
		if err != nil {
			return fmt.Errorf("reading UI assets %s: %w", packUIAssets, err)
		}
	}

	version := bundle.VersionCurrent
	if packLegacy {
		version = bundle.VersionLegacy
		if len(uiAssets) > 0 {
			return fmt.Errorf("--legacy bundles cannot carry --ui-assets")
		}
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	b := &bundle.AppBundle{
		Metadata: bundle.Metadata{
			Name:        name,
			Version:     version,
			DisplayName: packDisplayName,
			Description: packDescription,
			AppVersion:  packAppVersion,
			Publisher:   packPublisher,
			Schema:      schema.Extract(program.AST()),
		},
		Program:  program.Bytecode(),
		UIAssets: uiAssets,
	}

	data, err := bundle.Pack(b)
	if err != nil {
		return err
	}

	out := packOutput
	if out == "" {
		ext := filepath.Ext(filename)
		out = strings.TrimSuffix(filename, ext) + ".yapp"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("packed %s -> %s\n", filename, out)
	return nil
}

var unpackCmd = &cobra.Command{
	Use:   "unpack <file.yapp>",
	Short: "Run a .yapp application bundle's bytecode",
	Long:  `Decode a .yapp bundle and run its embedded program, ignoring its UI assets.`,
	Args:  cobra.ExactArgs(1),
	RunE:  unpackApp,
}

func init() {
	rootCmd.AddCommand(unpackCmd)
}

func unpackApp(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	b, err := bundle.Unpack(data)
	if err != nil {
		exitWithError(errors.Render(err))
	}

	program := yasniy.FromBytecode(b.Program)
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
