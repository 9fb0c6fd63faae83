package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	cli "github.com/blimu-dev/ts-clientgen/internal/cli"
)

func main() {
	root := &cobra.Command{
		Use:   "ts-clientgen",
		Short: "Generate TypeScript clients and types from OpenAPI documents",
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var params cli.RunGenerateParams
	fb := &params.Fallback

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate client files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerate(cmd.Context(), params)
		},
	}

	cmd.Flags().StringVarP(&params.ConfigPath, "config", "c", "", "Path to clientgen.yaml config")
	cmd.Flags().StringVar(&params.SingleClient, "client", "", "Generate only the named client from config")
	cmd.Flags().BoolVarP(&params.Verbose, "verbose", "v", false, "Log debug output")
	// Fallback single-client flags
	cmd.Flags().StringVar(&fb.Spec, "input", "", "OpenAPI document file or URL (yaml/json)")
	cmd.Flags().StringVar(&fb.Type, "type", "typescript", "Client type (typescript, typescript-types)")
	cmd.Flags().StringVar(&fb.OutDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&fb.Name, "name", "", "Client name, used for the default file name")
	cmd.Flags().StringVar(&fb.FileName, "file-name", "", "Output file name")
	cmd.Flags().StringVar(&fb.ModuleName, "module-name", "", "Namespace wrapping the generated code")
	cmd.Flags().StringVar(&fb.TypeStyle, "type-style", "", "Declaration style: interface or class")
	cmd.Flags().StringVar(&fb.DateHandling, "date-handling", "", "Date representation: date, moment or string")
	cmd.Flags().StringArrayVar(&fb.IncludeTags, "include-tags", nil, "Regex patterns for tags to include")
	cmd.Flags().StringArrayVar(&fb.ExcludeTags, "exclude-tags", nil, "Regex patterns for tags to exclude")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(cmd.Context(), input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI document file or URL (yaml/json)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
