package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/citrine/internal/cli"
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the OpenAPI description of a schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaPath, _ := cmd.Flags().GetString("schema")
		format, _ := cmd.Flags().GetString("format")
		return cli.OpenAPI(cli.OpenAPIOptions{
			SchemaPath: schemaPath,
			Format:     format,
			Formats:    formatFlags(cmd),
		}, cmd.OutOrStdout())
	},
}

func init() {
	openapiCmd.Flags().StringP("schema", "s", "", "Schema file (.yaml, .yml or .json)")
	openapiCmd.Flags().StringP("format", "f", "yaml", "Output format (yaml or json)")
	addFormatFlags(openapiCmd)
	_ = openapiCmd.MarkFlagRequired("schema")
	rootCmd.AddCommand(openapiCmd)
}
